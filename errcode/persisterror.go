package errcode

import "fmt"

type PersistErr int

const (
	ErrorOpenBlockIndexDB PersistErr = PersistErrorBase + iota
	ErrorWriteBlockIndexDB
	ErrorReadBlockIndexDB
	ErrorCorruptBlockIndex
)

var PersistErrString = map[PersistErr]string{
	ErrorOpenBlockIndexDB:  "failed to open block index database",
	ErrorWriteBlockIndexDB: "failed to write to block index database",
	ErrorReadBlockIndexDB:  "failed to read from block index database",
	ErrorCorruptBlockIndex: "corrupt block index record",
}

func (pe PersistErr) String() string {
	if s, ok := PersistErrString[pe]; ok {
		return s
	}
	return fmt.Sprintf("Unknown code (%d)", pe)
}
