package errcode

import "fmt"

type ConfErr int

const (
	ErrorConfNetworkConflict ConfErr = ConfErrorBase + iota
	ErrorConfUnknownNetwork
	ErrorConfReadFile
)

var ConfErrString = map[ConfErr]string{
	ErrorConfNetworkConflict: "regtest and testnet can not be used together",
	ErrorConfUnknownNetwork:  "unknown network",
	ErrorConfReadFile:        "failed to read config file",
}

func (ce ConfErr) String() string {
	if s, ok := ConfErrString[ce]; ok {
		return s
	}
	return fmt.Sprintf("Unknown code (%d)", ce)
}
