package errcode

import "fmt"

type CheckpointErr int

const (
	ErrorCheckpointNegativeHeight CheckpointErr = CheckpointErrorBase + iota
	ErrorCheckpointHeightNotIncreasing
	ErrorCheckpointHashMalformed
	ErrorCheckpointDuplicateHash
	ErrorCheckpointConflict
	ErrorCheckpointFormat
)

var CheckpointErrString = map[CheckpointErr]string{
	ErrorCheckpointNegativeHeight:      "checkpoint height is negative",
	ErrorCheckpointHeightNotIncreasing: "checkpoint heights are not strictly increasing",
	ErrorCheckpointHashMalformed:       "checkpoint hash is malformed",
	ErrorCheckpointDuplicateHash:       "checkpoint hash appears at more than one height",
	ErrorCheckpointConflict:            "checkpoint conflicts with an existing checkpoint at the same height",
	ErrorCheckpointFormat:              "checkpoint must be given as <height>:<hash>",
}

func (ce CheckpointErr) String() string {
	if s, ok := CheckpointErrString[ce]; ok {
		return s
	}
	return fmt.Sprintf("Unknown code (%d)", ce)
}
