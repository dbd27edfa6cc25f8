package errcode

import "fmt"

type ChainErr int

const (
	ErrorBlockAlreadyExists ChainErr = ChainErrorBase + iota
	ErrorBlockIndexNoParent
	ErrorBlockIndexBadTxCount
	ErrorCheckpointMismatch
	ErrorForkBelowCheckpoint
	ErrorBadGenesisBlock
	ErrorNotExistsInChainMap
)

var ChainErrString = map[ChainErr]string{
	ErrorBlockAlreadyExists:   "block already exists",
	ErrorBlockIndexNoParent:   "Can not find this block index's parent",
	ErrorBlockIndexBadTxCount: "block index has no transactions",
	ErrorCheckpointMismatch:   "block hash does not match the checkpoint at its height",
	ErrorForkBelowCheckpoint:  "block forks the chain below the last checkpoint",
	ErrorBadGenesisBlock:      "genesis block does not belong to this network",
}

func (chainerr ChainErr) String() string {
	if s, ok := ChainErrString[chainerr]; ok {
		return s
	}
	return fmt.Sprintf("Unknown code (%d)", chainerr)
}
