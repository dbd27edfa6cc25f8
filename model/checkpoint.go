package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/healcoin/healcoin/errcode"
	"github.com/healcoin/healcoin/util"
	"github.com/pkg/errors"
)

// Checkpoint is a block hash the chain is known to contain at Height.
type Checkpoint struct {
	Height int32
	Hash   *util.Hash
}

func (c *Checkpoint) String() string {
	return fmt.Sprintf("%d:%s", c.Height, c.Hash)
}

// ParseCheckpoint parses the "<height>:<hash>" form used by --addcheckpoint.
func ParseCheckpoint(s string) (*Checkpoint, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointFormat), "checkpoint %q", s)
	}
	height, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointFormat), "checkpoint %q: %v", s, err)
	}
	if height < 0 {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointNegativeHeight), "checkpoint %q", s)
	}
	hash, err := util.GetHashFromStrStrict(parts[1])
	if err != nil {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointHashMalformed), "checkpoint %q: %v", s, err)
	}
	return &Checkpoint{Height: int32(height), Hash: hash}, nil
}

// ParseCheckpoints parses every entry of list, stopping at the first error.
func ParseCheckpoints(list []string) ([]*Checkpoint, error) {
	if len(list) == 0 {
		return nil, nil
	}
	checkpoints := make([]*Checkpoint, 0, len(list))
	for _, s := range list {
		cp, err := ParseCheckpoint(s)
		if err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, cp)
	}
	return checkpoints, nil
}
