package lblockindex

import (
	"github.com/healcoin/healcoin/errcode"
	"github.com/healcoin/healcoin/log"
	"github.com/healcoin/healcoin/logic/lcheckpoint"
	"github.com/healcoin/healcoin/model/block"
	"github.com/healcoin/healcoin/model/blockindex"
	"github.com/healcoin/healcoin/model/chain"
	"github.com/healcoin/healcoin/persist/blkdb"
	"github.com/pkg/errors"
)

// AcceptBlockHeader adds a header carrying txCount transactions to c and
// stores it in btd. The tip moves to the new index when it is the highest
// fully linked block. The caller holds global.CsMain for writing.
func AcceptBlockHeader(hdr *block.BlockHeader, txCount int32, c *chain.Chain,
	cp *lcheckpoint.Checkpoints, btd *blkdb.BlockTreeDB) (*blockindex.BlockIndex, error) {
	hash := hdr.GetHash()
	if c.FindBlockIndex(hash) != nil {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorBlockAlreadyExists), "hash %s", hash)
	}
	if txCount <= 0 {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorBlockIndexBadTxCount), "block %s", hash)
	}

	var preIndex *blockindex.BlockIndex
	height := int32(0)
	if hdr.HashPrevBlock.IsNull() {
		if genesis := c.Genesis(); genesis != nil {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorBadGenesisBlock),
				"block %s, chain already starts at %s", hash, genesis.GetBlockHash())
		}
		if want := c.GetParams().GenesisHash; want != nil && !want.IsEqual(&hash) {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorBadGenesisBlock),
				"block %s, want %s", hash, want)
		}
	} else {
		preIndex = c.FindBlockIndex(hdr.HashPrevBlock)
		if preIndex == nil {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorBlockIndexNoParent), "block %s", hash)
		}
		if preIndex.Failed() {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointMismatch),
				"block %s descends from refused block %s", hash, preIndex.GetBlockHash())
		}
		height = preIndex.Height + 1
	}

	if !cp.VerifyBlock(height, &hash) {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointMismatch),
			"block %s at height %d", hash, height)
	}
	if !CheckIndexAgainstCheckpoint(cp, c, preIndex) {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorForkBelowCheckpoint),
			"block %s at height %d", hash, height)
	}

	index := blockindex.NewBlockIndex(hdr)
	index.TxCount = txCount
	if err := c.AddToIndexMap(index); err != nil {
		return nil, err
	}
	if err := btd.WriteBlockIndexes([]*blockindex.BlockIndex{index}, false); err != nil {
		return nil, err
	}

	if index.ChainTxCount > 0 && index.Height > c.Height() {
		c.SetTip(index)
		if err := btd.WriteBestBlock(index.GetBlockHash()); err != nil {
			return nil, err
		}
		if next := cp.FindNextCheckpoint(index.Height); next != nil {
			log.Debug("AcceptBlockHeader: tip %s height %d, next checkpoint at %d",
				hash, index.Height, next.Height)
		}
	}
	return index, nil
}
