package chain

import (
	"github.com/healcoin/healcoin/errcode"
	"github.com/healcoin/healcoin/log"
	"github.com/healcoin/healcoin/model/blockindex"
	"github.com/healcoin/healcoin/model/chainparams"
	"github.com/healcoin/healcoin/util"
	"github.com/pkg/errors"
)

// Chain is the in-memory block index plus the active chain built on it.
// It does no locking; callers hold persist/global.CsMain.
type Chain struct {
	active   []*blockindex.BlockIndex
	indexMap blockindex.IndexMap // selfHash : *index
	params   *chainparams.BitcoinParams
}

func NewChain(params *chainparams.BitcoinParams) *Chain {
	return &Chain{
		indexMap: make(blockindex.IndexMap),
		params:   params,
	}
}

func (c *Chain) GetParams() *chainparams.BitcoinParams {
	return c.params
}

// InitLoad replaces the index map, e.g. after loading it from disk.
func (c *Chain) InitLoad(indexMap blockindex.IndexMap) {
	if indexMap == nil {
		indexMap = make(blockindex.IndexMap)
	}
	c.indexMap = indexMap
	c.active = nil
}

// Genesis Returns the index entry for the genesis block of this chain,
// or nil if none.
func (c *Chain) Genesis() *blockindex.BlockIndex {
	if len(c.active) > 0 {
		return c.active[0]
	}
	return nil
}

// FindBlockIndex finds blockindex from the index map. A nil chain knows no
// blocks.
func (c *Chain) FindBlockIndex(hash util.Hash) *blockindex.BlockIndex {
	if c == nil {
		return nil
	}
	return c.indexMap.FindBlockIndex(hash)
}

// FindHashInActive finds blockindex from active
func (c *Chain) FindHashInActive(hash util.Hash) *blockindex.BlockIndex {
	bi := c.indexMap.FindBlockIndex(hash)
	if c.Contains(bi) {
		return bi
	}
	return nil
}

func (c *Chain) IndexMapSize() int {
	return len(c.indexMap)
}

// Tip Returns the index entry for the tip of this chain, or nil if none.
func (c *Chain) Tip() *blockindex.BlockIndex {
	if len(c.active) > 0 {
		return c.active[len(c.active)-1]
	}
	return nil
}

// Height returns the height of the tip, -1 for an empty chain.
func (c *Chain) Height() int32 {
	return int32(len(c.active)) - 1
}

// GetIndex Returns the index entry at a particular height in this chain, or
// nil if no such height exists.
func (c *Chain) GetIndex(height int32) *blockindex.BlockIndex {
	if height < 0 || height >= int32(len(c.active)) {
		return nil
	}
	return c.active[height]
}

// Contains Efficiently check whether a block is present in this chain
func (c *Chain) Contains(index *blockindex.BlockIndex) bool {
	if index == nil {
		return false
	}
	return c.GetIndex(index.Height) == index
}

// SetTip Set/initialize a chain with a given tip.
func (c *Chain) SetTip(index *blockindex.BlockIndex) {
	if index == nil {
		c.active = []*blockindex.BlockIndex{}
		return
	}

	tmp := make([]*blockindex.BlockIndex, index.Height+1)
	copy(tmp, c.active)
	c.active = tmp
	for index != nil && c.active[index.Height] != index {
		c.active[index.Height] = index
		index = index.Prev
	}
}

// AddToIndexMap inserts bi, linking it to its parent when the parent is
// already known. ChainTxCount is only set when the whole ancestry is.
func (c *Chain) AddToIndexMap(bi *blockindex.BlockIndex) error {
	if bi == nil {
		return errors.New("nil blockIndex")
	}
	hash := *bi.GetBlockHash()
	if _, ok := c.indexMap[hash]; ok {
		return errors.Wrapf(errcode.New(errcode.ErrorBlockAlreadyExists), "hash %s", hash)
	}

	bi.TimeMax = bi.Header.Time
	if pre, ok := c.indexMap[bi.Header.HashPrevBlock]; ok {
		bi.Prev = pre
		bi.Height = pre.Height + 1
		if pre.TimeMax > bi.TimeMax {
			bi.TimeMax = pre.TimeMax
		}
		if pre.ChainTxCount > 0 && bi.TxCount > 0 {
			bi.ChainTxCount = pre.ChainTxCount + int64(bi.TxCount)
		}
		bi.BuildSkip()
	} else if bi.IsGenesis() && bi.TxCount > 0 {
		bi.ChainTxCount = int64(bi.TxCount)
	}

	c.indexMap[hash] = bi
	log.Debug("AddToIndexMap:%s height:%d", hash, bi.Height)
	return nil
}
