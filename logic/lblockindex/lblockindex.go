package lblockindex

import (
	"sort"
	"time"

	"github.com/healcoin/healcoin/errcode"
	"github.com/healcoin/healcoin/log"
	"github.com/healcoin/healcoin/logic/lcheckpoint"
	"github.com/healcoin/healcoin/model/blockindex"
	"github.com/healcoin/healcoin/model/chain"
	"github.com/healcoin/healcoin/persist/blkdb"
	"github.com/pkg/errors"
	"gopkg.in/fatih/set.v0"
)

// LoadBlockIndexDB loads the stored block index into c, links it and sets
// the tip. Blocks conflicting with a checkpoint of cp, and their
// descendants, are marked failed and never become the tip. The caller holds
// global.CsMain for writing.
func LoadBlockIndexDB(btd *blkdb.BlockTreeDB, c *chain.Chain, cp *lcheckpoint.Checkpoints) error {
	indexMap := make(blockindex.IndexMap)
	if err := btd.LoadBlockIndexGuts(indexMap); err != nil {
		return err
	}

	sortedByHeight := make([]*blockindex.BlockIndex, 0, len(indexMap))
	for _, index := range indexMap {
		if !index.Header.HashPrevBlock.IsNull() {
			pre := indexMap.FindBlockIndex(index.Header.HashPrevBlock)
			if pre == nil {
				return errors.Wrapf(errcode.New(errcode.ErrorBlockIndexNoParent),
					"block %s height %d", index.GetBlockHash(), index.Height)
			}
			if pre.Height+1 != index.Height {
				return errors.Wrapf(errcode.New(errcode.ErrorCorruptBlockIndex),
					"block %s at height %d follows height %d", index.GetBlockHash(), index.Height, pre.Height)
			}
			index.Prev = pre
		}
		sortedByHeight = append(sortedByHeight, index)
	}
	sort.SliceStable(sortedByHeight, func(i, j int) bool {
		return sortedByHeight[i].Height < sortedByHeight[j].Height
	})

	// indexes whose ancestry misses transactions
	unlinked := set.New(set.NonThreadSafe)
	failed := set.New(set.NonThreadSafe)
	var best *blockindex.BlockIndex
	for _, index := range sortedByHeight {
		if index.TxCount <= 0 {
			return errors.Wrapf(errcode.New(errcode.ErrorBlockIndexBadTxCount),
				"block %s", index.GetBlockHash())
		}
		index.Status = 0
		if index.Prev != nil && index.Prev.Failed() {
			index.AddStatus(blockindex.StatusFailedParent)
		}
		if !cp.VerifyBlock(index.Height, index.GetBlockHash()) {
			log.Warn("LoadBlockIndexDB: block %s at height %d conflicts with a checkpoint",
				index.GetBlockHash(), index.Height)
			index.AddStatus(blockindex.StatusFailed)
		}
		if index.Failed() {
			failed.Add(*index.GetBlockHash())
		}
		index.TimeMax = index.Header.Time
		index.ChainTxCount = 0
		switch {
		case index.Prev == nil:
			index.ChainTxCount = int64(index.TxCount)
		case index.Prev.ChainTxCount > 0:
			index.ChainTxCount = index.Prev.ChainTxCount + int64(index.TxCount)
		default:
			unlinked.Add(*index.GetBlockHash())
		}
		if index.Prev != nil && index.Prev.TimeMax > index.TimeMax {
			index.TimeMax = index.Prev.TimeMax
		}
		index.BuildSkip()
		if !index.Failed() && index.ChainTxCount > 0 && (best == nil || index.Height > best.Height) {
			best = index
		}
	}
	log.Debug("LoadBlockIndexDB, BlockIndexMap len:%d, unlinked len:%d, failed len:%d",
		len(indexMap), unlinked.Size(), failed.Size())

	c.InitLoad(indexMap)

	bestHash, err := btd.ReadBestBlock()
	if err != nil {
		return err
	}
	if bestHash != nil {
		if tip := indexMap.FindBlockIndex(*bestHash); tip != nil && tip.ChainTxCount > 0 && !tip.Failed() {
			best = tip
		} else {
			log.Warn("LoadBlockIndexDB: best block %s not usable, falling back to the highest linked block", bestHash)
		}
	}
	c.SetTip(best)
	switch {
	case best == nil && bestHash != nil:
		if err := btd.EraseBestBlock(); err != nil {
			return err
		}
	case best != nil && !best.GetBlockHash().IsEqual(bestHash):
		if err := btd.WriteBestBlock(best.GetBlockHash()); err != nil {
			return err
		}
	}
	if tip := c.Tip(); tip != nil {
		log.Info("LoadBlockIndexDB: hashBestChain=%s height=%d date=%s tx=%d",
			tip.GetBlockHash(), c.Height(),
			time.Unix(tip.GetBlockTime(), 0).UTC().Format("2006-01-02 15:04:05"), tip.ChainTxCount)
	}
	return nil
}

// CheckIndexAgainstCheckpoint reports whether a block whose parent is
// preIndex may be accepted: forks below the last checkpoint present in
// lookup are refused.
func CheckIndexAgainstCheckpoint(cp *lcheckpoint.Checkpoints, lookup lcheckpoint.BlockIndexLookup,
	preIndex *blockindex.BlockIndex) bool {
	if preIndex == nil || preIndex.IsGenesis() {
		return true
	}
	height := preIndex.Height + 1
	checkpoint := cp.LastCheckpointPresentIn(lookup)
	if checkpoint != nil && height < checkpoint.Height {
		return false
	}
	return true
}
