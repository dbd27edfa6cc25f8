package chainparams

import (
	"github.com/google/btree"
	"github.com/healcoin/healcoin/errcode"
	"github.com/healcoin/healcoin/model"
	"github.com/healcoin/healcoin/util"
	"github.com/pkg/errors"
	"gopkg.in/fatih/set.v0"
)

const checkpointTreeDegree = 8

// CheckpointLiteral is a checkpoint as written in the source tables.
type CheckpointLiteral struct {
	Height int32
	Hash   string
}

// ChainTxData describes the transaction history up to the last checkpoint
// and is used to extrapolate verification progress past it.
type ChainTxData struct {
	// Time is the unix timestamp of the last checkpoint block.
	Time int64
	// TxCount is the total number of transactions between genesis and the
	// last checkpoint.
	TxCount int64
	// TxRate is the estimated number of transactions per day after the last
	// checkpoint.
	TxRate float64
}

type checkpointItem model.Checkpoint

func (item *checkpointItem) Less(than btree.Item) bool {
	return item.Height < than.(*checkpointItem).Height
}

// CheckpointData is the checkpoint table of one network. It is never
// modified after construction and may be read from any goroutine.
type CheckpointData struct {
	tree   *btree.BTree
	txData ChainTxData
}

// NewCheckpointData builds a table from literals, which must be listed by
// strictly increasing height and spell out full 64 digit hashes.
func NewCheckpointData(literals []CheckpointLiteral, txData ChainTxData) (*CheckpointData, error) {
	checkpoints := make([]*model.Checkpoint, 0, len(literals))
	for _, l := range literals {
		hash, err := util.GetHashFromStrStrict(l.Hash)
		if err != nil {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointHashMalformed),
				"height %d: %v", l.Height, err)
		}
		checkpoints = append(checkpoints, &model.Checkpoint{Height: l.Height, Hash: hash})
	}
	return newCheckpointData(checkpoints, txData)
}

// MustNewCheckpointData is NewCheckpointData for the built-in tables. A bad
// table must stop the process before it starts syncing.
func MustNewCheckpointData(literals []CheckpointLiteral, txData ChainTxData) *CheckpointData {
	data, err := NewCheckpointData(literals, txData)
	if err != nil {
		panic(err)
	}
	return data
}

func newCheckpointData(checkpoints []*model.Checkpoint, txData ChainTxData) (*CheckpointData, error) {
	tree := btree.New(checkpointTreeDegree)
	hashes := set.New(set.NonThreadSafe)
	lastHeight := int32(-1)
	for _, cp := range checkpoints {
		if cp.Height < 0 {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointNegativeHeight),
				"height %d", cp.Height)
		}
		if cp.Height <= lastHeight {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointHeightNotIncreasing),
				"height %d follows %d", cp.Height, lastHeight)
		}
		if cp.Hash == nil {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointHashMalformed),
				"height %d: missing hash", cp.Height)
		}
		if hashes.Has(*cp.Hash) {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointDuplicateHash),
				"height %d: %s", cp.Height, cp.Hash)
		}
		hashes.Add(*cp.Hash)
		lastHeight = cp.Height

		hash := *cp.Hash
		tree.ReplaceOrInsert(&checkpointItem{Height: cp.Height, Hash: &hash})
	}
	return &CheckpointData{tree: tree, txData: txData}, nil
}

func (item *checkpointItem) clone() *model.Checkpoint {
	hash := *item.Hash
	return &model.Checkpoint{Height: item.Height, Hash: &hash}
}

// Lookup returns the hash checkpointed at height.
func (data *CheckpointData) Lookup(height int32) (*util.Hash, bool) {
	item := data.tree.Get(&checkpointItem{Height: height})
	if item == nil {
		return nil, false
	}
	hash := *item.(*checkpointItem).Hash
	return &hash, true
}

// HighestHeight returns the greatest checkpointed height, 0 when the table
// is empty.
func (data *CheckpointData) HighestHeight() int32 {
	item := data.tree.Max()
	if item == nil {
		return 0
	}
	return item.(*checkpointItem).Height
}

func (data *CheckpointData) Len() int {
	return data.tree.Len()
}

// Checkpoints returns a copy of the table in ascending height order.
func (data *CheckpointData) Checkpoints() []*model.Checkpoint {
	checkpoints := make([]*model.Checkpoint, 0, data.tree.Len())
	data.tree.Ascend(func(i btree.Item) bool {
		checkpoints = append(checkpoints, i.(*checkpointItem).clone())
		return true
	})
	return checkpoints
}

// Descend calls fn from the highest checkpoint down until fn returns false.
func (data *CheckpointData) Descend(fn func(cp *model.Checkpoint) bool) {
	data.tree.Descend(func(i btree.Item) bool {
		return fn(i.(*checkpointItem).clone())
	})
}

// NextAfter returns the first checkpoint strictly above height, or nil.
func (data *CheckpointData) NextAfter(height int32) *model.Checkpoint {
	var next *model.Checkpoint
	data.tree.AscendGreaterOrEqual(&checkpointItem{Height: height + 1}, func(i btree.Item) bool {
		next = i.(*checkpointItem).clone()
		return false
	})
	return next
}

func (data *CheckpointData) TxData() ChainTxData {
	return data.txData
}

// Merge returns a new table holding data's checkpoints plus extra. The
// receiver is left untouched. Re-adding a known checkpoint is allowed; a
// different hash at a known height, or a hash already used at another
// height, is rejected.
func (data *CheckpointData) Merge(extra []*model.Checkpoint) (*CheckpointData, error) {
	byHeight := make(map[int32]*model.Checkpoint, data.Len()+len(extra))
	for _, cp := range data.Checkpoints() {
		byHeight[cp.Height] = cp
	}
	for _, cp := range extra {
		if cp == nil || cp.Hash == nil {
			return nil, errors.Wrap(errcode.New(errcode.ErrorCheckpointHashMalformed), "missing hash")
		}
		if cp.Height < 0 {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointNegativeHeight),
				"height %d", cp.Height)
		}
		if known, ok := byHeight[cp.Height]; ok {
			if !known.Hash.IsEqual(cp.Hash) {
				return nil, errors.Wrapf(errcode.New(errcode.ErrorCheckpointConflict),
					"height %d: have %s, got %s", cp.Height, known.Hash, cp.Hash)
			}
			continue
		}
		hash := *cp.Hash
		byHeight[cp.Height] = &model.Checkpoint{Height: cp.Height, Hash: &hash}
	}

	tree := btree.New(checkpointTreeDegree)
	for _, cp := range byHeight {
		tree.ReplaceOrInsert((*checkpointItem)(cp))
	}
	merged := make([]*model.Checkpoint, 0, tree.Len())
	tree.Ascend(func(i btree.Item) bool {
		merged = append(merged, (*model.Checkpoint)(i.(*checkpointItem)))
		return true
	})
	return newCheckpointData(merged, data.txData)
}
