package lcheckpoint

import (
	"github.com/healcoin/healcoin/model"
	"github.com/healcoin/healcoin/model/blockindex"
	"github.com/healcoin/healcoin/model/chainparams"
	"github.com/healcoin/healcoin/util"
)

// SigcheckVerificationFactor is how many times slower we expect
// transactions after the last checkpoint to verify. It can't be accurate
// for every system: reindexing from a fast disk with a slow CPU can be up
// to 20, downloading from a slow network with a fast multicore CPU won't be
// much higher than 1.
const SigcheckVerificationFactor = 5.0

const secondsPerDay = 86400.0

// BlockIndexLookup resolves block hashes to index entries. Both
// blockindex.IndexMap and *chain.Chain satisfy it.
type BlockIndexLookup interface {
	FindBlockIndex(hash util.Hash) *blockindex.BlockIndex
}

type Config struct {
	Params *chainparams.BitcoinParams
	// Enabled mirrors the -checkpoints option.
	Enabled bool
	// GetTime returns the current unix time; util.GetTime when nil.
	GetTime func() int64
}

// Checkpoints answers checkpoint queries for one network. It holds no
// mutable state and is safe for concurrent use.
type Checkpoints struct {
	params  *chainparams.BitcoinParams
	enabled bool
	getTime func() int64
}

func New(cfg *Config) *Checkpoints {
	params := cfg.Params
	if params == nil {
		params = &chainparams.MainNetParams
	}
	getTime := cfg.GetTime
	if getTime == nil {
		getTime = util.GetTime
	}
	return &Checkpoints{
		params:  params,
		enabled: cfg.Enabled,
		getTime: getTime,
	}
}

func (c *Checkpoints) Params() *chainparams.BitcoinParams {
	return c.params
}

// IsEnforced reports whether both the option and the network policy ask
// for checkpoints.
func (c *Checkpoints) IsEnforced() bool {
	return c.enabled && c.params.EnforceCheckpoints
}

// VerifyBlock returns false only when height is checkpointed and hash is
// not the checkpointed hash.
func (c *Checkpoints) VerifyBlock(height int32, hash *util.Hash) bool {
	if !c.IsEnforced() {
		return true
	}
	expected, ok := c.params.Checkpoints().Lookup(height)
	if !ok {
		return true
	}
	return expected.IsEqual(hash)
}

// TotalBlocksEstimate returns the highest checkpointed height, or 0 when
// checkpoints are off.
func (c *Checkpoints) TotalBlocksEstimate() int32 {
	if !c.IsEnforced() {
		return 0
	}
	return c.params.Checkpoints().HighestHeight()
}

// GuessVerificationProgress estimates how far verification has got at
// index. Work is 1.0 per transaction up to the last checkpoint and
// SigcheckVerificationFactor per transaction after it. The result is not
// clamped; a clock behind the checkpoint data can push it past 1.
func (c *Checkpoints) GuessVerificationProgress(index *blockindex.BlockIndex) float64 {
	if index == nil {
		return 0.0
	}

	now := c.getTime()
	data := c.params.TxData()
	chainTx := float64(index.ChainTxCount)
	lastTx := float64(data.TxCount)

	// work done before index and work left after it (estimated)
	var workBefore, workAfter float64
	if index.ChainTxCount <= data.TxCount {
		cheapAfter := lastTx - chainTx
		expensiveAfter := float64(now-data.Time) / secondsPerDay * data.TxRate
		workBefore = chainTx
		workAfter = cheapAfter + expensiveAfter*SigcheckVerificationFactor
	} else {
		expensiveBefore := chainTx - lastTx
		expensiveAfter := float64(now-index.GetBlockTime()) / secondsPerDay * data.TxRate
		workBefore = lastTx + expensiveBefore*SigcheckVerificationFactor
		workAfter = expensiveAfter * SigcheckVerificationFactor
	}

	total := workBefore + workAfter
	if total == 0 {
		return 0.0
	}
	return workBefore / total
}

// LastCheckpointPresentIn returns the index of the highest checkpoint found
// in lookup. The caller holds whatever lock guards lookup. A nil *chain.Chain
// is an empty lookup.
func (c *Checkpoints) LastCheckpointPresentIn(lookup BlockIndexLookup) *blockindex.BlockIndex {
	if !c.IsEnforced() || lookup == nil {
		return nil
	}
	var found *blockindex.BlockIndex
	c.params.Checkpoints().Descend(func(cp *model.Checkpoint) bool {
		found = lookup.FindBlockIndex(*cp.Hash)
		return found == nil
	})
	return found
}

// FindNextCheckpoint returns the first checkpoint above height, the next
// target of a headers first sync.
func (c *Checkpoints) FindNextCheckpoint(height int32) *model.Checkpoint {
	if !c.IsEnforced() {
		return nil
	}
	return c.params.Checkpoints().NextAfter(height)
}

// Checkpoints lists the active table in ascending height order.
func (c *Checkpoints) Checkpoints() []*model.Checkpoint {
	return c.params.Checkpoints().Checkpoints()
}
