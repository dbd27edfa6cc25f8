package lcheckpoint

import (
	"testing"

	"github.com/healcoin/healcoin/model/block"
	"github.com/healcoin/healcoin/model/blockindex"
	"github.com/healcoin/healcoin/model/chain"
	"github.com/healcoin/healcoin/model/chainparams"
	"github.com/healcoin/healcoin/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkpointTime = int64(1600000000)

// testBlocks returns indexes for heights 0, 250 and 500 on unrelated
// headers; only their hashes matter here.
func testBlocks() map[int32]*blockindex.BlockIndex {
	blocks := make(map[int32]*blockindex.BlockIndex)
	for _, h := range []int32{0, 250, 500} {
		bi := blockindex.NewBlockIndex(&block.BlockHeader{Time: uint32(h), Nonce: uint32(h), Bits: 1})
		bi.Height = h
		blocks[h] = bi
	}
	return blocks
}

func testParams(t *testing.T, blocks map[int32]*blockindex.BlockIndex, txData chainparams.ChainTxData) *chainparams.BitcoinParams {
	var literals []chainparams.CheckpointLiteral
	for _, h := range []int32{0, 250, 500} {
		if bi, ok := blocks[h]; ok {
			literals = append(literals, chainparams.CheckpointLiteral{Height: h, Hash: bi.GetBlockHash().String()})
		}
	}
	data, err := chainparams.NewCheckpointData(literals, txData)
	require.NoError(t, err)
	return chainparams.NewBitcoinParams("unittest", chainparams.RegTest, true, data)
}

func fixedClock(now int64) func() int64 {
	return func() int64 { return now }
}

func TestVerifyBlockEnforced(t *testing.T) {
	blocks := testBlocks()
	cp := New(&Config{Params: testParams(t, blocks, chainparams.ChainTxData{}), Enabled: true})
	h999 := util.HashFromString("999")

	assert.True(t, cp.IsEnforced())
	assert.True(t, cp.VerifyBlock(250, blocks[250].GetBlockHash()))
	assert.False(t, cp.VerifyBlock(250, h999))
	assert.True(t, cp.VerifyBlock(300, h999))
	assert.True(t, cp.VerifyBlock(300, nil))
	assert.False(t, cp.VerifyBlock(250, nil))
	assert.Equal(t, int32(500), cp.TotalBlocksEstimate())

	// a checkpointed hash at the wrong height is still a mismatch
	assert.False(t, cp.VerifyBlock(0, blocks[500].GetBlockHash()))
}

func TestVerifyBlockDisabled(t *testing.T) {
	blocks := testBlocks()
	cp := New(&Config{Params: testParams(t, blocks, chainparams.ChainTxData{}), Enabled: false})
	h999 := util.HashFromString("999")

	assert.False(t, cp.IsEnforced())
	assert.True(t, cp.VerifyBlock(250, h999))
	assert.True(t, cp.VerifyBlock(250, blocks[250].GetBlockHash()))
	assert.Equal(t, int32(0), cp.TotalBlocksEstimate())
	assert.Nil(t, cp.FindNextCheckpoint(0))
}

func TestVerifyBlockNetworkPolicy(t *testing.T) {
	blocks := testBlocks()
	params := testParams(t, blocks, chainparams.ChainTxData{})
	params.EnforceCheckpoints = false
	cp := New(&Config{Params: params, Enabled: true})

	assert.False(t, cp.IsEnforced())
	assert.True(t, cp.VerifyBlock(250, util.HashFromString("999")))
	assert.Equal(t, int32(0), cp.TotalBlocksEstimate())
}

func TestVerifyBlockAllHeights(t *testing.T) {
	blocks := testBlocks()
	params := testParams(t, blocks, chainparams.ChainTxData{})
	other := util.HashFromString("abcdef")
	for _, enabled := range []bool{true, false} {
		cp := New(&Config{Params: params, Enabled: enabled})
		for _, c := range cp.Checkpoints() {
			assert.True(t, cp.VerifyBlock(c.Height, c.Hash))
			assert.Equal(t, !enabled, cp.VerifyBlock(c.Height, other), "height %d enabled %v", c.Height, enabled)
		}
		for h := int32(1); h < 600; h++ {
			if _, ok := params.Checkpoints().Lookup(h); !ok {
				assert.True(t, cp.VerifyBlock(h, other))
			}
		}
	}
}

func TestMainNetVerifyBlock(t *testing.T) {
	cp := New(&Config{Params: &chainparams.MainNetParams, Enabled: true})
	assert.True(t, cp.VerifyBlock(0, util.HashFromString("5de1108cd698eeb8fd017f52e35ac21e3bdc3f0dc653e7b1e3863c073b0be978")))
	assert.False(t, cp.VerifyBlock(6000, util.HashFromString("5de1108cd698eeb8fd017f52e35ac21e3bdc3f0dc653e7b1e3863c073b0be978")))
	assert.Equal(t, int32(6000), cp.TotalBlocksEstimate())

	regtest := New(&Config{Params: &chainparams.RegressionNetParams, Enabled: true})
	assert.False(t, regtest.IsEnforced())

	testnet := New(&Config{Params: &chainparams.TestNetParams, Enabled: true})
	assert.True(t, testnet.IsEnforced())
	assert.Equal(t, int32(0), testnet.TotalBlocksEstimate())
	assert.True(t, testnet.VerifyBlock(0, &util.HashOne))
}

func TestGuessVerificationProgressNil(t *testing.T) {
	cp := New(&Config{Params: &chainparams.MainNetParams, Enabled: true})
	assert.Equal(t, 0.0, cp.GuessVerificationProgress(nil))
}

func progressNode(chainTx int64, time int64) *blockindex.BlockIndex {
	bi := blockindex.NewBlockIndex(&block.BlockHeader{Time: uint32(time), Bits: 1})
	bi.ChainTxCount = chainTx
	return bi
}

func TestGuessVerificationProgressBoundary(t *testing.T) {
	txData := chainparams.ChainTxData{Time: checkpointTime, TxCount: 1000, TxRate: 100}
	params := testParams(t, testBlocks(), txData)
	cp := New(&Config{Params: params, Enabled: true, GetTime: fixedClock(checkpointTime + 86400)})

	// one day of 100 tx at factor 5 is 500 units of work left
	atBoundary := cp.GuessVerificationProgress(progressNode(1000, checkpointTime))
	assert.InDelta(t, 1000.0/1500.0, atBoundary, 1e-12)

	// the expensive region formula at the same point gives the same value
	before := float64(txData.TxCount) + 0*SigcheckVerificationFactor
	after := float64(86400) / 86400 * txData.TxRate * SigcheckVerificationFactor
	assert.InDelta(t, before/(before+after), atBoundary, 1e-12)

	below := cp.GuessVerificationProgress(progressNode(999, checkpointTime))
	above := cp.GuessVerificationProgress(progressNode(1001, checkpointTime))
	assert.InDelta(t, 999.0/1500.0, below, 1e-12)
	assert.InDelta(t, 1005.0/1505.0, above, 1e-12)
	assert.True(t, below < atBoundary && atBoundary < above)
	assert.InDelta(t, atBoundary, above, 0.01)
}

func TestGuessVerificationProgressRegions(t *testing.T) {
	txData := chainparams.ChainTxData{Time: checkpointTime, TxCount: 1000, TxRate: 100}
	params := testParams(t, testBlocks(), txData)
	now := checkpointTime + 10*86400
	cp := New(&Config{Params: params, Enabled: true, GetTime: fixedClock(now)})

	// cheap region ignores the node's own timestamp
	early := cp.GuessVerificationProgress(progressNode(500, 0))
	assert.InDelta(t, 500.0/(500.0+500.0+5000.0), early, 1e-12)

	// expensive region extrapolates from the node's timestamp
	late := cp.GuessVerificationProgress(progressNode(1500, now-86400))
	assert.InDelta(t, 3500.0/(3500.0+500.0), late, 1e-12)

	caughtUp := cp.GuessVerificationProgress(progressNode(2000, now))
	assert.Equal(t, 1.0, caughtUp)
}

func TestGuessVerificationProgressNotGated(t *testing.T) {
	txData := chainparams.ChainTxData{Time: checkpointTime, TxCount: 1000, TxRate: 100}
	params := testParams(t, testBlocks(), txData)
	on := New(&Config{Params: params, Enabled: true, GetTime: fixedClock(checkpointTime)})
	off := New(&Config{Params: params, Enabled: false, GetTime: fixedClock(checkpointTime)})
	node := progressNode(400, checkpointTime)
	assert.Equal(t, on.GuessVerificationProgress(node), off.GuessVerificationProgress(node))
	assert.InDelta(t, 0.4, off.GuessVerificationProgress(node), 1e-12)
}

func TestGuessVerificationProgressClockSkew(t *testing.T) {
	txData := chainparams.ChainTxData{Time: checkpointTime, TxCount: 1000, TxRate: 100}
	params := testParams(t, testBlocks(), txData)
	cp := New(&Config{Params: params, Enabled: true, GetTime: fixedClock(checkpointTime - 86400)})

	// a clock a day behind the checkpoint yields negative remaining work
	assert.InDelta(t, 2.0, cp.GuessVerificationProgress(progressNode(1000, checkpointTime)), 1e-12)
}

func TestGuessVerificationProgressZeroWork(t *testing.T) {
	params := testParams(t, testBlocks(), chainparams.ChainTxData{})
	cp := New(&Config{Params: params, Enabled: true, GetTime: fixedClock(checkpointTime)})
	assert.Equal(t, 0.0, cp.GuessVerificationProgress(progressNode(0, checkpointTime)))
}

func TestGuessVerificationProgressMockTime(t *testing.T) {
	util.SetMockTime(checkpointTime + 86400)
	defer util.SetMockTime(0)

	txData := chainparams.ChainTxData{Time: checkpointTime, TxCount: 1000, TxRate: 100}
	cp := New(&Config{Params: testParams(t, testBlocks(), txData), Enabled: true})
	assert.InDelta(t, 1000.0/1500.0, cp.GuessVerificationProgress(progressNode(1000, checkpointTime)), 1e-12)
}

func TestLastCheckpointPresentIn(t *testing.T) {
	blocks := testBlocks()
	params := testParams(t, blocks, chainparams.ChainTxData{})
	cp := New(&Config{Params: params, Enabled: true})

	assert.Nil(t, cp.LastCheckpointPresentIn(nil))
	assert.Nil(t, cp.LastCheckpointPresentIn(make(blockindex.IndexMap)))
	var noChain *chain.Chain
	assert.Nil(t, cp.LastCheckpointPresentIn(noChain))

	m := make(blockindex.IndexMap)
	m.Add(blocks[0])
	assert.True(t, cp.LastCheckpointPresentIn(m) == blocks[0])

	m.Add(blocks[500])
	assert.True(t, cp.LastCheckpointPresentIn(m) == blocks[500])

	m.Add(blocks[250])
	assert.True(t, cp.LastCheckpointPresentIn(m) == blocks[500])

	off := New(&Config{Params: params, Enabled: false})
	assert.Nil(t, off.LastCheckpointPresentIn(m))
}

func TestLastCheckpointPresentInIgnoresOtherBlocks(t *testing.T) {
	blocks := testBlocks()
	params := testParams(t, blocks, chainparams.ChainTxData{})
	cp := New(&Config{Params: params, Enabled: true})

	m := make(blockindex.IndexMap)
	stray := blockindex.NewBlockIndex(&block.BlockHeader{Nonce: 12345, Bits: 1})
	stray.Height = 600
	m.Add(stray)
	assert.Nil(t, cp.LastCheckpointPresentIn(m))

	m.Add(blocks[250])
	assert.True(t, cp.LastCheckpointPresentIn(m) == blocks[250])
}

func TestFindNextCheckpoint(t *testing.T) {
	blocks := testBlocks()
	cp := New(&Config{Params: testParams(t, blocks, chainparams.ChainTxData{}), Enabled: true})

	next := cp.FindNextCheckpoint(0)
	require.NotNil(t, next)
	assert.Equal(t, int32(250), next.Height)
	assert.True(t, next.Hash.IsEqual(blocks[250].GetBlockHash()))
	assert.Equal(t, int32(500), cp.FindNextCheckpoint(250).Height)
	assert.Nil(t, cp.FindNextCheckpoint(500))
}

func TestNewDefaults(t *testing.T) {
	cp := New(&Config{Enabled: true})
	assert.Equal(t, &chainparams.MainNetParams, cp.Params())
	assert.Len(t, cp.Checkpoints(), 28)
}
