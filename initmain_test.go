package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healcoin/healcoin/conf"
	"github.com/healcoin/healcoin/errcode"
	"github.com/healcoin/healcoin/model/block"
	"github.com/healcoin/healcoin/model/blockindex"
	"github.com/healcoin/healcoin/model/chainparams"
	"github.com/healcoin/healcoin/persist/blkdb"
	"github.com/healcoin/healcoin/persist/db"
	"github.com/healcoin/healcoin/util"
)

func newTestConfig(t *testing.T, args ...string) (*conf.Configuration, func()) {
	dir, err := ioutil.TempDir("", "healcoin-node")
	require.NoError(t, err)
	config, err := conf.InitConfig(append([]string{"--datadir", dir}, args...))
	require.NoError(t, err)
	config.RPC.Disable = true
	return config, func() { os.RemoveAll(dir) }
}

func TestBuildParamsExtraCheckpoint(t *testing.T) {
	hash := strings.Repeat("0a", 32)
	config, cleanup := newTestConfig(t, "--addcheckpoint", "7000:"+hash)
	defer cleanup()

	params, err := buildParams(config)
	require.NoError(t, err)
	assert.Equal(t, chainparams.MainNet, params.Net)
	assert.Equal(t, chainparams.MainNetParams.Checkpoints().Len()+1, params.Checkpoints().Len())
}

func TestBuildParamsConflict(t *testing.T) {
	config, cleanup := newTestConfig(t, "--addcheckpoint", "250:"+strings.Repeat("ff", 32))
	defer cleanup()

	_, err := buildParams(config)
	assert.True(t, errcode.IsErrorCode(err, errcode.ErrorCheckpointConflict))
}

func TestAppInitMainEmptyIndex(t *testing.T) {
	config, cleanup := newTestConfig(t, "--regtest", "--nocheckpoints")
	defer cleanup()

	n, err := appInitMain(config)
	require.NoError(t, err)
	defer n.close()

	assert.Equal(t, chainparams.RegTest, n.params.Net)
	assert.Equal(t, int32(-1), n.chain.Height())
	assert.False(t, n.checkpoints.IsEnforced())
	assert.Nil(t, n.rpcServer)

	status := n.reporter.Status()
	assert.Equal(t, int32(-1), status.LastCheckpointHeight)
}

func TestAppInitMainWithRPC(t *testing.T) {
	config, cleanup := newTestConfig(t)
	defer cleanup()
	config.RPC.Disable = false
	config.RPC.Listen = "127.0.0.1:0"

	n, err := appInitMain(config)
	require.NoError(t, err)
	defer n.close()

	require.NotNil(t, n.rpcServer)
	assert.True(t, n.checkpoints.IsEnforced())
}

func storedBranch(prev *blockindex.BlockIndex, n int, nonce uint32) []*blockindex.BlockIndex {
	var prevHash util.Hash
	height := int32(0)
	if prev != nil {
		prevHash = *prev.GetBlockHash()
		height = prev.Height + 1
	}
	branch := make([]*blockindex.BlockIndex, n)
	for i := range branch {
		bi := blockindex.NewBlockIndex(&block.BlockHeader{
			HashPrevBlock: prevHash,
			Time:          1600000000 + uint32(height)*600,
			Bits:          1,
			Nonce:         nonce + uint32(i),
		})
		bi.Height = height
		bi.TxCount = 1
		branch[i] = bi
		prevHash = *bi.GetBlockHash()
		height++
	}
	return branch
}

func TestAppInitMainRefusesStoredForgedBranch(t *testing.T) {
	honest := storedBranch(nil, 4, 0)
	forged := storedBranch(honest[2], 3, 1000)
	config, cleanup := newTestConfig(t, "--testnet",
		"--addcheckpoint", "3:"+honest[3].GetBlockHash().String())
	defer cleanup()

	btd, err := blkdb.NewBlockTreeDB(&db.DBOption{
		FilePath:  filepath.Join(networkDir(config, chainparams.TestNet), "blocks", "index"),
		CacheSize: 1 << 20,
	})
	require.NoError(t, err)
	require.NoError(t, btd.WriteBlockIndexes(append(append([]*blockindex.BlockIndex{}, honest...), forged...), true))
	require.NoError(t, btd.WriteBestBlock(forged[2].GetBlockHash()))
	require.NoError(t, btd.Close())

	n, err := appInitMain(config)
	require.NoError(t, err)
	defer n.close()

	assert.Equal(t, int32(3), n.chain.Height())
	assert.Equal(t, *honest[3].GetBlockHash(), *n.chain.Tip().GetBlockHash())
	assert.True(t, n.chain.FindBlockIndex(*forged[2].GetBlockHash()).Failed())
	assert.Equal(t, int32(3), n.reporter.Status().LastCheckpointHeight)
}

func TestInterruptRequested(t *testing.T) {
	c := make(chan struct{})
	assert.False(t, interruptRequested(c))
	close(c)
	assert.True(t, interruptRequested(c))
}
