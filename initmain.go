package main

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/healcoin/healcoin/conf"
	"github.com/healcoin/healcoin/log"
	"github.com/healcoin/healcoin/logic/lblockindex"
	"github.com/healcoin/healcoin/logic/lcheckpoint"
	"github.com/healcoin/healcoin/model/chain"
	"github.com/healcoin/healcoin/model/chainparams"
	"github.com/healcoin/healcoin/persist/blkdb"
	"github.com/healcoin/healcoin/persist/db"
	"github.com/healcoin/healcoin/persist/global"
	"github.com/healcoin/healcoin/rpc"
	"github.com/healcoin/healcoin/service/syncprogress"
)

const blockIndexCacheSize = 8 << 20

// node holds the subsystems started by appInitMain.
type node struct {
	config      *conf.Configuration
	params      *chainparams.BitcoinParams
	blockTree   *blkdb.BlockTreeDB
	chain       *chain.Chain
	checkpoints *lcheckpoint.Checkpoints
	registry    *prometheus.Registry
	reporter    *syncprogress.Reporter
	rpcServer   *rpc.Server
}

func networkDir(config *conf.Configuration, net chainparams.Network) string {
	return filepath.Join(config.DataDir, net.String())
}

// buildParams resolves the configured network and merges the operator's
// extra checkpoints into its table.
func buildParams(config *conf.Configuration) (*chainparams.BitcoinParams, error) {
	net, err := config.Network()
	if err != nil {
		return nil, err
	}
	extra, err := config.ExtraCheckpoints()
	if err != nil {
		return nil, err
	}
	return chainparams.NetParams(net).WithCheckpoints(extra)
}

func appInitMain(config *conf.Configuration) (n *node, err error) {
	n = &node{config: config}
	defer func() {
		if err != nil {
			n.close()
			n = nil
		}
	}()

	if n.params, err = buildParams(config); err != nil {
		return
	}
	log.Info("network %s, %d checkpoints, enforcement %v",
		n.params.Name, n.params.Checkpoints().Len(), config.Chain.Checkpoints)

	n.blockTree, err = blkdb.NewBlockTreeDB(&db.DBOption{
		FilePath:  filepath.Join(networkDir(config, n.params.Net), "blocks", "index"),
		CacheSize: blockIndexCacheSize,
	})
	if err != nil {
		return
	}

	n.checkpoints = lcheckpoint.New(&lcheckpoint.Config{
		Params:  n.params,
		Enabled: config.Chain.Checkpoints,
	})

	n.chain = chain.NewChain(n.params)
	global.CsMain.Lock()
	err = lblockindex.LoadBlockIndexDB(n.blockTree, n.chain, n.checkpoints)
	indexCount, height := n.chain.IndexMapSize(), n.chain.Height()
	global.CsMain.Unlock()
	if err != nil {
		err = errors.Wrap(err, "load block index")
		return
	}
	log.Info("loaded %d block indexes, active height %d", indexCount, height)

	n.registry = prometheus.NewRegistry()
	if n.reporter, err = syncprogress.NewReporter(n.chain, n.checkpoints, n.registry); err != nil {
		return
	}

	if config.RPC.Disable {
		return
	}
	n.rpcServer, err = rpc.NewServer(&rpc.ServerConfig{
		Listen:      config.RPC.Listen,
		User:        config.RPC.User,
		Pass:        config.RPC.Pass,
		Chain:       n.chain,
		BlockTree:   n.blockTree,
		Checkpoints: n.checkpoints,
		Reporter:    n.reporter,
		Gatherer:    n.registry,
	})
	return
}

func (n *node) close() {
	if n.blockTree != nil {
		if err := n.blockTree.Close(); err != nil {
			log.Error("close block index db: %v", err)
		}
		n.blockTree = nil
	}
}
