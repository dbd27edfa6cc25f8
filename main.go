package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/healcoin/healcoin/conf"
	"github.com/healcoin/healcoin/log"
)

const shutdownTimeout = 5 * time.Second

func healMain(args []string) error {
	config, err := conf.InitConfig(args)
	if err != nil {
		return err
	}
	net, err := config.Network()
	if err != nil {
		return err
	}
	logDir := filepath.Join(networkDir(config, net), "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}
	if err := log.InitLogger(logDir, config.Log.FileName, config.Log.Level, config.Log.Module); err != nil {
		return err
	}

	interrupt := interruptListener()
	n, err := appInitMain(config)
	if err != nil {
		log.Error("init failed: %v", err)
		return err
	}
	defer n.close()
	if interruptRequested(interrupt) {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.reporter.Run(ctx, config.Progress.Interval)

	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			log.Error("start rpc server: %v", err)
			return err
		}
	}

	<-interrupt
	cancel()
	if n.rpcServer != nil {
		stopCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := n.rpcServer.Stop(stopCtx); err != nil {
			log.Warn("stop rpc server: %v", err)
		}
	}
	log.Info("shutdown complete")
	return nil
}

func main() {
	if err := healMain(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
