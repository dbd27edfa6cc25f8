package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/healcoin/healcoin/log"
)

// shutdownRequestChannel lets a subsystem stop the node through the same path
// as an interrupt signal.
var shutdownRequestChannel = make(chan struct{})

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// interruptListener returns a channel that is closed on the first interrupt
// signal or shutdown request.
func interruptListener() <-chan struct{} {
	c := make(chan struct{})
	var closeOnce sync.Once
	go func() {
		interruptChannel := make(chan os.Signal, 1)
		signal.Notify(interruptChannel, interruptSignals...)

		for {
			select {
			case sig := <-interruptChannel:
				log.Info("received signal (%s), shutting down", sig)
			case <-shutdownRequestChannel:
				log.Info("shutdown requested, shutting down")
			}
			closeOnce.Do(func() { close(c) })
		}
	}()
	return c
}

func interruptRequested(interrupted <-chan struct{}) bool {
	select {
	case <-interrupted:
		return true
	default:
	}
	return false
}
