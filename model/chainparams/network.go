package chainparams

import (
	"strings"

	"github.com/healcoin/healcoin/errcode"
	"github.com/pkg/errors"
)

// Network identifies the chain a node runs on.
type Network int

const (
	MainNet Network = iota
	TestNet
	RegTest
)

var networkNames = map[Network]string{
	MainNet: "main",
	TestNet: "test",
	RegTest: "regtest",
}

func (n Network) String() string {
	if s, ok := networkNames[n]; ok {
		return s
	}
	return "unknown"
}

func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(name) {
	case "main", "mainnet", "":
		return MainNet, nil
	case "test", "testnet":
		return TestNet, nil
	case "regtest":
		return RegTest, nil
	}
	return MainNet, errors.Wrapf(errcode.New(errcode.ErrorConfUnknownNetwork), "network %q", name)
}
