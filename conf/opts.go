package conf

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Opts struct {
	DataDir    string `long:"datadir" description:"specified program data dir"`
	ConfigFile string `long:"conf" description:"yaml config file, default <datadir>/healcoin.yml"`

	RegTest bool `long:"regtest" description:"initiate regtest"`
	TestNet bool `long:"testnet" description:"initiate testnet"`

	NoCheckpoints  bool     `long:"nocheckpoints" description:"Disable checkpoint enforcement. Don't do this unless you know what you're doing."`
	AddCheckpoints []string `long:"addcheckpoint" description:"Add a custom checkpoint. Format: '<height>:<hash>'"`

	LogLevel string `long:"loglevel" description:"log level: trace, debug, info, warn, error"`
}

func InitArgs(args []string) (*Opts, error) {
	opts := new(Opts)
	_, err := flags.ParseArgs(opts, args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	return opts, nil
}
