package conf

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/healcoin/healcoin/errcode"
	"github.com/healcoin/healcoin/model"
	"github.com/healcoin/healcoin/model/chainparams"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	tagName        = "default"
	envPrefix      = "healcoin"
	configFileName = "healcoin.yml"
	dataDirName    = ".healcoin"
)

type Configuration struct {
	DataDir string
	Chain   struct {
		Network        string `default:"main"` // main, test or regtest
		Checkpoints    bool   `default:"true"` // enforce checkpoints
		AddCheckpoints []string
	}
	Log struct {
		Level    string `default:"info"` // trace, debug, info, warn, error
		Module   []string
		FileName string `default:"debug"`
	}
	RPC struct {
		Listen  string `default:"127.0.0.1:9332"`
		User    string
		Pass    string
		Disable bool `default:"false"`
	}
	Progress struct {
		Interval time.Duration `default:"30s"`
	}
}

// setDefaultValue registers every non empty default tag of c under its
// dotted lower case key, e.g. chain.checkpoints.
func setDefaultValue(v *viper.Viper, c interface{}) {
	t := reflect.TypeOf(c)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type.Kind() != reflect.Struct {
			if value := field.Tag.Get(tagName); value != "" {
				v.SetDefault(strings.ToLower(field.Name), value)
			}
			continue
		}
		for j := 0; j < field.Type.NumField(); j++ {
			sub := field.Type.Field(j)
			if value := sub.Tag.Get(tagName); value != "" {
				v.SetDefault(strings.ToLower(field.Name+"."+sub.Name), value)
			}
		}
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	setDefaultValue(v, Configuration{})
	return v
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dataDirName
	}
	return filepath.Join(home, dataDirName)
}

// InitConfig parses args and loads the yaml file and environment they point
// to. Command line options win over file and environment values.
func InitConfig(args []string) (*Configuration, error) {
	opts, err := InitArgs(args)
	if err != nil {
		return nil, err
	}

	v := newViper()
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = v.GetString("datadir")
	}
	if dataDir == "" {
		dataDir = defaultDataDir()
	}

	confFile := opts.ConfigFile
	if confFile == "" {
		confFile = filepath.Join(dataDir, configFileName)
	}
	if opts.ConfigFile == "" {
		if _, err := os.Stat(confFile); os.IsNotExist(err) {
			if err := os.MkdirAll(dataDir, 0700); err != nil {
				return nil, errors.Wrapf(errcode.New(errcode.ErrorConfReadFile), "%v", err)
			}
			if err := WriteSample(confFile); err != nil {
				return nil, errors.Wrapf(errcode.New(errcode.ErrorConfReadFile), "%s: %v", confFile, err)
			}
		}
	}
	file, err := os.Open(confFile)
	switch {
	case err == nil:
		defer file.Close()
		if err := v.ReadConfig(file); err != nil {
			return nil, errors.Wrapf(errcode.New(errcode.ErrorConfReadFile), "%s: %v", confFile, err)
		}
	case opts.ConfigFile != "" || !os.IsNotExist(err):
		return nil, errors.Wrapf(errcode.New(errcode.ErrorConfReadFile), "%v", err)
	}

	config := new(Configuration)
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorConfReadFile), "%s: %v", confFile, err)
	}
	config.DataDir = dataDir

	if opts.TestNet && opts.RegTest {
		return nil, errcode.New(errcode.ErrorConfNetworkConflict)
	}
	if opts.TestNet {
		config.Chain.Network = chainparams.TestNet.String()
	}
	if opts.RegTest {
		config.Chain.Network = chainparams.RegTest.String()
	}
	if opts.NoCheckpoints {
		config.Chain.Checkpoints = false
	}
	config.Chain.AddCheckpoints = append(config.Chain.AddCheckpoints, opts.AddCheckpoints...)
	if opts.LogLevel != "" {
		config.Log.Level = opts.LogLevel
	}
	return config, nil
}

func (config *Configuration) Network() (chainparams.Network, error) {
	return chainparams.ParseNetwork(config.Chain.Network)
}

// ExtraCheckpoints parses the operator supplied checkpoints.
func (config *Configuration) ExtraCheckpoints() ([]*model.Checkpoint, error) {
	return model.ParseCheckpoints(config.Chain.AddCheckpoints)
}

// WriteSample writes the default configuration as yaml to path. InitConfig
// calls it on first start when the data dir holds no config file.
func WriteSample(path string) error {
	v := viper.New()
	setDefaultValue(v, Configuration{})
	out, err := yaml.Marshal(v.AllSettings())
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, out, 0644)
}
