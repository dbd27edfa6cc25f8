package log

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"

	"github.com/astaxie/beego/logs"
)

const errModuleNotFound = "module not found"

const defaultLogFile = "debug.log"

var (
	moduleLock sync.RWMutex
	mapModule  = make(map[string]struct{})
)

type logConfig struct {
	Filename string `json:"filename"`
	Level    int    `json:"level"`
	Daily    bool   `json:"daily"`
	MaxDays  int64  `json:"maxdays,omitempty"`
}

func init() {
	logs.EnableFuncCallDepth(true)
	logs.SetLogFuncCallDepth(4)
}

// Init installs the file adapter with a beego json configuration.
func Init(configuration string) {
	logs.GetBeeLogger().DelLogger(logs.AdapterFile)
	if err := logs.SetLogger(logs.AdapterFile, configuration); err != nil {
		logs.Error("init log with %s failed: %v", configuration, err)
	}
}

// InitLogger writes debug.log (or fileName) into dir at the given level and
// enables Print output for modules.
func InitLogger(dir, fileName, level string, modules []string) error {
	if fileName == "" {
		fileName = defaultLogFile
	}
	config, err := json.Marshal(logConfig{
		Filename: filepath.Join(dir, fileName),
		Level:    GetLevel(level),
		Daily:    true,
		MaxDays:  7,
	})
	if err != nil {
		return err
	}
	Init(string(config))
	SetModules(modules)
	return nil
}

// SetModules replaces the set of modules Print writes for.
func SetModules(modules []string) {
	moduleLock.Lock()
	defer moduleLock.Unlock()
	mapModule = make(map[string]struct{}, len(modules))
	for _, m := range modules {
		mapModule[strings.ToLower(m)] = struct{}{}
	}
}

func isIncludeModule(module string) bool {
	moduleLock.RLock()
	defer moduleLock.RUnlock()
	_, ok := mapModule[strings.ToLower(module)]
	return ok
}

// Print logs format at level when module is enabled.
func Print(module string, level string, format string, reason ...interface{}) {
	if !isIncludeModule(module) {
		logs.Error("%s: %s", errModuleNotFound, module)
		return
	}
	switch strings.ToLower(level) {
	case "emergency":
		logs.Emergency(format, reason...)
	case "alert":
		logs.Alert(format, reason...)
	case "critical":
		logs.Critical(format, reason...)
	case "error":
		logs.Error(format, reason...)
	case "warn", "warning":
		logs.Warn(format, reason...)
	case "info", "informational":
		logs.Info(format, reason...)
	case "notice":
		logs.Notice(format, reason...)
	default:
		logs.Debug(format, reason...)
	}
}

func Emergency(format string, reason ...interface{}) {
	logs.Emergency(format, reason...)
}

func Alert(format string, reason ...interface{}) {
	logs.Alert(format, reason...)
}

func Critical(format string, reason ...interface{}) {
	logs.Critical(format, reason...)
}

func Error(format string, reason ...interface{}) {
	logs.Error(format, reason...)
}

func Warn(format string, reason ...interface{}) {
	logs.Warn(format, reason...)
}

func Notice(format string, reason ...interface{}) {
	logs.Notice(format, reason...)
}

func Info(format string, reason ...interface{}) {
	logs.Info(format, reason...)
}

func Debug(format string, reason ...interface{}) {
	logs.Debug(format, reason...)
}

func Trace(format string, reason ...interface{}) {
	logs.Trace(format, reason...)
}
