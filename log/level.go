package log

import (
	"strings"

	"github.com/astaxie/beego/logs"
)

const defaultLogLevel = logs.LevelDebug

var levelMap = map[string]int{
	"emergency":     logs.LevelEmergency,
	"alert":         logs.LevelAlert,
	"critical":      logs.LevelCritical,
	"error":         logs.LevelError,
	"warning":       logs.LevelWarning,
	"warn":          logs.LevelWarning,
	"notice":        logs.LevelNotice,
	"informational": logs.LevelInformational,
	"info":          logs.LevelInformational,
	"debug":         logs.LevelDebug,
	"trace":         logs.LevelDebug,
}

// GetLevel maps a level name to its beego level, falling back to debug for
// unknown names.
func GetLevel(level string) int {
	ele, ok := levelMap[strings.ToLower(level)]
	if !ok {
		return defaultLogLevel
	}
	return ele
}
