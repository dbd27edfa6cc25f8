package log

import (
	"testing"

	"github.com/astaxie/beego/logs"
)

func TestGetLevel(t *testing.T) {
	for _, levelStr := range level {
		num := GetLevel(levelStr)
		if num < logs.LevelEmergency || num > logs.LevelDebug {
			t.Fatalf("get log level failed: %d\n", num)
		}
	}

	if num := GetLevel("default"); num != logs.LevelDebug {
		t.Errorf("defaultLogLevel set failed: %d\n", num)
	}
	if num := GetLevel("WARN"); num != logs.LevelWarning {
		t.Errorf("level names should be case insensitive: %d\n", num)
	}
	if num := GetLevel("info"); num != logs.LevelInformational {
		t.Errorf("info alias failed: %d\n", num)
	}
}
