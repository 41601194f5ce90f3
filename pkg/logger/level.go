package logger

import (
	"strings"

	"go.llib.dev/dispose/pkg/env"
)

type Level string

func (ll Level) String() string { return string(ll) }

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

var envToLevel = map[string]Level{
	"debug":    LevelDebug,
	"info":     LevelInfo,
	"warn":     LevelWarn,
	"error":    LevelError,
	"fatal":    LevelFatal,
	"critical": LevelFatal,

	"d": LevelDebug,
	"i": LevelInfo,
	"w": LevelWarn,
	"e": LevelError,
	"f": LevelFatal,
	"c": LevelFatal,
}

var defaultLevel = LevelInfo

func init() {
	if level, ok := lookupLevelFromENV(); ok {
		defaultLevel = level
	}
}

func lookupLevelFromENV() (Level, bool) {
	for _, envKey := range []string{"LOG_LEVEL", "LOGGER_LEVEL", "LOGGING_LEVEL"} {
		raw, ok, err := env.Lookup[string](envKey)
		if err != nil || !ok {
			continue
		}
		if level, ok := envToLevel[strings.ToLower(raw)]; ok {
			return level, ok
		}
	}
	return "", false
}

var levelPriorityMapping = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
	LevelFatal: 4,
}

func isLevelEnabled(target, level Level) bool {
	if target == "" {
		target = LevelInfo
	}
	return levelPriorityMapping[target] <= levelPriorityMapping[level]
}
