package log

import (
	"os"
	"strings"

	"github.com/iancoleman/strcase"
	"go.uber.org/zap/zapcore"
)

const (
	levelEnvKey  = "LOG_LEVEL"
	formatEnvKey = "LOG_FORMAT"
)

var (
	envFunc = env
)

func env(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func parseLevel(s string) (zapcore.Level, bool) {
	var lvl zapcore.Level
	if err := lvl.Set(strings.ToLower(s)); err != nil {
		return zapcore.InfoLevel, false
	}
	return lvl, true
}

func levelFromEnv(key string) (zapcore.Level, bool) {
	v, ok := envFunc(key)
	if !ok {
		return zapcore.InfoLevel, false
	}
	return parseLevel(v)
}

// moduleEnvKeys lists the env keys consulted for a module path, most specific first.
// []string{"Shell", "Persist"} -> LOG_LEVEL__SHELL__PERSIST, LOG_LEVEL__SHELL, LOG_LEVEL
func moduleEnvKeys(names []string) []string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = strcase.ToScreamingSnake(n)
	}

	keys := make([]string, 0, len(parts)+1)
	for i := len(parts); i > 0; i-- {
		keys = append(keys, levelEnvKey+"__"+strings.Join(parts[:i], "__"))
	}
	return append(keys, levelEnvKey)
}

func moduleLevel(names []string) zapcore.Level {
	for _, k := range moduleEnvKeys(names) {
		if lv, ok := levelFromEnv(k); ok {
			return lv
		}
	}
	return zapcore.InfoLevel
}

func useJSONFormat() bool {
	v, ok := envFunc(formatEnvKey)
	return ok && strings.EqualFold(v, "json")
}
