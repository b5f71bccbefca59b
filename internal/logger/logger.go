// Package logger holds the process-wide zap logger. Callers fetch it through
// Get instead of threading a logger value through every constructor.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init configures the shared logger for the given environment. Production
// logs JSON at info level; every other environment gets a console encoder
// with debug enabled. Repeat calls are no-ops.
func Init(env string) {
	once.Do(func() {
		var cfg zap.Config
		if env == "production" {
			cfg = zap.NewProductionConfig()
		} else {
			cfg = zap.NewDevelopmentConfig()
		}

		base, err := cfg.Build(zap.Fields(zap.String("service", "pocketbook")))
		if err != nil {
			base = zap.NewNop()
		}
		sugar = base.Sugar()
	})
}

// Get returns the shared sugared logger, initializing a development logger
// if Init was never called.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync flushes buffered entries. Called once at shutdown.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
