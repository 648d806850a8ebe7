// Package logging provides category-scoped loggers for the JustAct runtime.
// The core packages under pkg/ never log (their errors are values); logging
// belongs to the collaborator side: the simulator, the CLI, the watchers.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem for log scoping.
type Category string

const (
	CategoryEngine  Category = "engine"  // Datalog evaluation
	CategoryExtract Category = "extract" // policy extraction
	CategoryAudit   Category = "audit"   // audit verdicts
	CategorySim     Category = "sim"     // simulation ticks and commits
	CategoryWatch   Category = "watch"   // file watching (eval --watch)
)

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// Initialize installs the process-wide logger. With debug set, a development
// config at debug level is used; otherwise a production config. Call once at
// startup; before that, all loggers are no-ops.
func Initialize(debug bool) error {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		logger, err = cfg.Build()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		return err
	}
	mu.Lock()
	base = logger
	mu.Unlock()
	return nil
}

// L returns the logger for a category.
func L(cat Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.Named(string(cat))
}

// Sync flushes buffered log entries. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}
