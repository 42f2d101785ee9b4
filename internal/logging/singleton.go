package logging

import (
	"sync"
)

var (
	mu       sync.RWMutex
	instance *Logger
	nop      = NewNopLogger()
)

// InitLogger builds the process-wide logger. Calling it again replaces the
// previous instance after closing it.
func InitLogger(config *LogConfig) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	mu.Lock()
	previous := instance
	instance = logger
	mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

// GetGlobalLogger returns the process-wide logger, or a no-op logger
// when InitLogger has not been called yet.
func GetGlobalLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return nop
	}
	return instance
}
