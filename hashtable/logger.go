package hashtable

import (
	"sync"

	"github.com/Invicton-Labs/go-hashtable/log"
)

var (
	defaultLogger     log.DynamicDefaultLogger
	defaultLoggerOnce sync.Once
)

// packageLogger returns the logger used by tables created without one. It
// follows the process default logger, named "hashtable". Callers fetch the
// current logger from it each time they log.
func packageLogger() log.DynamicDefaultLogger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = log.NewDynamicDefaultLogger(func(input log.NewInput) log.NewInput {
			input.Name = "hashtable"
			return input
		})
	})
	return defaultLogger
}
