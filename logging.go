package loom

import (
	"os"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// logger is the package-level structured logger, guarded the same way
// eventloop guards its global logger: a mutex-protected field read by
// getLogger and written by SetLogger, defaulting to a stumpy logger
// writing to stderr so the daemon has somewhere to put its handshake and
// command-loop diagnostics even if the host never calls SetLogger.
var logger struct {
	sync.RWMutex
	l *logiface.Logger[*stumpy.Event]
}

func init() {
	logger.l = stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)))
}

// SetLogger replaces the package-level logger used by the daemon and
// filter packages. Safe to call concurrently with logging calls.
func SetLogger(l *logiface.Logger[*stumpy.Event]) {
	logger.Lock()
	defer logger.Unlock()
	logger.l = l
}

// getLogger returns the current package-level logger.
func getLogger() *logiface.Logger[*stumpy.Event] {
	logger.RLock()
	defer logger.RUnlock()
	return logger.l
}

// Logger returns the current package-level logger, for use by the
// filter and daemon packages, which have no logger configuration of
// their own and log through this package's.
func Logger() *logiface.Logger[*stumpy.Event] { return getLogger() }
