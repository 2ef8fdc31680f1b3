package storage

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
)

// badgerLogger adapts a logr.Logger to badger.Logger. Only errors are
// logged at the default verbosity.
type badgerLogger struct {
	log logr.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error(nil, clean(format, args))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.V(1).Info(clean(format, args))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.V(2).Info(clean(format, args))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.V(3).Info(clean(format, args))
}

// clean formats a badger message, which usually ends in a newline.
func clean(format string, args []any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
