// Package logger owns the process wide logrus instance. Request handlers log
// through the request scoped entry from middleware.GetRequestLogger, which is
// derived from this one.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"
)

// LogFile is the name of the rotated log under the configured log directory.
const LogFile = "cafirm.log"

var base = logrus.New()

// Init points the logger at out (stdout when nil). Debug builds get coloured
// text at debug level; otherwise one JSON object per line at info level.
func Init(debug bool, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	base.SetOutput(out)
	if debug {
		base.SetLevel(logrus.DebugLevel)
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.JSONFormatter{})
}

// Rotating returns a writer that tees to stdout and a size rotated file in
// dir (10 MB per file, 3 backups, 28 days, compressed).
func Rotating(dir string) (io.Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, LogFile),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	return io.MultiWriter(os.Stdout, rotator), nil
}

func Log() *logrus.Entry {
	return logrus.NewEntry(base)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log().WithFields(fields)
}

// Gorm returns a gorm logger that writes through the global logrus logger.
// Slow queries are always reported; every statement is traced in debug mode.
func Gorm(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(Log().WithField("component", "gorm"), gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
