// Package logger wraps logrus with optional file rotation.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the shared instance. Nil until Init is called; the
	// package-level helpers fall back to the logrus standard logger.
	Logger *logrus.Logger

	mu sync.Mutex
)

// Config controls log level, format and file rotation.
type Config struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	OutputFile string `yaml:"output_file"` // empty means stdout only
	MaxSize    int    `yaml:"max_size"`    // megabytes per file before rotation
	MaxBackups int    `yaml:"max_backups"` // rotated files to keep
	MaxAge     int    `yaml:"max_age"`     // days to keep rotated files
	Compress   bool   `yaml:"compress"`
}

// Init sets up the shared logger. Safe to call more than once; the last
// call wins.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "06-01-02 15:04:05",
	})

	writers := []io.Writer{os.Stdout}
	if cfg.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.OutputFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}
	out := io.MultiWriter(writers...)
	l.SetOutput(out)

	// Keep the global logrus logger in sync so WithField entries created
	// elsewhere end up in the same file.
	logrus.SetOutput(out)
	logrus.SetLevel(level)

	Logger = l
	return nil
}

// InitDefault initializes stdout-only logging at info level.
func InitDefault() error {
	return Init(Config{Level: "info"})
}

func std() *logrus.Logger {
	if Logger != nil {
		return Logger
	}
	return logrus.StandardLogger()
}

func Debugf(format string, args ...interface{}) { std().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { std().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { std().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { std().Errorf(format, args...) }

// WithField returns an entry tagged with a single field.
func WithField(key string, value interface{}) *logrus.Entry {
	return std().WithField(key, value)
}

// WithFields returns an entry tagged with multiple fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return std().WithFields(fields)
}
