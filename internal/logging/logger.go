package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/motohunt/motohunt-api/internal/config"
)

const serviceName = "motohunt-api"

// New creates the structured logger used across the service.  Every entry
// carries the service name and environment.
func New(cfg config.Config) *logrus.Entry {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput is New with an explicit sink, used by tests.
func NewWithOutput(cfg config.Config, out io.Writer) *logrus.Entry {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("invalid log level %q, defaulting to info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "ts",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "msg",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}
	logger.SetOutput(out)

	return logger.WithFields(logrus.Fields{
		"service":     serviceName,
		"version":     version(),
		"environment": cfg.Env,
	})
}

// Discard returns a logger that drops everything.  Handy as a default for
// optional dependencies and in tests.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func version() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return "dev"
}

// WithUserID adds the authenticated user id to a log entry.
func WithUserID(log logrus.FieldLogger, userID int64) logrus.FieldLogger {
	return log.WithField("user_id", userID)
}
