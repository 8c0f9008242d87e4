package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logger from the log configuration and applies the same
// settings to the logrus standard logger used by the middleware.
func NewLogger(cfg LogConfig) *logrus.Logger {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	var formatter logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if cfg.Format == "json" {
		formatter = &logrus.JSONFormatter{}
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(formatter)

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(level)
	logger.SetFormatter(formatter)
	return logger
}
