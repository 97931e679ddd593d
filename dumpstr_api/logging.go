package dumpstr_api

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// Logger returns the logger used by the package
func Logger() *logrus.Logger {
	return logger
}

// SetVerbose enables debug logging of every locus decision
func SetVerbose() {
	logger.SetLevel(logrus.DebugLevel)
}
