package config

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logg     *logrus.Logger
	loggOnce sync.Once
)

// Logger devuelve el logger JSON del proceso.
func Logger() *logrus.Logger {
	loggOnce.Do(func() {
		logg = logrus.New()
		logg.SetFormatter(&logrus.JSONFormatter{})
		logg.SetOutput(os.Stdout)
		logg.SetLevel(logrus.InfoLevel)
	})
	return logg
}

// SetupLogger ajusta el nivel ("debug", "info", "warn", "error").
func SetupLogger(level string) {
	l := Logger()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.Warnf("LOG_LEVEL inválido (%q), se usa info", level)
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
}

func LogError(moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	Logger().WithFields(fields).Error(err.Error())
}
