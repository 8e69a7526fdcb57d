package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	instance *zap.SugaredLogger
	once     sync.Once
)

type Config struct {
	Development bool
	// Service names the logger so multi-service log streams stay
	// attributable.
	Service string
}

// New builds the process-wide sugared logger. The first call wins;
// later calls return the same instance.
func New(cfg Config) (*zap.SugaredLogger, error) {
	var err error
	once.Do(func() {
		var l *zap.Logger
		if cfg.Development {
			l, err = zap.NewDevelopment()
		} else {
			l, err = zap.NewProduction()
		}
		if err != nil {
			return
		}
		if cfg.Service != "" {
			l = l.Named(cfg.Service)
		}
		instance = l.Sugar()
	})
	return instance, err
}
