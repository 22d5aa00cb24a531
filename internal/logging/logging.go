package logging

import (
	"go.uber.org/zap"
)

// Logger is safe to use before Init; it discards everything until then.
var Logger = zap.NewNop().Sugar()

func Init(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = logger.Sugar()
	return nil
}

func Sync() {
	_ = Logger.Sync()
}
