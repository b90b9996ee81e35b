package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func (rc *rootCmdConfig) buildLogger() error {
	config := zap.NewProductionConfig()
	if rc.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if rc.logFile == "" {
		logger, err := config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		rc.logger = logger
		return nil
	}
	lj := &lumberjack.Logger{
		Filename:   rc.logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(config.EncoderConfig), zapcore.AddSync(lj), config.Level)
	rc.logger = zap.New(core)
	rc.closeLog = lj.Close
	return nil
}

func (rc *rootCmdConfig) syncLogger() {
	_ = rc.logger.Sync()
	if rc.closeLog != nil {
		_ = rc.closeLog()
		rc.closeLog = nil
	}
}
