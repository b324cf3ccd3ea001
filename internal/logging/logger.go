package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sketch-hub/sketch-hub/internal/config"
)

// InitLogger 根据全局配置初始化 JSON 结构化日志。未配置日志文件时输出到
// stdout；配置了文件但目录不可用时退回 stdout，服务继续启动。
func InitLogger(cfg config.GlobalConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("无法解析日志级别 %q: %w", cfg.LogLevel, err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	logger.SetOutput(os.Stdout)

	if cfg.LogFilePath == "" {
		mirrorStandardLogger(logger)
		return logger, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
		// 日志目录建不出来不阻塞启动，sketch 服务照常工作。
		fmt.Fprintf(os.Stderr, "logger_fallback: %v\n", err)
		mirrorStandardLogger(logger)
		logger.WithFields(logrus.Fields{
			"action":   "logger_fallback",
			"log_file": cfg.LogFilePath,
		}).Warn("日志目录不可用，改用 stdout")
		return logger, nil
	}

	logger.SetOutput(&lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   cfg.LogCompress,
		LocalTime:  true,
	})
	mirrorStandardLogger(logger)

	logger.WithFields(logrus.Fields{
		"action":      "logger_init",
		"log_file":    cfg.LogFilePath,
		"max_size_mb": cfg.LogMaxSize,
		"backups":     cfg.LogMaxBackups,
	}).Debug("日志输出到轮转文件")
	return logger, nil
}

// mirrorStandardLogger 同步包级 logrus 配置，第三方库的散落日志也走同一格式。
func mirrorStandardLogger(logger *logrus.Logger) {
	logrus.SetFormatter(logger.Formatter)
	logrus.SetOutput(logger.Out)
	logrus.SetLevel(logger.GetLevel())
}
