package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absSketchbook, err := filepath.Abs(cfg.Global.SketchbookPath)
	if err != nil {
		return nil, fmt.Errorf("无法解析 sketchbook 目录: %w", err)
	}
	cfg.Global.SketchbookPath = absSketchbook

	absLibraries, err := filepath.Abs(cfg.Global.LibrariesPath)
	if err != nil {
		return nil, fmt.Errorf("无法解析 libraries 目录: %w", err)
	}
	cfg.Global.LibrariesPath = absLibraries

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 5000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("Toolchain.CLIPath", "arduino-cli")
	v.SetDefault("Toolchain.FQBN", "arduino:avr:nano:cpu=atmega328old")
	v.SetDefault("Toolchain.Timeout", "5m")
}

func applyDefaults(cfg *Config) error {
	if cfg.Global.SketchbookPath == "" {
		sketchbook, err := defaultSketchbookPath()
		if err != nil {
			return fmt.Errorf("无法确定默认 sketchbook 目录: %w", err)
		}
		cfg.Global.SketchbookPath = sketchbook
	}
	if cfg.Global.LibrariesPath == "" {
		cfg.Global.LibrariesPath = filepath.Join(cfg.Global.SketchbookPath, "libraries")
	}
	if cfg.Toolchain.CLIPath == "" {
		cfg.Toolchain.CLIPath = "arduino-cli"
	}
	if cfg.Toolchain.Timeout.DurationValue() == 0 {
		cfg.Toolchain.Timeout = Duration(5 * time.Minute)
	}
	return nil
}

// defaultSketchbookPath 遵循 Arduino IDE 的平台约定选取 sketchbook 位置。
func defaultSketchbookPath() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Documents", "Arduino"), nil
	case "windows":
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return "", fmt.Errorf("USERPROFILE 未设置")
		}
		return filepath.Join(profile, "Documents", "Arduino"), nil
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Arduino"), nil
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
