package config

import (
	"errors"
	"path/filepath"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("ListenPort", "必须在 1-65535")
	}
	if g.SketchbookPath == "" {
		return newFieldError("SketchbookPath", "不能为空")
	}
	if g.LogMaxSize < 0 {
		return newFieldError("LogMaxSize", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("LogMaxBackups", "不能为负数")
	}
	if g.LibrariesPath != "" && filepath.Clean(g.LibrariesPath) == filepath.Clean(g.SketchbookPath) {
		return newFieldError("LibrariesPath", "不能与 SketchbookPath 相同")
	}

	tc := c.Toolchain
	if strings.TrimSpace(tc.CLIPath) == "" {
		return newFieldError("Toolchain.CLIPath", "不能为空")
	}
	if strings.TrimSpace(tc.FQBN) == "" {
		return newFieldError("Toolchain.FQBN", "不能为空")
	}
	if tc.Timeout.DurationValue() <= 0 {
		return newFieldError("Toolchain.Timeout", "必须大于 0")
	}

	return nil
}
