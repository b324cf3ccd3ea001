package toolchain

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sketch-hub/sketch-hub/internal/logging"
)

// Client 封装 arduino-cli 的编译/烧录与库、核心、板卡管理命令。所有调用
// 都是同步一次性的，结果原样交还调用方，且绝不触碰目录缓存。
type Client struct {
	runner     Runner
	fqbn       string
	sketchbook string
	logger     *logrus.Logger
}

// NewClient 构造工具链客户端。fqbn 用于编译/烧录；sketchbook 作为这两类
// 命令的工作目录。
func NewClient(runner Runner, fqbn, sketchbook string, logger *logrus.Logger) *Client {
	return &Client{
		runner:     runner,
		fqbn:       fqbn,
		sketchbook: sketchbook,
		logger:     logger,
	}
}

// Compile 编译指定工程目录。
func (c *Client) Compile(ctx context.Context, sketchDir string) (Result, error) {
	return c.run(ctx, c.sketchbook, "compile", "--fqbn", c.fqbn, sketchDir)
}

// Upload 将编译产物烧录到指定串口。
func (c *Client) Upload(ctx context.Context, sketchDir, port string) (Result, error) {
	return c.run(ctx, c.sketchbook, "upload", "-p", port, "--fqbn", c.fqbn, sketchDir)
}

// ListInstalledLibraries 列出工具链已安装的库（CLI 文本输出）。
func (c *Client) ListInstalledLibraries(ctx context.Context) (Result, error) {
	return c.run(ctx, "", "lib", "list")
}

// SearchLibraries 在库索引中搜索关键字。
func (c *Client) SearchLibraries(ctx context.Context, keyword string) (Result, error) {
	return c.run(ctx, "", "lib", "search", keyword)
}

// InstallLibrary 安装指定库。新库目录由 staleness fallback 在首次
// 访问时收入缓存，这里不做任何缓存操作。
func (c *Client) InstallLibrary(ctx context.Context, name string) (Result, error) {
	return c.run(ctx, "", "lib", "install", name)
}

// UninstallLibrary 卸载指定库。
func (c *Client) UninstallLibrary(ctx context.Context, name string) (Result, error) {
	return c.run(ctx, "", "lib", "uninstall", name)
}

// UpdateLibrary 更新指定库。
func (c *Client) UpdateLibrary(ctx context.Context, name string) (Result, error) {
	return c.run(ctx, "", "lib", "update", name)
}

// UpdateAllLibraries 更新全部已安装库。
func (c *Client) UpdateAllLibraries(ctx context.Context) (Result, error) {
	return c.run(ctx, "", "lib", "update")
}

// ListBoards 列出当前连接的板卡。
func (c *Client) ListBoards(ctx context.Context) (Result, error) {
	return c.run(ctx, "", "board", "list")
}

// SearchCores 在核心索引中搜索关键字。
func (c *Client) SearchCores(ctx context.Context, keyword string) (Result, error) {
	return c.run(ctx, "", "core", "search", keyword)
}

// InstallCore 安装指定板卡核心。
func (c *Client) InstallCore(ctx context.Context, id string) (Result, error) {
	return c.run(ctx, "", "core", "install", id)
}

// UninstallCore 卸载指定板卡核心。
func (c *Client) UninstallCore(ctx context.Context, id string) (Result, error) {
	return c.run(ctx, "", "core", "uninstall", id)
}

func (c *Client) run(ctx context.Context, dir string, args ...string) (Result, error) {
	result, err := c.runner.Run(ctx, dir, args...)
	fields := logging.ToolFields(args, result.ExitCode)
	fields["action"] = "toolchain_run"
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Error("外部工具调用失败")
		return result, err
	}
	if !result.Success() {
		c.logger.WithFields(fields).Warn("外部工具返回非零退出码")
	} else {
		c.logger.WithFields(fields).Debug("外部工具调用完成")
	}
	return result, nil
}
