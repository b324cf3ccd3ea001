package routes

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/sketch-hub/sketch-hub/internal/server"
	"github.com/sketch-hub/sketch-hub/internal/sketch"
	"github.com/sketch-hub/sketch-hub/internal/toolchain"
)

// Deps 汇总各路由组共享的依赖。请求处理器只通过 Service/Toolchain 访问
// 文件树与外部工具，不直接触碰缓存或文件系统。
type Deps struct {
	Logger    *logrus.Logger
	Service   *sketch.Service
	Toolchain *toolchain.Client
}

// Register 挂载全部路由组。
func Register(app *fiber.App, deps Deps) {
	RegisterProjectRoutes(app, deps)
	RegisterLibraryRoutes(app, deps)
	RegisterToolchainRoutes(app, deps)
	RegisterStatusRoutes(app, deps)
}

// badBody 输出请求体解析失败的统一 400 响应。
func badBody(c fiber.Ctx, deps Deps, endpoint string, err error) error {
	return server.RenderValidationError(c, deps.Logger, endpoint, "请求体不是合法 JSON: "+err.Error())
}
