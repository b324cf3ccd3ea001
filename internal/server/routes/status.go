package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/sketch-hub/sketch-hub/internal/version"
)

// RegisterStatusRoutes 暴露 /-/status 诊断接口，供运维查询缓存规模与版本。
func RegisterStatusRoutes(app *fiber.App, deps Deps) {
	app.Get("/-/status", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"version":          version.Full(),
			"projects_cached":  deps.Service.CachedProjects(),
			"libraries_cached": deps.Service.CachedLibraries(),
		})
	})
}
