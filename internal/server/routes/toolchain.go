package routes

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/sketch-hub/sketch-hub/internal/server"
	"github.com/sketch-hub/sketch-hub/internal/toolchain"
)

type libraryRequest struct {
	LibraryName string `json:"library_name"`
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

type coreRequest struct {
	Core string `json:"core"`
}

// RegisterToolchainRoutes 挂载库/核心/板卡管理端点。这些端点只是外部
// arduino-cli 的同步透传，输出不做解析，也不会触碰目录缓存。
func RegisterToolchainRoutes(app *fiber.App, deps Deps) {
	app.Get("/list_libraries_installed", func(c fiber.Ctx) error {
		result, err := deps.Toolchain.ListInstalledLibraries(reqContext(c))
		return renderToolResult(c, deps, "/list_libraries_installed", result, err)
	})

	app.Post("/search_library", func(c fiber.Ctx) error {
		var req keywordRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/search_library", err)
		}
		if strings.TrimSpace(req.Keyword) == "" {
			return server.RenderValidationError(c, deps.Logger, "/search_library", "keyword 不能为空")
		}
		result, err := deps.Toolchain.SearchLibraries(reqContext(c), req.Keyword)
		return renderToolResult(c, deps, "/search_library", result, err)
	})

	app.Post("/install_library", func(c fiber.Ctx) error {
		var req libraryRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/install_library", err)
		}
		if strings.TrimSpace(req.LibraryName) == "" {
			return server.RenderValidationError(c, deps.Logger, "/install_library", "library_name 不能为空")
		}
		result, err := deps.Toolchain.InstallLibrary(reqContext(c), req.LibraryName)
		return renderToolResult(c, deps, "/install_library", result, err)
	})

	app.Post("/uninstall_library", func(c fiber.Ctx) error {
		var req libraryRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/uninstall_library", err)
		}
		if strings.TrimSpace(req.LibraryName) == "" {
			return server.RenderValidationError(c, deps.Logger, "/uninstall_library", "library_name 不能为空")
		}
		result, err := deps.Toolchain.UninstallLibrary(reqContext(c), req.LibraryName)
		return renderToolResult(c, deps, "/uninstall_library", result, err)
	})

	app.Post("/update_library", func(c fiber.Ctx) error {
		var req libraryRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/update_library", err)
		}
		if strings.TrimSpace(req.LibraryName) == "" {
			return server.RenderValidationError(c, deps.Logger, "/update_library", "library_name 不能为空")
		}
		result, err := deps.Toolchain.UpdateLibrary(reqContext(c), req.LibraryName)
		return renderToolResult(c, deps, "/update_library", result, err)
	})

	app.Post("/update_all_libraries", func(c fiber.Ctx) error {
		result, err := deps.Toolchain.UpdateAllLibraries(reqContext(c))
		return renderToolResult(c, deps, "/update_all_libraries", result, err)
	})

	app.Get("/list_connected_boards", func(c fiber.Ctx) error {
		result, err := deps.Toolchain.ListBoards(reqContext(c))
		return renderToolResult(c, deps, "/list_connected_boards", result, err)
	})

	app.Post("/search_cores", func(c fiber.Ctx) error {
		var req keywordRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/search_cores", err)
		}
		if strings.TrimSpace(req.Keyword) == "" {
			return server.RenderValidationError(c, deps.Logger, "/search_cores", "keyword 不能为空")
		}
		result, err := deps.Toolchain.SearchCores(reqContext(c), req.Keyword)
		return renderToolResult(c, deps, "/search_cores", result, err)
	})

	app.Post("/install_core", func(c fiber.Ctx) error {
		var req coreRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/install_core", err)
		}
		if strings.TrimSpace(req.Core) == "" {
			return server.RenderValidationError(c, deps.Logger, "/install_core", "core 不能为空")
		}
		result, err := deps.Toolchain.InstallCore(reqContext(c), req.Core)
		return renderToolResult(c, deps, "/install_core", result, err)
	})

	app.Post("/uninstall_core", func(c fiber.Ctx) error {
		var req coreRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/uninstall_core", err)
		}
		if strings.TrimSpace(req.Core) == "" {
			return server.RenderValidationError(c, deps.Logger, "/uninstall_core", "core 不能为空")
		}
		result, err := deps.Toolchain.UninstallCore(reqContext(c), req.Core)
		return renderToolResult(c, deps, "/uninstall_core", result, err)
	})
}

// renderToolResult 透传工具链输出：无论成败都返回 200 与捕获的 stdout/stderr，
// agent 需要原始编译诊断；只有连进程都没启动时才走错误映射。
func renderToolResult(c fiber.Ctx, deps Deps, endpoint string, result toolchain.Result, err error) error {
	if err != nil {
		return server.RenderTreeError(c, deps.Logger, endpoint, err)
	}

	status := "success"
	if !result.Success() {
		status = "error"
	}
	return c.JSON(fiber.Map{
		"status": status,
		"output": result.Stdout,
		"error":  result.Stderr,
	})
}

func reqContext(c fiber.Ctx) context.Context {
	if ctx := c.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
