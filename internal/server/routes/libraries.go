package routes

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/sketch-hub/sketch-hub/internal/server"
	"github.com/sketch-hub/sketch-hub/internal/tree"
)

type readLibraryFileRequest struct {
	LibraryName string `json:"library_name"`
	FilePath    string `json:"file_path"`
}

func (r readLibraryFileRequest) validate() string {
	if strings.TrimSpace(r.LibraryName) == "" {
		return "library_name 不能为空"
	}
	if r.FilePath == "" {
		return "file_path 不能为空"
	}
	return ""
}

type copyExampleRequest struct {
	LibraryName    string `json:"library_name"`
	ExampleFolder  string `json:"example_folder"`
	NewProjectName string `json:"new_project_name"`
}

func (r copyExampleRequest) validate() string {
	if strings.TrimSpace(r.LibraryName) == "" {
		return "library_name 不能为空"
	}
	if strings.TrimSpace(r.ExampleFolder) == "" {
		return "example_folder 不能为空"
	}
	if strings.TrimSpace(r.NewProjectName) == "" {
		return "new_project_name 不能为空"
	}
	return ""
}

// RegisterLibraryRoutes 挂载只读的库浏览端点与示例复制端点。
// 库树没有任何写入口，read-only 约束在 Service 的方法签名层面成立。
func RegisterLibraryRoutes(app *fiber.App, deps Deps) {
	app.Get("/list_libraries", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"libraries": deps.Service.ListLibraries()})
	})

	app.Get("/list_files_in_library", func(c fiber.Ctx) error {
		name := c.Query("library_name")
		if strings.TrimSpace(name) == "" {
			return server.RenderValidationError(c, deps.Logger, "/list_files_in_library", "library_name 不能为空")
		}

		files, err := deps.Service.ListFiles(tree.RootLibraries, name)
		if err != nil {
			return server.RenderTreeError(c, deps.Logger, "/list_files_in_library", err)
		}
		return c.JSON(fiber.Map{
			"library_name": name,
			"files":        files,
		})
	})

	app.Post("/read_library_file", func(c fiber.Ctx) error {
		var req readLibraryFileRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/read_library_file", err)
		}
		if reason := req.validate(); reason != "" {
			return server.RenderValidationError(c, deps.Logger, "/read_library_file", reason)
		}

		data, err := deps.Service.ReadFile(tree.RootLibraries, req.LibraryName, req.FilePath)
		if err != nil {
			return server.RenderTreeError(c, deps.Logger, "/read_library_file", err)
		}
		return c.JSON(fiber.Map{
			"file_path": req.FilePath,
			"content":   string(data),
		})
	})

	app.Post("/copy_library_example", func(c fiber.Ctx) error {
		var req copyExampleRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/copy_library_example", err)
		}
		if reason := req.validate(); reason != "" {
			return server.RenderValidationError(c, deps.Logger, "/copy_library_example", reason)
		}

		copied, err := deps.Service.CopyExample(req.LibraryName, req.ExampleFolder, req.NewProjectName)
		if err != nil {
			return server.RenderTreeError(c, deps.Logger, "/copy_library_example", err)
		}
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "已将示例 " + req.ExampleFolder + " 复制为工程 " + req.NewProjectName,
			"files":   copied,
		})
	})
}
