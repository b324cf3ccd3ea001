package routes

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/sketch-hub/sketch-hub/internal/server"
	"github.com/sketch-hub/sketch-hub/internal/tree"
)

// projectRequest 是只携带工程名的请求体。
type projectRequest struct {
	ProjectName string `json:"project_name"`
}

func (r projectRequest) validate() string {
	if strings.TrimSpace(r.ProjectName) == "" {
		return "project_name 不能为空"
	}
	return ""
}

// sketchRequest 携带工程名、文件内容与可选相对路径。
type sketchRequest struct {
	ProjectName   string `json:"project_name"`
	SketchContent string `json:"sketch_content"`
	FilePath      string `json:"file_path"`
}

func (r sketchRequest) validate() string {
	if strings.TrimSpace(r.ProjectName) == "" {
		return "project_name 不能为空"
	}
	return ""
}

type readFileRequest struct {
	ProjectName string `json:"project_name"`
	FilePath    string `json:"file_path"`
}

func (r readFileRequest) validate() string {
	if strings.TrimSpace(r.ProjectName) == "" {
		return "project_name 不能为空"
	}
	if r.FilePath == "" {
		return "file_path 不能为空"
	}
	return ""
}

type uploadRequest struct {
	ProjectName string `json:"project_name"`
	Port        string `json:"port"`
}

func (r uploadRequest) validate() string {
	if strings.TrimSpace(r.ProjectName) == "" {
		return "project_name 不能为空"
	}
	if strings.TrimSpace(r.Port) == "" {
		return "port 不能为空"
	}
	return ""
}

// RegisterProjectRoutes 挂载工程浏览、读写与编译/烧录端点。
func RegisterProjectRoutes(app *fiber.App, deps Deps) {
	app.Post("/check_folder", func(c fiber.Ctx) error {
		var req projectRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/check_folder", err)
		}
		if reason := req.validate(); reason != "" {
			return server.RenderValidationError(c, deps.Logger, "/check_folder", reason)
		}

		exists, err := deps.Service.ProjectExists(req.ProjectName)
		if err != nil {
			return server.RenderTreeError(c, deps.Logger, "/check_folder", err)
		}
		return c.JSON(fiber.Map{"exists": exists})
	})

	app.Get("/list_projects", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"projects": deps.Service.ListProjects()})
	})

	app.Get("/list_files_in_project", func(c fiber.Ctx) error {
		name := c.Query("project_name")
		if strings.TrimSpace(name) == "" {
			return server.RenderValidationError(c, deps.Logger, "/list_files_in_project", "project_name 不能为空")
		}

		files, err := deps.Service.ListFiles(tree.RootProjects, name)
		if err != nil {
			return server.RenderTreeError(c, deps.Logger, "/list_files_in_project", err)
		}
		return c.JSON(fiber.Map{
			"project_name": name,
			"files":        files,
		})
	})

	app.Post("/read_file", func(c fiber.Ctx) error {
		var req readFileRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/read_file", err)
		}
		if reason := req.validate(); reason != "" {
			return server.RenderValidationError(c, deps.Logger, "/read_file", reason)
		}

		data, err := deps.Service.ReadFile(tree.RootProjects, req.ProjectName, req.FilePath)
		if err != nil {
			return server.RenderTreeError(c, deps.Logger, "/read_file", err)
		}
		return c.JSON(fiber.Map{
			"file_path": req.FilePath,
			"content":   string(data),
		})
	})

	app.Post("/create_project", func(c fiber.Ctx) error {
		var req sketchRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/create_project", err)
		}
		if reason := req.validate(); reason != "" {
			return server.RenderValidationError(c, deps.Logger, "/create_project", reason)
		}

		rel, err := deps.Service.CreateProject(req.ProjectName, req.SketchContent, req.FilePath)
		if err != nil {
			return server.RenderTreeError(c, deps.Logger, "/create_project", err)
		}
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "已创建工程 " + req.ProjectName + "，文件 " + rel,
		})
	})

	app.Post("/update_sketch", func(c fiber.Ctx) error {
		var req sketchRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/update_sketch", err)
		}
		if reason := req.validate(); reason != "" {
			return server.RenderValidationError(c, deps.Logger, "/update_sketch", reason)
		}

		rel, err := deps.Service.SaveSketchFile(req.ProjectName, req.SketchContent, req.FilePath)
		if err != nil {
			return server.RenderTreeError(c, deps.Logger, "/update_sketch", err)
		}
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "已更新工程 " + req.ProjectName + " 的文件 " + rel,
		})
	})

	app.Post("/compile_project", func(c fiber.Ctx) error {
		var req projectRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/compile_project", err)
		}
		if reason := req.validate(); reason != "" {
			return server.RenderValidationError(c, deps.Logger, "/compile_project", reason)
		}

		// 缺主文件早失败，避免无意义的外部调用。
		if _, err := deps.Service.MainSketchPath(req.ProjectName); err != nil {
			return server.RenderTreeError(c, deps.Logger, "/compile_project", err)
		}
		dir, err := deps.Service.ProjectDir(req.ProjectName)
		if err != nil {
			return server.RenderTreeError(c, deps.Logger, "/compile_project", err)
		}

		result, err := deps.Toolchain.Compile(reqContext(c), dir)
		return renderToolResult(c, deps, "/compile_project", result, err)
	})

	app.Post("/upload_project", func(c fiber.Ctx) error {
		var req uploadRequest
		if err := c.Bind().Body(&req); err != nil {
			return badBody(c, deps, "/upload_project", err)
		}
		if reason := req.validate(); reason != "" {
			return server.RenderValidationError(c, deps.Logger, "/upload_project", reason)
		}

		if _, err := deps.Service.MainSketchPath(req.ProjectName); err != nil {
			return server.RenderTreeError(c, deps.Logger, "/upload_project", err)
		}
		dir, err := deps.Service.ProjectDir(req.ProjectName)
		if err != nil {
			return server.RenderTreeError(c, deps.Logger, "/upload_project", err)
		}

		result, err := deps.Toolchain.Upload(reqContext(c), dir, req.Port)
		return renderToolResult(c, deps, "/upload_project", result, err)
	})
}
