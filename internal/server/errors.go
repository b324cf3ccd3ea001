package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/sketch-hub/sketch-hub/internal/logging"
	"github.com/sketch-hub/sketch-hub/internal/tree"
)

// RenderTreeError 将 tree 错误类别映射为 HTTP 状态码并输出结构化日志。
// 每个失败的操作恰好产出一种错误类别，detail 携带实体名/路径供调用方纠错。
func RenderTreeError(c fiber.Ctx, logger *logrus.Logger, endpoint string, err error) error {
	status := fiber.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, tree.ErrInvalidPath):
		status, code = fiber.StatusBadRequest, "invalid_path"
	case errors.Is(err, tree.ErrNotFound):
		status, code = fiber.StatusNotFound, "not_found"
	case errors.Is(err, tree.ErrAlreadyExists):
		status, code = fiber.StatusConflict, "already_exists"
	case errors.Is(err, tree.ErrRead):
		code = "read_error"
	case errors.Is(err, tree.ErrWrite):
		code = "write_error"
	case errors.Is(err, tree.ErrExternalTool):
		status, code = fiber.StatusBadGateway, "external_tool_error"
	}

	var treeErr *tree.Error
	var root, entity, path string
	if errors.As(err, &treeErr) {
		root, entity, path = string(treeErr.Root), treeErr.Name, treeErr.Path
	}

	fields := logging.RequestFields(RequestID(c), endpoint, root, entity, path)
	fields["action"] = "request_error"
	fields["error_kind"] = code
	logger.WithFields(fields).Warn(err.Error())

	return c.Status(status).JSON(fiber.Map{
		"error":  code,
		"detail": err.Error(),
	})
}

// RenderValidationError 针对请求体字段缺失/非法输出统一的 400 响应。
func RenderValidationError(c fiber.Ctx, logger *logrus.Logger, endpoint, reason string) error {
	fields := logging.RequestFields(RequestID(c), endpoint, "", "", "")
	fields["action"] = "request_invalid"
	logger.WithFields(fields).Warn(reason)

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "invalid_request",
		"detail": reason,
	})
}
