package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lucksec/boxgen/internal/domain"
	"github.com/lucksec/boxgen/internal/logger"
)

// statusFor 生成与目录读取失败一律视为服务端错误，不细分状态码
func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// writeFailure 以 "Error: <message>" 纯文本返回错误
func writeFailure(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logger.GetLogger().Error("请求失败: %s %s, kind=%s, error=%v", c.Method(), c.Path(), errorKind(err), err)
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.Status(status).SendString("Error: " + err.Error())
}

// errorHandler 兜底处理路由返回的错误（包括 404/405）
func errorHandler(c *fiber.Ctx, err error) error {
	return writeFailure(c, err)
}

// errorKind 错误分类，仅用于日志
func errorKind(err error) string {
	var (
		ve *domain.ValidationError
		ie *domain.IOError
		le *domain.ProcessLaunchError
		pe *domain.ProcessExecutionError
		me *domain.ArtifactMissingError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &le):
		return "process_launch"
	case errors.As(err, &pe):
		return "process_execution"
	case errors.As(err, &me):
		return "artifact_missing"
	case errors.As(err, &ie):
		return "io"
	default:
		return "internal"
	}
}
