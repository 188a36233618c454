package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lucksec/boxgen/internal/logger"
)

const requestIDHeader = "X-Request-Id"

// accessLog 记录访问日志；查询串可能包含订阅地址，不写入日志
func accessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := uuid.New().String()
		c.Set(requestIDHeader, id)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		if c.Path() != "/healthz" {
			logger.GetLogger().Info("http %s %s status=%d dur=%s bytes=%d request_id=%s",
				c.Method(), c.Path(), status, time.Since(start).Round(time.Millisecond), len(c.Response().Body()), id)
		}
		return err
	}
}
