package server

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

const (
	flashSuccess = "success"
	flashError   = "error"
)

// flash 一次性提示消息，重定向后在首页展示
type flash struct {
	Kind    string
	Message string
}

func setFlash(c *fiber.Ctx, kind, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// popFlash 读取并清除提示消息，没有消息时返回 nil
func popFlash(c *fiber.Ctx) *flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}
	c.ClearCookie(flashCookie)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(decoded, "|")
	if !ok || (kind != flashSuccess && kind != flashError) {
		return nil
	}
	return &flash{Kind: kind, Message: message}
}
