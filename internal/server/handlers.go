package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lucksec/boxgen/internal/logger"
	"github.com/lucksec/boxgen/internal/repository"
)

type handler struct {
	deps Dependencies
}

// index 渲染模板列表、提供方列表和当前生成选项
func (h *handler) index(c *fiber.Ctx) error {
	templates, err := h.deps.Templates.ListTemplates()
	if err != nil {
		return writeFailure(c, err)
	}
	providers, err := h.deps.Providers.Text()
	if err != nil {
		return writeFailure(c, err)
	}

	f := popFlash(c)
	c.Set("Cache-Control", "no-store")
	return c.Render("index", fiber.Map{
		"Templates":       templates,
		"TemplateOptions": repository.TemplateLabels(templates),
		"ProvidersData":   providers,
		"TempJSONData":    h.deps.Options.Text(),
		"Flash":           f,
	})
}

func (h *handler) healthz(c *fiber.Ctx) error {
	return c.SendString("ok\n")
}

// updateProviders 校验并写入提供方列表；写入失败只记录警告
func (h *handler) updateProviders(c *fiber.Ctx) error {
	value, err := h.deps.Providers.Parse(c.FormValue("providers_data"))
	if err != nil {
		setFlash(c, flashError, "Error: "+err.Error())
		return c.Redirect("/")
	}

	if err := h.deps.Providers.Write(value); err != nil {
		logger.GetLogger().Warn("Write failed: %v", err)
	}
	setFlash(c, flashSuccess, "更新成功（只读环境下为临时生效）")
	return c.Redirect("/")
}

func (h *handler) editTempJSON(c *fiber.Ctx) error {
	text := c.FormValue("temp_json_data")
	if text == "" {
		return c.JSON(fiber.Map{"status": "error", "message": "Empty data"})
	}
	if err := h.deps.Options.Replace(text); err != nil {
		return c.JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

func (h *handler) clearTempJSON(c *fiber.Ctx) error {
	h.deps.Options.Clear()
	return c.JSON(fiber.Map{"status": "success"})
}

// config 调用生成引擎并以纯文本返回产物
func (h *handler) config(c *fiber.Ctx) error {
	data, err := h.deps.Generator.Generate(c.UserContext(), c.Query("file"))
	if err != nil {
		return writeFailure(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.Send(data)
}

// generateConfig 保留的表单入口，不执行生成
func (h *handler) generateConfig(c *fiber.Ctx) error {
	return c.Redirect("/")
}
