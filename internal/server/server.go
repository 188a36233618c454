package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"github.com/lucksec/boxgen/internal/config"
	"github.com/lucksec/boxgen/internal/repository"
	"github.com/lucksec/boxgen/internal/service"
)

//go:embed views/*.html
var viewsFS embed.FS

// Dependencies HTTP 层依赖的组件，由组合根注入
type Dependencies struct {
	Options   repository.OptionsStore
	Providers repository.ProviderRepository
	Templates repository.TemplateRepository
	Generator service.GenerationService
}

// New 创建 fiber 应用并注册路由
func New(cfg *config.Config, deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Server.AppName,
		ReadTimeout:           cfg.Server.ReadTimeout,
		Views:                 newViewEngine(),
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(accessLog())
	registerRoutes(app, &handler{deps: deps})
	return app
}

// registerRoutes 注册全部路由
func registerRoutes(app *fiber.App, h *handler) {
	app.Get("/", h.index)
	app.Get("/healthz", h.healthz)

	app.Post("/update_providers", h.updateProviders)
	app.Post("/edit_temp_json", h.editTempJSON)
	app.Post("/clear_temp_json_data", h.clearTempJSON)

	// 路径段仅用于订阅链接的可读性，不参与生成
	app.Get("/config/*", h.config)
	app.Post("/generate_config", h.generateConfig)
}

func newViewEngine() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
