package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucksec/boxgen/internal/config"
	"github.com/lucksec/boxgen/internal/domain"
	"github.com/lucksec/boxgen/internal/logger"
	"github.com/lucksec/boxgen/internal/repository"
	"github.com/lucksec/boxgen/internal/server"
	"github.com/lucksec/boxgen/internal/service"
)

// application 组合根：配置加载后构建的全部组件
type application struct {
	cfg       *config.Config
	options   repository.OptionsStore
	providers repository.ProviderRepository
	templates repository.TemplateRepository
	generator service.GenerationService
}

var (
	configPath string
	app        *application
)

func main() {
	rootCmd := newRootCmd()

	// 设置自动补全
	setupCompletion(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "执行命令失败: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "boxgen",
		Short: "boxgen 是一个 sing-box 订阅转换配置生成服务",
		Long: `boxgen 维护订阅提供方列表和临时生成选项，并调用外部生成引擎，
按选定模板合成 sing-box 配置文件。部署根目录可以只读，所有写入都落在可写目录。`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := loadApplication()
			return err
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 .boxgen.ini 和 $HOME/.boxgen/.boxgen.ini）")

	rootCmd.AddCommand(serveCmd())

	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "模板管理命令",
	}
	templateCmd.AddCommand(listTemplatesCmd())
	rootCmd.AddCommand(templateCmd)

	rootCmd.AddCommand(generateCmd())

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "订阅提供方命令",
	}
	providersCmd.AddCommand(showProvidersCmd())
	rootCmd.AddCommand(providersCmd)

	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "生成选项命令",
	}
	optionsCmd.AddCommand(showOptionsCmd())
	rootCmd.AddCommand(optionsCmd)

	rootCmd.AddCommand(newConsoleCmd())
	return rootCmd
}

// loadApplication 加载配置、初始化日志并构建组件，只执行一次
func loadApplication() (*application, error) {
	if app != nil {
		return app, nil
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	log, err := logger.InitLogger(&logger.Config{
		Level:         logger.ParseLevel(cfg.Log.Level),
		EnableConsole: cfg.Log.EnableConsole,
		EnableFile:    cfg.Log.EnableFile,
		LogDir:        cfg.Log.LogDir,
		LogFile:       cfg.Log.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化日志系统失败: %w", err)
	}
	log.Debug("配置加载成功: file=%q, BaseDir=%s, WritableDir=%s, TemplateDir=%s",
		cfg.ConfigPath, cfg.Paths.BaseDir, cfg.Paths.WritableDir, cfg.Paths.TemplatesPath())

	app = newApplication(cfg, service.NewProcessEngine(cfg))
	return app, nil
}

func newApplication(cfg *config.Config, engine service.Engine) *application {
	options := repository.NewOptionsStore(domain.DefaultOptionsJSON)
	return &application{
		cfg:       cfg,
		options:   options,
		providers: repository.NewProviderRepository(cfg.Paths),
		templates: repository.NewTemplateRepository(cfg.Paths.TemplatesPath(), cfg.TemplateExt),
		generator: service.NewGenerationService(options, engine, cfg),
	}
}

func (a *application) serverDependencies() server.Dependencies {
	return server.Dependencies{
		Options:   a.options,
		Providers: a.providers,
		Templates: a.templates,
		Generator: a.generator,
	}
}
