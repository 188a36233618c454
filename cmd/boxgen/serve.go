package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lucksec/boxgen/internal/logger"
	"github.com/lucksec/boxgen/internal/server"
)

// serveCmd 启动 HTTP 服务
func serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 Web 服务",
		Example: `  # 使用配置文件中的监听地址
  boxgen serve

  # 指定监听地址
  boxgen serve --listen 0.0.0.0:5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				app.cfg.Server.Listen = listen
			}
			return runServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "HTTP 监听地址")
	return cmd
}

// runServer 阻塞运行，收到 SIGINT/SIGTERM 后优雅退出
func runServer(parent context.Context) error {
	log := logger.GetLogger()
	if parent == nil {
		parent = context.Background()
	}

	web := server.New(app.cfg, app.serverDependencies())

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- web.Listen(app.cfg.Server.Listen)
	}()
	log.Info("listening on http://%s", app.cfg.Server.Listen)

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		if err := web.ShutdownWithTimeout(app.cfg.Server.ShutdownTimeout); err != nil {
			log.Error("graceful shutdown failed: %v", err)
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}
