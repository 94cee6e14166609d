/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/api"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/config"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/container"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the Techentia PDF Formatter API server.
The server will listen on the configured host and port,
and provide REST API interfaces for form management and PDF uploads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// 生产环境关闭 gin 的调试输出
		if config.IsProduction(cfg) {
			gin.SetMode(gin.ReleaseMode)
		}

		// 2. 初始化容器
		ctr, err := container.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 3. 初始化控制器
		formController := api.NewFormController(ctr.FormService())
		var uploadController *api.UploadController
		if ctr.UploadService() != nil {
			uploadController = api.NewUploadController(ctr.UploadService())
		}

		// 4. 日志配置热更新(仅在指定了配置文件时启用)
		if configPath != "" {
			watcher, err := config.WatchLog(configPath, func(logCfg config.LogConfig) {
				level, err := logrus.ParseLevel(logCfg.Level)
				if err != nil {
					log.Printf("Ignoring invalid log level %q from config reload", logCfg.Level)
					return
				}
				api.SetLoggerLevel(level)
				log.Printf("Log level updated to %s", level)
			})
			if err != nil {
				log.Printf("Log config watcher disabled: %v", err)
			} else {
				defer watcher.Close()
			}
		}

		// 5. 设置路由
		router := api.SetupRoutes(formController, uploadController, ctr.DB(), &cfg.CORS)

		// 6. 启动服务器
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		// 启动服务器(在 goroutine 中)
		go func() {
			log.Printf("Server starting on %s", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")

		// 优雅关闭
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}

		log.Println("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// 服务器配置标志
	serverCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
}
