package cmd

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" // 引入 pprof 用于性能分析
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasyAuctionHouse/src/api/router"
	"github.com/ProjectsTask/EasyAuctionHouse/src/app"
	"github.com/ProjectsTask/EasyAuctionHouse/src/config"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xzap"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/sweeper"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
)

// DaemonCmd 定义了 "daemon" 子命令
// 启动拍卖行服务: 过期清算后台任务 + HTTP API
var DaemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "run auction house server.",
	Long:  "run auction house server.",
	Run: func(cmd *cobra.Command, args []string) {
		// 使用 WaitGroup 等待所有 goroutine 完成
		wg := &sync.WaitGroup{}
		wg.Add(1)

		// 创建一个带有取消功能的 Context，用于优雅退出
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 退出信号通知chan，用于接收服务启动或运行过程中的错误
		onExit := make(chan error, 1)

		go func() {
			defer wg.Done()

			// 1. 读取和解析配置文件 (config.toml)
			cfg, err := config.UnmarshalConfig(cfgFile)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to unmarshal config", zap.Error(err))
				onExit <- err
				return
			}

			// 2. 初始化日志模块
			_, err = xzap.SetUp(cfg.Log)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to set up logger", zap.Error(err))
				onExit <- err
				return
			}

			xzap.WithContext(ctx).Info("auction house server start", zap.Any("config", cfg))

			// 3. 初始化服务上下文 (DB, Redis, 三个托管池, 标记缓冲)
			// 背包协作方: 单机部署用进程内实现, 接入游戏服时在这里替换
			serverCtx, err := svc.NewServiceContext(cfg, world.NewMemoryInventory())
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to create server context", zap.Error(err))
				onExit <- err
				return
			}

			// 4. 启动过期清算后台任务
			sweeper.New(ctx, serverCtx).Start()

			// 5. 如果配置开启了 Pprof，启动 HTTP 服务进行性能监控
			if cfg.Monitor.PprofEnable {
				go func() {
					_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", cfg.Monitor.PprofPort), nil)
				}()
			}

			// 6. 初始化 Gin 路由并启动 HTTP 服务 (阻塞)
			r := router.NewRouter(serverCtx)
			platform, err := app.NewPlatform(cfg, r, serverCtx)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to create platform", zap.Error(err))
				onExit <- err
				return
			}
			platform.Start()
		}()

		// 监听 SIGINT (Ctrl+C) 和 SIGTERM (kill) 信号，实现优雅退出
		onSignal := make(chan os.Signal, 1)
		signal.Notify(onSignal, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-onSignal:
			switch sig {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM:
				cancel() // 取消 Context，通知清算任务退出
				xzap.WithContext(ctx).Info("Exit by signal", zap.String("signal", sig.String()))
			}
		case err := <-onExit:
			cancel()
			xzap.WithContext(ctx).Error("Exit by error", zap.Error(err))
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(DaemonCmd)
}
