// Package app 装配并启动 HTTP 服务：配置、日志、存储、中间件、路由与定时任务.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/filevault/pkg/api"
	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/jobs"
	"github.com/yeisme/filevault/pkg/internal/storage"
	"github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/metrics"
	"github.com/yeisme/filevault/pkg/middleware"
	"github.com/yeisme/filevault/pkg/scheduler"
)

// App 持有装配完成的引擎与运行所需的句柄.
type App struct {
	Engine  *gin.Engine
	config  *configs.AppConfig
	manager *storage.Manager
	sched   *scheduler.Scheduler
}

// NewApp 初始化应用. 任何一步失败都直接退出进程.
func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	if !config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Default(config, manager)...)

	api.RegisterGroup(engine)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		fmt.Printf("Error registering cron jobs: %v\n", err)
		os.Exit(1)
	}

	return &App{
		Engine:  engine,
		config:  config,
		manager: manager,
		sched:   sched,
	}
}

// Run 启动定时任务与 HTTP 监听，阻塞直到服务退出.
func (a *App) Run() error {
	a.sched.Start()

	defer func() {
		if err := a.sched.Stop(); err != nil {
			log.Logger().Warn().Err(err).Msg("scheduler shutdown failed")
		}

		if err := a.manager.Close(); err != nil {
			log.Logger().Warn().Err(err).Msg("storage shutdown failed")
		}
	}()

	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}
