package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/deadlock-api/assets-api/internal/cache"
	"github.com/deadlock-api/assets-api/internal/config"
	"github.com/deadlock-api/assets-api/internal/logging"
	"github.com/deadlock-api/assets-api/internal/resolver"
	"github.com/deadlock-api/assets-api/internal/server"
	"github.com/deadlock-api/assets-api/internal/server/routes"
	"github.com/deadlock-api/assets-api/internal/version"
)

// shutdownTimeout 限定停服时等待在途请求与后台写入的时长。
const shutdownTimeout = 15 * time.Second

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["backends"] = cfg.Backends()
		fields["origin_auth"] = cfg.Origin.AuthMode()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 启动顺序：配置 → 各层后端 → 后台写入 → 分层读取 → Fiber server，
	// 所有请求共享同一组缓存实例与写入队列。
	tiers, err := buildBackends(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "%v\n", err)
		return 1
	}
	defer func() {
		if err := tiers.Close(); err != nil {
			logger.WithError(err).WithField("action", "backends_close").Warn("释放缓存连接失败")
		}
	}()

	writer := cache.NewWriter(cache.WriterOptions{
		Workers:   cfg.Background.Workers,
		QueueSize: cfg.Background.QueueSize,
		Timeout:   cfg.Background.Timeout.DurationValue(),
		Logger:    logger,
	})

	tiered := resolver.NewTiered(resolver.Options{
		Fast:   tiers.fast,
		Origin: tiers.origin,
		Writer: writer,
		TTL:    cfg.Global.CacheTTL.DurationValue(),
		Prefix: cfg.Global.KeyPrefix,
		Logger: logger,
	})
	pipeline := server.NewPipeline(server.PipelineOptions{
		Versions: resolver.NewVersionResolver(tiered),
		Edge:     tiers.edge,
		Writer:   writer,
		MaxAge:   cfg.Global.EdgeMaxAge.DurationValue(),
		Logger:   logger,
	})

	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Limiter:    tiers.limiter,
		ListenPort: cfg.Global.ListenPort,
		TrustProxy: cfg.Global.TrustProxy,
	})
	if err != nil {
		fmt.Fprintf(stdErr, "构建 HTTP 服务失败: %v\n", err)
		return 1
	}
	routes.Register(app, routes.Deps{Tiered: tiered, Pipeline: pipeline})
	routes.RegisterDiagnosticsRoutes(app, routes.StatusSource{
		Backends: cfg.Backends(),
		Writer:   writer,
	})

	fields := logging.BaseFields("startup", opts.configPath)
	fields["backends"] = cfg.Backends()
	fields["listen_port"] = cfg.Global.ListenPort
	fields["key_prefix"] = cfg.Global.KeyPrefix
	fields["origin_auth"] = cfg.Origin.AuthMode()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	serveErr := startHTTPServer(ctx, app, cfg.Global.ListenPort, logger)

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := writer.Close(drainCtx); err != nil {
		stats := writer.Stats()
		logger.WithError(err).WithFields(logrus.Fields{
			"action":    "writer_drain",
			"submitted": stats.Submitted,
			"completed": stats.Completed,
		}).Warn("后台写入未能在停服前完成")
	}

	if serveErr != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", serveErr)
		return 1
	}
	logger.WithField("action", "shutdown").Info("服务已停止")
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("assets-api", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 ASSETS_API_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("ASSETS_API_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

// startHTTPServer 监听端口直到 ctx 结束，随后等待在途请求完成。
func startHTTPServer(ctx context.Context, app *fiber.App, port int, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(fmt.Sprintf(":%d", port), fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.WithField("action", "shutdown").Info("收到退出信号，停止接收新请求")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
