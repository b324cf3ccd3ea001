package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sketch-hub/sketch-hub/internal/config"
	"github.com/sketch-hub/sketch-hub/internal/logging"
	"github.com/sketch-hub/sketch-hub/internal/server"
	"github.com/sketch-hub/sketch-hub/internal/server/routes"
	"github.com/sketch-hub/sketch-hub/internal/sketch"
	"github.com/sketch-hub/sketch-hub/internal/toolchain"
	"github.com/sketch-hub/sketch-hub/internal/tree"
	"github.com/sketch-hub/sketch-hub/internal/version"
)

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
		fields["sketchbook"] = cfg.Global.SketchbookPath
		fields["libraries"] = cfg.Global.LibrariesPath
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	resolver, err := tree.NewResolver(cfg.Global.SketchbookPath, cfg.Global.LibrariesPath)
	if err != nil {
		fmt.Fprintf(stdErr, "构建路径解析器失败: %v\n", err)
		return 1
	}

	// CLI 启动遵循“配置 → 解析器 → 目录缓存全量扫描 → Fiber server”顺序，
	// 保证所有请求共享同一份缓存实例与路由。
	svc := sketch.NewService(tree.NewCache(), resolver, logger)
	if err := svc.Warm(); err != nil {
		fmt.Fprintf(stdErr, "构建目录缓存失败: %v\n", err)
		return 1
	}

	runner := toolchain.NewExecRunner(cfg.Toolchain.CLIPath, cfg.Toolchain.Timeout.DurationValue())
	tools := toolchain.NewClient(runner, cfg.Toolchain.FQBN, cfg.Global.SketchbookPath, logger)

	fields := logging.BaseFields("startup", opts.configPath)
	fields["sketchbook"] = cfg.Global.SketchbookPath
	fields["libraries"] = cfg.Global.LibrariesPath
	fields["listen_port"] = cfg.Global.ListenPort
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, svc, tools, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("sketch-hub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 SKETCH_HUB_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("SKETCH_HUB_CONFIG")
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

func startHTTPServer(cfg *config.Config, svc *sketch.Service, tools *toolchain.Client, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{Logger: logger})
	if err != nil {
		return err
	}
	routes.Register(app, routes.Deps{
		Logger:    logger,
		Service:   svc,
		Toolchain: tools,
	})

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
