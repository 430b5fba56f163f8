package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/iulianpascalau/metrics-explorer/commonGo"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/config"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/factory"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath      = "logs"
	logFilePrefix        = "explorer"
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB
	envServiceKey        = "SERVICE_KEY"
)

// appVersion is set at build time: -ldflags="-X main.appVersion=<version>"
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	explorerHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} [options]
OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
`

	log = logger.GetOrCreate("main")

	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "The logger `level(s)` as comma separated package:LEVEL pairs. For example *:INFO,store:DEBUG " +
			"logs the store package at DEBUG and everything else at INFO.",
		Value: "*:" + logger.LogInfo.String(),
	}
	logSaveFile = cli.BoolFlag{
		Name:  "log-save",
		Usage: "Also write the logs into daily rotated files under the working directory.",
	}
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "The `directory` holding the log files.",
		Value: "",
	}
	configFile = cli.StringFlag{
		Name:  "config",
		Usage: "The TOML configuration `file`.",
		Value: "./config.toml",
	}
	envFile = cli.StringFlag{
		Name:  "env-file",
		Usage: "The `file` holding " + envServiceKey + ". Optional when the variable is exported in the environment.",
		Value: "./.env",
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = explorerHelpTemplate
	app.Name = "Metrics explorer service"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "This is the entry point for starting the service that discovers, selects and arranges metrics on a grid"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		configFile,
		envFile,
	}

	app.Action = run

	defer func() {
		if fileLogging != nil {
			_ = fileLogging.Close()
		}
	}()

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	fileLogging, err = commonGo.AttachFileLogger(log, commonGo.ArgsFileLogger{
		Enabled:     ctx.GlobalBool(logSaveFile.Name),
		WorkingDir:  ctx.GlobalString(workingDirectory.Name),
		LogsPath:    defaultLogsPath,
		FilePrefix:  logFilePrefix,
		LifeSpan:    time.Second * logFileLifeSpanInSec,
		MaxSizeInMB: logFileLifeSpanInMB,
	})
	if err != nil {
		return err
	}

	log.Info("Starting metrics explorer service", "version", appVersion, "pid", os.Getpid())

	env, err := commonGo.ReadEnv(ctx.GlobalString(envFile.Name), envServiceKey)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(ctx.GlobalString(configFile.Name))
	if err != nil {
		return err
	}

	components, err := factory.NewComponentsHandler(env[envServiceKey], *cfg)
	if err != nil {
		return err
	}

	components.Start()

	log.Info("Metrics explorer service started", "address", components.GetServer().Address())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	<-sigs

	log.Info("Application closing, calling Close on all subcomponents...")

	components.Close()

	return nil
}
