package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"CricBase/internal/adapter"
	"CricBase/internal/config"
	"CricBase/internal/observability"
	"CricBase/internal/repository"
	"CricBase/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type rootOptions struct {
	configPath string
}

// app 各子命令共用的配置、日志与数据库
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	db       *gorm.DB
	recorder observability.Recorder
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("日志级别无效，使用 info")
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// bootstrap 加载配置 → 日志 → 数据库
func bootstrap(opts *rootOptions) (*app, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log.Level)
	logger.WithField("config", opts.configPath).Info("配置文件加载成功")

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       openDatabase(&cfg.Database, logger),
		recorder: observability.NewOtelRecorder(logger),
	}, nil
}

func (a *app) ingestService() *service.IngestService {
	resolver := service.NewResolver(a.cfg.Ingest.Resolver, repository.NewReferenceRepository(a.db), a.logger)
	return service.NewIngestService(a.db, resolver, a.recorder, a.logger)
}

func (a *app) reconcileService() (*service.ReconcileService, error) {
	source, err := adapter.NewSummarySource(&a.cfg.Schedule, a.logger)
	if err != nil {
		return nil, err
	}
	return service.NewReconcileService(a.db, source, a.recorder, a.logger), nil
}

func writeJSON(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "cricbase",
		Short:         "T20 国际赛逐球数据入库、赛程对账与统计",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigFile, "配置文件路径")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newIngestCommand(opts))
	cmd.AddCommand(newReconcileCommand(opts))
	cmd.AddCommand(newVerifyCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}
