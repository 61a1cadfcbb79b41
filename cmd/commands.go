package main

import (
	"errors"
	"fmt"

	"CricBase/internal/adapter"
	"CricBase/internal/adapter/schedule"
	"CricBase/internal/api"
	"CricBase/internal/model"
	"CricBase/internal/service"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			reconcile, err := a.reconcileService()
			if err != nil {
				a.logger.WithError(err).Warn("赛程源初始化失败，对账接口不可用")
			}
			syncService := service.NewSyncService(a.db, a.ingestService(), reconcile, a.logger)

			gin.SetMode(a.cfg.Server.Mode)
			r := gin.Default()
			// 注册pprof 方便调试和监测性能问题
			pprof.Register(r)
			a.logger.Infof("Gin运行模式: %s", a.cfg.Server.Mode)

			api.RegisterRoutes(r, a.db, syncService, a.cfg.Ingest.CricsheetDir, a.logger)

			port := a.cfg.Server.Port
			a.logger.Infof("服务启动成功，端口：%d", port)
			return r.Run(fmt.Sprintf(":%d", port))
		},
	}
}

func newIngestCommand(opts *rootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "把事件文件目录中尚未入库的比赛写入规范库",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = a.cfg.Ingest.CricsheetDir
			}
			report, err := a.ingestService().Run(cmd.Context(), dir)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "事件文件目录（默认取 ingest.cricsheet_dir）")
	return cmd
}

func newReconcileCommand(opts *rootOptions) *cobra.Command {
	var from, to, saveCache string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "按月份区间对账赛程与规范库，刷新待补录表",
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := model.ParsePeriod(from, to)
			if err != nil {
				return err
			}
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}

			var svc *service.ReconcileService
			if saveCache != "" {
				// 先把赛程抓下来存成缓存，再基于缓存对账，避免重复请求
				svc, err = a.cachedReconcileService(cmd, period, saveCache)
			} else {
				svc, err = a.reconcileService()
			}
			if err != nil {
				return err
			}
			report, err := svc.Run(cmd.Context(), period)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "起始月份 YYYY-MM")
	cmd.Flags().StringVar(&to, "to", "", "结束月份 YYYY-MM（默认等于 --from）")
	cmd.Flags().StringVar(&saveCache, "save-cache", "", "把抓取到的赛程写入该 YAML 文件")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func (a *app) cachedReconcileService(cmd *cobra.Command, period model.Period, path string) (*service.ReconcileService, error) {
	source, err := adapter.NewSummarySource(&a.cfg.Schedule, a.logger)
	if err != nil {
		return nil, err
	}
	summaries, err := source.FetchSummaries(cmd.Context(), period)
	if err != nil {
		return nil, err
	}
	if err := schedule.WriteCache(path, summaries); err != nil {
		return nil, err
	}
	a.logger.WithFields(logrus.Fields{"file": path, "count": len(summaries)}).Info("赛程缓存已写入")
	return service.NewReconcileService(a.db, schedule.NewFileSource(path, a.logger), a.recorder, a.logger), nil
}

var errIntegrityIssues = errors.New("完整性检查发现问题")

func newVerifyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "整库完整性检查，发现问题时以非零状态退出",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			syncService := service.NewSyncService(a.db, nil, nil, a.logger)
			issues, err := syncService.Verify(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), issues); err != nil {
				return err
			}
			if len(issues) > 0 {
				return fmt.Errorf("%w: %d 条", errIntegrityIssues, len(issues))
			}
			return nil
		},
	}
}

func newStatsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "球员生涯与单场汇总",
	}
	run := func(fn func(cmd *cobra.Command, svc *service.StatsService, id string) (any, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			out, err := fn(cmd, service.NewStatsService(a.db), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "batting <player_id>",
		Short: "击球统计",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, svc *service.StatsService, id string) (any, error) {
			return svc.Batting(cmd.Context(), id)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "bowling <player_id>",
		Short: "投球统计",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, svc *service.StatsService, id string) (any, error) {
			return svc.Bowling(cmd.Context(), id)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "match <match_id>",
		Short: "单场比赛汇总",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, svc *service.StatsService, id string) (any, error) {
			return svc.MatchSummary(cmd.Context(), id)
		}),
	})
	return cmd
}
