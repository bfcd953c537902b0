// Package jobs 注册业务定时任务：元数据与对象存储的后台对账.
package jobs

import (
	"context"
	"fmt"

	ctxPkg "github.com/yeisme/filevault/pkg/context"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/storage"
	"github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:20 对账（只报告，不改动）
//   - 每周日 04:00 对账并清理两侧孤儿
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	if err := sched.AddCron(baseCtx, JobReconcileReport, CronReconcileReport, func(ctx context.Context) {
		runReconcile(ctx, false)
	}); err != nil {
		return err
	}

	return sched.AddCron(baseCtx, JobReconcileRepair, CronReconcileRepair, func(ctx context.Context) {
		runReconcile(ctx, true)
	})
}

// runReconcile 执行一轮对账.
func runReconcile(ctx context.Context, repair bool) {
	l := log.Logger().With().Str("job", "vault.reconcile").Bool("repair", repair).Logger()

	svc := service.NewVaultService(ctx)

	report, err := svc.Reconcile(ctx, repair)
	if err != nil {
		l.Error().Err(err).Msg("reconcile failed")

		return
	}

	l.Info().
		Int("owners", report.Owners).
		Int("dangling_files", len(report.DanglingFiles)).
		Int("orphan_objects", len(report.OrphanObjects)).
		Int("removed_rows", report.RemovedRows).
		Int("removed_objects", report.RemovedObjects).
		Msg("reconcile finished")
}
