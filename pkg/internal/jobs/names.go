package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobReconcileReport = "vault.reconcile.report"
	JobReconcileRepair = "vault.reconcile.repair"
)

// Cron 表达式常量.
const (
	// 每天 03:20 报告两侧孤儿
	CronReconcileReport = "20 3 * * *"
	// 每周日 04:00 实际清理
	CronReconcileRepair = "0 4 * * 0"
)
