package jobs

// 任务名称.
const (
	JobOrphanSweep = "image.orphan_sweep"
)
