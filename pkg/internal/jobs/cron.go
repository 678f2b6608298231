// Package jobs 注册业务定时任务.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/service"
	"github.com/yeisme/listingvault/pkg/log"
	"github.com/yeisme/listingvault/pkg/scheduler"
)

// Sweeper 清理未被引用的图片.
type Sweeper interface {
	SweepOrphans(ctx context.Context, minAge time.Duration) (int, error)
}

var _ Sweeper = (*service.ImageService)(nil)

// RegisterCronJobs 按配置注册定时任务，返回注册的任务数.
//   - image.orphan_sweep: 清理超过最小存活时间且未被房源或横幅引用的图片
func RegisterCronJobs(sched *scheduler.Scheduler, images Sweeper, cfg configs.OrphanSweepConfig) (int, error) {
	if sched == nil {
		return 0, errors.New("scheduler is nil")
	}

	if !cfg.Enabled {
		log.Logger().Info().Str("job", JobOrphanSweep).Msg("job disabled")
		return 0, nil
	}

	if images == nil {
		return 0, errors.New("image service is nil")
	}

	cron := cfg.Cron
	if cron == "" {
		cron = configs.DefaultOrphanSweepCron
	}

	minAge := time.Duration(cfg.MinAgeHours) * time.Hour

	l := log.Logger().With().Str("job", JobOrphanSweep).Logger()
	baseCtx := l.WithContext(context.Background())

	if err := sched.AddCron(baseCtx, JobOrphanSweep, cron, func(ctx context.Context) error {
		return RunOrphanSweep(ctx, images, minAge)
	}); err != nil {
		return 0, err
	}

	return 1, nil
}

// RunOrphanSweep 执行一次图片清理.
func RunOrphanSweep(ctx context.Context, images Sweeper, minAge time.Duration) error {
	l := zerolog.Ctx(ctx)

	n, err := images.SweepOrphans(ctx, minAge)
	if err != nil {
		return err
	}

	if n > 0 {
		l.Info().Int("deleted", n).Dur("min_age", minAge).Msg("orphan images removed")
	}

	return nil
}
