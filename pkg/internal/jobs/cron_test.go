package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/jobs"
	"github.com/yeisme/listingvault/pkg/scheduler"
)

type fakeSweeper struct {
	minAge time.Duration
	calls  int
	err    error
}

func (f *fakeSweeper) SweepOrphans(_ context.Context, minAge time.Duration) (int, error) {
	f.calls++
	f.minAge = minAge

	return 3, f.err
}

func newScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()

	s, err := scheduler.NewScheduler()
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = s.Stop() })

	return s
}

// TestRegisterCronJobs 开关关闭时不注册，打开时使用默认表达式.
func TestRegisterCronJobs(t *testing.T) {
	s := newScheduler(t)
	sw := &fakeSweeper{}

	n, err := jobs.RegisterCronJobs(s, sw, configs.OrphanSweepConfig{MinAgeHours: 72})
	if err != nil || n != 0 || len(s.GetJobInfos()) != 0 {
		t.Fatalf("disabled: n=%d err=%v", n, err)
	}

	n, err = jobs.RegisterCronJobs(s, sw, configs.OrphanSweepConfig{Enabled: true, MinAgeHours: 72})
	if err != nil || n != 1 {
		t.Fatalf("enabled: n=%d err=%v", n, err)
	}

	info, err := s.GetJobInfoByName(jobs.JobOrphanSweep)
	if err != nil {
		t.Fatal(err)
	}

	if info.CronExpr != configs.DefaultOrphanSweepCron {
		t.Errorf("CronExpr = %q", info.CronExpr)
	}

	if _, err := jobs.RegisterCronJobs(nil, sw, configs.OrphanSweepConfig{}); err == nil {
		t.Error("nil scheduler should fail")
	}
}

// TestRunOrphanSweep 透传最小存活时间与错误.
func TestRunOrphanSweep(t *testing.T) {
	sw := &fakeSweeper{}

	if err := jobs.RunOrphanSweep(context.Background(), sw, 72*time.Hour); err != nil {
		t.Fatal(err)
	}

	if sw.calls != 1 || sw.minAge != 72*time.Hour {
		t.Errorf("sweeper = %+v", sw)
	}

	sw.err = errors.New("db down")
	if err := jobs.RunOrphanSweep(context.Background(), sw, time.Hour); !errors.Is(err, sw.err) {
		t.Errorf("err = %v", err)
	}
}
