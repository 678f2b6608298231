package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yeisme/listingvault/pkg/scheduler"
)

func newScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()

	s, err := scheduler.NewScheduler()
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = s.Stop() })

	return s
}

func noop(context.Context) error { return nil }

// TestAddCron 注册、重复注册与非法表达式.
func TestAddCron(t *testing.T) {
	s := newScheduler(t)
	ctx := context.Background()

	if err := s.AddCron(ctx, "b.job", "30 3 * * *", noop); err != nil {
		t.Fatal(err)
	}

	if err := s.AddCron(ctx, "a.job", "0 * * * *", noop); err != nil {
		t.Fatal(err)
	}

	if err := s.AddCron(ctx, "a.job", "0 * * * *", noop); err == nil {
		t.Error("duplicate name should fail")
	}

	if err := s.AddCron(ctx, "bad", "not a cron", noop); err == nil {
		t.Error("invalid cron should fail")
	}

	infos := s.GetJobInfos()
	if len(infos) != 2 || infos[0].Name != "a.job" || infos[1].CronExpr != "30 3 * * *" {
		t.Fatalf("GetJobInfos = %+v", infos)
	}

	if infos[0].Status != scheduler.StatusScheduled || infos[0].ID == "" {
		t.Errorf("info = %+v", infos[0])
	}

	if err := s.RemoveJobByName("a.job"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetJobInfoByName("a.job"); err == nil {
		t.Error("removed job still present")
	}

	if err := s.RunNow("a.job"); err == nil {
		t.Error("RunNow on removed job should fail")
	}
}

// waitRuns 等待任务运行次数达到 n.
func waitRuns(t *testing.T, s *scheduler.Scheduler, name string, n int) scheduler.JobInfo {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		info, err := s.GetJobInfoByName(name)
		if err != nil {
			t.Fatal(err)
		}

		if info.Runs >= n {
			return info
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("job %s did not run %d times", name, n)

	return scheduler.JobInfo{}
}

// TestRunNow 立即执行并记录成功或失败.
func TestRunNow(t *testing.T) {
	s := newScheduler(t)
	ctx := context.Background()

	fail := true

	err := s.AddCron(ctx, "flaky", "0 0 1 1 *", func(context.Context) error {
		if fail {
			return errors.New("boom")
		}

		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.AddCron(ctx, "panics", "0 0 1 1 *", func(context.Context) error { panic("oops") }); err != nil {
		t.Fatal(err)
	}

	s.Start()

	if err := s.RunNow("flaky"); err != nil {
		t.Fatal(err)
	}

	info := waitRuns(t, s, "flaky", 1)
	if info.Status != scheduler.StatusError || info.Error != "boom" || !info.LastSuccess.IsZero() {
		t.Errorf("after failure: %+v", info)
	}

	fail = false

	if err := s.RunNow("flaky"); err != nil {
		t.Fatal(err)
	}

	info = waitRuns(t, s, "flaky", 2)
	if info.Status != scheduler.StatusScheduled || info.Error != "" || info.LastSuccess.IsZero() {
		t.Errorf("after success: %+v", info)
	}

	if err := s.RunNow("panics"); err != nil {
		t.Fatal(err)
	}

	info = waitRuns(t, s, "panics", 1)
	if info.Status != scheduler.StatusError || info.Error != "panic in job: oops" {
		t.Errorf("after panic: %+v", info)
	}
}
