// Package scheduler 基于 gocron/v2 的定时任务调度，记录每个任务的运行状态供调试接口展示.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yeisme/listingvault/pkg/log"
)

// refreshInterval 刷新 NextRun 的间隔.
const refreshInterval = 10 * time.Second

// JobStatus 任务状态.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled"
	StatusRunning   JobStatus = "running"
	StatusError     JobStatus = "error"
)

// JobFunc 任务函数，返回的错误记录在 JobInfo.Error.
type JobFunc func(ctx context.Context) error

// JobInfo 任务信息.
type JobInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CronExpr    string    `json:"cron_expr"`
	NextRun     time.Time `json:"next_run"`
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	Runs        int       `json:"runs"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Scheduler 定时任务调度器.
type Scheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job
	infos     map[string]*JobInfo
	names     map[uuid.UUID]string
	mu        sync.RWMutex
	logger    *zerolog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler 创建调度器，需要调用 Start 才会开始执行.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	sched := &Scheduler{
		scheduler: s,
		jobs:      make(map[string]gocron.Job),
		infos:     make(map[string]*JobInfo),
		names:     make(map[uuid.UUID]string),
		logger:    log.Logger(),
		ctx:       ctx,
		cancel:    cancel,
	}

	go sched.refresher()

	return sched, nil
}

// AddCron 按 cron 表达式注册任务，同一时间只运行一个实例.
func (s *Scheduler) AddCron(ctx context.Context, name, cronExpr string, job JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job with name %s already exists", name)
	}

	j, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(s.wrap(name, job), ctx),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}

	now := time.Now()
	nextRun, _ := j.NextRun()

	s.jobs[name] = j
	s.names[j.ID()] = name
	s.infos[name] = &JobInfo{
		ID:        j.ID().String(),
		Name:      name,
		CronExpr:  cronExpr,
		NextRun:   nextRun,
		Status:    StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.logger.Info().Str("job", name).Str("cron", cronExpr).Msg("Added cron job")

	return nil
}

// wrap 在任务前后更新状态并拦截 panic.
func (s *Scheduler) wrap(name string, job JobFunc) func(ctx context.Context) {
	return func(ctx context.Context) {
		started := time.Now()
		s.update(name, func(info *JobInfo) {
			info.Status = StatusRunning
			info.LastRun = started
		})

		var err error

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in job: %v", r)
			}

			s.finish(name, started, err)
		}()

		err = job(ctx)
	}
}

func (s *Scheduler) finish(name string, started time.Time, err error) {
	l := s.logger.With().Str("job", name).Dur("took", time.Since(started)).Logger()

	s.update(name, func(info *JobInfo) {
		info.Runs++
		if err != nil {
			info.Status = StatusError
			info.Error = err.Error()

			return
		}

		info.Status = StatusScheduled
		info.Error = ""
		info.LastSuccess = time.Now()
	})

	if err != nil {
		l.Error().Err(err).Msg("Job failed")
		return
	}

	l.Info().Msg("Job finished")
}

func (s *Scheduler) update(name string, fn func(info *JobInfo)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, ok := s.infos[name]; ok {
		fn(info)
		info.UpdatedAt = time.Now()
	}
}

// RunNow 立即执行一次任务，不影响原有计划.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job with name %s does not exist", name)
	}

	return j.RunNow()
}

// RemoveJobByName 移除任务.
func (s *Scheduler) RemoveJobByName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job with name %s does not exist", name)
	}

	if err := s.scheduler.RemoveJob(j.ID()); err != nil {
		return err
	}

	delete(s.jobs, name)
	delete(s.infos, name)
	delete(s.names, j.ID())

	s.logger.Info().Str("job", name).Msg("Removed job")

	return nil
}

// GetJobInfoByName 返回任务信息的副本.
func (s *Scheduler) GetJobInfoByName(name string) (JobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, exists := s.infos[name]
	if !exists {
		return JobInfo{}, fmt.Errorf("job with name %s does not exist", name)
	}

	return *info, nil
}

// GetJobInfos 按名称排序返回全部任务信息.
func (s *Scheduler) GetJobInfos() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.infos))
	for _, info := range s.infos {
		out = append(out, *info)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// Start 启动调度器.
func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", len(s.GetJobInfos())).Msg("Starting scheduler")
	s.scheduler.Start()
}

// Stop 停止调度器并等待运行中的任务结束.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("Stopping scheduler")
	s.cancel()

	return s.scheduler.Shutdown()
}

func (s *Scheduler) refresher() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

// refresh 同步 gocron 计算出的下次运行时间.
func (s *Scheduler) refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, j := range s.jobs {
		info := s.infos[name]
		if info == nil {
			continue
		}

		if next, err := j.NextRun(); err == nil {
			info.NextRun = next
		}
	}
}
