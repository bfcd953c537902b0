// Package scheduler 提供定时任务调度功能，基于 gocron/v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yeisme/filevault/pkg/log"
)

// JobStatus 表示任务的状态.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled"
	StatusRunning   JobStatus = "running"
	StatusError     JobStatus = "error"
)

// JobInfo 定时任务的运行信息，用于监控.
type JobInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CronExpr    string    `json:"cron_expr"`
	NextRun     time.Time `json:"next_run"`
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
}

// Scheduler 定时任务调度器.
type Scheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job
	jobInfos  map[string]*JobInfo
	mu        sync.RWMutex
	logger    *zerolog.Logger
}

// NewScheduler 创建调度器实例.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: s,
		jobs:      make(map[string]gocron.Job),
		jobInfos:  make(map[string]*JobInfo),
		logger:    log.Logger(),
	}, nil
}

// AddCron 按 cron 表达式注册任务. 同名任务只能注册一次.
func (s *Scheduler) AddCron(ctx context.Context, name, cronExpr string, job func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job with name %s already exists", name)
	}

	wrapped := func(ctx context.Context) {
		s.setStatus(name, StatusRunning, "")

		defer func() {
			if r := recover(); r != nil {
				s.setStatus(name, StatusError, fmt.Sprintf("panic in job: %v", r))
				s.logger.Error().Str("job", name).Interface("panic", r).Msg("job panicked")
			}
		}()

		job(ctx)

		s.mu.Lock()
		if info := s.jobInfos[name]; info != nil {
			info.Status = StatusScheduled
			info.Error = ""
			info.LastSuccess = time.Now()
		}
		s.mu.Unlock()
	}

	j, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(wrapped, ctx),
		gocron.WithName(name),
		gocron.WithEventListeners(
			gocron.AfterJobRuns(func(_ uuid.UUID, jobName string) {
				s.mu.Lock()
				defer s.mu.Unlock()

				if info, exists := s.jobInfos[jobName]; exists {
					info.LastRun = time.Now()

					if next, err := s.jobs[jobName].NextRun(); err == nil {
						info.NextRun = next
					}
				}
			}),
		),
	)
	if err != nil {
		return err
	}

	nextRun, _ := j.NextRun()

	s.jobs[name] = j
	s.jobInfos[name] = &JobInfo{
		ID:       j.ID().String(),
		Name:     name,
		CronExpr: cronExpr,
		NextRun:  nextRun,
		Status:   StatusScheduled,
	}

	s.logger.Info().Str("job", name).Str("cron", cronExpr).Msg("added cron job")

	return nil
}

// Start 启动调度器.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("starting scheduler")
	s.scheduler.Start()
}

// Stop 停止调度器并等待在跑任务结束.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("stopping scheduler")

	return s.scheduler.Shutdown()
}

// GetJobInfos 返回所有任务的运行信息.
func (s *Scheduler) GetJobInfos() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]JobInfo, 0, len(s.jobInfos))
	for _, info := range s.jobInfos {
		jobs = append(jobs, *info)
	}

	return jobs
}

func (s *Scheduler) setStatus(name string, status JobStatus, errorMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, exists := s.jobInfos[name]; exists {
		info.Status = status
		info.Error = errorMsg
	}
}
