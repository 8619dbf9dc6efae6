package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sentimentlab/topic-pulse/internal/config"
	"github.com/sentimentlab/topic-pulse/internal/models"
	"github.com/sentimentlab/topic-pulse/internal/notifications"
)

// BatchRunner is the pipeline surface the scheduler drives.
type BatchRunner interface {
	Run(ctx context.Context) *models.RunReport
}

// Service schedules recurring batch runs.
type Service struct {
	config   *config.Config
	pipeline BatchRunner
	notifier notifications.NotificationInterface
	cron     *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, pipeline BatchRunner, notifier notifications.NotificationInterface) *Service {
	return &Service{
		config:   cfg,
		pipeline: pipeline,
		notifier: notifier,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled batch runs.
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(s.config.PipelineSchedule, func() {
		logrus.Info("Starting scheduled batch run")
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with schedule %q", s.config.PipelineSchedule)
	return nil
}

// RunOnce executes one batch run and sends the report through the configured
// notification channels. Notification failures never fail the run.
func (s *Service) RunOnce(ctx context.Context) *models.RunReport {
	report := s.pipeline.Run(ctx)

	if err := s.notifier.SendRunReport(report); err != nil {
		logrus.Errorf("Failed to send run report: %v", err)
	}

	return report
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
