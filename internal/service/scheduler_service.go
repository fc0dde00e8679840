package service

import (
	"context"

	"stock-strategy/config"
	"stock-strategy/pkg/logger"
	"stock-strategy/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService drives the periodic work: watchlist scans and open-position
// monitoring on the configured cron schedule.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

type schedulerService struct {
	cfg              *config.Config
	log              *logger.Logger
	cron             *cron.Cron
	scannerService   ScannerService
	portfolioService PortfolioService
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	scannerService ScannerService,
	portfolioService PortfolioService,
) SchedulerService {
	return &schedulerService{
		cfg:              cfg,
		log:              log,
		cron:             cron.New(),
		scannerService:   scannerService,
		portfolioService: portfolioService,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Scanner.CronSpec, func() {
		// A tick can fire while shutdown is already draining the cron.
		if !utils.ShouldContinue(ctx, s.log) {
			return
		}

		runCtx, cancel := context.WithTimeout(ctx, s.cfg.Scanner.Timeout)
		defer cancel()

		if _, err := s.scannerService.Scan(runCtx); err != nil {
			s.log.ErrorContextWithAlert(runCtx, "Scheduled scan failed", logger.ErrorField(err))
		}
		if err := s.portfolioService.MonitorPositions(runCtx); err != nil {
			s.log.ErrorContextWithAlert(runCtx, "Position monitoring failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Scheduler started", logger.StringField("cron_spec", s.cfg.Scanner.CronSpec))
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Scheduler stopped")
}
