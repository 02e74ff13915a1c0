package tracker

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/services"
	"github.com/maxamas123/district-line-tracker/internal/structures"
	"github.com/maxamas123/district-line-tracker/internal/tracker/interfaces"
)

// Scheduler runs the background ticks: sampling the TfL status feed,
// persisting the store to disk and sweeping expired rate-limit entries.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	status      services.StatusServiceInterface
	limiter     providers.RateLimiterInterface
	fileManager *FileManager
	cron        *cron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = cron.New()

	s.cron.AddFunc("@every "+s.config.Tfl.PollInterval.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.Tfl.RequestTimeout)
		defer cancel()
		// Errors are logged inside Sample; a failed tick writes no snapshot.
		_ = s.status.Sample(ctx)
	})

	s.cron.AddFunc("@every "+s.config.Persistence.SaveInterval.String(), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc("@every "+s.config.RateLimit.CleanupInterval.String(), func() {
		s.limiter.Cleanup()
		s.logger.Debugf(providers.TypeApp, "Swept expired rate limit entries")
	})

	s.cron.Start()

	// Take the first feed sample immediately; the cron ticks only start after
	// a full poll interval.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.Tfl.RequestTimeout)
		defer cancel()
		_ = s.status.Sample(ctx)
	}()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
	if err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting reports to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, status services.StatusServiceInterface, limiter providers.RateLimiterInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		status:      status,
		limiter:     limiter,
		fileManager: fileManager,
	}
}
