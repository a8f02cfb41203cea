package game

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"meshagotchi/internal/game/interfaces"
	"meshagotchi/internal/providers"
	"meshagotchi/internal/structures"
	"meshagotchi/internal/transport"
)

// NewOpsLock builds the lock shared by the command engine and the sweep
// scheduler. Whoever holds it runs its whole unit before the other side
// can touch any pet.
func NewOpsLock() *sync.Mutex {
	return &sync.Mutex{}
}

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	notifier    *Notifier
	fileManager *FileManager
	transport   transport.TransportInterface
	cron        *gron.Cron
	ops         *sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.ops.Lock()
		defer s.ops.Unlock()

		start := time.Now()
		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		s.metrics.ObservePersistenceDuration(time.Since(start))
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(s.config.Notifier.SweepInterval), func() {
		s.runSweep(time.Now())
	})

	s.cron.Start()
}

// runSweep advances every pet and pushes the resulting notifications out
// over the mesh, one chunked frame set per pet.
func (s *Scheduler) runSweep(now time.Time) {
	s.ops.Lock()
	defer s.ops.Unlock()

	for _, notification := range s.notifier.Sweep(now) {
		frames := Chunk([]string{notification.Text}, s.config.Transport.MaxFrameLen)
		for _, frame := range frames {
			if err := s.transport.Send(notification.NodeID, frame); err != nil {
				s.logger.Errorf(providers.TypeNotify, "Notification to %s failed: %s", notification.NodeID, err)
				break
			}
		}
	}
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
	s.ops.Lock()
	defer s.ops.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting pets to file...")
	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, notifier *Notifier, fileManager *FileManager, trans transport.TransportInterface, ops *sync.Mutex) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		notifier:    notifier,
		fileManager: fileManager,
		transport:   trans,
		ops:         ops,
	}
}
