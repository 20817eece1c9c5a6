// file: internals/scheduler/scheduler.go
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"schoolfee_backend/internals/features/finance/ledgers/service"
	"schoolfee_backend/internals/features/finance/storage"
)

// Scheduler runs the nightly overdue sweep: every ledger entry past
// its due date with an open balance gets late fees accrued and its
// status re-derived.
type Scheduler struct {
	cron  *cron.Cron
	sweep *service.LedgerService
	spec  string
}

func New(store storage.Store, spec string) *Scheduler {
	if spec == "" {
		spec = "15 0 * * *" // 00:15, after the school day's books close
	}
	return &Scheduler{
		cron:  cron.New(),
		sweep: service.NewLedgerService(store),
		spec:  spec,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runSweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.WithField("spec", s.spec).Info("overdue sweep scheduled")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	started := time.Now()
	swept, err := s.sweep.SweepOverdue(ctx, started)
	if err != nil {
		log.WithError(err).Error("overdue sweep failed")
		return
	}
	log.WithFields(log.Fields{
		"transitioned": swept,
		"elapsed":      time.Since(started),
	}).Info("overdue sweep finished")
}
