package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/usamakj/auth-app-be/internal/services"
)

// Maintenance runs the periodic retention job that prunes old audit events.
type Maintenance struct {
	eventSvc  services.EventServiceProvider
	retention time.Duration
	cron      *cron.Cron
}

// NewMaintenance creates a new maintenance scheduler. Events older than
// retention are removed on each run.
func NewMaintenance(eventSvc services.EventServiceProvider, retention time.Duration) *Maintenance {
	return &Maintenance{
		eventSvc:  eventSvc,
		retention: retention,
		cron:      cron.New(),
	}
}

// Run registers the retention job and starts the cron loop. It prunes once
// immediately so a long-stopped instance catches up on start.
func (m *Maintenance) Run() error {
	m.pruneEvents()

	if _, err := m.cron.AddFunc("@hourly", m.pruneEvents); err != nil {
		return err
	}
	m.cron.Start()
	log.Info().Dur("retention", m.retention).Msg("Started event retention job")
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (m *Maintenance) Stop() {
	<-m.cron.Stop().Done()
}

func (m *Maintenance) pruneEvents() {
	cutoff := time.Now().UTC().Add(-m.retention)
	removed, err := m.eventSvc.PruneEventsBefore(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune old events")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("Pruned old events")
	}
}
