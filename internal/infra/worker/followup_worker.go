package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

// StaleLeadFinder é satisfeito por database.LeadRepository.
type StaleLeadFinder interface {
	FindStaleByStatus(ctx context.Context, status entity.Status, olderThan time.Time) ([]entity.Lead, error)
}

type FollowUpPublisher interface {
	PublishFollowUpDue(ctx context.Context, lead entity.Lead) error
}

// FollowUpWorker procura leads em Follow-Up parados há mais de followUpAfter
// e publica lead.followup_due para cada um.
type FollowUpWorker struct {
	finder        StaleLeadFinder
	publisher     FollowUpPublisher
	followUpAfter time.Duration
	tickInterval  time.Duration
	now           func() time.Time
	log           *logrus.Entry

	// notified guarda o updated_at já avisado por lead. Só um lead alterado desde então é avisado de novo.
	notified map[string]time.Time
}

func NewFollowUpWorker(finder StaleLeadFinder, publisher FollowUpPublisher, followUpAfter, tickInterval time.Duration) *FollowUpWorker {
	if followUpAfter <= 0 {
		followUpAfter = 72 * time.Hour
	}
	if tickInterval <= 0 {
		tickInterval = time.Hour
	}
	return &FollowUpWorker{
		finder:        finder,
		publisher:     publisher,
		followUpAfter: followUpAfter,
		tickInterval:  tickInterval,
		now:           time.Now,
		log:           logger.For("followup_worker"),
		notified:      make(map[string]time.Time),
	}
}

func (w *FollowUpWorker) Start(ctx context.Context) {
	w.log.WithField("after", w.followUpAfter).Info("🕒 Follow-up worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("⚠️ Follow-up worker encerrado")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// scan devolve quantos eventos foram publicados.
func (w *FollowUpWorker) scan(ctx context.Context) int {
	cutoff := w.now().Add(-w.followUpAfter)

	leads, err := w.finder.FindStaleByStatus(ctx, entity.StatusFollowUp, cutoff)
	if err != nil {
		w.log.WithError(err).Error("❌ Erro ao buscar leads parados")
		return 0
	}
	metrics.SetFollowUpsDue(len(leads))

	seen := make(map[string]time.Time, len(leads))
	published := 0
	for _, lead := range leads {
		key := lead.ID
		if last, ok := w.notified[key]; ok && last.Equal(lead.UpdatedAt) {
			seen[key] = last
			continue
		}
		if err := w.publisher.PublishFollowUpDue(ctx, lead); err != nil {
			metrics.RecordEventError("publish")
			w.log.WithError(err).WithField("lead_id", lead.ID).Warn("⚠️ Falha ao publicar follow-up")
			continue
		}
		seen[key] = lead.UpdatedAt
		published++
	}
	// Leads que saíram da busca (mudaram de status ou foram apagados) deixam de ser lembrados.
	w.notified = seen

	if published > 0 {
		w.log.Infof("✅ %d follow-up(s) publicados", published)
	}
	return published
}
