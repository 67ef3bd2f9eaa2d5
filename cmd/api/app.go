package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/supabase"
	"github.com/xavierca1/ligue-crm/internal/infra/localstore"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// remoteBackend é o que os dois backends remotos oferecem.
type remoteBackend interface {
	usecase.RemoteLeadStore
	worker.StaleLeadFinder
}

// app junta as dependências de infraestrutura montadas a partir da config.
type app struct {
	cfg      *config.Config
	store    *localstore.Store
	db       *sql.DB
	remote   remoteBackend
	ping     func(ctx context.Context) error
	rabbit   *queue.RabbitMQ
	producer *queue.RabbitMQProducer
	log      *logrus.Entry
}

// newApp abre o armazenamento local e o backend remoto. withEvents conecta no RabbitMQ
// quando configurado.
func newApp(ctx context.Context, cfg *config.Config, withEvents bool) (*app, error) {
	a := &app{cfg: cfg, log: logger.For("app")}

	store, err := localstore.Open(cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}
	a.store = store

	switch cfg.RemoteBackend {
	case config.BackendPostgres:
		db, err := database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.db = db
		if err := database.EnsureSchema(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
		a.remote = database.NewLeadRepository(db)
		a.ping = db.PingContext
	case config.BackendSupabase:
		client := supabase.NewClient(supabase.Options{
			BaseURL:      cfg.SupabaseURL,
			APIKey:       cfg.SupabaseKey,
			RetryMax:     cfg.RemoteRetryMax,
			RetryWaitMax: cfg.RemoteRetryWaitMax,
		})
		a.remote = client
		a.ping = client.Ping
	}

	if cfg.FormTarget == config.SourceRemote && a.remote == nil {
		a.Close()
		return nil, errors.New("leads_form_target=remote requer um backend remoto configurado")
	}

	if withEvents && cfg.RabbitMQURL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			a.log.WithError(err).Warn("⚠️ RabbitMQ indisponível, seguindo sem eventos")
		} else {
			a.rabbit = rabbit
			a.producer = queue.NewProducer(rabbit.Ch)
		}
	}

	a.log.WithFields(logrus.Fields{
		"local":   cfg.LocalDBPath,
		"remote":  cfg.RemoteBackend,
		"sources": cfg.Sources,
		"events":  a.producer != nil,
	}).Info("🔌 Dependências prontas")
	return a, nil
}

// remoteStore devolve nil (interface nula) quando não há backend remoto.
func (a *app) remoteStore() usecase.RemoteLeadStore {
	if a.remote == nil {
		return nil
	}
	return a.remote
}

func (a *app) events() usecase.LeadEventPublisher {
	if a.producer == nil {
		return nil
	}
	return a.producer
}

func (a *app) sources() []usecase.LeadSource {
	return usecase.BuildSources(a.cfg.Sources, a.store, a.remoteStore())
}

func (a *app) writer() usecase.LeadWriter {
	if a.cfg.FormTarget == config.SourceRemote {
		return usecase.NewRemoteWriter(a.remote)
	}
	return usecase.NewLocalWriter(a.store)
}

func (a *app) healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{
		"sqlite":   a.store.Ping,
		"remote":   nil,
		"rabbitmq": nil,
	}
	if a.ping != nil {
		checks["remote"] = a.ping
	}
	if a.rabbit != nil {
		checks["rabbitmq"] = func(context.Context) error {
			if !a.rabbit.Healthy() {
				return fmt.Errorf("connection closed")
			}
			return nil
		}
	}
	return checks
}

func (a *app) Close() {
	if a.rabbit != nil {
		a.rabbit.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
