package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var origins []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and background workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts, origins)
		},
	}

	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origins (default *)")
	return cmd
}

func serve(ctx context.Context, opts *rootOptions, origins []string) error {
	cfg := opts.cfg
	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	views := usecase.NewViewRegistry(a.sources(), a.store)
	manage := usecase.NewManageLeadsUseCase(a.remoteStore())
	leadHandler := handlers.NewLeadHandler(views, a.writer(), a.events(), manage, cfg.RateLimitPerMin)
	healthHandler := handlers.NewHealthHandler(buildVersion().GitVersion, a.healthChecks())

	if a.producer != nil {
		if cfg.Mail.Host != "" {
			sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
			w := queue.NewWorker(a.rabbit.Ch, mail.NewAssigneeNotifier(sender, cfg.AssigneeEmails))
			go func() {
				if err := w.Start(ctx, queue.QueueName); err != nil {
					a.log.WithError(err).Error("❌ Worker de eventos parou")
				}
			}()
		}
		if a.remote != nil {
			go worker.NewFollowUpWorker(a.remote, a.producer, cfg.FollowUpAfter, cfg.FollowUpInterval).Start(ctx)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handlers.NewRouter(leadHandler, healthHandler, origins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("🔥 Server rodando na porta %s", cfg.HTTPPort)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("⚠️ Encerrando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
