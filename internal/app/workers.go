package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/events"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc         fx.Lifecycle
	NC         *nats.Conn
	Cfg        *config.Config
	Commission commission.Service
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Info("nats disabled, receipt events are handled in process")
		return
	}

	var sub *nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			sub, err = events.SubscribeCommissionWorker(
				p.NC,
				p.Cfg.Nats.SubjectPrefix,
				p.Commission,
				time.Duration(p.Cfg.Commission.DispatchTimeoutSeconds)*time.Second,
			)
			return err
		},
		OnStop: func(ctx context.Context) error {
			// Connection drain is handled by ProvideNatsClient.
			if sub != nil {
				return sub.Unsubscribe()
			}
			return nil
		},
	})
}
