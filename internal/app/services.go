package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/events"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/auth"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/member"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/receipt"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/settlement"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/staff"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/user"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/gymdesk_backend/pkg/email"
	pasetotoken "github.com/Alijeyrad/gymdesk_backend/pkg/paseto"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvidePasetoManager,
		ProvideUserService,
		ProvideAuthService,
		ProvideStaffService,
		ProvideMemberService,
		ProvideCommissionService,
		ProvideInProcessDispatcher,
		ProvideCommissionTrigger,
		ProvideReceiptService,
		ProvideSettlementService,
	),
)

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}

func ProvideUserService(db *gorm.DB, cfg *config.Config, authz authorize.IAuthorization) user.Service {
	return user.New(db, cfg, authz)
}

func ProvideAuthService(
	db *gorm.DB,
	rdb redis.UniversalClient,
	paseto *pasetotoken.Manager,
	authz authorize.IAuthorization,
	cfg *config.Config,
) auth.Service {
	return auth.New(db, rdb, paseto, authz, cfg)
}

func ProvideStaffService(db *gorm.DB, cfg *config.Config, calc commission.Service) staff.Service {
	return staff.New(db, cfg.Gym.PhoneRegion, calc)
}

func ProvideMemberService(db *gorm.DB, cfg *config.Config) member.Service {
	return member.New(db, cfg.Gym.PhoneRegion)
}

func ProvideCommissionService(db *gorm.DB, cfg *config.Config, cache commission.ReportCache) (commission.Service, error) {
	return commission.New(db, cfg, cache)
}

// ProvideInProcessDispatcher waits for in-flight calculations on shutdown.
func ProvideInProcessDispatcher(lc fx.Lifecycle, calc commission.Service, cfg *config.Config) *events.InProcess {
	d := events.NewInProcess(calc, time.Duration(cfg.Commission.DispatchTimeoutSeconds)*time.Second)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("waiting for commission calculations")
			return d.Wait(ctx)
		},
	})
	return d
}

// ProvideCommissionTrigger publishes receipt events on NATS when it is
// configured and calculates in process otherwise.
func ProvideCommissionTrigger(nc *nats.Conn, inproc *events.InProcess, cfg *config.Config) receipt.CommissionTrigger {
	if nc == nil {
		return inproc
	}
	return events.NewPublisher(nc, cfg.Nats.SubjectPrefix, inproc)
}

func ProvideReceiptService(db *gorm.DB, trigger receipt.CommissionTrigger, cfg *config.Config) receipt.Service {
	return receipt.New(db, trigger, cfg.Location())
}

func ProvideSettlementService(db *gorm.DB, sender email.Sender, calc commission.Service, cfg *config.Config) settlement.Service {
	return settlement.New(db, sender, cfg.Gym.Name, cfg.Gym.Currency, calc)
}
