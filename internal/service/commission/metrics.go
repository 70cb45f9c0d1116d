package commission

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Alijeyrad/gymdesk_backend/internal/service/commission"

const (
	outcomeCreated          = "created"
	outcomeAlreadyProcessed = "already_processed"
	outcomeIneligible       = "ineligible"
	outcomeError            = "error"
)

type metrics struct {
	created      metric.Int64Counter
	calculations metric.Int64Counter
	finalizeRuns metric.Int64Counter
}

// newMetrics binds to the global meter provider, a no-op until telemetry is
// initialised.
func newMetrics() *metrics {
	m := otel.Meter(meterName)
	created, _ := m.Int64Counter("gym_commissions_created_total",
		metric.WithDescription("Commission rows written, by category and tier"))
	calculations, _ := m.Int64Counter("gym_commission_calculations_total",
		metric.WithDescription("Renewal commission calculations, by outcome"))
	finalizeRuns, _ := m.Int64Counter("gym_commission_finalize_runs_total",
		metric.WithDescription("Month-end finalize runs that wrote awards"))
	return &metrics{created: created, calculations: calculations, finalizeRuns: finalizeRuns}
}

func (m *metrics) commissionCreated(ctx context.Context, k Kind) {
	m.created.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", string(k.Category)),
		attribute.String("tier", k.Tier),
	))
}

func (m *metrics) calculation(ctx context.Context, outcome string) {
	m.calculations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
