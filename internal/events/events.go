// Package events carries "receipt created" notifications to the commission
// pipeline, over NATS when it is configured and in process otherwise.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
	"github.com/Alijeyrad/gymdesk_backend/pkg/reqctx"
)

const receiptCreated = "receipt.created"

// Calculator is the slice of commission.Service the trigger needs.
type Calculator interface {
	Calculate(ctx context.Context, receiptID uint) (*commission.CalculationResult, error)
}

// ReceiptCreatedSubject is "<prefix>.receipt.created.<id>".
func ReceiptCreatedSubject(prefix string, receiptID uint) string {
	return fmt.Sprintf("%s.%s.%d", prefix, receiptCreated, receiptID)
}

// ReceiptCreatedWildcard matches every receipt created subject.
func ReceiptCreatedWildcard(prefix string) string {
	return prefix + "." + receiptCreated + ".*"
}

// ParseReceiptCreated extracts the receipt id from a subject.
func ParseReceiptCreated(prefix, subject string) (uint, bool) {
	rest, ok := strings.CutPrefix(subject, prefix+"."+receiptCreated+".")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ---------------------------------------------------------------------------
// In-process
// ---------------------------------------------------------------------------

// InProcess runs the commission calculation on a goroutine bounded by timeout.
type InProcess struct {
	calc    Calculator
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewInProcess(calc Calculator, timeout time.Duration) *InProcess {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &InProcess{calc: calc, timeout: timeout}
}

func (p *InProcess) ReceiptCreated(ctx context.Context, receiptID uint) {
	// The request may finish before the calculation does.
	base := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(base, p.timeout)
		defer cancel()
		runCalculation(ctx, p.calc, receiptID)
	}()
}

// Wait blocks until in-flight calculations finish or ctx is done.
func (p *InProcess) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ---------------------------------------------------------------------------
// NATS
// ---------------------------------------------------------------------------

// Publisher announces receipts on NATS. When a publish fails the event is
// handed to fallback so the commission is not lost.
type Publisher struct {
	nc       *nats.Conn
	prefix   string
	fallback *InProcess
}

func NewPublisher(nc *nats.Conn, prefix string, fallback *InProcess) *Publisher {
	return &Publisher{nc: nc, prefix: prefix, fallback: fallback}
}

func (p *Publisher) ReceiptCreated(ctx context.Context, receiptID uint) {
	subject := ReceiptCreatedSubject(p.prefix, receiptID)
	msg := nats.NewMsg(subject)
	msg.Data = []byte(strconv.FormatUint(uint64(receiptID), 10))
	if rid := reqctx.RequestIDFromContext(ctx); rid != "" {
		msg.Header.Set("X-Request-ID", rid)
	}

	if err := p.nc.PublishMsg(msg); err != nil {
		slog.WarnContext(ctx, "publish receipt event failed, calculating in process",
			"receipt_id", receiptID,
			"error", err,
		)
		if p.fallback != nil {
			p.fallback.ReceiptCreated(ctx, receiptID)
		}
	}
}

// SubscribeCommissionWorker consumes receipt events with a queue group so
// each receipt is calculated by one replica.
func SubscribeCommissionWorker(nc *nats.Conn, prefix string, calc Calculator, timeout time.Duration) (*nats.Subscription, error) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	sub, err := nc.QueueSubscribe(ReceiptCreatedWildcard(prefix), "commission", func(msg *nats.Msg) {
		id, ok := ParseReceiptCreated(prefix, msg.Subject)
		if !ok {
			slog.Warn("commission_worker: bad subject", "subject", msg.Subject)
			return
		}

		ctx := context.Background()
		if rid := msg.Header.Get("X-Request-ID"); rid != "" {
			ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: rid, RequestedAt: time.Now()})
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		runCalculation(ctx, calc, id)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", ReceiptCreatedWildcard(prefix), err)
	}
	slog.Info("commission_worker: started")
	return sub, nil
}

// runCalculation never fails the caller; the receipt already exists.
func runCalculation(ctx context.Context, calc Calculator, receiptID uint) {
	res, err := calc.Calculate(ctx, receiptID)
	if err != nil {
		slog.ErrorContext(ctx, "commission calculation failed",
			"receipt_id", receiptID,
			"error", err,
			"request_id", reqctx.RequestIDFromContext(ctx),
		)
		return
	}
	if !res.Eligible {
		slog.DebugContext(ctx, "receipt not eligible for commission",
			"receipt_id", receiptID,
			"reason", res.Reason,
		)
	}
}
