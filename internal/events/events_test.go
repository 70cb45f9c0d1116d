package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
)

type fakeCalc struct {
	mu    sync.Mutex
	calls []uint
	err   error
	block chan struct{}
}

func (f *fakeCalc) Calculate(ctx context.Context, id uint) (*commission.CalculationResult, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &commission.CalculationResult{Eligible: true, ReceiptID: id}, nil
}

func TestSubjects(t *testing.T) {
	s := ReceiptCreatedSubject("gymdesk", 42)
	assert.Equal(t, "gymdesk.receipt.created.42", s)
	assert.Equal(t, "gymdesk.receipt.created.*", ReceiptCreatedWildcard("gymdesk"))

	id, ok := ParseReceiptCreated("gymdesk", s)
	require.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"gymdesk.receipt.created.x", "gymdesk.receipt.created.0", "other.receipt.created.1", "gymdesk.receipt.created."} {
		_, ok := ParseReceiptCreated("gymdesk", bad)
		assert.False(t, ok, bad)
	}
}

func TestInProcess_OutlivesRequestContext(t *testing.T) {
	calc := &fakeCalc{}
	p := NewInProcess(calc, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	p.ReceiptCreated(ctx, 7)
	cancel()

	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, []uint{7}, calc.calls)
}

func TestInProcess_ErrorsAreSwallowed(t *testing.T) {
	calc := &fakeCalc{err: errors.New("db down")}
	p := NewInProcess(calc, time.Second)

	p.ReceiptCreated(context.Background(), 1)
	p.ReceiptCreated(context.Background(), 2)
	require.NoError(t, p.Wait(context.Background()))
	assert.Len(t, calc.calls, 2)
}

func TestInProcess_Timeout(t *testing.T) {
	calc := &fakeCalc{block: make(chan struct{})}
	p := NewInProcess(calc, 20*time.Millisecond)

	p.ReceiptCreated(context.Background(), 3)
	require.NoError(t, p.Wait(context.Background()))
	assert.Empty(t, calc.calls)
}
