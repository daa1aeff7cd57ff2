package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pattarapk/storefront/internal/repository/mocks"
)

func TestSweeperSweepsUntilCancelled(t *testing.T) {
	rfrTokenRpsMock := &mocks.RefreshTokenRepository{}

	swept := make(chan struct{}, 10)
	rfrTokenRpsMock.On("SweepExpired", mock.Anything).Return(int64(3), nil).Run(func(mock.Arguments) {
		swept <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSweeper(rfrTokenRpsMock, 10*time.Millisecond).Run(ctx)
		close(done)
	}()

	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("sweeper has not run within a second")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper has not stopped after context cancellation")
	}

	rfrTokenRpsMock.AssertCalled(t, "SweepExpired", mock.Anything)
}

func TestSweeperSurvivesStoreFailure(t *testing.T) {
	rfrTokenRpsMock := &mocks.RefreshTokenRepository{}

	calls := make(chan struct{}, 10)
	rfrTokenRpsMock.On("SweepExpired", mock.Anything).Return(int64(0), errors.New("connection reset")).Run(func(mock.Arguments) {
		calls <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewSweeper(rfrTokenRpsMock, 10*time.Millisecond).Run(ctx)

	// two ticks prove the loop is still alive after the first failure
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("sweeper stopped after a store failure")
		}
	}
}
