package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type txKey struct{}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestWithUnitOfWork(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, txKey{}, "tx")

	t.Run("commits when the function succeeds", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)

		var seen context.Context
		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			seen = ctx
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, txCtx, seen)
		uow.AssertExpectations(t)
		uow.AssertNotCalled(t, "Rollback", mock.Anything)
	})

	t.Run("rolls back and returns the function error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)

		fnErr := errors.New("boom")
		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return fnErr })

		assert.Equal(t, fnErr, err)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("keeps both errors when rollback fails", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		fnErr := errors.New("boom")
		rbErr := errors.New("connection reset")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(rbErr)

		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return fnErr })

		assert.ErrorIs(t, err, fnErr)
		assert.ErrorIs(t, err, rbErr)
	})

	t.Run("does not run the function when begin fails", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		beginErr := errors.New("pool exhausted")
		uow.On("Begin", ctx).Return(ctx, beginErr)

		executed := false
		err := WithUnitOfWork(ctx, uow, func(context.Context) error {
			executed = true
			return nil
		})

		assert.ErrorIs(t, err, beginErr)
		assert.False(t, executed)
	})

	t.Run("returns the commit error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		commitErr := errors.New("serialization failure")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(commitErr)

		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return nil })

		assert.Equal(t, commitErr, err)
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)

		assert.Panics(t, func() {
			_ = WithUnitOfWork(ctx, uow, func(context.Context) error { panic("bad") })
		})
		uow.AssertCalled(t, "Rollback", txCtx)
	})
}

func TestWithUnitOfWorkResult(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, txKey{}, "tx")

	uow := new(mockUnitOfWork)
	uow.On("Begin", ctx).Return(txCtx, nil)
	uow.On("Rollback", txCtx).Return(nil)

	got, err := WithUnitOfWorkResult(ctx, uow, func(context.Context) (int, error) {
		return 42, errors.New("late failure")
	})

	require.Error(t, err)
	assert.Zero(t, got)
}
