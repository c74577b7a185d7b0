package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/core/mocks"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("blank ref never reaches the store", func(t *testing.T) {
		tx := mocks.NewMockTx(gomock.NewController(t))

		_, _, err := core.Resolver{}.Resolve(ctx, tx, core.ImportRow{Ref: "   "})
		assert.ErrorIs(t, err, core.ErrMissingRef)
	})

	t.Run("match keeps the stored driver", func(t *testing.T) {
		tx := mocks.NewMockTx(gomock.NewController(t))
		tx.EXPECT().FindDriverByRef(ctx, "vettel").Return(int64(20), true, nil)

		id, created, err := core.Resolver{}.Resolve(ctx, tx, core.ImportRow{Ref: " vettel ", Forename: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, int64(20), id)
		assert.False(t, created)
	})

	t.Run("creates with trimmed ref", func(t *testing.T) {
		tx := mocks.NewMockTx(gomock.NewController(t))
		tx.EXPECT().FindDriverByRef(ctx, "bottas").Return(int64(0), false, nil)
		tx.EXPECT().InsertDriver(ctx, core.Driver{Ref: "bottas", Forename: "Valtteri", Surname: "Bottas", Number: "77"}).
			Return(int64(5), true, nil)

		id, created, err := core.Resolver{}.Resolve(ctx, tx, core.ImportRow{
			Ref: "bottas ", Forename: "Valtteri", Surname: "Bottas", Number: "77", Line: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
		assert.True(t, created)
	})

	t.Run("conflict without visible row is an error", func(t *testing.T) {
		tx := mocks.NewMockTx(gomock.NewController(t))
		gomock.InOrder(
			tx.EXPECT().FindDriverByRef(ctx, "ghost").Return(int64(0), false, nil),
			tx.EXPECT().InsertDriver(ctx, gomock.Any()).Return(int64(0), false, nil),
			tx.EXPECT().FindDriverByRef(ctx, "ghost").Return(int64(0), false, nil),
		)

		_, _, err := core.Resolver{}.Resolve(ctx, tx, core.ImportRow{Ref: "ghost"})
		assert.ErrorContains(t, err, "not visible")
	})

	t.Run("store errors are wrapped", func(t *testing.T) {
		tx := mocks.NewMockTx(gomock.NewController(t))
		cause := errors.New("boom")
		tx.EXPECT().FindDriverByRef(ctx, "x").Return(int64(0), false, cause)

		_, _, err := core.Resolver{}.Resolve(ctx, tx, core.ImportRow{Ref: "x"})
		assert.ErrorIs(t, err, cause)
		assert.ErrorContains(t, err, `find driver "x"`)
	})
}

func TestAssociator_Associate(t *testing.T) {
	ctx := context.Background()
	tx := mocks.NewMockTx(gomock.NewController(t))
	cause := errors.New("fk violation")
	tx.EXPECT().LinkDriverTeam(ctx, int64(1), int64(2), 2026).Return(cause)

	err := core.Associator{}.Associate(ctx, tx, 1, 2, 2026)
	assert.ErrorIs(t, err, cause)
}

func TestIsTxFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("value too long"), false},
		{"unusable", core.ErrTxUnusable, true},
		{"wrapped unusable", &core.TransactionError{Op: "x", Err: core.ErrTxUnusable}, true},
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, core.IsTxFatal(tt.err), tt.name)
	}
}
