//go:build unit

package shared_test

import (
	"context"
	"testing"

	"hotel-reservation-engine/internal/domain/coupon"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/pkg/ptr"
	"hotel-reservation-engine/internal/usecase/commands"
	"hotel-reservation-engine/internal/usecase/queries"
	"hotel-reservation-engine/internal/usecase/shared"
	"hotel-reservation-engine/tests/common/builder"
	"hotel-reservation-engine/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCoupon(t *testing.T) {
	store := memstore.New()
	params := builder.NewCouponBuilder().Params
	store.AddCoupon(params)

	testCases := []struct {
		name     string
		id       *uuid.UUID
		code     *string
		wantCode string
		errIs    error
	}{
		{name: "by id", id: ptr.Of(params.ID), wantCode: "WELCOME10"},
		{name: "by code is normalized", code: ptr.Of("  welcome10 "), wantCode: "WELCOME10"},
		{name: "neither given"},
		{name: "unknown id", id: ptr.Of(uuid.New()), errIs: shared.ErrCouponNotFound},
		{name: "unknown code", code: ptr.Of("NOPE"), errIs: shared.ErrCouponNotFound},
		{name: "malformed code", code: ptr.Of("bad code!"), errIs: errs.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got *coupon.Coupon
			err := store.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
				var err error
				got, err = shared.LoadCoupon(ctx, tx, tc.id, tc.code)
				return err
			})
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if tc.wantCode == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.wantCode, got.Code().String())
		})
	}
}

func TestLoadCoupon_NotFoundMatchesCallerErrors(t *testing.T) {
	assert.ErrorIs(t, shared.ErrCouponNotFound, commands.ErrCouponNotFound)
	assert.ErrorIs(t, shared.ErrCouponNotFound, queries.ErrCouponNotFound)
	assert.True(t, errs.Is(shared.ErrCouponNotFound, errs.ErrNotFound))
}
