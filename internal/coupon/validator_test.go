package coupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/articlepass/articlepass-checkout/internal/domain"
)

var available = []domain.Coupon{
	{Code: "SAVE10", DiscountPercent: 10},
	{Code: "SAVE50", DiscountPercent: 50},
	{Code: "FULL100", DiscountPercent: 100},
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		wantCode string
		wantErr  error
	}{
		{name: "exact match", raw: "SAVE10", wantCode: "SAVE10"},
		{name: "lowercase matches", raw: "save10", wantCode: "SAVE10"},
		{name: "mixed case matches", raw: "Save10", wantCode: "SAVE10"},
		{name: "surrounding whitespace trimmed", raw: "  SAVE50\t", wantCode: "SAVE50"},
		{name: "empty", raw: "", wantErr: domain.ErrEmptyCode},
		{name: "whitespace only", raw: "   ", wantErr: domain.ErrEmptyCode},
		{name: "unknown code", raw: "NOPE", wantErr: domain.ErrCouponNotFound},
		{name: "no partial match", raw: "SAVE", wantErr: domain.ErrCouponNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Validate(tt.raw, available)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestValidateFirstMatchWinsOnDuplicates(t *testing.T) {
	t.Parallel()

	dupes := []domain.Coupon{
		{Code: "TWICE", DiscountPercent: 20},
		{Code: "twice", DiscountPercent: 80},
	}

	got, err := Validate("TWICE", dupes)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.DiscountPercent)
}

func TestValidateEmptyCouponList(t *testing.T) {
	t.Parallel()

	_, err := Validate("SAVE10", nil)
	assert.ErrorIs(t, err, domain.ErrCouponNotFound)
}
