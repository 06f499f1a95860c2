package service

import (
	"context"
	"testing"

	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPromotionInput() PromotionInput {
	return PromotionInput{
		Name:          "bulk rice",
		PromotionType: constants.PromotionTypeQuantityDiscount,
		CouponType:    constants.CouponTypePercentageDiscount,
		DiscountValue: money("10"),
		MinQuantity:   3,
		StartDate:     pricingTestNow.AddDate(0, 0, -1),
		EndDate:       pricingTestNow.AddDate(0, 1, 0),
	}
}

func TestPromotionAdminCreateValidation(t *testing.T) {
	env := newPricingTestEnv(t)
	admin := NewPromotionAdminService(env.db, repository.NewPromotionRepository(env.db), repository.NewClusterRepository(env.db))

	cases := []struct {
		name    string
		mutate  func(*PromotionInput)
		wantErr error
	}{
		{name: "percentage quantity discount", mutate: func(in *PromotionInput) {}},
		{name: "fixed coupon promotion", mutate: func(in *PromotionInput) {
			in.PromotionType = constants.PromotionTypeCoupon
			in.CouponType = constants.CouponTypeFixedDiscount
			in.DiscountValue = money("150")
		}},
		{name: "fixed quantity discount", mutate: func(in *PromotionInput) {
			in.CouponType = constants.CouponTypeFixedDiscount
			in.DiscountValue = money("150")
			in.MinQuantity = 1
		}, wantErr: ErrPromotionInvalid},
		{name: "free shipping order count discount", mutate: func(in *PromotionInput) {
			in.PromotionType = constants.PromotionTypeOrderCountDiscount
			in.CouponType = constants.CouponTypeFreeShipping
			in.DiscountValue = money("0")
			in.MinOrderCount = 2
		}, wantErr: ErrPromotionInvalid},
		{name: "fixed unit discount", mutate: func(in *PromotionInput) {
			in.PromotionType = constants.PromotionTypeUnitDiscount
			in.CouponType = constants.CouponTypeFixedDiscount
			in.DiscountValue = money("5")
			in.MinUnitMeasure = dec("10")
		}, wantErr: ErrPromotionInvalid},
		{name: "percentage above hundred", mutate: func(in *PromotionInput) {
			in.DiscountValue = money("150")
		}, wantErr: ErrPromotionInvalid},
		{name: "window ends before start", mutate: func(in *PromotionInput) {
			in.EndDate = in.StartDate.AddDate(0, 0, -1)
		}, wantErr: ErrPromotionInvalid},
		{name: "specific products without variants", mutate: func(in *PromotionInput) {
			in.AppliesTo = constants.AppliesToSpecificProducts
		}, wantErr: ErrPromotionInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validPromotionInput()
			tc.mutate(&input)
			created, err := admin.Create(context.Background(), input)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, created)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, created.ID)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Promotion{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestPromotionAdminRejectedFixedPromotionNeverPrices(t *testing.T) {
	env := newPricingTestEnv(t)
	admin := NewPromotionAdminService(env.db, repository.NewPromotionRepository(env.db), repository.NewClusterRepository(env.db))
	variant := env.seedVariant(t, "FLOUR-1KG", "100", "1")
	env.addToCart(t, 1, variant.ID, 2)

	input := validPromotionInput()
	input.CouponType = constants.CouponTypeFixedDiscount
	input.DiscountValue = money("150")
	input.MinQuantity = 1
	_, err := admin.Create(context.Background(), input)
	require.ErrorIs(t, err, ErrPromotionInvalid)

	preview, err := env.pricing.Preview(context.Background(), PricingInput{UserID: 1, UseCart: true})
	require.NoError(t, err)
	assert.True(t, preview.Subtotal.Decimal.Equal(dec("200")))
	assert.True(t, preview.PromotionDiscount.Decimal.IsZero())
	assert.True(t, preview.Total.Decimal.Equal(dec("210")))
}
