package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Pricing: PricingConfig{
			ShippingCost:          "10.00",
			FreeShippingThreshold: "0",
			UrgentDeliveryFee:     "15.00",
			StandardDeliveryDays:  5,
			UrgentDeliveryDays:    1,
		},
		Security: SecurityConfig{CouponRateLimit: RateLimitConfig{WindowSeconds: 60, MaxAttempts: 10}},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("default pricing should be valid: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "negative shipping", mutate: func(c *Config) { c.Pricing.ShippingCost = "-1" }, want: "pricing.shipping_cost"},
		{name: "garbage fee", mutate: func(c *Config) { c.Pricing.UrgentDeliveryFee = "fifteen" }, want: "pricing.urgent_delivery_fee"},
		{name: "zero delivery days", mutate: func(c *Config) { c.Pricing.StandardDeliveryDays = 0 }, want: "delivery days"},
		{name: "urgent slower than standard", mutate: func(c *Config) { c.Pricing.UrgentDeliveryDays = 7 }, want: "urgent_delivery_days"},
		{name: "negative rate limit", mutate: func(c *Config) { c.Security.CouponRateLimit.BlockSeconds = -5 }, want: "coupon_rate_limit"},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: want error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestPricingAmount(t *testing.T) {
	cfg := PricingConfig{}
	if got := cfg.Amount(" 12.345 ").String(); got != "12.35" {
		t.Fatalf("amount should round to cents, got %s", got)
	}
	if !cfg.Amount("-3").IsZero() || !cfg.Amount("abc").IsZero() {
		t.Fatalf("invalid amounts should fall back to zero")
	}
}
