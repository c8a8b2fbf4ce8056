package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pricing-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":                 "",
		"PORT":                    "",
		"TAX_RATE":                "",
		"FREE_SHIPPING_THRESHOLD": "",
		"FLAT_SHIPPING_FEE":       "",
		"PROMO_SESSION_TTL":       "",
		"REDIS_URL":               "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "0.08", cfg.TaxRate.String())
	require.Equal(t, "50", cfg.FreeShippingOver.String())
	require.Equal(t, "5.99", cfg.FlatShippingFee.String())
	require.Equal(t, "2h0m0s", cfg.PromoSessionTTL.String())
	require.Empty(t, cfg.RedisURL)
	require.True(t, cfg.MetricsEnabled)
	require.False(t, cfg.TracingEnabled)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":                 ":9090",
		"TAX_RATE":             "0.1",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
		"PROMO_RATE_LIMIT_MAX": "5",
		"METRICS_ENABLED":      "false",
	})
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "0.1", cfg.TaxRate.String())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 5, cfg.PromoRateLimitMax)
	require.False(t, cfg.MetricsEnabled)
}

func TestLoadRejectsMalformedTaxRate(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"TAX_RATE": "not-a-number"})
	require.Error(t, err)
}

func TestLoadRejectsNegativeTaxRate(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"TAX_RATE": "-0.08"})
	require.Error(t, err)
}
