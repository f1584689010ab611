package instutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeNamespace(t *testing.T) {
	cases := map[string]string{
		"pricing-service": "pricingservice",
		"Pricing Service": "pricingservice",
		"unknown":         "unknown",
		"app_2":           "app2",
	}

	for name, want := range cases {
		assert.Equal(t, want, sanitizeNamespace(name), "name %q", name)
	}
}

func TestBucketScale(t *testing.T) {
	assert.Equal(t,
		[]float64{100, 500, 1000},
		BucketScale(1000, 0.1, 0.5, 1))
}
