package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Ana B", want: "anab"},
		{raw: "anab", want: "anab"},
		{raw: "AnaB", want: "anab"},
		{raw: "ana-b", want: "anab"},
		{raw: "ana_b", want: "anab"},
		{raw: "  spaced out  ", want: "spacedout"},
		{raw: "José", want: "jose"},
		{raw: "dev/tree", want: "devtree"},
		{raw: "UPPER", want: "upper"},
		{raw: "with.dots", want: "withdots"},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeHandle(tc.raw))
		})
	}
}

func TestNormalizeHandle_Idempotent(t *testing.T) {
	once := NormalizeHandle("Ana B")
	assert.Equal(t, once, NormalizeHandle(once))
}
