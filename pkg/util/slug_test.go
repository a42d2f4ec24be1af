package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Simple name", "Smart Watch", "smart-watch"},
		{"Ampersand dropped", "Home & Kitchen", "home-kitchen"},
		{"Already a slug", "wireless-headphones", "wireless-headphones"},
		{"Extra whitespace", "  Baby   Soft Toy  ", "baby-soft-toy"},
		{"Punctuation stripped", "USB-C Charging Hub (6-Port!)", "usb-c-charging-hub-6-port"},
		{"Digits kept", "Model 3000", "model-3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
