package renderer

import (
	"testing"

	"github.com/richinsley/gobloom/graphics"
)

func TestBlurSize(t *testing.T) {
	tests := []struct {
		size   graphics.Size
		factor uint32
		want   graphics.Size
	}{
		{graphics.Size{Width: 1280, Height: 720}, 4, graphics.Size{Width: 320, Height: 180}},
		{graphics.Size{Width: 1281, Height: 723}, 4, graphics.Size{Width: 320, Height: 180}},
		{graphics.Size{Width: 1920, Height: 1080}, 1, graphics.Size{Width: 1920, Height: 1080}},
		{graphics.Size{Width: 3, Height: 2}, 4, graphics.Size{Width: 1, Height: 1}},
		{graphics.Size{Width: 800, Height: 3}, 4, graphics.Size{Width: 200, Height: 1}},
		{graphics.Size{Width: 64, Height: 64}, 0, graphics.Size{Width: 64, Height: 64}},
	}

	for _, tc := range tests {
		if got := BlurSize(tc.size, tc.factor); got != tc.want {
			t.Errorf("BlurSize(%s, %d) = %s, want %s", tc.size, tc.factor, got, tc.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"no downscale", func(c *Config) { c.DownscaleFactor = 1 }, true},
		{"zero downscale", func(c *Config) { c.DownscaleFactor = 0 }, false},
		{"negative growth", func(c *Config) { c.RadiusGrowthFactor = -1 }, false},
		{"negative seed", func(c *Config) { c.SeedRadius = -0.5 }, false},
		{"zero iterations", func(c *Config) { c.BlurIterations = 0 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.modify(&config)

			err := config.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v", err)
			}

			if !tc.ok && err == nil {
				t.Errorf("Validate() succeeded")
			}
		})
	}
}
