package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemap(t *testing.T) {
	tests := []struct {
		color string
		theme Theme
		want  string
	}{
		{"#000000", Light, "#000000"},
		{"#000000", Dark, "#ffffff"},
		{"#FFF", Dark, "#000000"},
		{"black", Dark, "#ffffff"},
		{"#e53935", Dark, "#e53935"},
		{"", Dark, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Remap(tt.color, tt.theme), "%s in %s", tt.color, tt.theme)
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, Dark, Parse(" DARK "))
	assert.Equal(t, Light, Parse("solarized"))
	assert.NotEqual(t, Light.Background(), Dark.Background())
}
