package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   Command
		wantOK bool
	}{
		{"plain", "/start", Command{Name: "start", Args: []string{}}, true},
		{"bot suffix", "/validar@OleoBot oleo-ab12", Command{Name: "validar", Args: []string{"oleo-ab12"}}, true},
		{"uppercase name", "/PLACAR", Command{Name: "placar", Args: []string{}}, true},
		{"extra spacing", "  /validar   A  B ", Command{Name: "validar", Args: []string{"A", "B"}}, true},
		{"free text", "Escola Paulo Freire", Command{}, false},
		{"bare slash", "/", Command{}, false},
		{"only suffix", "/@bot", Command{}, false},
		{"empty", "", Command{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatLiters(t *testing.T) {
	assert.Equal(t, "3.5", formatLiters(3.5))
	assert.Equal(t, "2", formatLiters(2))
	assert.Equal(t, "0.25", formatLiters(0.25))
}
