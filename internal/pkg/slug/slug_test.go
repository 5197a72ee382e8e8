package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Margherita Pizza", "margherita-pizza"},
		{"  Crème Brûlée!  ", "creme-brulee"},
		{"Hot  -- Drinks", "hot-drinks"},
		{"مَنَاقِيش زعتر", "مناقيش-زعتر"},
		{"!!!", ""},
		{"Pizza #4", "pizza-4"},
		{"Food!", "food"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}
