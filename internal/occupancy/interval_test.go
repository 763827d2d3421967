package occupancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 1, day, hour, 0, 0, 0, time.UTC)
}

func TestWindow_Overlaps(t *testing.T) {
	base := Window{CheckIn: at(10, 14), CheckOut: at(12, 11)}

	cases := []struct {
		name  string
		other Window
		want  bool
	}{
		{"fully contained", Window{at(11, 9), at(11, 18)}, true},
		{"fully containing", Window{at(9, 0), at(13, 0)}, true},
		{"crosses start", Window{at(9, 14), at(10, 15)}, true},
		{"crosses end", Window{at(12, 10), at(14, 11)}, true},
		{"identical", base, true},
		{"touches end", Window{at(12, 11), at(13, 11)}, false},
		{"touches start", Window{at(8, 14), at(10, 14)}, false},
		{"disjoint before", Window{at(1, 14), at(3, 11)}, false},
		{"disjoint after", Window{at(20, 14), at(21, 11)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestWindow_Valid(t *testing.T) {
	assert.True(t, Window{at(10, 14), at(12, 11)}.Valid())
	assert.False(t, Window{at(10, 14), at(10, 14)}.Valid())
	assert.False(t, Window{at(12, 11), at(10, 14)}.Valid())
}

func TestWindow_Contains(t *testing.T) {
	w := Window{at(10, 14), at(12, 11)}

	assert.True(t, w.Contains(at(10, 14)))
	assert.True(t, w.Contains(at(11, 0)))
	assert.False(t, w.Contains(at(12, 11)))
	assert.False(t, w.Contains(at(10, 13)))
}

func TestWindow_Nights(t *testing.T) {
	assert.Equal(t, 2, Window{at(10, 14), at(12, 11)}.Nights())
	assert.Equal(t, 1, Window{at(10, 9), at(10, 18)}.Nights())
}
