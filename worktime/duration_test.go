package worktime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"8:30", 510, false},
		{"0830", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestDuration_SameDay(t *testing.T) {
	assert.Equal(t, 150, Duration("08:00", "10:30"))
	assert.Equal(t, 60, Duration("11:00", "12:00"))
	assert.Equal(t, 0, Duration("09:15", "09:15"))
	assert.Equal(t, 1439, Duration("00:00", "23:59"))
}

func TestDuration_CrossesMidnight(t *testing.T) {
	// End before start means the shift ran into the next day.
	assert.Equal(t, 30, Duration("23:55", "00:25"))
	assert.Equal(t, 480, Duration("22:00", "06:00"))
	assert.Equal(t, 1, Duration("23:59", "00:00"))
}

func TestDuration_NeverNegative(t *testing.T) {
	for _, pair := range [][2]string{
		{"23:00", "01:00"}, {"12:00", "11:59"}, {"00:01", "00:00"},
	} {
		assert.GreaterOrEqual(t, Duration(pair[0], pair[1]), 0)
	}
}
