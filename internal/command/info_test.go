package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"text-jester/internal/version"
)

func TestSplitUptime(t *testing.T) {
	tests := []struct {
		name   string
		uptime time.Duration
		want   UptimeParts
	}{
		{name: "zero", uptime: 0, want: UptimeParts{}},
		{name: "seconds only", uptime: 42 * time.Second, want: UptimeParts{Seconds: 42}},
		{
			name:   "all units",
			uptime: 49*time.Hour + 3*time.Minute + 4*time.Second,
			want:   UptimeParts{Days: 2, Hours: 1, Minutes: 3, Seconds: 4},
		},
		{
			name:   "unit boundaries",
			uptime: 24 * time.Hour,
			want:   UptimeParts{Days: 1},
		},
		{name: "negative clamps to zero", uptime: -time.Minute, want: UptimeParts{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitUptime(tt.uptime))
		})
	}
}

func TestUptimePartsString(t *testing.T) {
	parts := UptimeParts{Days: 2, Hours: 1, Minutes: 3, Seconds: 4}
	assert.Equal(t, "2d 1h 3m 4s", parts.String())
}

func TestInfoResponseCarriesVersionAndHomepage(t *testing.T) {
	resp := infoResponse(time.Now().Add(-time.Minute))

	assert.Equal(t, version.Version, resp.Version)
	assert.Equal(t, version.Homepage, resp.Homepage)
	assert.GreaterOrEqual(t, resp.Uptime.Seconds, int64(0))
}
