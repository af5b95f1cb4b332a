package command

import (
	"time"

	"text-jester/internal/version"
)

// infoResponse reports the bot version, homepage, and uptime since start.
func infoResponse(startTime time.Time) InfoResponse {
	return InfoResponse{
		Version:  version.Version,
		Uptime:   splitUptime(time.Since(startTime)),
		Homepage: version.Homepage,
	}
}

// splitUptime decomposes a duration into days, hours, minutes and seconds
// by successive subtraction of the larger units.
func splitUptime(uptime time.Duration) UptimeParts {
	if uptime < 0 {
		uptime = 0
	}

	days := int64(uptime / (24 * time.Hour))
	uptime -= time.Duration(days) * 24 * time.Hour

	hours := int64(uptime / time.Hour)
	uptime -= time.Duration(hours) * time.Hour

	minutes := int64(uptime / time.Minute)
	uptime -= time.Duration(minutes) * time.Minute

	seconds := int64(uptime / time.Second)

	return UptimeParts{Days: days, Hours: hours, Minutes: minutes, Seconds: seconds}
}
