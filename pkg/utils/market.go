package utils

import (
	"fmt"
	"time"
)

// ETLocation is the timezone of the upstream bot's scan schedule.
var ETLocation *time.Location

func init() {
	var err error
	ETLocation, err = time.LoadLocation("America/New_York")
	if err != nil {
		ETLocation = time.FixedZone("ET", -4*60*60)
	}
}

// ScanTime is an upcoming scheduled scan, display-only.
type ScanTime struct {
	Label string `json:"label"`
	At    string `json:"at"`
	Until string `json:"until"`
}

// scanSchedule lists the bot's daily detection passes in ET.
var scanSchedule = []struct {
	hour, minute int
	label        string
}{
	{8, 0, "Premarket"},
	{10, 0, "Open Confirm"},
	{13, 45, "Midday Pattern"},
	{15, 15, "Power Hour"},
}

// NextScanTimes returns each scheduled scan with its next occurrence
// relative to now and a countdown string.
func NextScanTimes(now time.Time) []ScanTime {
	now = now.In(ETLocation)

	out := make([]ScanTime, 0, len(scanSchedule))
	for _, s := range scanSchedule {
		next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, ETLocation)
		if next.Before(now) {
			next = next.Add(24 * time.Hour)
		}
		out = append(out, ScanTime{
			Label: s.label,
			At:    fmt.Sprintf("%02d:%02d", s.hour, s.minute),
			Until: formatCountdown(next.Sub(now)),
		})
	}
	return out
}

func formatCountdown(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
