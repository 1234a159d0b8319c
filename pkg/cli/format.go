package cli

import "fmt"

// FormatDuration renders milliseconds as a short human string.
func FormatDuration(ms int) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	secs := float64(ms) / 1000
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	mins := int(secs / 60)
	secs = secs - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}

// FormatProgress renders a playback position in [0,1] as a percentage.
func FormatProgress(p float64) string {
	return fmt.Sprintf("%d%%", int(p*100))
}
