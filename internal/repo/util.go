package repo

import "time"

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
