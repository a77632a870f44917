package boxscore

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var isoMinutesRegex = regexp.MustCompile(`^PT(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// ParseMinutes converts provider minutes into decimal minutes rounded to two
// places. Accepted forms: "MM:SS", ISO-8601 "PT34M12.00S" and plain decimals.
// Blank input and anything unparseable return nil; "0" and "0:00" are zero.
func ParseMinutes(raw string) *float64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	if value == "0" || value == "0:00" {
		zero := 0.0
		return &zero
	}

	if m := isoMinutesRegex.FindStringSubmatch(strings.ToUpper(value)); m != nil && (m[1] != "" || m[2] != "") {
		minutes, seconds := 0.0, 0.0
		if m[1] != "" {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				return nil
			}
			minutes = float64(v)
		}
		if m[2] != "" {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return nil
			}
			seconds = v
		}
		return roundMinutes(minutes + seconds/60)
	}

	if mm, ss, ok := strings.Cut(value, ":"); ok {
		minutes, err := strconv.Atoi(mm)
		if err != nil || minutes < 0 {
			return nil
		}
		seconds, err := strconv.Atoi(ss)
		if err != nil || seconds < 0 || seconds >= 60 {
			return nil
		}
		return roundMinutes(float64(minutes) + float64(seconds)/60)
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return roundMinutes(v)
}

func roundMinutes(v float64) *float64 {
	out := math.Round(v*100) / 100
	return &out
}
