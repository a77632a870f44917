package game

import (
	"regexp"
	"strings"
)

type Status string

const (
	StatusFinal      Status = "Final"
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "InProgress"
	StatusPostponed  Status = "Postponed"
	StatusCancelled  Status = "Cancelled"
	StatusUnknown    Status = "Unknown"
)

var (
	clockStatusRegex  = regexp.MustCompile(`^\d{1,2}:\d{2}\s*(am|pm)?(\s*[a-z]{1,3})?$`)
	periodStatusRegex = regexp.MustCompile(`^(q[1-4]|[1-4](st|nd|rd|th)\s*(qtr|quarter)?|ot\d*|\d+ot)\b`)
)

// ParseStatus maps provider status text onto Status. Numeric NBA status ids
// (1 scheduled, 2 live, 3 final) are accepted as well.
func ParseStatus(raw string) Status {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "":
		return StatusUnknown
	case "1":
		return StatusScheduled
	case "2":
		return StatusInProgress
	case "3":
		return StatusFinal
	}

	switch {
	case strings.HasPrefix(value, "final"), value == "f", value == "ft", value == "completed", value == "closed", value == "complete":
		return StatusFinal
	case strings.HasPrefix(value, "postpon"), value == "ppd":
		return StatusPostponed
	case strings.HasPrefix(value, "cancel"), value == "abandoned":
		return StatusCancelled
	case value == "scheduled", value == "pre", value == "pregame", value == "not started", value == "tbd", value == "status_scheduled":
		return StatusScheduled
	case value == "inprogress", value == "in progress", value == "live", value == "halftime", value == "half", value == "end of period":
		return StatusInProgress
	case strings.Contains(value, "qtr"), strings.Contains(value, "quarter"), strings.HasPrefix(value, "end "):
		return StatusInProgress
	case periodStatusRegex.MatchString(value):
		return StatusInProgress
	case clockStatusRegex.MatchString(value), strings.HasSuffix(value, " et"):
		return StatusScheduled
	}

	for _, s := range []Status{StatusFinal, StatusScheduled, StatusInProgress, StatusPostponed, StatusCancelled} {
		if strings.EqualFold(value, string(s)) {
			return s
		}
	}
	return StatusUnknown
}

func (s Status) IsFinal() bool {
	return s == StatusFinal
}

func (s Status) Valid() bool {
	switch s {
	case StatusFinal, StatusScheduled, StatusInProgress, StatusPostponed, StatusCancelled, StatusUnknown:
		return true
	default:
		return false
	}
}
