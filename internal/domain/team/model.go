package team

import "strings"

// Team is a franchise in the reference catalog. ID is the internal id used by
// canonical games and stat rows.
type Team struct {
	ID           string
	Abbreviation string
	City         string
	Nickname     string
	Aliases      []string
	ProviderIDs  map[string]string
}

func (t Team) FullName() string {
	return strings.TrimSpace(t.City + " " + t.Nickname)
}

// Names lists every textual form the team is known by, upper-cased.
func (t Team) Names() []string {
	out := []string{
		strings.ToUpper(t.Abbreviation),
		strings.ToUpper(t.FullName()),
		strings.ToUpper(t.Nickname),
	}
	for _, alias := range t.Aliases {
		out = append(out, strings.ToUpper(strings.TrimSpace(alias)))
	}
	return out
}
