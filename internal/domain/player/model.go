package player

import (
	"fmt"
	"strings"
)

// Player is a roster member. TeamID is the player's current team and may
// differ from the team a historical stat line belongs to.
type Player struct {
	ID        string
	FirstName string
	LastName  string
	TeamID    string
	Active    bool
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.FullName()) == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

// SplitName splits a display name into first and last name. Everything after
// the first token is treated as the last name.
func SplitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
