package validation

// Bounds are the numeric thresholds used by the sanity checks.
type Bounds struct {
	MaxPlayerMinutes float64
	MinTeamMinutes   float64
	MaxTeamMinutes   float64
	MaxPoints        int
	MaxRebounds      int
	MaxAssists       int
	MaxTurnovers     int
	MaxFieldGoalsAtt int
	MaxFreeThrowsAtt int
	MaxThreesAtt     int
	MinActivePlayers int
	MaxActivePlayers int
}

func DefaultBounds() Bounds {
	return Bounds{
		MaxPlayerMinutes: 60,
		MinTeamMinutes:   235,
		MaxTeamMinutes:   295,
		MaxPoints:        80,
		MaxRebounds:      35,
		MaxAssists:       30,
		MaxTurnovers:     15,
		MaxFieldGoalsAtt: 50,
		MaxFreeThrowsAtt: 35,
		MaxThreesAtt:     30,
		MinActivePlayers: 8,
		MaxActivePlayers: 15,
	}
}
