package game

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

var ErrMalformedRecord = errors.New("malformed source record")

// SourceRef identifies one provider observation.
type SourceRef struct {
	Provider       Provider
	ProviderGameID string
}

func (r SourceRef) String() string {
	return string(r.Provider) + ":" + r.ProviderGameID
}

func ParseSourceRef(raw string) (SourceRef, error) {
	provider, gameID, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || provider == "" || gameID == "" {
		return SourceRef{}, fmt.Errorf("invalid source ref %q, expected provider:game_id", raw)
	}
	return SourceRef{Provider: NormalizeProvider(provider), ProviderGameID: gameID}, nil
}

func (r SourceRef) Less(other SourceRef) bool {
	if r.Provider != other.Provider {
		return r.Provider < other.Provider
	}
	return r.ProviderGameID < other.ProviderGameID
}

// SourceRecord is one provider's observation of a game. Date is the ET
// calendar date; StartTime may be an ET-midnight placeholder.
type SourceRecord struct {
	Provider       Provider
	ProviderGameID string
	Date           time.Time
	StartTime      *time.Time
	HomeTeamRef    string
	AwayTeamRef    string
	Status         Status
	HomeScore      *int
	AwayScore      *int
	Venue          string
	IngestedAt     time.Time
}

func (r SourceRecord) Ref() SourceRef {
	return SourceRef{Provider: r.Provider, ProviderGameID: r.ProviderGameID}
}

func (r SourceRecord) HasScores() bool {
	return r.HomeScore != nil && r.AwayScore != nil
}

// HasRealStartTime is false for missing start times, ET-midnight
// placeholders and UTC-midnight placeholders from providers that use them.
func (r SourceRecord) HasRealStartTime() bool {
	return r.StartTime != nil && !IsMidnightPlaceholder(*r.StartTime) && !r.utcPlaceholder()
}

// ReportedStart is the provider's start time, or nil when it is missing or a
// UTC-midnight placeholder that would read as the previous ET evening.
func (r SourceRecord) ReportedStart() *time.Time {
	if r.StartTime == nil || r.utcPlaceholder() {
		return nil
	}
	start := *r.StartTime
	return &start
}

// EffectiveStart is the instant used for window matching.
func (r SourceRecord) EffectiveStart() time.Time {
	if start := r.ReportedStart(); start != nil {
		return *start
	}
	return ETDate(r.Date)
}

func (r SourceRecord) utcPlaceholder() bool {
	return r.StartTime != nil && r.Provider.StampsUTCMidnight() && IsUTCMidnightPlaceholder(*r.StartTime, r.Date)
}

// Validate rejects records canonicalization cannot use.
func (r SourceRecord) Validate() error {
	switch {
	case strings.TrimSpace(string(r.Provider)) == "":
		return errors.Wrap(ErrMalformedRecord, "provider is required")
	case strings.TrimSpace(r.ProviderGameID) == "":
		return errors.Wrap(ErrMalformedRecord, "provider game id is required")
	case r.Date.IsZero():
		return errors.Wrapf(ErrMalformedRecord, "%s: date is missing or unparseable", r.Ref())
	case strings.TrimSpace(r.HomeTeamRef) == "" || strings.TrimSpace(r.AwayTeamRef) == "":
		return errors.Wrapf(ErrMalformedRecord, "%s: team reference is missing", r.Ref())
	case strings.EqualFold(strings.TrimSpace(r.HomeTeamRef), strings.TrimSpace(r.AwayTeamRef)):
		return errors.Wrapf(ErrMalformedRecord, "%s: home and away team are the same", r.Ref())
	case (r.HomeScore != nil && *r.HomeScore < 0) || (r.AwayScore != nil && *r.AwayScore < 0):
		return errors.Wrapf(ErrMalformedRecord, "%s: negative score", r.Ref())
	}
	return nil
}

// Rejection records an input row excluded during normalization or
// canonicalization.
type Rejection struct {
	Provider Provider
	RawID    string
	Reason   string
}

// CanonicalGame is the deduplicated game. ID never changes once assigned;
// ChosenSource may move to a better observation on a later run.
type CanonicalGame struct {
	ID           string
	Date         time.Time
	StartTime    *time.Time
	HomeTeamID   string
	AwayTeamID   string
	Status       Status
	HomeScore    *int
	AwayScore    *int
	Venue        string
	ChosenSource SourceRef
	Sources      []SourceRef
	UpdatedAt    time.Time
}

// SourceIDs maps each provider to its game id. When one provider contributed
// more than one record, the lexicographically smallest id is kept here; the
// full list is in Sources.
func (g CanonicalGame) SourceIDs() map[Provider]string {
	out := make(map[Provider]string, len(g.Sources))
	for _, ref := range g.Sources {
		if existing, ok := out[ref.Provider]; ok && existing <= ref.ProviderGameID {
			continue
		}
		out[ref.Provider] = ref.ProviderGameID
	}
	return out
}

func (g CanonicalGame) HasScores() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Validatable reports whether the box score is expected to be complete.
func (g CanonicalGame) Validatable() bool {
	return g.Status.IsFinal() && g.HasScores()
}

func (g CanonicalGame) HasTeam(teamID string) bool {
	return teamID != "" && (g.HomeTeamID == teamID || g.AwayTeamID == teamID)
}

func (g CanonicalGame) Matchup() string {
	return g.AwayTeamID + " @ " + g.HomeTeamID
}

// SortSources orders Sources deterministically.
func (g *CanonicalGame) SortSources() {
	sort.Slice(g.Sources, func(i, j int) bool { return g.Sources[i].Less(g.Sources[j]) })
}

// Query selects canonical games. The repository maps each combination onto a
// named query variant.
type Query struct {
	From            time.Time
	To              time.Time
	TeamID          string
	GameID          string
	UnvalidatedOnly bool
}

// Link ties a source observation to a canonical game.
type Link struct {
	Ref         SourceRef
	CanonicalID string
}

func IntPtr(v int) *int {
	return &v
}
