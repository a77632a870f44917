package game

import "strings"

type Provider string

const (
	ProviderNBA         Provider = "nba"
	ProviderBallDontLie Provider = "balldontlie"
	ProviderBBRef       Provider = "bbref"
	ProviderOddsFeed    Provider = "oddsfeed"
)

var providerPriority = map[Provider]int{
	ProviderNBA:         4,
	ProviderBallDontLie: 3,
	ProviderBBRef:       2,
	ProviderOddsFeed:    1,
}

// Providers lists known providers from highest to lowest priority.
func Providers() []Provider {
	return []Provider{ProviderNBA, ProviderBallDontLie, ProviderBBRef, ProviderOddsFeed}
}

func NormalizeProvider(v string) Provider {
	return Provider(strings.ToLower(strings.TrimSpace(v)))
}

// Priority ranks providers for representative selection. Unknown providers
// rank 0.
func (p Provider) Priority() int {
	return providerPriority[p]
}

func (p Provider) Known() bool {
	_, ok := providerPriority[p]
	return ok
}

func (p Provider) String() string {
	return string(p)
}

// StampsUTCMidnight is true for providers that report an unknown tip-off as
// 00:00Z on the game date.
func (p Provider) StampsUTCMidnight() bool {
	return p == ProviderBallDontLie
}
