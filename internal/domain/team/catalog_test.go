package team

import "testing"

func TestCatalog(t *testing.T) {
	teams, err := Catalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(teams) != 30 {
		t.Fatalf("unexpected team count: got=%d want=30", len(teams))
	}

	byID := make(map[string]Team, len(teams))
	nbaIDs := make(map[string]struct{}, len(teams))
	for _, item := range teams {
		byID[item.ID] = item
		nbaIDs[item.ProviderIDs["nba"]] = struct{}{}
	}
	if len(nbaIDs) != 30 {
		t.Fatalf("nba team ids must be unique, got %d distinct", len(nbaIDs))
	}

	dal := byID["DAL"]
	if dal.FullName() != "Dallas Mavericks" {
		t.Fatalf("unexpected full name: %q", dal.FullName())
	}
	if dal.ProviderIDs["nba"] != "1610612742" || dal.ProviderIDs["balldontlie"] != "7" {
		t.Fatalf("unexpected DAL provider ids: %+v", dal.ProviderIDs)
	}
	if byID["BKN"].ProviderIDs["bbref"] != "BRK" {
		t.Fatalf("unexpected BKN bbref id: %+v", byID["BKN"].ProviderIDs)
	}
}

func TestParseCatalog_RejectsDuplicates(t *testing.T) {
	raw := []byte(`teams:
  - abbreviation: DAL
    city: Dallas
    nickname: Mavericks
  - abbreviation: dal
    city: Dallas
    nickname: Mavs
`)
	if _, err := ParseCatalog(raw); err == nil {
		t.Fatalf("expected duplicate abbreviation error")
	}
}
