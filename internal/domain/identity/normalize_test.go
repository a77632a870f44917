package identity

import "testing"

func TestNameKeys(t *testing.T) {
	cases := []struct {
		name string
		key  KeyFunc
		a, b string
		same bool
	}{
		{"exact collapses whitespace", ExactKey, "Cade  Cunningham", "cade cunningham", true},
		{"exact keeps suffix", ExactKey, "Jaren Jackson Jr.", "Jaren Jackson", false},
		{"suffix strips jr", SuffixKey, "Jaren Jackson Jr.", "Jaren Jackson", true},
		{"suffix strips roman numeral", SuffixKey, "Gary Trent II", "gary trent", true},
		{"suffix keeps single token", SuffixKey, "V", "v", true},
		{"normalized folds diacritics", NormalizedKey, "Luka Dončić", "Luka Doncic", true},
		{"normalized drops punctuation", NormalizedKey, "P.J. Washington", "PJ Washington", true},
		{"normalized splits hyphen", NormalizedKey, "Karl-Anthony Towns", "Karl Anthony Towns", true},
		{"first last skips middle", FirstLastKey, "Nikola J. Jokic", "Nikola Jokić", true},
		{"last name only", LastNameKey, "Klay Thompson", "Amen Thompson", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.key(tc.a) == tc.key(tc.b)
			if got != tc.same {
				t.Fatalf("%q=%q vs %q=%q, same=%v want %v", tc.a, tc.key(tc.a), tc.b, tc.key(tc.b), got, tc.same)
			}
		})
	}

	if FirstLastKey("Nene") != "" {
		t.Fatalf("single token name should have no first/last key")
	}
}
