package location

import "testing"

func TestMakeDisplayName(t *testing.T) {
	cases := []struct {
		name       string
		components map[string]string
		formatted  string
		want       string
	}{
		{
			name:       "city and state",
			components: map[string]string{"city": "Manila", "state": "Metro Manila"},
			want:       "Manila, Metro Manila, Philippines",
		},
		{
			name:       "city only",
			components: map[string]string{"city": "Manila"},
			want:       "Manila, Philippines",
		},
		{
			name:       "admin only",
			components: map[string]string{"region": "Bicol"},
			want:       "Bicol, Philippines",
		},
		{
			name:       "locality precedence over later keys",
			components: map[string]string{"town": "Taal", "county": "Ignored", "state": "Batangas"},
			want:       "Taal, Batangas, Philippines",
		},
		{
			name:       "municipality before village",
			components: map[string]string{"municipality": "Sagada", "village": "Ignored"},
			want:       "Sagada, Philippines",
		},
		{
			name:       "state preferred over region",
			components: map[string]string{"state": "Cavite", "region": "Calabarzon"},
			want:       "Cavite, Philippines",
		},
		{
			name:       "fallback to formatted",
			components: map[string]string{"_type": "poi"},
			formatted:  "Somewhere, Philippines",
			want:       "Somewhere, Philippines",
		},
		{
			name:       "empty components and no formatted",
			components: map[string]string{},
			want:       "Philippines",
		},
		{
			name:       "nil components",
			components: nil,
			want:       "Philippines",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MakeDisplayName(tc.components, tc.formatted, "Philippines")
			if got == "" {
				t.Fatal("display name must never be empty")
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
