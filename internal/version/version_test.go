package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		name       string
		wantDev    bool
		wantFamily string
	}{
		"stable patch release": {
			name:       "2024.10.0",
			wantDev:    false,
			wantFamily: "2024.10",
		},
		"stable without patch": {
			name:       "2024.5",
			wantDev:    false,
			wantFamily: "2024.5",
		},
		"dev pre-release": {
			name:       "2024.10.0.dev0",
			wantDev:    true,
			wantFamily: "2024.10",
		},
		"dev with higher number": {
			name:       "2025.4.0.dev3",
			wantDev:    true,
			wantFamily: "2025.4",
		},
		"dev without number": {
			name:       "2024.10.0.dev",
			wantDev:    true,
			wantFamily: "2024.10",
		},
		"unrecognized name": {
			name:       "v1-beta",
			wantDev:    false,
			wantFamily: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tag := Parse(tt.name)
			assert.Equal(t, tt.name, tag.Name)
			assert.Equal(t, tt.wantDev, tag.IsDev())
			assert.Equal(t, tt.wantFamily, tag.Family())
		})
	}
}

func TestCompare(t *testing.T) {
	tests := map[string]struct {
		a, b string
		want int
	}{
		"equal":                         {"2024.10.0", "2024.10.0", 0},
		"year ordering":                 {"2023.9.0", "2024.2.0", -1},
		"month ordering is numeric":     {"2024.9.0", "2024.10.0", -1},
		"patch ordering":                {"2024.10.1", "2024.10.0", 1},
		"missing patch sorts first":     {"2024.10", "2024.10.0", -1},
		"dev precedes stable":           {"2024.10.0.dev0", "2024.10.0", -1},
		"dev numbers ordered":           {"2024.10.0.dev1", "2024.10.0.dev2", -1},
		"dev of newer beats old stable": {"2025.4.0.dev0", "2024.10.0", 1},
		"unparseable sorts lowest":      {"weird", "2024.10.0", -1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.a).Compare(Parse(tt.b)))
			assert.Equal(t, -tt.want, Parse(tt.b).Compare(Parse(tt.a)))
		})
	}
}

func TestLatest(t *testing.T) {
	tags := ParseAll([]string{"2023.9.0", "2024.10.0", "2024.2.0", "2024.10.0.dev1"})

	latest, ok := Latest(tags)
	assert.True(t, ok)
	assert.Equal(t, "2024.10.0", latest.Name)

	_, ok = Latest(nil)
	assert.False(t, ok)
}

func TestLineageFilters(t *testing.T) {
	tags := ParseAll([]string{"2024.10.0", "2024.10.0.dev0", "2024.5.0", "2025.4.0.dev1"})

	dev := Dev(tags)
	assert.Len(t, dev, 2)
	for _, d := range dev {
		assert.True(t, d.IsDev())
	}

	stable := Stable(tags)
	assert.Len(t, stable, 2)
	for _, s := range stable {
		assert.False(t, s.IsDev())
	}

	rest := Exclude(tags, "2024.10.0")
	assert.Len(t, rest, 3)
	for _, r := range rest {
		assert.NotEqual(t, "2024.10.0", r.Name)
	}
}
