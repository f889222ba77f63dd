package templates

import (
	"testing"

	"github.com/tsailly/lettre-gen/internal/jobad"
)

func TestSelectNilInfoReturnsDefault(t *testing.T) {
	if choice := Select(nil); choice != Classique {
		t.Fatalf("expected default template for nil info, got %q", choice)
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	info := &jobad.Info{Tone: "startup", Sector: "logiciel"}

	first := Select(info)
	second := Select(info)
	if first != second {
		t.Fatalf("selection not deterministic: %q vs %q", first, second)
	}
}

func TestSelectRules(t *testing.T) {
	cases := []struct {
		name string
		info *jobad.Info
		want string
	}{
		{
			name: "startup tone",
			info: &jobad.Info{Tone: "Startup"},
			want: Moderne,
		},
		{
			name: "modern tone english",
			info: &jobad.Info{Tone: "modern"},
			want: Moderne,
		},
		{
			name: "tech sector",
			info: &jobad.Info{Sector: "Éditeur de logiciel"},
			want: Moderne,
		},
		{
			name: "minimal tone",
			info: &jobad.Info{Tone: "épuré"},
			want: Minimaliste,
		},
		{
			name: "creative sector",
			info: &jobad.Info{Sector: "Agence de design graphique"},
			want: Minimaliste,
		},
		{
			name: "consulting sector",
			info: &jobad.Info{Sector: "Conseil en stratégie"},
			want: Elegant,
		},
		{
			name: "banking sector",
			info: &jobad.Info{Sector: "banque"},
			want: Elegant,
		},
		{
			name: "formal tone",
			info: &jobad.Info{Tone: "sobre"},
			want: Elegant,
		},
		{
			name: "no signals",
			info: &jobad.Info{Tone: "neutre", Sector: "industrie navale"},
			want: Classique,
		},
		{
			name: "empty info",
			info: &jobad.Info{},
			want: Classique,
		},
		{
			// Rule order matters: the modern rule wins over the formal
			// tone rule when both could apply.
			name: "tech sector with formal tone",
			info: &jobad.Info{Tone: "formel", Sector: "tech"},
			want: Moderne,
		},
		{
			name: "creative sector with modern tone",
			info: &jobad.Info{Tone: "dynamique", Sector: "design"},
			want: Moderne,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Select(tc.info); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
