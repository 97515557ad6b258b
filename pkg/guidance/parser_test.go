package guidance

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Query
	}{
		{
			name:  "empty",
			input: "",
			want:  Query{},
		},
		{
			name:  "whitespace only",
			input: "  \n\t ",
			want:  Query{},
		},
		{
			name:  "no recognised token",
			input: "Bonjour, bienvenue chez nous.",
			want:  Query{},
		},
		{
			name:  "full instruction",
			input: "Allez de rez-de-chaussée au 2ème étage, Bureau 301, puis à droite.",
			want: Query{
				TargetLabel: "Bureau 301",
				StartFloor:  intPtr(0),
				TargetFloor: intPtr(2),
				Direction:   DirectionRight,
			},
		},
		{
			name:  "room only",
			input: "Rendez-vous avec direction.",
			want:  Query{TargetLabel: "Direction"},
		},
		{
			name:  "elevator only falls back to elevator",
			input: "Allez au 1er étage, ascenseur.",
			want:  Query{TargetLabel: "Ascenseur", TargetFloor: intPtr(1)},
		},
		{
			name:  "elevator is skipped as a waypoint",
			input: "Prenez l'ascenseur vers l'étage 1, puis à gauche vers le Bureau 201",
			want: Query{
				TargetLabel: "Bureau 201",
				TargetFloor: intPtr(1),
				Direction:   DirectionLeft,
			},
		},
		{
			name:  "last room wins",
			input: "Passez devant la Salle 2 puis entrez dans la salle réunion 2.",
			want:  Query{TargetLabel: "Salle réunion 2"},
		},
		{
			name:  "start floor with ordinal",
			input: "Partez de 1er étage pour arriver au 2 étage, salle 2",
			want:  Query{TargetLabel: "Salle 2", StartFloor: intPtr(1), TargetFloor: intPtr(2)},
		},
		{
			name:  "fallback l'étage form",
			input: "Le bureau 201 est à l'étage 1.",
			want:  Query{TargetLabel: "Bureau 201", TargetFloor: intPtr(1)},
		},
		{
			name:  "unaccented etage",
			input: "Montez vers l'etage 2 puis à droite",
			want:  Query{TargetFloor: intPtr(2), Direction: DirectionRight},
		},
		{
			name:  "room number is not a floor",
			input: "Rendez-vous au bureau 201",
			want:  Query{TargetLabel: "Bureau 201"},
		},
		{
			name:  "typographic apostrophe",
			input: "Le Bureau 301 se trouve à l’étage 2",
			want:  Query{TargetLabel: "Bureau 301", TargetFloor: intPtr(2)},
		},
		{
			name:  "upper case input",
			input: "ENTRÉE PRINCIPALE",
			want:  Query{TargetLabel: "Entrée principale"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Allez de rez-de-chaussée au 2ème étage, Bureau 301, puis à droite.",
		"Rendez-vous avec direction.",
		"Allez au 1er étage, ascenseur.",
	}

	for _, in := range inputs {
		first := Parse(in)
		second := Parse(in)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Parse(%q) not idempotent (-first +second):\n%s", in, diff)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := normalize("Allez,,  au 2ème...\tÉtage")
	want := "allez au 2ème étage"
	if got != want {
		t.Errorf("normalize() = %q, want %q", got, want)
	}
}

func TestPickRoom(t *testing.T) {
	tests := []struct {
		matches []string
		want    string
	}{
		{matches: nil, want: ""},
		{matches: []string{"ascenseur"}, want: "ascenseur"},
		{matches: []string{"ascenseur", "ascenseur"}, want: "ascenseur"},
		{matches: []string{"bureau 101", "ascenseur"}, want: "bureau 101"},
		{matches: []string{"ascenseur", "bureau 101", "salle 2", "ascenseur"}, want: "salle 2"},
	}

	for _, tt := range tests {
		if got := pickRoom(tt.matches); got != tt.want {
			t.Errorf("pickRoom(%v) = %q, want %q", tt.matches, got, tt.want)
		}
	}
}
