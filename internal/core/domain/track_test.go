package domain

import (
	"math"
	"testing"
)

func TestTrack_ArtistKey(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		want  string
	}{
		{
			name:  "single artist lowercased",
			track: Track{ID: "t1", Artists: []string{"Tame Impala"}},
			want:  "tame impala",
		},
		{
			name:  "collaboration is order independent",
			track: Track{ID: "t2", Artists: []string{"SZA", "Don Toliver"}},
			want:  "don toliver|sza",
		},
		{
			name:  "whitespace trimmed",
			track: Track{ID: "t3", Artists: []string{"  Arijit Singh "}},
			want:  "arijit singh",
		},
		{
			name:  "no artists falls back to id",
			track: Track{ID: "t4"},
			want:  "t4",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.track.ArtistKey(); got != tc.want {
				t.Fatalf("ArtistKey: got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAudioFeatures_Clamp(t *testing.T) {
	f := AudioFeatures{
		Energy:           1.4,
		Valence:          -0.2,
		Danceability:     0.5,
		Acousticness:     2.0,
		Instrumentalness: -1,
		Tempo:            300,
	}
	f.Clamp()

	want := AudioFeatures{Energy: 1, Valence: 0, Danceability: 0.5, Acousticness: 1, Instrumentalness: 0, Tempo: 180}
	if !featuresEqual(f, want, 1e-9) {
		t.Fatalf("expected %+v, got %+v", want, f)
	}

	low := AudioFeatures{Tempo: 12}
	low.Clamp()
	if low.Tempo != 60 {
		t.Fatalf("tempo floor: got %v, want 60", low.Tempo)
	}
}

func TestMoodProfile_Clamp(t *testing.T) {
	p := MoodProfile{Energy: 1.5, Valence: 0.7, Tempo: 500, CulturalVibe: "  INDIAN "}
	p.Clamp()

	if p.Energy != 1 {
		t.Errorf("energy: got %v, want 1", p.Energy)
	}
	if p.Tempo != 220 {
		t.Errorf("tempo: got %v, want 220", p.Tempo)
	}
	if p.CulturalVibe != CultureIndian {
		t.Errorf("cultural vibe: got %q, want %q", p.CulturalVibe, CultureIndian)
	}
}

func TestDefaultMoodProfile(t *testing.T) {
	p := DefaultMoodProfile()
	if p.Mood != "happy" {
		t.Fatalf("mood: got %q, want %q", p.Mood, "happy")
	}
	if p.CulturalVibe != CultureGlobal {
		t.Fatalf("cultural vibe: got %q, want %q", p.CulturalVibe, CultureGlobal)
	}
	if len(p.Themes) == 0 || len(p.Keywords) == 0 {
		t.Fatalf("default profile missing themes/keywords: %+v", p)
	}
}

func featuresEqual(a, b AudioFeatures, tol float64) bool {
	return floatEquals(a.Danceability, b.Danceability, tol) &&
		floatEquals(a.Energy, b.Energy, tol) &&
		floatEquals(a.Valence, b.Valence, tol) &&
		floatEquals(a.Tempo, b.Tempo, tol) &&
		floatEquals(a.Instrumentalness, b.Instrumentalness, tol) &&
		floatEquals(a.Acousticness, b.Acousticness, tol)
}

func floatEquals(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
