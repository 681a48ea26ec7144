package services

import (
	"testing"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

func TestEstimateFeatures_BaselineOnly(t *testing.T) {
	baseline := FeatureBaseline{Energy: 0.7, Valence: 0.8, Danceability: 0.7, Acousticness: 0.3, Tempo: 120}
	track := domain.Track{Name: "Sunrise", AlbumName: "Mornings", ReleaseDate: "2015-03-02"}

	got := estimateFeatures(baseline, "Some Unknown Band", domain.LanguageEnglish, track)

	want := domain.AudioFeatures{Energy: 0.7, Valence: 0.8, Danceability: 0.7, Acousticness: 0.3, Tempo: 120}
	if got != want {
		t.Fatalf("expected untouched baseline %+v, got %+v", want, got)
	}
}

func TestEstimateFeatures_ArtistPatterns(t *testing.T) {
	baseline := FeatureBaseline{Energy: 0.5, Valence: 0.5, Danceability: 0.5, Acousticness: 0.5, Tempo: 100}
	neutralTrack := domain.Track{Name: "Song", AlbumName: "Album", ReleaseDate: "2015-01-01"}

	tests := []struct {
		name     string
		artist   string
		language string
		check    func(t *testing.T, f domain.AudioFeatures)
	}{
		{
			name:     "acoustic singer-songwriter gets quieter",
			artist:   "Bon Iver",
			language: domain.LanguageEnglish,
			check: func(t *testing.T, f domain.AudioFeatures) {
				if !almostEqual(f.Acousticness, 0.8) || !almostEqual(f.Energy, 0.3) || !almostEqual(f.Danceability, 0.3) {
					t.Fatalf("unexpected adjustment: %+v", f)
				}
			},
		},
		{
			name:     "electronic act gains energy and tempo",
			artist:   "ODESZA",
			language: domain.LanguageEnglish,
			check: func(t *testing.T, f domain.AudioFeatures) {
				if !almostEqual(f.Energy, 0.6) || !almostEqual(f.Acousticness, 0.2) || !almostEqual(f.Tempo, 110) {
					t.Fatalf("unexpected adjustment: %+v", f)
				}
			},
		},
		{
			name:     "hip-hop tempo clamped into pocket",
			artist:   "Travis Scott",
			language: domain.LanguageEnglish,
			check: func(t *testing.T, f domain.AudioFeatures) {
				if f.Tempo < 85 || f.Tempo > 115 {
					t.Fatalf("tempo %v outside hip-hop pocket", f.Tempo)
				}
				if !almostEqual(f.Danceability, 0.6) {
					t.Fatalf("danceability: got %v, want 0.6", f.Danceability)
				}
			},
		},
		{
			name:     "punjabi hip-hop gets louder",
			artist:   "Divine",
			language: domain.LanguageHindi,
			check: func(t *testing.T, f domain.AudioFeatures) {
				if !almostEqual(f.Energy, 0.7) || !almostEqual(f.Danceability, 0.7) || !almostEqual(f.Tempo, 115) || !almostEqual(f.Acousticness, 0.2) {
					t.Fatalf("unexpected adjustment: %+v", f)
				}
			},
		},
		{
			name:     "bollywood vocalist softened",
			artist:   "Arijit Singh",
			language: domain.LanguageHindi,
			check: func(t *testing.T, f domain.AudioFeatures) {
				if !almostEqual(f.Valence, 0.6) || !almostEqual(f.Acousticness, 0.7) {
					t.Fatalf("unexpected adjustment: %+v", f)
				}
				if f.Energy < 0.3 || f.Energy > 0.6 {
					t.Fatalf("energy %v outside ballad range", f.Energy)
				}
			},
		},
		{
			name:     "hindi patterns not applied to english harvest",
			artist:   "Divine",
			language: domain.LanguageEnglish,
			check: func(t *testing.T, f domain.AudioFeatures) {
				if !almostEqual(f.Energy, 0.5) {
					t.Fatalf("english table must not know hindi artists: %+v", f)
				}
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := estimateFeatures(baseline, tc.artist, tc.language, neutralTrack)
			tc.check(t, got)
		})
	}
}

func TestEstimateFeatures_NameCues(t *testing.T) {
	baseline := FeatureBaseline{Energy: 0.5, Valence: 0.5, Danceability: 0.5, Acousticness: 0.5, Tempo: 100}

	t.Run("remix pushes energy and tempo", func(t *testing.T) {
		track := domain.Track{Name: "Midnight (Club Remix)", ReleaseDate: "2015-01-01"}
		f := estimateFeatures(baseline, "Nobody", domain.LanguageEnglish, track)
		if !almostEqual(f.Energy, 0.65) || !almostEqual(f.Danceability, 0.65) || !almostEqual(f.Tempo, 110) {
			t.Fatalf("unexpected remix adjustment: %+v", f)
		}
	})

	t.Run("acoustic version goes quiet", func(t *testing.T) {
		track := domain.Track{Name: "Midnight", AlbumName: "Unplugged Sessions", ReleaseDate: "2015-01-01"}
		f := estimateFeatures(baseline, "Nobody", domain.LanguageEnglish, track)
		if f.Acousticness <= baseline.Acousticness || f.Energy >= baseline.Energy {
			t.Fatalf("acoustic cue not applied: %+v", f)
		}
	})

	t.Run("fresh release gains a little energy", func(t *testing.T) {
		track := domain.Track{Name: "Plain Song", ReleaseDate: "2024-06-01"}
		f := estimateFeatures(baseline, "Nobody", domain.LanguageEnglish, track)
		if !almostEqual(f.Energy, 0.55) {
			t.Fatalf("2023+ release energy: got %v, want 0.55", f.Energy)
		}
	})

	t.Run("old release leans acoustic", func(t *testing.T) {
		track := domain.Track{Name: "Plain Song", ReleaseDate: "2004"}
		f := estimateFeatures(baseline, "Nobody", domain.LanguageEnglish, track)
		if !almostEqual(f.Acousticness, 0.6) {
			t.Fatalf("pre-2010 acousticness: got %v, want 0.6", f.Acousticness)
		}
	})
}

func TestEstimateFeatures_Clamped(t *testing.T) {
	// A baseline near the driver caps plus stacking cues must stay in range.
	baseline := FeatureBaseline{Energy: 0.95, Valence: 0.9, Danceability: 0.9, Acousticness: 0.05, Tempo: 178}
	track := domain.Track{Name: "Banger (Extended Mix)", ReleaseDate: "2024-01-01"}

	f := estimateFeatures(baseline, "Nucleya", domain.LanguageHindi, track)

	if f.Energy > 1 || f.Danceability > 1 || f.Acousticness < 0 {
		t.Fatalf("features escaped [0,1]: %+v", f)
	}
	if f.Tempo < 60 || f.Tempo > 180 {
		t.Fatalf("tempo escaped [60,180]: %v", f.Tempo)
	}
}
