package spotify_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/storybeats-labs/storybeats/internal/adapters/spotify"
	"github.com/storybeats-labs/storybeats/internal/core/domain"
	"github.com/storybeats-labs/storybeats/internal/core/ports"
)

// --- Helpers ---

func compareTracks(t *testing.T, got, want domain.Track) {
	t.Helper()

	if got.ID != want.ID {
		t.Errorf("ID: got %v, want %v", got.ID, want.ID)
	}
	if got.Name != want.Name {
		t.Errorf("Name: got %v, want %v", got.Name, want.Name)
	}
	if len(got.Artists) != len(want.Artists) {
		t.Fatalf("Artists: got %v, want %v", got.Artists, want.Artists)
	}
	for i := range want.Artists {
		if got.Artists[i] != want.Artists[i] {
			t.Errorf("Artists[%d]: got %v, want %v", i, got.Artists[i], want.Artists[i])
		}
	}
	if got.AlbumName != want.AlbumName {
		t.Errorf("AlbumName: got %v, want %v", got.AlbumName, want.AlbumName)
	}
	if got.ReleaseDate != want.ReleaseDate {
		t.Errorf("ReleaseDate: got %v, want %v", got.ReleaseDate, want.ReleaseDate)
	}
	if got.Popularity != want.Popularity {
		t.Errorf("Popularity: got %v, want %v", got.Popularity, want.Popularity)
	}
	if got.DurationMs != want.DurationMs {
		t.Errorf("DurationMs: got %v, want %v", got.DurationMs, want.DurationMs)
	}
	if got.CoverURL != want.CoverURL {
		t.Errorf("CoverURL: got %v, want %v", got.CoverURL, want.CoverURL)
	}
	if got.PreviewURL != want.PreviewURL {
		t.Errorf("PreviewURL: got %v, want %v", got.PreviewURL, want.PreviewURL)
	}
	if got.ExternalURL != want.ExternalURL {
		t.Errorf("ExternalURL: got %v, want %v", got.ExternalURL, want.ExternalURL)
	}
}

func compareFeatures(t *testing.T, got, want domain.AudioFeatures) {
	t.Helper()
	if got.Energy != want.Energy {
		t.Errorf("Features.Energy: got %v, want %v", got.Energy, want.Energy)
	}
	if got.Valence != want.Valence {
		t.Errorf("Features.Valence: got %v, want %v", got.Valence, want.Valence)
	}
	if got.Danceability != want.Danceability {
		t.Errorf("Features.Danceability: got %v, want %v", got.Danceability, want.Danceability)
	}
	if got.Tempo != want.Tempo {
		t.Errorf("Features.Tempo: got %v, want %v", got.Tempo, want.Tempo)
	}
}

// --- Tests ---

func TestSearchArtist(t *testing.T) {
	tests := []struct {
		name        string
		artist      string
		response    string
		expectedRef domain.ArtistRef
		expectErr   bool
		notFound    bool
	}{
		{
			name:   "confident match",
			artist: "Tame Impala",
			response: `{
				"artists": {
					"items": [
						{ "id": "ti1", "name": "Tame Impala" },
						{ "id": "tr1", "name": "Tame Impala Tribute Band" }
					]
				}
			}`,
			expectedRef: domain.ArtistRef{ID: "ti1", Name: "Tame Impala"},
		},
		{
			name:   "no confident match",
			artist: "Arijit Singh",
			response: `{
				"artists": {
					"items": [ { "id": "x1", "name": "Completely Unrelated" } ]
				}
			}`,
			expectErr: true,
			notFound:  true,
		},
		{
			name:      "empty result set",
			artist:    "Nobody Plays This",
			response:  `{ "artists": { "items": [] } }`,
			expectErr: true,
			notFound:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search" {
					t.Errorf("expected URL path /search, got %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("type"); got != "artist" {
					t.Errorf("type param: got %q, want artist", got)
				}
				if got := r.URL.Query().Get("market"); got != "US" {
					t.Errorf("market param: got %q, want US", got)
				}
				w.Write([]byte(tt.response))
			}))
			defer ts.Close()

			client := spotify.NewClientWithBaseURL(http.DefaultClient, ts.URL)
			ref, err := client.SearchArtist(context.Background(), tt.artist, "US")

			if (err != nil) != tt.expectErr {
				t.Fatalf("expected error: %v, got: %v", tt.expectErr, err)
			}
			if tt.notFound && !errors.Is(err, ports.ErrArtistNotFound) {
				t.Fatalf("expected ErrArtistNotFound, got %v", err)
			}
			if !tt.expectErr {
				if ref != tt.expectedRef {
					t.Fatalf("ref: got %+v, want %+v", ref, tt.expectedRef)
				}
			}
		})
	}
}

func TestTopTracks(t *testing.T) {
	response := `{
		"tracks": [
			{
				"id": "t1",
				"name": "Borderline",
				"duration_ms": 237000,
				"popularity": 78,
				"preview_url": "http://p.example/b.mp3",
				"artists": [ { "id": "ti1", "name": "Tame Impala" } ],
				"album": {
					"id": "al1",
					"name": "The Slow Rush",
					"release_date": "2020-02-14",
					"images": [ { "url": "http://img.example/1.jpg" } ]
				},
				"external_urls": { "spotify": "http://open.example/t1" }
			}
		]
	}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artists/ti1/top-tracks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("market"); got != "IN" {
			t.Errorf("market param: got %q, want IN", got)
		}
		w.Write([]byte(response))
	}))
	defer ts.Close()

	client := spotify.NewClientWithBaseURL(http.DefaultClient, ts.URL)
	tracks, err := client.TopTracks(context.Background(), "ti1", "IN")
	if err != nil {
		t.Fatalf("TopTracks: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}

	compareTracks(t, tracks[0], domain.Track{
		ID:          "t1",
		Name:        "Borderline",
		Artists:     []string{"Tame Impala"},
		AlbumName:   "The Slow Rush",
		ReleaseDate: "2020-02-14",
		Popularity:  78,
		DurationMs:  237000,
		CoverURL:    "http://img.example/1.jpg",
		PreviewURL:  "http://p.example/b.mp3",
		ExternalURL: "http://open.example/t1",
	})
}

func TestRecentAlbums(t *testing.T) {
	response := `{
		"items": [
			{ "id": "old", "name": "Back Catalog", "release_date": "2023-01-15" },
			{ "id": "new2", "name": "Spring Single", "release_date": "2025-03-01" },
			{ "id": "bad", "name": "Mystery", "release_date": "upcoming" },
			{ "id": "new1", "name": "Summer Single", "release_date": "2025-05-20" }
		]
	}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artists/ti1/albums" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("include_groups"); got != "album,single" {
			t.Errorf("include_groups param: got %q", got)
		}
		w.Write([]byte(response))
	}))
	defer ts.Close()

	client := spotify.NewClientWithBaseURL(http.DefaultClient, ts.URL)
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	albums, err := client.RecentAlbums(context.Background(), "ti1", "US", since)
	if err != nil {
		t.Fatalf("RecentAlbums: %v", err)
	}

	// Only the two in-window releases survive, newest first.
	if len(albums) != 2 {
		t.Fatalf("got %d albums, want 2: %+v", len(albums), albums)
	}
	if albums[0].ID != "new1" || albums[1].ID != "new2" {
		t.Fatalf("unexpected order: %+v", albums)
	}
}

func TestAlbumTrackIDs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/albums/al1/tracks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("limit param: got %q, want 2", got)
		}
		w.Write([]byte(`{ "items": [ { "id": "s1" }, { "id": "s2" }, { "id": "s3" } ] }`))
	}))
	defer ts.Close()

	client := spotify.NewClientWithBaseURL(http.DefaultClient, ts.URL)
	ids, err := client.AlbumTrackIDs(context.Background(), "al1", 2)
	if err != nil {
		t.Fatalf("AlbumTrackIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "s1" || ids[1] != "s2" {
		t.Fatalf("ids: got %v, want [s1 s2]", ids)
	}
}

func TestTracksByID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A null entry stands in for an unknown id.
		w.Write([]byte(`{
			"tracks": [
				null,
				{
					"id": "t2",
					"name": "Known Track",
					"popularity": 55,
					"artists": [ { "name": "Someone" } ],
					"album": { "name": "Somewhere", "release_date": "2024-11-01", "images": [] }
				}
			]
		}`))
	}))
	defer ts.Close()

	client := spotify.NewClientWithBaseURL(http.DefaultClient, ts.URL)
	tracks, err := client.TracksByID(context.Background(), []string{"t1", "t2"})
	if err != nil {
		t.Fatalf("TracksByID: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	if tracks[0].ID != "t2" || tracks[0].ReleaseDate != "2024-11-01" {
		t.Fatalf("unexpected track %+v", tracks[0])
	}
}

func TestAudioFeatures(t *testing.T) {
	t.Run("maps measured features", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"audio_features": [
					{ "id": "t1", "energy": 0.8, "valence": 0.7, "danceability": 0.65, "acousticness": 0.1, "tempo": 124.5 },
					null
				]
			}`))
		}))
		defer ts.Close()

		client := spotify.NewClientWithBaseURL(http.DefaultClient, ts.URL)
		features, err := client.AudioFeatures(context.Background(), []string{"t1", "t2"})
		if err != nil {
			t.Fatalf("AudioFeatures: %v", err)
		}
		if len(features) != 1 {
			t.Fatalf("got %d feature rows, want 1", len(features))
		}
		compareFeatures(t, features["t1"], domain.AudioFeatures{Energy: 0.8, Valence: 0.7, Danceability: 0.65, Acousticness: 0.1, Tempo: 124.5})
	})

	t.Run("403 maps to features unavailable", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		client := spotify.NewClientWithBaseURL(http.DefaultClient, ts.URL)
		_, err := client.AudioFeatures(context.Background(), []string{"t1"})
		if !errors.Is(err, ports.ErrFeaturesUnavailable) {
			t.Fatalf("expected ErrFeaturesUnavailable, got %v", err)
		}
	})

	t.Run("batches requests over 50 ids", func(t *testing.T) {
		var requests int
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.Write([]byte(`{ "audio_features": [] }`))
		}))
		defer ts.Close()

		ids := make([]string, 60)
		for i := range ids {
			ids[i] = "t" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		}

		client := spotify.NewClientWithBaseURL(http.DefaultClient, ts.URL)
		if _, err := client.AudioFeatures(context.Background(), ids); err != nil {
			t.Fatalf("AudioFeatures: %v", err)
		}
		if requests != 2 {
			t.Fatalf("got %d requests, want 2", requests)
		}
	})
}
