package spotify

import (
	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// mapTrackToDomain converts a raw Spotify track to a clean domain track.
// Audio features arrive separately and are attached by the caller.
func mapTrackToDomain(st trackObject) domain.Track {
	// 1. Flatten artists to their names.
	artistNames := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		artistNames = append(artistNames, a.Name)
	}

	// 2. Extract the album cover.
	coverURL := ""
	if len(st.Album.Images) > 0 {
		coverURL = st.Album.Images[0].URL
	}

	// 3. Map basic metadata.
	return domain.Track{
		ID:          st.ID,
		Name:        st.Name,
		Artists:     artistNames,
		AlbumName:   st.Album.Name,
		ReleaseDate: st.Album.ReleaseDate,
		Popularity:  st.Popularity,
		DurationMs:  st.DurationMs,
		CoverURL:    coverURL,
		PreviewURL:  st.PreviewURL,
		ExternalURL: st.ExternalURLs["spotify"],
	}
}

func mapTracksToDomain(items []trackObject) []domain.Track {
	tracks := make([]domain.Track, len(items))
	for i, st := range items {
		tracks[i] = mapTrackToDomain(st)
	}
	return tracks
}

func mapFeaturesToDomain(f audioFeaturesObject) domain.AudioFeatures {
	return domain.AudioFeatures{
		Energy:           f.Energy,
		Valence:          f.Valence,
		Danceability:     f.Danceability,
		Acousticness:     f.Acousticness,
		Instrumentalness: f.Instrumentalness,
		Tempo:            f.Tempo,
	}
}

func mapAlbumToDomain(a albumObject) domain.AlbumRef {
	return domain.AlbumRef{
		ID:          a.ID,
		Name:        a.Name,
		ReleaseDate: a.ReleaseDate,
	}
}
