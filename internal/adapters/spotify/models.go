package spotify

// Wire models for the Spotify Web API responses the adapter consumes.

type artistObject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type imageObject struct {
	URL string `json:"url"`
}

type albumObject struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ReleaseDate string        `json:"release_date"`
	Images      []imageObject `json:"images"`
}

type trackObject struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	DurationMs   int               `json:"duration_ms"`
	Popularity   int               `json:"popularity"`
	PreviewURL   string            `json:"preview_url"`
	Artists      []artistObject    `json:"artists"`
	Album        albumObject       `json:"album"`
	ExternalURLs map[string]string `json:"external_urls"`
}

type audioFeaturesObject struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
}

type searchArtistsResponse struct {
	Artists struct {
		Items []artistObject `json:"items"`
	} `json:"artists"`
}

type topTracksResponse struct {
	Tracks []trackObject `json:"tracks"`
}

type artistAlbumsResponse struct {
	Items []albumObject `json:"items"`
}

type albumTracksResponse struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

type tracksResponse struct {
	Tracks []trackObject `json:"tracks"`
}

type audioFeaturesResponse struct {
	AudioFeatures []audioFeaturesObject `json:"audio_features"`
}
