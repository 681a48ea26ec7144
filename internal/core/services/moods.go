package services

// Curated artist universe. The lists skew toward artists whose catalogs sit
// inside the popularity band the scorer keeps, so harvesting them is not
// wasted work.

func defaultMoodCatalog() map[string]MoodConfig {
	return map[string]MoodConfig{
		"romantic": {
			EnglishArtists: []string{"Cigarettes After Sex", "The Neighbourhood", "Lauv", "Gracie Abrams", "Conan Gray", "Jeremy Zucker", "mxmtoon", "girl in red"},
			HindiArtists:   []string{"Arijit Singh", "Atif Aslam", "Shreya Ghoshal", "Armaan Malik", "Jubin Nautiyal", "Prateek Kuhad", "Raghav Chaitanya"},
			Baseline:       FeatureBaseline{Energy: 0.4, Valence: 0.6, Danceability: 0.5, Acousticness: 0.6, Tempo: 95},
		},
		"energetic": {
			EnglishArtists: []string{"Tame Impala", "Glass Animals", "MGMT", "Foster The People", "Two Door Cinema Club", "The Strokes", "Arctic Monkeys", "Phoenix"},
			HindiArtists:   []string{"Badshah", "Diljit Dosanjh", "Divine", "Raftaar", "Nucleya", "Karan Aujla", "Seedhe Maut", "The Local Train"},
			Baseline:       FeatureBaseline{Energy: 0.9, Valence: 0.8, Danceability: 0.85, Acousticness: 0.1, Tempo: 140},
		},
		"peaceful": {
			EnglishArtists: []string{"Bon Iver", "Novo Amor", "Phoebe Bridgers", "Iron & Wine", "Sufjan Stevens", "Fleet Foxes", "Jose Gonzalez", "Ben Howard"},
			HindiArtists:   []string{"A.R. Rahman", "Shaan", "Lucky Ali", "Prateek Kuhad", "Mohit Chauhan", "Sonu Nigam", "Papon", "When Chai Met Toast"},
			Baseline:       FeatureBaseline{Energy: 0.3, Valence: 0.5, Danceability: 0.3, Acousticness: 0.7, Tempo: 85},
		},
		"melancholic": {
			EnglishArtists: []string{"Radiohead", "Mazzy Star", "The National", "Daughter", "Sleeping At Last", "Mitski", "Phoebe Bridgers", "Elliott Smith"},
			HindiArtists:   []string{"Mohit Chauhan", "KK", "Sonu Nigam", "Jubin Nautiyal", "Arijit Singh", "Atif Aslam", "Prateek Kuhad"},
			Baseline:       FeatureBaseline{Energy: 0.3, Valence: 0.2, Danceability: 0.3, Acousticness: 0.6, Tempo: 80},
		},
		"happy": {
			EnglishArtists: []string{"Two Door Cinema Club", "Passion Pit", "Phoenix", "COIN", "MGMT", "Young The Giant", "Grouplove", "Smallpools"},
			HindiArtists:   []string{"Guru Randhawa", "Darshan Raval", "Diljit Dosanjh", "Harrdy Sandhu", "Asees Kaur", "When Chai Met Toast", "Sunidhi Chauhan"},
			Baseline:       FeatureBaseline{Energy: 0.7, Valence: 0.8, Danceability: 0.7, Acousticness: 0.3, Tempo: 120},
		},
		"confident": {
			EnglishArtists: []string{"The Weeknd", "Travis Scott", "Dua Lipa", "Billie Eilish", "Khalid", "Post Malone", "Doja Cat", "SZA"},
			HindiArtists:   []string{"Badshah", "Divine", "Raftaar", "Ikka", "Seedhe Maut", "Prabh Deep", "Naezy", "MC Stan"},
			Baseline:       FeatureBaseline{Energy: 0.8, Valence: 0.7, Danceability: 0.75, Acousticness: 0.2, Tempo: 125},
		},
		"nostalgic": {
			EnglishArtists: []string{"The 1975", "Arctic Monkeys", "Mac DeMarco", "MGMT", "Tame Impala", "Vampire Weekend", "The Strokes", "Kings of Leon"},
			HindiArtists:   []string{"Kishore Kumar", "R.D. Burman", "Mohammed Rafi", "Kumar Sanu", "Alka Yagnik", "Udit Narayan", "Sonu Nigam", "Lucky Ali"},
			Baseline:       FeatureBaseline{Energy: 0.5, Valence: 0.5, Danceability: 0.5, Acousticness: 0.5, Tempo: 105},
		},
		"dreamy": {
			EnglishArtists: []string{"Beach House", "M83", "ODESZA", "Clairo", "Men I Trust", "Still Woozy", "Rex Orange County", "Kali Uchis"},
			HindiArtists:   []string{"Prateek Kuhad", "When Chai Met Toast", "The Local Train", "Zaeden", "Lifafa", "Kamakshi Khanna", "Shankar Mahadevan"},
			Baseline:       FeatureBaseline{Energy: 0.4, Valence: 0.6, Danceability: 0.4, Acousticness: 0.5, Tempo: 100},
		},
		"moody": {
			EnglishArtists: []string{"Frank Ocean", "Don Toliver", "Travis Scott", "SZA", "The Weeknd", "Bryson Tiller", "PartyNextDoor", "6LACK"},
			HindiArtists:   []string{"Prateek Kuhad", "The Local Train", "Lifafa", "Seedhe Maut", "Prabh Deep", "Dropped Out", "Sez on the Beat"},
			Baseline:       FeatureBaseline{Energy: 0.5, Valence: 0.4, Danceability: 0.55, Acousticness: 0.3, Tempo: 110},
		},
	}
}

func defaultMoodSynonyms() map[string]string {
	return map[string]string{
		"calm":        "peaceful",
		"relaxed":     "peaceful",
		"chill":       "moody",
		"sad":         "melancholic",
		"joyful":      "happy",
		"upbeat":      "energetic",
		"adventurous": "energetic",
		"cozy":        "peaceful",
		"vibrant":     "energetic",
		"reflective":  "melancholic",
		"serene":      "peaceful",
		"dark":        "moody",
		"atmospheric": "moody",
		"love":        "romantic",
		"thoughtful":  "melancholic",
	}
}

func defaultIndicators() IndicatorConfig {
	return IndicatorConfig{
		Indian:  []string{"temple", "festival", "traditional", "culture", "heritage", "indian", "desi", "bollywood"},
		Western: []string{"urban", "modern", "city", "nightlife", "club", "tech", "metropolitan", "western"},
		Nature:  []string{"nature", "landscape", "mountain", "beach", "ocean", "forest", "travel", "adventure"},
	}
}
