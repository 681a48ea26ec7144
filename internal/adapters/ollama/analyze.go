package ollama

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

const analysisPrompt = `Analyze this photo that will be posted as an Instagram story. Suggest what music would match its vibe. Be specific and nuanced.

Return a JSON object with exactly this structure:
{
  "mood": "primary emotional mood - be specific (peaceful, melancholic, energetic, romantic, nostalgic, adventurous, dreamy, confident, cozy, vibrant)",
  "themes": ["theme1", "theme2", "theme3"],
  "description": "the image's atmosphere, setting, colors and overall vibe",
  "genres": ["genre1", "genre2", "genre3", "genre4"],
  "energy": 0.0,
  "valence": 0.0,
  "danceability": 0.0,
  "acousticness": 0.0,
  "tempo": 110,
  "instrumentalness": 0.0,
  "keywords": ["keyword1", "keyword2", "keyword3", "keyword4", "keyword5"],
  "music_style": "what kind of music would fit, e.g. 'soft acoustic with soothing vocals'",
  "cultural_vibe": "indian/western/global/fusion"
}

Guidelines:
- Genres may mix international (indie, pop, rock, hip-hop, electronic, jazz, r-n-b, soul, folk, ambient) and Indian styles (bollywood, desi-pop, indie-hindi, punjabi, sufi, indi-pop).
- energy: 0.0 very calm, 0.3 relaxed, 0.5 moderate, 0.7 lively, 1.0 intense.
- valence: 0.0 melancholic, 0.3 reflective, 0.5 neutral, 0.7 cheerful, 1.0 euphoric.
- danceability: 0.0 not danceable, 0.5 moderate movement, 1.0 club dance.
- acousticness: 0.0 fully electronic, 0.5 mixed, 1.0 pure acoustic instruments.
- tempo: 60-180 beats per minute, slow to fast.
- instrumentalness: 0.0 vocal-heavy, 0.5 balanced, 1.0 purely instrumental.
- keywords capture the setting and feeling ("sunset", "friends", "urban", "traditional").
- cultural_vibe determines the language mix: indian leans Hindi, western leans English, global is mixed.

Return ONLY the JSON object, no additional text.`

// AnalyzeImage extracts a mood profile from the photo. The pipeline must keep
// working without the vision model, so every failure path logs a warning and
// falls back to the default profile instead of erroring.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte) (domain.MoodProfile, error) {
	content, err := c.chat(ctx, analysisPrompt, image)
	if err != nil {
		c.logger.Warn().Err(err).Msg("⚠️ image analysis failed, using default profile")
		return domain.DefaultMoodProfile(), nil
	}

	var profile domain.MoodProfile
	if err := json.Unmarshal([]byte(content), &profile); err != nil {
		c.logger.Warn().Err(err).Msg("⚠️ unparsable analysis, using default profile")
		return domain.DefaultMoodProfile(), nil
	}

	profile.Clamp()
	c.logger.Info().
		Str("mood", profile.Mood).
		Str("cultural_vibe", profile.CulturalVibe).
		Float64("energy", profile.Energy).
		Float64("valence", profile.Valence).
		Msg("✅ image analyzed")
	return profile, nil
}
