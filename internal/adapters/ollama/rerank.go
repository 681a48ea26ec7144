package ollama

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// maxRerankTracks bounds the numbered list so the prompt stays inside the
// model's context window. Tracks beyond the cap keep their relative order.
const maxRerankTracks = 30

const rerankPromptTemplate = `You are a music recommendation expert. Look at the image and judge how well each recommended song matches its vibe.

Original analysis:
- Mood: %s
- Energy: %.2f
- Valence: %.2f
- Cultural vibe: %s

Recommended songs:
%s

Rerank the songs from best match to worst match.

Output format (JSON only, no explanation):
{
  "reranked_indices": [3, 1, 7],
  "confidence_scores": {"1": 0.95, "2": 0.87},
  "top_match_reason": "brief reason why the top song fits best"
}

Only return valid JSON, nothing else.`

type rerankVerdict struct {
	RerankedIndices  []int              `json:"reranked_indices"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	TopMatchReason   string             `json:"top_match_reason"`
}

// Rerank asks the vision model to reorder an already-scored list against the
// photo. On any failure the input order is returned untouched along with the
// error; callers treat that as a soft failure.
func (c *Client) Rerank(ctx context.Context, image []byte, profile domain.MoodProfile, tracks []domain.ScoredTrack) ([]domain.ScoredTrack, error) {
	if len(tracks) == 0 {
		return tracks, nil
	}

	content, err := c.chat(ctx, buildRerankPrompt(profile, tracks), image)
	if err != nil {
		return tracks, err
	}

	var verdict rerankVerdict
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return tracks, fmt.Errorf("ollama: decode rerank verdict: %w", err)
	}
	if len(verdict.RerankedIndices) == 0 {
		return tracks, fmt.Errorf("ollama: rerank verdict has no indices")
	}

	reranked := applyReranking(tracks, verdict)
	c.logger.Info().
		Str("top", reranked[0].Name).
		Float64("confidence", reranked[0].Confidence).
		Str("reason", verdict.TopMatchReason).
		Msg("✅ rerank applied")
	return reranked, nil
}

func buildRerankPrompt(profile domain.MoodProfile, tracks []domain.ScoredTrack) string {
	var list strings.Builder
	limit := min(len(tracks), maxRerankTracks)
	for i := 0; i < limit; i++ {
		track := tracks[i]
		fmt.Fprintf(&list, "%d. %q by %s", i+1, track.Name, strings.Join(track.Artists, ", "))
		if track.AlbumName != "" {
			fmt.Fprintf(&list, " (Album: %s)", track.AlbumName)
		}
		list.WriteByte('\n')
	}

	return fmt.Sprintf(rerankPromptTemplate,
		profile.Mood, profile.Energy, profile.Valence, profile.CulturalVibe,
		strings.TrimRight(list.String(), "\n"))
}

// applyReranking rebuilds the list in the model's order. Indices are 1-based;
// anything out of range or repeated is dropped, and every track the model
// skipped is appended at the tail with low confidence so no song is ever lost.
func applyReranking(tracks []domain.ScoredTrack, verdict rerankVerdict) []domain.ScoredTrack {
	reranked := make([]domain.ScoredTrack, 0, len(tracks))
	listed := make(map[int]bool, len(verdict.RerankedIndices))

	// 1. Tracks the model ranked, in its order.
	for _, idx := range verdict.RerankedIndices {
		if idx < 1 || idx > len(tracks) || listed[idx] {
			continue
		}
		listed[idx] = true

		track := tracks[idx-1]
		track.Confidence = 0.5
		if score, ok := verdict.ConfidenceScores[strconv.Itoa(idx)]; ok {
			track.Confidence = score
		}
		track.Reranked = true
		reranked = append(reranked, track)
	}

	// 2. Tracks the model skipped, in their original order.
	for i, track := range tracks {
		if listed[i+1] {
			continue
		}
		track.Confidence = 0.3
		track.Reranked = false
		reranked = append(reranked, track)
	}

	return reranked
}
