// Package matcher resolves an extracted passenger or guest name to the
// most likely traveler in a batch via fuzzy name similarity.
package matcher

import (
	"strings"

	"github.com/voyagehq/tripdocs/internal/models"
)

// MinScore is the acceptance threshold: candidates scoring below it are
// never returned.
const MinScore = 0.6

// Score computes a [0,1] similarity between two names. Both names are
// normalized (lower-cased, whitespace collapsed) first. Exact equality
// scores 1.0, containment either way scores 0.8, otherwise the score is
// the shared-token count over the larger token count. Not symmetric in
// general.
func Score(a, b string) float64 {
	na := normalize(a)
	nb := normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}

	tokensA := strings.Fields(na)
	tokensB := strings.Fields(nb)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	shared := 0
	counted := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		if setA[t] && !counted[t] {
			shared++
			counted[t] = true
		}
	}

	larger := len(tokensA)
	if len(tokensB) > larger {
		larger = len(tokensB)
	}
	return float64(shared) / float64(larger)
}

// Match returns the traveler id whose name best matches the extracted
// name, or ok=false when nothing clears the threshold. Travelers are
// scanned in their given order and a later candidate only displaces the
// current best on a strictly greater score, so ties keep the
// earliest-seen traveler.
func Match(extractedName string, travelers []models.Traveler) (string, bool) {
	if strings.TrimSpace(extractedName) == "" || len(travelers) == 0 {
		return "", false
	}

	var best models.MatchCandidate
	found := false
	for _, t := range travelers {
		score := Score(extractedName, t.Name)
		if score < MinScore {
			continue
		}
		if !found || score > best.Score {
			best = models.MatchCandidate{TravelerID: t.ID, Score: score}
			found = true
		}
	}
	if !found {
		return "", false
	}
	return best.TravelerID, true
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
