package scorer

import (
	"strings"

	"trendcheck-go/pkg/keyword"
)

// Analysis carries the content-strategy extras the priority scorer
// derives alongside the numeric score.
type Analysis struct {
	ScoreResult
	ContentType      string `json:"content_type"`
	Difficulty       string `json:"difficulty"`
	SearchIntent     string `json:"search_intent"`
	WordCount        int    `json:"word_count"`
	Competition      string `json:"estimated_competition"`
	ContentPotential string `json:"content_potential"`
}

// Analyze scores a keyword and classifies it for content planning.
func (s *HeuristicScorer) Analyze(kw string) Analysis {
	result := s.Score(kw)
	folded := keyword.Fold(kw)

	analysis := Analysis{
		ScoreResult:  result,
		ContentType:  classifyContentType(folded),
		Difficulty:   classifyDifficulty(folded),
		SearchIntent: classifyIntent(folded),
		WordCount:    len(strings.Fields(kw)),
		Competition:  EstimateCompetition(kw),
	}
	analysis.ContentPotential = contentPotential(result.Score)
	return analysis
}

func classifyContentType(folded string) string {
	switch {
	case containsAny(folded, tutorialTerms):
		return "tutorial"
	case containsAny(folded, referenceTerms):
		return "reference"
	case containsAny(folded, jobTerms):
		return "career"
	case containsAny(folded, comparisonTerms):
		return "comparison"
	default:
		return "general"
	}
}

func classifyDifficulty(folded string) string {
	switch {
	case containsAny(folded, beginnerTerms):
		return "beginner"
	case containsAny(folded, expertTerms):
		return "expert"
	default:
		return "intermediate"
	}
}

func classifyIntent(folded string) string {
	if containsAny(folded, intentTerms) {
		return "high_intent"
	}
	return "informational"
}

// EstimateCompetition guesses competition level from keyword shape.
// Broad superlative queries are crowded; narrow technical ones are not.
func EstimateCompetition(kw string) string {
	folded := keyword.Fold(kw)
	switch {
	case containsAny(folded, highCompetitionTerms):
		return "high"
	case containsAny(folded, lowCompetitionTerms):
		return "low"
	default:
		return "medium"
	}
}

func contentPotential(score float64) string {
	switch {
	case score >= 70:
		return "excellent"
	case score >= 50:
		return "good"
	case score >= 30:
		return "fair"
	default:
		return "poor"
	}
}
