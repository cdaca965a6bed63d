package service

import "trendcheck-go/pkg/scorer"

// GeneratorService expands a seed keyword into suggest-style
// permutations.
type GeneratorService interface {
	Generate(seed string) []string
}

// ScoringService evaluates submitted keywords with the configured
// heuristic scorer.
type ScoringService interface {
	ScoreKeywords(keywords []string) []scorer.ScoreResult
	AnalyzeKeyword(kw string) scorer.Analysis
}
