package service

import (
	"trendcheck-go/pkg/keyword"
	"trendcheck-go/pkg/scorer"
)

type generatorService struct{}

func NewGeneratorService() GeneratorService {
	return &generatorService{}
}

func (g *generatorService) Generate(seed string) []string {
	return keyword.Permute(seed)
}

type scoringService struct {
	scorer *scorer.HeuristicScorer
}

func NewScoringService(s *scorer.HeuristicScorer) ScoringService {
	return &scoringService{scorer: s}
}

func (s *scoringService) ScoreKeywords(keywords []string) []scorer.ScoreResult {
	results := make([]scorer.ScoreResult, 0, len(keywords))
	for _, kw := range keywords {
		results = append(results, s.scorer.Score(kw))
	}
	return results
}

func (s *scoringService) AnalyzeKeyword(kw string) scorer.Analysis {
	return s.scorer.Analyze(kw)
}
