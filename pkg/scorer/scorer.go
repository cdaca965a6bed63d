package scorer

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"trendcheck-go/pkg/keyword"
)

const timeFormat = "2006-01-02 15:04:05"

// Category is the discrete bucket a score falls into. Buckets are fixed;
// the display label vocabulary varies per scorer profile.
type Category int

const (
	CategoryNoData Category = iota
	CategoryVeryLow
	CategoryLow
	CategoryMedium
	CategoryHigh
	CategoryVeryHigh
)

// Categorize maps a score to its bucket. Monotonic step function of the
// score alone.
func Categorize(score float64) Category {
	switch {
	case score >= 80:
		return CategoryVeryHigh
	case score >= 60:
		return CategoryHigh
	case score >= 40:
		return CategoryMedium
	case score >= 20:
		return CategoryLow
	case score > 0:
		return CategoryVeryLow
	default:
		return CategoryNoData
	}
}

// ScoreResult is the terminal outcome of scoring one keyword. Immutable
// after creation.
type ScoreResult struct {
	Keyword   string  `json:"keyword"`
	Score     float64 `json:"score"`
	Category  string  `json:"category"`
	HasData   bool    `json:"has_data"`
	CheckedAt string  `json:"checked_at"`
	Attempts  int     `json:"attempts"`
	Error     string  `json:"error,omitempty"`
}

// Scorer maps a keyword to a ScoreResult.
type Scorer interface {
	Score(kw string) ScoreResult
}

// Profile parameterizes a heuristic scorer instance: jitter range and the
// label vocabulary for the shared category ladder.
type Profile struct {
	Name      string
	JitterMin float64
	JitterMax float64
	Labels    [6]string // indexed by Category
}

// Label returns the display label for a bucket under this profile.
func (p Profile) Label(c Category) string {
	return p.Labels[c]
}

// TrendProfile matches the general trend-score shape.
func TrendProfile() Profile {
	return Profile{
		Name:      "trend",
		JitterMin: -10,
		JitterMax: 15,
		Labels:    [6]string{"no_data", "very_low", "low", "medium", "high", "very_high"},
	}
}

// PriorityProfile matches the content-priority shape: tighter jitter,
// editorial label vocabulary.
func PriorityProfile() Profile {
	return Profile{
		Name:      "priority",
		JitterMin: -5,
		JitterMax: 10,
		Labels:    [6]string{"no_data", "marginal", "poor", "fair", "good", "excellent"},
	}
}

// HeuristicScorer scores keywords from string features plus a bounded
// random jitter. Safe for concurrent use.
type HeuristicScorer struct {
	profile Profile

	// rand.Rand is not goroutine safe
	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

// New creates a scorer with the given profile and jitter seed. The same
// seed yields the same jitter sequence, which tests rely on.
func New(profile Profile, seed int64) *HeuristicScorer {
	return &HeuristicScorer{
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
		now:     time.Now,
	}
}

// NewTrendScorer creates the trend-scoring instance.
func NewTrendScorer(seed int64) *HeuristicScorer {
	return New(TrendProfile(), seed)
}

// NewPriorityScorer creates the content-priority instance.
func NewPriorityScorer(seed int64) *HeuristicScorer {
	return New(PriorityProfile(), seed)
}

// Score evaluates one keyword. Never panics; the empty string scores 0
// with the no-data label.
func (s *HeuristicScorer) Score(kw string) ScoreResult {
	checkedAt := s.now().Format(timeFormat)

	if strings.TrimSpace(kw) == "" {
		return ScoreResult{
			Keyword:   kw,
			Score:     0,
			Category:  s.profile.Label(CategoryNoData),
			HasData:   false,
			CheckedAt: checkedAt,
			Attempts:  1,
		}
	}

	score := BaseScore(kw) + s.jitter()
	score = clamp(score)

	bucket := Categorize(score)
	return ScoreResult{
		Keyword:   kw,
		Score:     score,
		Category:  s.profile.Label(bucket),
		HasData:   score > 0,
		CheckedAt: checkedAt,
		Attempts:  1,
	}
}

// Profile returns the scorer's profile.
func (s *HeuristicScorer) Profile() Profile {
	return s.profile
}

// Failure builds the terminal record for a keyword whose evaluation
// exhausted its attempts. Distinguishable from a genuine zero score by
// the non-empty error column.
func Failure(kw string, attempts int, errMsg string) ScoreResult {
	return ScoreResult{
		Keyword:   kw,
		Score:     0,
		Category:  "no_data",
		HasData:   false,
		CheckedAt: time.Now().Format(timeFormat),
		Attempts:  attempts,
		Error:     errMsg,
	}
}

func (s *HeuristicScorer) jitter() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.JitterMin + s.rng.Float64()*(s.profile.JitterMax-s.profile.JitterMin)
}

// BaseScore computes the deterministic part of the heuristic: length
// bucket, vocabulary bonuses and the word-count sweet spot, before jitter
// and clamping.
func BaseScore(kw string) float64 {
	folded := keyword.Fold(kw)
	score := 0.0

	// Shorter terms tend to be searched more.
	switch {
	case len(kw) < 15:
		score += 20
	case len(kw) < 25:
		score += 10
	default:
		score += 5
	}

	// Single high-value bonus, first match wins.
	for _, term := range highValueTerms {
		if strings.Contains(folded, term) {
			score += 25
			break
		}
	}

	// Stackable bonus groups.
	if containsAny(folded, commandTerms) {
		score += 30
	}
	if containsAny(folded, jobTerms) {
		score += 15
	}
	if containsAny(folded, problemTerms) {
		score += 20
	}
	if containsAny(folded, commercialTerms) {
		score += 12
	}
	if containsAny(folded, trendingTech) {
		score += 18
	}

	// 2-4 words is the SEO sweet spot.
	switch words := len(strings.Fields(kw)); {
	case words >= 2 && words <= 4:
		score += 15
	case words == 1:
		score += 5
	default:
		score -= 5
	}

	return score
}

func containsAny(folded string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(folded, term) {
			return true
		}
	}
	return false
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
