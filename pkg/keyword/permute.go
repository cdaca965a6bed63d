package keyword

import "strings"

// Suggest-style expansion modifiers, roughly what autocomplete probing
// surfaces for how-to/commercial queries.
var suggestModifiers = []string{
	"tutorial",
	"guide",
	"download",
	"free",
	"examples",
	"for beginners",
	"step by step",
	"pdf",
	"vs",
	"alternatives",
	"commands",
	"cheat sheet",
	"install",
	"near me",
	"online",
}

// Permute generates suggest-style permutations for a seed keyword: the
// seed followed by each letter probe a-z, then the seed combined with
// each curated modifier phrase. The seed itself is not included.
func Permute(seed string) []string {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil
	}

	results := make([]string, 0, 26+len(suggestModifiers))
	for c := 'a'; c <= 'z'; c++ {
		results = append(results, seed+" "+string(c))
	}
	for _, mod := range suggestModifiers {
		results = append(results, seed+" "+mod)
	}
	return results
}
