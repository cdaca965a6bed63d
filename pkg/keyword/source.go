package keyword

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"

	"trendcheck-go/pkg/logger"
)

// Fold returns the Unicode case-folded form of s, used for all
// case-insensitive keyword matching. Display always keeps the original
// casing; only matching goes through Fold.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Load reads keywords from a line-delimited UTF-8 file, one keyword per
// line, skipping blank lines. The whole file is read before any
// processing starts.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keywords file: %w", err)
	}
	defer file.Close()

	var keywords []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			keywords = append(keywords, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}

	logger.GetLogger().Component("keyword_source").WithFields(map[string]interface{}{
		"file":  path,
		"count": len(keywords),
	}).Info("Loaded keywords")

	return keywords, nil
}

// FilterByReference keeps only keywords that contain at least one of the
// reference terms, case-folded substring match. First matching term wins;
// remaining terms are not checked for that keyword.
func FilterByReference(keywords, reference []string) []string {
	folded := make([]string, 0, len(reference))
	for _, ref := range reference {
		ref = strings.TrimSpace(ref)
		if ref != "" {
			folded = append(folded, Fold(ref))
		}
	}

	var matched []string
	for _, kw := range keywords {
		kwFolded := Fold(kw)
		for _, ref := range folded {
			if strings.Contains(kwFolded, ref) {
				matched = append(matched, kw)
				break
			}
		}
	}

	logger.GetLogger().Component("keyword_source").WithFields(map[string]interface{}{
		"total":   len(keywords),
		"matched": len(matched),
	}).Info("Filtered keywords against reference set")

	return matched
}
