package scorer

// Term lists driving the heuristic score. All matching is case-folded
// substring containment against the keyword.

// highValueTerms gets a single +25 bonus, first match wins.
var highValueTerms = []string{
	"linux", "windows", "android", "install", "download", "tutorial",
	"commands", "admin", "security", "server", "development", "programming",
}

// Independently stackable bonus groups.
var (
	commandTerms    = []string{"command", "cmd", "terminal", "bash"}
	jobTerms        = []string{"job", "career", "salary", "interview"}
	problemTerms    = []string{"error", "fix", "problem", "troubleshoot", "issue"}
	commercialTerms = []string{"download", "free", "price", "cost", "buy"}
	trendingTech    = []string{"ai", "docker", "kubernetes", "cloud", "devops"}
)

// Classification vocab for the priority analysis extras.
var (
	tutorialTerms   = []string{"tutorial", "guide", "how", "step"}
	referenceTerms  = []string{"command", "commands", "terminal"}
	comparisonTerms = []string{"vs", "versus", "difference", "compare"}
	intentTerms     = []string{
		"download", "install", "tutorial", "how", "guide", "commands",
		"example", "free", "best", "top", "list", "course", "learn",
	}
	beginnerTerms = []string{"basic", "beginner", "introduction", "getting started", "fundamentals"}
	expertTerms   = []string{"kernel", "system", "architecture", "development", "programming"}

	highCompetitionTerms = []string{"best", "top", "review", "comparison"}
	lowCompetitionTerms  = []string{"command", "error", "configuration", "troubleshoot"}
)
