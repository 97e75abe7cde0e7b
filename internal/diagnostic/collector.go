package diagnostic

// Collector accumulates Issues for one file, deduplicating by
// (file, start, end, code) exactly as funxy's walker.addError does for its
// own *DiagnosticError values; Issues returns them in source order for
// final reporting (spec.md §5: "diagnostics are emitted in source order
// within a single file").
type Collector struct {
	seen   map[string]struct{}
	issues []Issue
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]struct{})}
}

// Add records issue unless an equivalent one (same span + code) was
// already recorded.
func (c *Collector) Add(issue Issue) {
	k := issue.key()
	if _, ok := c.seen[k]; ok {
		return
	}
	c.seen[k] = struct{}{}
	c.issues = append(c.issues, issue)
}

// Issues returns all recorded issues ordered by primary span start offset,
// then by code, for determinism when two issues share a start offset.
func (c *Collector) Issues() []Issue {
	out := make([]Issue, len(c.issues))
	copy(out, c.issues)
	sortIssues(out)
	return out
}

func sortIssues(issues []Issue) {
	// Simple insertion sort: issue counts per file are small, and this
	// keeps the dependency list free of a sort-specific import for a
	// one-off stable order.
	for i := 1; i < len(issues); i++ {
		j := i
		for j > 0 && less(issues[j], issues[j-1]) {
			issues[j], issues[j-1] = issues[j-1], issues[j]
			j--
		}
	}
}

func less(a, b Issue) bool {
	if a.Primary.Start != b.Primary.Start {
		return a.Primary.Start < b.Primary.Start
	}
	if a.Primary.End != b.Primary.End {
		return a.Primary.End < b.Primary.End
	}
	return a.Code < b.Code
}
