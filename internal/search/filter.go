// Package search ranks accounts against a fuzzy query.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/hotpot-dev/hotpot/internal/totp"
)

const (
	exactNameBonus  = 1000
	namePrefixBonus = 100
)

// Result refers to one account of the filtered slice by index.
type Result struct {
	Index int
	Score int
	// NameMatches holds byte offsets of the name characters matched by the query.
	NameMatches []int
}

// Filter returns the accounts matching query, best first. A blank query keeps
// every account in storage order. Matching is a case-insensitive
// subsequence match against the name or the issuer.
func Filter(accounts []totp.Account, query string) []Result {
	q := strings.TrimSpace(query)
	if q == "" {
		out := make([]Result, len(accounts))
		for i := range accounts {
			out[i] = Result{Index: i}
		}
		return out
	}
	lowerQ := strings.ToLower(q)

	// fuzzy matches case-insensitively, so match offsets index the names as stored.
	names := make([]string, len(accounts))
	issuers := make([]string, len(accounts))
	for i, a := range accounts {
		names[i] = a.Name
		issuers[i] = a.Issuer
	}

	best := make(map[int]*Result)
	for _, m := range fuzzy.Find(q, names) {
		score := m.Score
		switch {
		case strings.EqualFold(names[m.Index], q):
			score += exactNameBonus
		case strings.HasPrefix(strings.ToLower(names[m.Index]), lowerQ):
			score += namePrefixBonus
		}
		best[m.Index] = &Result{Index: m.Index, Score: score, NameMatches: m.MatchedIndexes}
	}
	for _, m := range fuzzy.Find(q, issuers) {
		if r, ok := best[m.Index]; ok {
			if m.Score > r.Score {
				r.Score = m.Score
			}
			continue
		}
		best[m.Index] = &Result{Index: m.Index, Score: m.Score}
	}

	out := make([]Result, 0, len(best))
	for _, r := range best {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// ClampSelection keeps a selection inside [0, n). It returns -1 when there is
// nothing to select.
func ClampSelection(selected, n int) int {
	if n <= 0 {
		return -1
	}
	if selected < 0 {
		return 0
	}
	if selected >= n {
		return n - 1
	}
	return selected
}
