package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotpot-dev/hotpot/internal/totp"
)

func accounts(names ...string) []totp.Account {
	out := make([]totp.Account, len(names))
	for i, n := range names {
		out[i] = totp.NewAccount(n, "JBSWY3DPEHPK3PXP", "")
	}
	return out
}

func names(all []totp.Account, results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = all[r.Index].Name
	}
	return out
}

func TestFilter_EmptyQueryKeepsOrder(t *testing.T) {
	all := accounts("github", "google", "aws")
	for _, q := range []string{"", "   "} {
		assert.Equal(t, []string{"github", "google", "aws"}, names(all, Filter(all, q)))
	}
}

func TestFilter_SubsequenceMembership(t *testing.T) {
	all := accounts("github", "google", "gitlab")

	got := names(all, Filter(all, "gh"))
	assert.Equal(t, []string{"github"}, got)

	assert.Empty(t, Filter(all, "xyz"))
}

func TestFilter_CaseInsensitive(t *testing.T) {
	all := accounts("GitHub", "google")
	assert.Equal(t, []string{"GitHub"}, names(all, Filter(all, "GITH")))
}

func TestFilter_ExactNameRanksFirst(t *testing.T) {
	all := accounts("git-backup", "gitlab", "git")
	got := names(all, Filter(all, "git"))
	require.Len(t, got, 3)
	assert.Equal(t, "git", got[0])
}

func TestFilter_MatchesIssuer(t *testing.T) {
	all := []totp.Account{
		totp.NewAccount("alice@example.com", "JBSWY3DPEHPK3PXP", "Amazon Web Services"),
		totp.NewAccount("bob", "JBSWY3DPEHPK3PXP", "GitHub"),
	}
	assert.Equal(t, []string{"alice@example.com"}, names(all, Filter(all, "amazon")))
}

func TestFilter_ReportsNameMatches(t *testing.T) {
	all := accounts("github")
	res := Filter(all, "gh")
	require.Len(t, res, 1)
	assert.Equal(t, []int{0, 3}, res[0].NameMatches)
}

func TestFilter_NameMatchesIndexStoredName(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"GitHub", "gh", "GH"},
		{"İstanbul", "stan", "stan"},
		{"ÅRHUS-bank", "bank", "bank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Filter(accounts(tt.name), tt.query)
			require.Len(t, res, 1)
			var got []byte
			for _, i := range res[0].NameMatches {
				got = append(got, tt.name[i])
			}
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFilter_TiesKeepStorageOrder(t *testing.T) {
	all := accounts("abc-one", "abc-two")
	assert.Equal(t, []string{"abc-one", "abc-two"}, names(all, Filter(all, "abc")))
}

func TestClampSelection(t *testing.T) {
	tests := []struct {
		sel, n, want int
	}{
		{0, 0, -1},
		{5, 0, -1},
		{-1, 3, 0},
		{1, 3, 1},
		{3, 3, 2},
		{10, 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampSelection(tt.sel, tt.n), "sel=%d n=%d", tt.sel, tt.n)
	}
}
