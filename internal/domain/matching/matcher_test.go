package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/domain/matching"
)

func names(cands ...string) []matching.Candidate[string] {
	out := make([]matching.Candidate[string], len(cands))
	for i, c := range cands {
		out[i] = matching.Candidate[string]{Name: c, Value: c}
	}
	return out
}

func resolvedNames(matches []matching.Match[string]) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Value
	}
	return out
}

func TestResolve_PartialShipNameReturnsBothVariantsFirst(t *testing.T) {
	m := matching.NewMatcher()
	ships := names("Cutlass Black", "Cutlass Red", "Freelancer")

	first := resolvedNames(matching.Resolve(m, "Cutlass", ships))
	second := resolvedNames(matching.Resolve(m, "Cutlass", ships))

	require.GreaterOrEqual(t, len(first), 2)
	assert.ElementsMatch(t, []string{"Cutlass Black", "Cutlass Red"}, first[:2])
	assert.NotContains(t, first[:2], "Freelancer")
	assert.Equal(t, first, second, "order must be stable across calls")
	assert.Equal(t, []string{"Cutlass Red", "Cutlass Black"}, first[:2], "equal scores prefer the shorter name")
}

func TestResolve_ExactMatchWinsOutright(t *testing.T) {
	m := matching.NewMatcher()

	matches := matching.Resolve(m, "cutlass black", names("Cutlass Black Best In Show", "Cutlass Black", "Cutlass Blue"))

	require.Len(t, matches, 1)
	assert.Equal(t, "Cutlass Black", matches[0].Value)
	assert.Equal(t, matching.ExactScore, matches[0].Score)
}

func TestResolve_NoMatchIsEmptyNotError(t *testing.T) {
	m := matching.NewMatcher()

	assert.Empty(t, matching.Resolve(m, "Zzyzx", names("Cutlass Black", "Freelancer")))
	assert.Empty(t, matching.Resolve(m, "   ", names("Cutlass Black")))
}

func TestResolve_ToleratesOmittedManufacturer(t *testing.T) {
	withQualifiers := matching.NewMatcher("Drake Interplanetary", "Musashi Industrial & Starflight Concern")
	plain := matching.NewMatcher()

	discounted := withQualifiers.Score("Cutlass Black", "Drake Cutlass Black")
	penalised := plain.Score("Cutlass Black", "Drake Cutlass Black")

	assert.Greater(t, discounted, penalised)
	assert.GreaterOrEqual(t, discounted, matching.MinScore)
}

func TestResolve_ToleratesTypos(t *testing.T) {
	m := matching.NewMatcher()

	best, ok := matching.Best(m, "Cutlas Blak", names("Freelancer", "Cutlass Black", "Caterpillar"))

	require.True(t, ok)
	assert.Equal(t, "Cutlass Black", best.Value)
}

func TestResolve_AliasesAreScored(t *testing.T) {
	m := matching.NewMatcher()
	cands := []matching.Candidate[int]{
		{Name: "Quantanium", Aliases: []string{"QUAN"}, Value: 1},
		{Name: "Quartz", Aliases: []string{"QUAR"}, Value: 2},
	}

	best, ok := matching.Best(m, "quar", cands)

	require.True(t, ok)
	assert.Equal(t, 2, best.Value)
}

func TestScore(t *testing.T) {
	m := matching.NewMatcher()

	tests := []struct {
		name      string
		query     string
		candidate string
		min       float64
		max       float64
	}{
		{"exact ignoring case and punctuation", "port-tressler", "Port Tressler", matching.ExactScore, matching.ExactScore},
		{"diacritics are folded", "Orisön", "Orison", matching.ExactScore, matching.ExactScore},
		{"prefix", "lara", "Laranite", matching.MinScore, matching.PartialScoreCeiling},
		{"misspelled token", "Laranate", "Laranite", matching.MinScore, matching.PartialScoreCeiling},
		{"edit distance counts runes", "Ørison", "Orison", matching.MinScore, matching.PartialScoreCeiling},
		{"unrelated", "gold", "Laranite", 0, matching.MinScore - 0.01},
		{"empty", "", "Laranite", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := m.Score(tt.query, tt.candidate)
			assert.GreaterOrEqual(t, s, tt.min)
			assert.LessOrEqual(t, s, tt.max)
		})
	}
}

func TestScore_IsDeterministic(t *testing.T) {
	m := matching.NewMatcher("Drake")
	for i := 0; i < 10; i++ {
		assert.Equal(t, m.Score("cat", "Drake Caterpillar"), m.Score("cat", "Drake Caterpillar"))
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "musashi industrial starflight concern", matching.Normalize("Musashi Industrial & Starflight Concern"))
	assert.Equal(t, "hdms bezdek", matching.Normalize("  HDMS-Bezdek "))
}
