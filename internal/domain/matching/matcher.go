// Package matching resolves free-text names to known entities. Scoring is
// deterministic: the same query and candidate list always yield the same order.
package matching

import (
	"sort"
	"strings"
)

const (
	// ExactScore is assigned to candidates whose normalized name equals the query
	ExactScore = 1.0

	// PartialScoreCeiling keeps every partial match strictly below an exact one
	PartialScoreCeiling = 0.99

	// MinScore is the threshold below which a candidate is not a match
	MinScore = 0.35

	// TokenExactWeight scores a query token equal to a candidate token
	TokenExactWeight = 1.0

	// TokenPrefixWeight scores a query token that is a prefix of a candidate token
	TokenPrefixWeight = 0.75

	// MinPrefixLength is the shortest query token allowed to prefix-match
	MinPrefixLength = 2

	// TokenFuzzyWeight scales the edit similarity of a misspelled token
	TokenFuzzyWeight = 0.6

	// MinTokenSimilarity is the edit similarity a misspelled token needs to count
	MinTokenSimilarity = 0.75

	// InOrderBonus rewards a token matched after the previously matched one
	InOrderBonus = 0.1

	// UnmatchedPenalty is charged per candidate token no query token matched
	UnmatchedPenalty = 0.1

	// UnmatchedQualifierPenalty replaces UnmatchedPenalty for qualifier tokens
	// such as manufacturer names, which users routinely omit
	UnmatchedQualifierPenalty = 0.02
)

// Matcher scores queries against candidate names
type Matcher struct {
	qualifiers map[string]bool
}

// NewMatcher creates a matcher. Qualifier words are discounted when a candidate
// contains them but the query does not.
func NewMatcher(qualifiers ...string) *Matcher {
	m := &Matcher{qualifiers: make(map[string]bool)}
	for _, q := range qualifiers {
		for _, tok := range Tokens(q) {
			m.qualifiers[tok] = true
		}
	}
	return m
}

// Score compares a query with one candidate name. It returns ExactScore for
// an exact normalized match, otherwise a value in [0, PartialScoreCeiling].
func (m *Matcher) Score(query, candidate string) float64 {
	q, c := Tokens(query), Tokens(candidate)
	if len(q) == 0 || len(c) == 0 {
		return 0
	}
	if strings.Join(q, " ") == strings.Join(c, " ") {
		return ExactScore
	}

	used := make([]bool, len(c))
	lastMatched := -1
	total := 0.0
	for _, qt := range q {
		best, bestIdx := 0.0, -1
		for i, ct := range c {
			if used[i] {
				continue
			}
			if s := tokenScore(qt, ct); s > best {
				best, bestIdx = s, i
			}
		}
		if bestIdx < 0 {
			continue
		}
		used[bestIdx] = true
		if bestIdx > lastMatched {
			best += InOrderBonus
		}
		lastMatched = bestIdx
		total += best
	}

	// Scale so that every query token matched exactly and in order lands on the ceiling
	score := total / float64(len(q)) / (TokenExactWeight + InOrderBonus) * PartialScoreCeiling
	for i, ct := range c {
		if used[i] {
			continue
		}
		if m.qualifiers[ct] {
			score -= UnmatchedQualifierPenalty
		} else {
			score -= UnmatchedPenalty
		}
	}

	if score < 0 {
		return 0
	}
	return score
}

func tokenScore(query, candidate string) float64 {
	if query == candidate {
		return TokenExactWeight
	}
	if len([]rune(query)) >= MinPrefixLength && strings.HasPrefix(candidate, query) {
		return TokenPrefixWeight
	}
	if sim := similarity(query, candidate); sim >= MinTokenSimilarity {
		return sim * TokenFuzzyWeight
	}
	return 0
}

// Candidate is one resolvable entity. Aliases (codes, full names) are scored
// alongside the name and the best score counts.
type Candidate[T any] struct {
	Name    string
	Aliases []string
	Value   T
}

// Match is a scored candidate
type Match[T any] struct {
	Candidate[T]
	Score float64
}

// Resolve ranks candidates against the query, best first. Exact matches win
// outright: when any candidate matches exactly only exact matches are
// returned. Ties are broken by the shorter name, then by input order. An empty
// result is a normal outcome.
func Resolve[T any](m *Matcher, query string, candidates []Candidate[T]) []Match[T] {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	var matches []Match[T]
	exact := false
	for _, cand := range candidates {
		best := m.Score(query, cand.Name)
		for _, alias := range cand.Aliases {
			if s := m.Score(query, alias); s > best {
				best = s
			}
		}
		if best < MinScore {
			continue
		}
		if best >= ExactScore {
			exact = true
		}
		matches = append(matches, Match[T]{Candidate: cand, Score: best})
	}

	if exact {
		kept := matches[:0]
		for _, match := range matches {
			if match.Score >= ExactScore {
				kept = append(kept, match)
			}
		}
		matches = kept
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return len(matches[i].Name) < len(matches[j].Name)
	})
	return matches
}

// Best returns the top match, if any
func Best[T any](m *Matcher, query string, candidates []Candidate[T]) (Match[T], bool) {
	matches := Resolve(m, query, candidates)
	if len(matches) == 0 {
		return Match[T]{}, false
	}
	return matches[0], true
}
