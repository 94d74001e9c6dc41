package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/uexcorp-go/internal/domain/matching"
)

type fuzzyMatchContext struct {
	matcher    *matching.Matcher
	candidates []matching.Candidate[string]
	matches    []matching.Match[string]
	second     []matching.Match[string]
}

func (c *fuzzyMatchContext) reset() {
	c.matcher = matching.NewMatcher()
	c.candidates = nil
	c.matches = nil
	c.second = nil
}

func (c *fuzzyMatchContext) theShips(first, second, third string) error {
	for _, name := range []string{first, second, third} {
		c.candidates = append(c.candidates, matching.Candidate[string]{Name: name, Value: name})
	}
	return nil
}

func (c *fuzzyMatchContext) iResolve(query string) error {
	c.matches = matching.Resolve(c.matcher, query, c.candidates)
	return nil
}

func (c *fuzzyMatchContext) iResolveTwice(query string) error {
	c.matches = matching.Resolve(c.matcher, query, c.candidates)
	c.second = matching.Resolve(c.matcher, query, c.candidates)
	return nil
}

func (c *fuzzyMatchContext) names(matches []matching.Match[string]) []string {
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return names
}

func (c *fuzzyMatchContext) theFirstTwoMatchesShouldBe(first, second string) error {
	got := c.names(c.matches)
	if len(got) < 2 || got[0] != first || got[1] != second {
		return fmt.Errorf("expected %q and %q first, got %v", first, second, got)
	}
	return nil
}

func (c *fuzzyMatchContext) shouldNotBeRankedBeforeAnyCutlass(name string) error {
	got := c.names(c.matches)
	for i, n := range got {
		if n != name {
			continue
		}
		for _, later := range got[i+1:] {
			if strings.HasPrefix(later, "Cutlass") {
				return fmt.Errorf("%q ranked before %q: %v", name, later, got)
			}
		}
	}
	return nil
}

func (c *fuzzyMatchContext) bothResolutionsShouldBeIdentical() error {
	if len(c.matches) != len(c.second) {
		return fmt.Errorf("got %d then %d matches", len(c.matches), len(c.second))
	}
	for i := range c.matches {
		if c.matches[i].Name != c.second[i].Name || c.matches[i].Score != c.second[i].Score {
			return fmt.Errorf("match %d differs: %v vs %v", i, c.matches[i], c.second[i])
		}
	}
	return nil
}

func (c *fuzzyMatchContext) theOnlyMatchShouldBe(name string) error {
	got := c.names(c.matches)
	if len(got) != 1 || got[0] != name {
		return fmt.Errorf("expected only %q, got %v", name, got)
	}
	return nil
}

func (c *fuzzyMatchContext) thereShouldBeNoMatches() error {
	if len(c.matches) != 0 {
		return fmt.Errorf("expected no matches, got %v", c.names(c.matches))
	}
	return nil
}

// InitializeFuzzyMatchScenario registers the name matching steps
func InitializeFuzzyMatchScenario(sc *godog.ScenarioContext) {
	c := &fuzzyMatchContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^the ships "([^"]*)", "([^"]*)" and "([^"]*)"$`, c.theShips)
	sc.Step(`^I resolve "([^"]*)"$`, c.iResolve)
	sc.Step(`^I resolve "([^"]*)" twice$`, c.iResolveTwice)
	sc.Step(`^the first 2 matches should be "([^"]*)" and "([^"]*)"$`, c.theFirstTwoMatchesShouldBe)
	sc.Step(`^"([^"]*)" should not be ranked before any Cutlass$`, c.shouldNotBeRankedBeforeAnyCutlass)
	sc.Step(`^both resolutions should be identical$`, c.bothResolutionsShouldBeIdentical)
	sc.Step(`^the only match should be "([^"]*)"$`, c.theOnlyMatchShouldBe)
	sc.Step(`^there should be no matches$`, c.thereShouldBeNoMatches)
}
