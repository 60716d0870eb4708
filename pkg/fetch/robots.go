package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"

	"book-harvester/pkg/utils"
)

// RobotsGate answers robots.txt allow/deny questions for the single
// catalog host. It fetches the file once at walk start; an unreachable or
// missing robots.txt allows everything, matching the usual crawler
// convention.
type RobotsGate struct {
	fetcher *Fetcher
	agent   string
	log     *logrus.Logger
	group   *robotstxt.Group
}

// NewRobotsGate creates an unloaded gate. Allowed reports true until Load
// has run.
func NewRobotsGate(fetcher *Fetcher, agent string, log *logrus.Logger) *RobotsGate {
	return &RobotsGate{fetcher: fetcher, agent: agent, log: log}
}

// Load fetches and parses robots.txt from the site's root.
func (g *RobotsGate) Load(ctx context.Context, site *url.URL) error {
	robotsURL := site.ResolveReference(&url.URL{Path: "/robots.txt"})
	res, err := g.fetcher.Get(ctx, robotsURL.String())
	if err != nil && !errors.Is(err, utils.ErrHTTPStatus) {
		// Transport-level failure: leave the gate open rather than blocking
		// the whole walk on a politeness lookup.
		g.log.Warnf("robots.txt fetch failed, proceeding without restrictions: %v", err)
		return nil
	}

	data, parseErr := robotstxt.FromStatusAndBytes(res.StatusCode, res.Body)
	if parseErr != nil {
		return fmt.Errorf("%w: robots.txt from '%s': %w", utils.ErrParsing, robotsURL, parseErr)
	}
	g.group = data.FindGroup(g.agent)
	g.log.WithField("agent", g.agent).Debug("robots.txt loaded")
	return nil
}

// Allowed reports whether the given URL path may be fetched.
func (g *RobotsGate) Allowed(path string) bool {
	if g.group == nil {
		return true
	}
	if path == "" {
		path = "/"
	}
	return g.group.Test(path)
}
