// Package probe looks at a shop's own homepage for ordering links that
// point at aggregator platforms.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Matcher reports the aggregator domain a host belongs to.
type Matcher interface {
	Match(host string) (string, bool)
}

type Prober struct {
	hc      *http.Client
	matcher Matcher
}

func New(matcher Matcher, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Prober{
		hc:      &http.Client{Timeout: timeout},
		matcher: matcher,
	}
}

// AggregatorLinks fetches site and returns the sorted, distinct aggregator
// domains its anchors link to.
func (p *Prober) AggregatorLinks(ctx context.Context, site string) ([]string, error) {
	base, err := url.Parse(strings.TrimSpace(site))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("probe: bad url %q", site)
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("probe status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("probe parse html: %w", err)
	}

	found := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		host := strings.ToLower(base.ResolveReference(ref).Hostname())
		host = strings.TrimPrefix(host, "www.")
		if host == "" {
			return
		}
		if d, ok := p.matcher.Match(host); ok {
			found[d] = true
		}
	})

	out := make([]string, 0, len(found))
	for d := range found {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}
