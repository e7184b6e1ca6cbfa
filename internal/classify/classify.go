// Package classify decides whether a shop's listed website is its own
// ordering site or a third-party aggregator page.
package classify

import (
	"net/url"
	"strings"
)

type StripMode int

const (
	// StripExact removes a literal leading "www." from the host.
	StripExact StripMode = iota
	// StripLegacy trims every leading 'w' and '.' character, so
	// "wwwabc.com" becomes "abc.com" and "web.com" becomes "eb.com".
	// Reports produced by the earlier script were built this way.
	StripLegacy
)

type Option func(*Classifier)

func WithStripMode(m StripMode) Option {
	return func(c *Classifier) { c.strip = m }
}

type Classifier struct {
	aggregators []string
	strip       StripMode
}

// New returns a classifier for the given aggregator domains. Domains are
// matched case-insensitively as host suffixes.
func New(aggregators []string, opts ...Option) *Classifier {
	c := &Classifier{}
	for _, d := range aggregators {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			c.aggregators = append(c.aggregators, d)
		}
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify reports whether website is present and whether it is a direct
// ordering site. direct is never true when hasWebsite is false.
func (c *Classifier) Classify(website string) (hasWebsite, direct bool) {
	website = strings.TrimSpace(website)
	if website == "" {
		return false, false
	}

	host, ok := c.Host(website)
	if !ok {
		return true, false
	}
	if c.IsAggregator(host) {
		return true, false
	}
	return true, true
}

// Host returns the lower-cased, www-stripped host of raw. ok is false when
// no host can be parsed.
func (c *Classifier) Host(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}

	switch c.strip {
	case StripLegacy:
		host = strings.TrimLeft(host, "w.")
	default:
		host = strings.TrimPrefix(host, "www.")
	}
	return host, true
}

// IsAggregator reports whether host ends with one of the aggregator domains.
func (c *Classifier) IsAggregator(host string) bool {
	_, ok := c.Match(host)
	return ok
}

// Match returns the aggregator domain that host ends with.
func (c *Classifier) Match(host string) (string, bool) {
	host = strings.ToLower(host)
	for _, d := range c.aggregators {
		if strings.HasSuffix(host, d) {
			return d, true
		}
	}
	return "", false
}
