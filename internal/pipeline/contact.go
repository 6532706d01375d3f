package pipeline

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/partscout/datasheet-search/internal/fetcher"
	"github.com/partscout/datasheet-search/internal/model"
)

// contactKeywords mark a link as a contact/inquiry page when found in its
// href or anchor text.
var contactKeywords = []string{
	"contact",
	"inquiry",
	"quote",
	"request",
	"get-quote",
	"reach-us",
}

// contactProbePaths are tried in order when the homepage gives no link.
var contactProbePaths = []string{
	"/contact",
	"/contact-us",
	"/inquiry",
	"/request-quote",
	"/get-quote",
}

// ContactResolver finds a supplier contact page for each product's domain.
// The homepage fetch gets a longer deadline than the path probes.
type ContactResolver struct {
	homepage fetcher.Fetcher
	probe    fetcher.Fetcher
}

// NewContactResolver creates a resolver with the standard deadlines.
func NewContactResolver() *ContactResolver {
	return &ContactResolver{
		homepage: fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 10 * time.Second, MaxRetries: 1}),
		probe:    fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 8 * time.Second, MaxRetries: 1}),
	}
}

// ResolveContacts fills ContactURL on every product. One lookup per distinct
// host, shared across products from that host. Never fails: the worst case
// is the derived /contact fallback.
func (r *ContactResolver) ResolveContacts(ctx context.Context, products []model.Product) []model.Product {
	var bases []string
	seen := make(map[string]bool)
	for _, p := range products {
		base := baseURLOf(p.URL)
		if base != "" && !seen[base] {
			seen[base] = true
			bases = append(bases, base)
		}
	}

	resolved := make([]string, len(bases))
	g, gCtx := errgroup.WithContext(ctx)
	for i, base := range bases {
		g.Go(func() error {
			resolved[i] = r.resolveForHost(gCtx, base)
			return nil
		})
	}
	_ = g.Wait()

	hosts := make(map[string]string, len(bases))
	for i, base := range bases {
		hosts[base] = resolved[i]
	}

	out := make([]model.Product, len(products))
	for i, p := range products {
		out[i] = p
		if base := baseURLOf(p.URL); base != "" {
			out[i].ContactURL = hosts[base]
		}
	}
	return out
}

// resolveForHost never returns "": worst case is base + "/contact".
func (r *ContactResolver) resolveForHost(ctx context.Context, base string) string {
	body, err := r.homepage.Fetch(ctx, base)
	if err == nil {
		if link := findContactLink(string(body), base); link != "" {
			return link
		}
	} else {
		zap.L().Debug("contact: homepage fetch failed", zap.String("base", base), zap.Error(err))
	}

	for _, path := range contactProbePaths {
		probeURL := base + path
		if _, err := r.probe.Fetch(ctx, probeURL); err == nil {
			return probeURL
		}
	}

	return base + "/contact"
}

func baseURLOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + u.Host
}

// findContactLink scans anchors for a contact keyword in the href or the
// anchor text and returns the first hit resolved to an absolute URL.
func findContactLink(html, base string) string {
	baseU, err := url.Parse(base)
	if err != nil {
		return ""
	}

	lower := strings.ToLower(html)
	offset := 0
	for {
		idx := strings.Index(lower[offset:], "<a")
		if idx < 0 {
			return ""
		}
		tagStart := offset + idx
		tagEnd := strings.Index(lower[tagStart:], ">")
		if tagEnd < 0 {
			return ""
		}
		tagEnd += tagStart

		href := attrValue(html[tagStart:tagEnd], "href")

		text := ""
		if closeIdx := strings.Index(lower[tagEnd:], "</a>"); closeIdx >= 0 {
			text = html[tagEnd+1 : tagEnd+closeIdx]
		}
		offset = tagEnd

		if href == "" {
			continue
		}
		if !containsContactKeyword(href) && !containsContactKeyword(text) {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := baseU.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}
		return resolved.String()
	}
}

func containsContactKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range contactKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func attrValue(tag, attr string) string {
	lower := strings.ToLower(tag)
	idx := strings.Index(lower, attr+`="`)
	if idx < 0 {
		return ""
	}
	start := idx + len(attr) + 2
	end := strings.Index(tag[start:], `"`)
	if end < 0 {
		return ""
	}
	return tag[start : start+end]
}
