package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/partscout/datasheet-search/internal/config"
	"github.com/partscout/datasheet-search/internal/docconv"
	"github.com/partscout/datasheet-search/internal/fetcher"
	"github.com/partscout/datasheet-search/internal/model"
)

// pdfMagic is the required prefix of a real PDF payload.
var pdfMagic = []byte("%PDF-")

// maxEmbeddedPDFLinks caps how many PDF links are tried from one HTML page.
const maxEmbeddedPDFLinks = 3

// catalogURLPatterns mark multi-product documents that blow the page limit
// and dilute extraction. Matched against the lowercased URL path.
var catalogURLPatterns = []string{
	"catalog",
	"catalogue",
	"manual",
	"guide",
	"brochure",
	"series-",
}

// Acquirer downloads candidates and validates them as single-part datasheets.
// countPages is injectable so tests do not need real PDF fixtures.
type Acquirer struct {
	fetch      fetcher.Fetcher
	countPages func(raw []byte) (int, error)
	cfg        config.SearchConfig
}

// NewAcquirer creates an Acquirer backed by the given fetcher.
func NewAcquirer(fetch fetcher.Fetcher, cfg config.SearchConfig) *Acquirer {
	return &Acquirer{
		fetch:      fetch,
		countPages: docconv.PageCount,
		cfg:        cfg,
	}
}

// AcquireAll downloads every candidate in parallel. A failed candidate
// produces a document with Err set; nothing here aborts the request.
func (a *Acquirer) AcquireAll(ctx context.Context, candidates []model.Candidate) []model.AcquiredDocument {
	docs := make([]model.AcquiredDocument, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	for i, cand := range candidates {
		g.Go(func() error {
			docs[i] = a.acquire(gCtx, cand)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].RelevanceScore > docs[j].RelevanceScore
	})

	ok := 0
	for _, d := range docs {
		if d.Err == "" {
			ok++
		}
	}
	zap.L().Info("acquire: downloads complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("valid", ok),
	)
	return docs
}

func (a *Acquirer) acquire(ctx context.Context, cand model.Candidate) model.AcquiredDocument {
	doc := model.AcquiredDocument{
		URL:            cand.URL,
		RelevanceScore: cand.RelevanceScore,
	}

	if isCatalogURL(cand.URL) {
		doc.Err = "catalog or manual url, skipped"
		return doc
	}

	raw, err := a.fetch.Fetch(ctx, cand.URL)
	if err != nil {
		doc.Err = fmt.Sprintf("download failed: %v", err)
		return doc
	}

	if bytes.HasPrefix(raw, pdfMagic) {
		if reason := a.rejectReason(raw); reason != "" {
			doc.Err = reason
			return doc
		}
		doc.Raw = raw
		return doc
	}

	// Not a PDF: treat the payload as HTML and chase embedded PDF links.
	links := scanPDFLinks(string(raw), cand.URL)
	if len(links) == 0 {
		doc.Err = "no pdf content and no embedded pdf links"
		return doc
	}
	for _, link := range links {
		raw, err := a.fetch.Fetch(ctx, link)
		if err != nil || !bytes.HasPrefix(raw, pdfMagic) {
			continue
		}
		if a.rejectReason(raw) != "" {
			continue
		}
		doc.URL = link
		doc.Raw = raw
		return doc
	}
	doc.Err = "embedded pdf links yielded no valid datasheet"
	return doc
}

// rejectReason validates a PDF payload against the datasheet limits, returning
// "" when the document is acceptable.
func (a *Acquirer) rejectReason(raw []byte) string {
	if len(raw) < a.cfg.MinDocumentBytes {
		return fmt.Sprintf("document too small: %d bytes", len(raw))
	}
	pages, err := a.countPages(raw)
	if err != nil {
		return fmt.Sprintf("unreadable pdf: %v", err)
	}
	if pages > a.cfg.MaxPages {
		return fmt.Sprintf("too many pages: %d", pages)
	}
	return ""
}

func isCatalogURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, p := range catalogURLPatterns {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// scanPDFLinks extracts up to maxEmbeddedPDFLinks absolute .pdf URLs from an
// HTML page, resolved against the page URL.
func scanPDFLinks(html, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	lower := strings.ToLower(html)
	offset := 0

	for len(links) < maxEmbeddedPDFLinks {
		idx := strings.Index(lower[offset:], `href="`)
		if idx < 0 {
			break
		}
		start := offset + idx + len(`href="`)
		end := strings.Index(html[start:], `"`)
		if end < 0 {
			break
		}
		href := html[start : start+end]
		offset = start + end

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if !strings.HasSuffix(strings.ToLower(resolved.Path), ".pdf") {
			continue
		}
		abs := resolved.String()
		if seen[abs] {
			continue
		}
		seen[abs] = true
		links = append(links, abs)
	}

	return links
}
