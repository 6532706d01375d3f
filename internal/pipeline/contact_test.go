package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/partscout/datasheet-search/internal/model"
)

func TestFindContactLink(t *testing.T) {
	html := `<html><body>
		<a href="/products">Products</a>
		<a href="/kontakt-en">Get in touch</a>
		<a href="/reach-us">Talk to sales</a>
	</body></html>`

	// "/reach-us" matches on href; "Get in touch" has no keyword in href or text.
	link := findContactLink(html, "https://www.sick.com")
	assert.Equal(t, "https://www.sick.com/reach-us", link)
}

func TestFindContactLinkMatchesAnchorText(t *testing.T) {
	html := `<a href="/support/sales">Contact our team</a>`
	link := findContactLink(html, "https://www.sick.com")
	assert.Equal(t, "https://www.sick.com/support/sales", link)
}

func TestResolveContactsFromHomepage(t *testing.T) {
	homepage := &mockFetcher{}
	homepage.On("Fetch", mock.Anything, "https://www.sick.com").
		Return([]byte(`<a href="/contact-us">Contact</a>`), nil)

	r := &ContactResolver{homepage: homepage, probe: &mockFetcher{}}
	products := r.ResolveContacts(context.Background(), []model.Product{
		{URL: "https://www.sick.com/files/wl12g.pdf"},
	})

	require.Len(t, products, 1)
	assert.Equal(t, "https://www.sick.com/contact-us", products[0].ContactURL)
}

func TestResolveContactsProbesKnownPaths(t *testing.T) {
	homepage := &mockFetcher{}
	homepage.On("Fetch", mock.Anything, "https://www.sick.com").
		Return([]byte(`<a href="/products">Products</a>`), nil)

	probe := &mockFetcher{}
	probe.On("Fetch", mock.Anything, "https://www.sick.com/contact").Return(nil, eris.New("404"))
	probe.On("Fetch", mock.Anything, "https://www.sick.com/contact-us").Return([]byte("ok"), nil)

	r := &ContactResolver{homepage: homepage, probe: probe}
	products := r.ResolveContacts(context.Background(), []model.Product{
		{URL: "https://www.sick.com/files/wl12g.pdf"},
	})

	assert.Equal(t, "https://www.sick.com/contact-us", products[0].ContactURL)
}

func TestResolveContactsDerivedFallback(t *testing.T) {
	homepage := &mockFetcher{}
	homepage.On("Fetch", mock.Anything, mock.Anything).Return(nil, eris.New("unreachable"))
	probe := &mockFetcher{}
	probe.On("Fetch", mock.Anything, mock.Anything).Return(nil, eris.New("unreachable"))

	r := &ContactResolver{homepage: homepage, probe: probe}
	products := r.ResolveContacts(context.Background(), []model.Product{
		{URL: "https://www.sick.com/files/wl12g.pdf"},
	})

	assert.Equal(t, "https://www.sick.com/contact", products[0].ContactURL)
}

func TestResolveContactsSharesLookupPerHost(t *testing.T) {
	homepage := &mockFetcher{}
	homepage.On("Fetch", mock.Anything, "https://www.sick.com").
		Return([]byte(`<a href="/contact">Contact</a>`), nil).Once()

	r := &ContactResolver{homepage: homepage, probe: &mockFetcher{}}
	products := r.ResolveContacts(context.Background(), []model.Product{
		{URL: "https://www.sick.com/files/a.pdf"},
		{URL: "https://www.sick.com/files/b.pdf"},
	})

	assert.Equal(t, products[0].ContactURL, products[1].ContactURL)
	homepage.AssertExpectations(t)
}
