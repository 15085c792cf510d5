package reporter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TrackedLink is a link in a rendered document that points at a share endpoint.
type TrackedLink struct {
	Tag  string
	Attr string
	URL  string
}

// AuditLinks returns every href or src in doc that targets the share
// download or redirect endpoints. Preview documents must yield none.
func AuditLinks(doc string) ([]TrackedLink, error) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered document: %w", err)
	}

	var found []TrackedLink
	parsed.Find("[href], [src]").Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		for _, attr := range []string{"href", "src"} {
			value, ok := sel.Attr(attr)
			if !ok || !isTrackedLink(value) {
				continue
			}
			found = append(found, TrackedLink{Tag: tag, Attr: attr, URL: value})
		}
	})
	return found, nil
}

func isTrackedLink(raw string) bool {
	if strings.HasPrefix(raw, "data:") {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		// unparsable links are judged on the raw text
		return strings.Contains(raw, ShareDownloadPath) || strings.Contains(raw, ShareRedirectPath)
	}
	p := strings.TrimRight(u.Path, "/")
	return strings.HasSuffix(p, ShareDownloadPath) || strings.HasSuffix(p, ShareRedirectPath)
}
