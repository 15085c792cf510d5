package pipeline

import (
	"net/url"
	"strings"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/aleister1102/weeklywrapped/internal/reporter"
)

// Link type tags understood by the download and redirect pages.
const (
	LinkTypeTrendShareCard = "trend_share_card"
	LinkTypeStatsShareCard = "stats_share_card"
	LinkTypeWeeklyNudge    = "weekly_nudge"
	LinkTypeFooterTiktok   = "footer_tiktok"

	TrendCardFilename = "tiktok-wrapped-trend.png"
	StatsCardFilename = "tiktok-wrapped-stats.png"
)

// LinkBuilder builds tracked share links for one report.
type LinkBuilder struct {
	base      string
	uid       string
	weekStart string
}

// NewLinkBuilder validates baseURL and binds the report identity.
func NewLinkBuilder(baseURL, uid, weekStart string) (*LinkBuilder, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errorwrapper.NewValidationError("assetBaseUrl", baseURL, "must be an absolute URL")
	}
	return &LinkBuilder{base: base, uid: uid, weekStart: weekStart}, nil
}

// Download links the download page to an uploaded share card.
func (b *LinkBuilder) Download(assetURL, filename, linkType string) string {
	q := url.Values{}
	q.Set("url", assetURL)
	q.Set("filename", filename)
	q.Set("type", linkType)
	q.Set("uid", b.uid)
	q.Set("weekStart", b.weekStart)
	return b.base + reporter.ShareDownloadPath + "?" + q.Encode()
}

// Redirect links the redirect page to an external destination.
func (b *LinkBuilder) Redirect(destination, linkType string) string {
	q := url.Values{}
	q.Set("url", destination)
	q.Set("type", linkType)
	q.Set("uid", b.uid)
	q.Set("weekStart", b.weekStart)
	return b.base + reporter.ShareRedirectPath + "?" + q.Encode()
}

// IsRedirect reports whether link already points at this builder's redirect page.
func (b *LinkBuilder) IsRedirect(link string) bool {
	return strings.HasPrefix(link, b.base+reporter.ShareRedirectPath+"?")
}

// unwrapRedirect returns the destination carried by a redirect page link, on
// any host. Nested redirects are unwrapped fully; other links come back as is.
func unwrapRedirect(link string) string {
	for {
		u, err := url.Parse(strings.TrimSpace(link))
		if err != nil || strings.TrimRight(u.Path, "/") != reporter.ShareRedirectPath {
			return link
		}
		dest := u.Query().Get("url")
		if dest == "" {
			return link
		}
		link = dest
	}
}

// rewriteLinks is stage 3. Production runs point the share URLs at the
// download page and wrap nudge/footer destinations in redirects. Preview runs
// clear both share URLs and unwrap redirects left over from an earlier
// production run.
func rewriteLinks(d models.WeeklyReportData, share models.ShareAssets, opts Options) (models.WeeklyReportData, error) {
	out := d.Clone()
	if !opts.UseUploads {
		out.Trend.ShareURL = ""
		out.Diagnosis.ShareURL = ""
		out.WeeklyNudge.LinkURL = unwrapRedirect(out.WeeklyNudge.LinkURL)
		out.Footer.TiktokURL = unwrapRedirect(out.Footer.TiktokURL)
		return out, nil
	}

	links, err := NewLinkBuilder(opts.AssetBaseURL, d.UID, d.WeekStart)
	if err != nil {
		return models.WeeklyReportData{}, err
	}
	out.Trend.ShareURL = links.Download(share.TrendCardURL, TrendCardFilename, LinkTypeTrendShareCard)
	out.Diagnosis.ShareURL = links.Download(share.StatsCardURL, StatsCardFilename, LinkTypeStatsShareCard)
	if out.WeeklyNudge.LinkURL != "" && !links.IsRedirect(out.WeeklyNudge.LinkURL) {
		out.WeeklyNudge.LinkURL = links.Redirect(out.WeeklyNudge.LinkURL, LinkTypeWeeklyNudge)
	}
	if out.Footer.TiktokURL != "" && !links.IsRedirect(out.Footer.TiktokURL) {
		out.Footer.TiktokURL = links.Redirect(out.Footer.TiktokURL, LinkTypeFooterTiktok)
	}
	return out, nil
}
