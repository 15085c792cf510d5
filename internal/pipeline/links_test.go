package pipeline

import (
	"testing"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkBuilder(t *testing.T) {
	links, err := NewLinkBuilder("https://wrapped.example.com/", "u1", "2024-06-03")
	require.NoError(t, err)

	assert.Equal(t,
		"https://wrapped.example.com/share/download?filename=tiktok-wrapped-trend.png&type=trend_share_card&uid=u1&url=https%3A%2F%2Fcdn.example.com%2Ft.png&weekStart=2024-06-03",
		links.Download("https://cdn.example.com/t.png", TrendCardFilename, LinkTypeTrendShareCard))
	assert.Equal(t,
		"https://wrapped.example.com/share/redirect?type=weekly_nudge&uid=u1&url=https%3A%2F%2Fwww.tiktok.com%2Fexplore&weekStart=2024-06-03",
		links.Redirect("https://www.tiktok.com/explore", LinkTypeWeeklyNudge))
}

func TestNewLinkBuilder_RejectsRelativeBase(t *testing.T) {
	for _, base := range []string{"", "/share", "wrapped.example.com"} {
		_, err := NewLinkBuilder(base, "u1", "w")
		assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput, "base %q", base)
	}
}

func TestRewriteLinks_Production(t *testing.T) {
	d := sampleReport()
	d.Footer.TiktokURL = ""
	share := models.ShareAssets{TrendCardURL: "https://cdn.example.com/t.png", StatsCardURL: "https://cdn.example.com/s.png"}

	out, err := rewriteLinks(d, share, testOptions(true))
	require.NoError(t, err)

	assert.Contains(t, out.Trend.ShareURL, "url=https%3A%2F%2Fcdn.example.com%2Ft.png")
	assert.Contains(t, out.Diagnosis.ShareURL, "filename=tiktok-wrapped-stats.png")
	assert.Contains(t, out.WeeklyNudge.LinkURL, "/share/redirect?")
	assert.Empty(t, out.Footer.TiktokURL, "absent links stay absent")
	assert.Equal(t, "https://www.tiktok.com/explore", d.WeeklyNudge.LinkURL)
}

func TestRewriteLinks_RedirectsAreNotWrappedTwice(t *testing.T) {
	share := models.ShareAssets{TrendCardURL: "t", StatsCardURL: "s"}
	once, err := rewriteLinks(sampleReport(), share, testOptions(true))
	require.NoError(t, err)
	twice, err := rewriteLinks(once, share, testOptions(true))
	require.NoError(t, err)

	assert.Equal(t, once.WeeklyNudge.LinkURL, twice.WeeklyNudge.LinkURL)
	assert.Equal(t, once.Footer.TiktokURL, twice.Footer.TiktokURL)
}

func TestRewriteLinks_Preview(t *testing.T) {
	d := sampleReport()
	d.Trend.ShareURL = "https://x.example.com/a"
	d.Diagnosis.ShareURL = "https://x.example.com/b"

	out, err := rewriteLinks(d, models.ShareAssets{TrendCardURL: "data:image/png;base64,AA=="}, testOptions(false))
	require.NoError(t, err)
	assert.Empty(t, out.Trend.ShareURL)
	assert.Empty(t, out.Diagnosis.ShareURL)
	assert.Equal(t, d.WeeklyNudge.LinkURL, out.WeeklyNudge.LinkURL)
	assert.Equal(t, d.Footer.TiktokURL, out.Footer.TiktokURL)
}

func TestUnwrapRedirect(t *testing.T) {
	links, err := NewLinkBuilder("https://wrapped.example.com", "u1", "2024-06-03")
	require.NoError(t, err)
	once := links.Redirect("https://www.tiktok.com/explore", LinkTypeWeeklyNudge)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"redirect", once, "https://www.tiktok.com/explore"},
		{"nested", links.Redirect(once, LinkTypeWeeklyNudge), "https://www.tiktok.com/explore"},
		{"other host", "https://old.example.com/share/redirect/?url=https%3A%2F%2Fwww.tiktok.com", "https://www.tiktok.com"},
		{"no destination", "https://wrapped.example.com/share/redirect?type=weekly_nudge", "https://wrapped.example.com/share/redirect?type=weekly_nudge"},
		{"plain", "https://www.tiktok.com", "https://www.tiktok.com"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unwrapRedirect(tt.in), tt.name)
	}
}

func TestRewriteLinks_PreviewUnwrapsProductionOutput(t *testing.T) {
	share := models.ShareAssets{TrendCardURL: "t", StatsCardURL: "s"}
	prod, err := rewriteLinks(sampleReport(), share, testOptions(true))
	require.NoError(t, err)
	require.Contains(t, prod.Footer.TiktokURL, "/share/redirect?")

	out, err := rewriteLinks(prod, models.ShareAssets{}, testOptions(false))
	require.NoError(t, err)
	assert.Empty(t, out.Trend.ShareURL)
	assert.Empty(t, out.Diagnosis.ShareURL)
	assert.Equal(t, sampleReport().WeeklyNudge.LinkURL, out.WeeklyNudge.LinkURL)
	assert.Equal(t, sampleReport().Footer.TiktokURL, out.Footer.TiktokURL)
}
