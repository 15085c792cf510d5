package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/common/filemanager"
	"github.com/aleister1102/weeklywrapped/internal/layout"
	"github.com/aleister1102/weeklywrapped/internal/metrics"
	"github.com/aleister1102/weeklywrapped/internal/models"
	"golang.org/x/sync/errgroup"
)

// imageJob is one image to render and store.
type imageJob struct {
	name   string
	key    string
	root   *layout.Box
	width  float64
	height float64
}

// basicChartStage is stage 1: the progress bar and the comparison chart.
func (p *Pipeline) basicChartStage(ctx context.Context, state *runState, d models.WeeklyReportData, v ChartValues) (models.WeeklyReportData, error) {
	marker := p.loader.LoadLocalImage(p.images.ProgressMarker)

	progress := imageJob{
		name: "trend-progress",
		key:  state.keys.TrendProgress,
		root: layout.ProgressBar(layout.ProgressBarProps{
			Progress:    v.Progress,
			MarkerImage: marker,
		}),
		width:  layout.DefaultProgressWidth,
		height: layout.DefaultProgressHeight,
	}
	chart := imageJob{
		name: "diagnosis-bars",
		key:  state.keys.DiagnosisBars,
		root: layout.BarChart(layout.BarChartProps{
			Past:    layout.Bar{Caption: v.PastCaption, Value: v.PastPercent},
			Present: layout.Bar{Caption: v.PresentCaption, Value: v.PresentPercent},
		}),
		width:  layout.DefaultChartWidth,
		height: layout.DefaultChartHeight,
	}

	urls, err := p.produceAll(ctx, state, progress, chart)
	if err != nil {
		return models.WeeklyReportData{}, err
	}

	out := d.Clone()
	out.Trend.ProgressImageURL = urls[0]
	out.Diagnosis.BarChartImageURL = urls[1]
	return out, nil
}

// shareCardStage is stage 2. Both cards are rendered fresh at card size from
// the same ChartValues that stage 1 used.
func (p *Pipeline) shareCardStage(ctx context.Context, state *runState, v ChartValues) (models.ShareAssets, error) {
	tiles := make([]layout.Tile, 0, len(v.Tiles))
	for _, item := range v.Tiles {
		tiles = append(tiles, layout.Tile{Label: item.Label, Icon: p.loader.ResolveImage(ctx, item.Icon)})
	}
	footer := p.loader.LoadLocalImage(p.images.CardFooter)

	trend := imageJob{
		name: "trend-share-card",
		key:  state.keys.TrendCard,
		root: layout.TrendCard(layout.TrendCardProps{
			CardChrome: layout.CardChrome{
				HeaderIcon:  p.loader.LoadLocalImage(p.images.TrendHeaderIcon),
				Title:       "Trend Discoverer",
				Subtitle:    v.WeekText,
				Tiles:       tiles,
				FooterImage: footer,
			},
			TopicName:    v.TopicName,
			RankText:     v.RankText,
			Progress:     v.Progress,
			ProgressText: v.ProgressText,
			MarkerImage:  p.loader.LoadLocalImage(p.images.ProgressMarker),
		}),
		width:  layout.DefaultCardWidth,
		height: layout.DefaultCardHeight,
	}
	stats := imageJob{
		name: "stats-share-card",
		key:  state.keys.StatsCard,
		root: layout.StatsCard(layout.StatsCardProps{
			CardChrome: layout.CardChrome{
				HeaderIcon:  p.loader.LoadLocalImage(p.images.StatsHeaderIcon),
				Title:       "My Week on TikTok",
				Subtitle:    v.WeekText,
				Tiles:       tiles,
				FooterImage: footer,
			},
			Headline:   v.Headline,
			StatLines:  v.StatLines,
			Past:       layout.Bar{Caption: v.PastCaption, Value: v.PastPercent},
			Present:    layout.Bar{Caption: v.PresentCaption, Value: v.PresentPercent},
			Comparison: v.Comparison,
		}),
		width:  layout.DefaultCardWidth,
		height: layout.DefaultCardHeight,
	}

	urls, err := p.produceAll(ctx, state, trend, stats)
	if err != nil {
		return models.ShareAssets{}, err
	}
	return models.ShareAssets{TrendCardURL: urls[0], StatsCardURL: urls[1]}, nil
}

// produceAll renders and stores jobs concurrently. URLs come back in job
// order; the first failure cancels the others.
func (p *Pipeline) produceAll(ctx context.Context, state *runState, jobs ...imageJob) ([]string, error) {
	urls := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			url, err := p.produce(gctx, state, job)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (p *Pipeline) produce(ctx context.Context, state *runState, job imageJob) (string, error) {
	png, doc, err := p.renderer.RenderWithDocument(job.root, job.width, job.height)
	if err != nil {
		return "", err
	}
	if state.opts.SVGDir != "" {
		p.dumpSVG(state, job.name, doc.SVG())
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	backend := state.uploader.Name()
	start := time.Now()
	url, err := state.uploader.Upload(ctx, png, job.key)
	metrics.RecordUpload(backend, metrics.StatusOf(err), len(png))
	if err != nil {
		return "", err
	}

	state.logger.Debug().
		Str("image", job.name).
		Str("key", job.key).
		Str("backend", backend).
		Int("png_bytes", len(png)).
		Dur("upload_duration", time.Since(start)).
		Msg("Image stored")
	return url, nil
}

// dumpSVG writes a vector document for inspection. Failures are logged only.
func (p *Pipeline) dumpSVG(state *runState, name string, svg []byte) {
	path := filepath.Join(state.opts.SVGDir, state.id, name+".svg")
	if err := p.fileManager.WriteFile(path, svg, filemanager.DefaultFileWriteOptions()); err != nil {
		state.logger.Warn().Err(err).Str("path", path).Msg("Failed to write SVG document")
	}
}
