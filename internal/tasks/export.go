package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/reel/internal/formatter"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
	"golang.org/x/time/rate"
)

// Export formats
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// Export worker pool defaults
const (
	DefaultExportWorkers = 5
	MaxExportWorkers     = 10
	DefaultExportRate    = 5.0
)

// ExportFormats lists the accepted values of [ExportOpts.Format].
var ExportFormats = []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ExportOpts contains configuration for collection exports.
type ExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: reel_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max 10)
	RateLimit  float64 // Detail requests per second (default: 5)
	WithDetail bool    // Fetch each movie's detail (year, rating, runtime, genres)
	Cover      bool    // Markdown only: download the first poster as cover image
}

func (o ExportOpts) withDefaults() ExportOpts {
	if o.Format == "" {
		o.Format = FormatJSON
	}
	if o.OutputDir == "" {
		o.OutputDir = fmt.Sprintf("reel_export_%d", time.Now().Unix())
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = DefaultExportWorkers
	}
	if o.NumWorkers > MaxExportWorkers {
		o.NumWorkers = MaxExportWorkers
	}
	if o.RateLimit <= 0 {
		o.RateLimit = DefaultExportRate
	}
	return o
}

// CollectionExportResult is the outcome of exporting one collection.
type CollectionExportResult struct {
	CollectionID   string   `json:"collection_id"`
	CollectionName string   `json:"collection_name"`
	Movies         int      `json:"movies"`
	Success        bool     `json:"success"`
	Files          []string `json:"files,omitempty"`
	Error          error    `json:"-"`
	ErrorMessage   string   `json:"error,omitempty"`
}

// ExportResult summarizes an export run; it is also written as the manifest.
type ExportResult struct {
	Format            string                   `json:"format"`
	ExportedAt        time.Time                `json:"exported_at"`
	TotalCollections  int                      `json:"total_collections"`
	SuccessfulExports int                      `json:"successful_exports"`
	FailedExports     int                      `json:"failed_exports"`
	OutputDirectory   string                   `json:"output_directory"`
	ManifestPath      string                   `json:"-"`
	Results           []CollectionExportResult `json:"results"`
}

// ExportFavorites exports the user's favorites.
func (f *Fetchers) ExportFavorites(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if !f.session.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	favorites, err := f.session.Client().Favorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	return f.Export(ctx, prog, []formatter.Collection{formatter.FromFavorites(favorites)}, opts)
}

// ExportWatchlists exports the watchlists with the given ids, or every watchlist when ids is empty.
func (f *Fetchers) ExportWatchlists(ctx context.Context, prog chan<- ProgressUpdate, ids []string, opts ExportOpts) (*ExportResult, error) {
	if !f.session.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	lists, err := f.session.Client().Watchlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watchlists: %w", err)
	}

	collections := make([]formatter.Collection, 0, len(lists))
	for _, id := range ids {
		i := slices.IndexFunc(lists, func(wl models.Watchlist) bool { return wl.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", shared.ErrWatchlistNotFound, id)
		}
		collections = append(collections, formatter.FromWatchlist(lists[i]))
	}
	if len(ids) == 0 {
		for _, wl := range lists {
			collections = append(collections, formatter.FromWatchlist(wl))
		}
	}
	return f.Export(ctx, prog, collections, opts)
}

// Export writes collections concurrently with rate-limited detail lookups and progress tracking.
//
// A worker pool exports one collection per job. A collection that fails is recorded in the
// result and does not stop the others. A manifest summarizing the run is written last.
func (f *Fetchers) Export(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	collections []formatter.Collection,
	opts ExportOpts,
) (*ExportResult, error) {
	opts = opts.withDefaults()
	if !slices.Contains(ExportFormats, opts.Format) {
		return nil, fmt.Errorf("%w: format %q", shared.ErrInvalidFlag, opts.Format)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		Format:           opts.Format,
		ExportedAt:       time.Now().UTC(),
		TotalCollections: len(collections),
		OutputDirectory:  opts.OutputDir,
		Results:          make([]CollectionExportResult, len(collections)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan exportJob, len(collections))
	results := make(chan exportJobResult, len(collections))

	send(prog, fetchingCollectionsUpdate(len(collections)))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go f.exportWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	used := make(map[string]bool, len(collections))
	for i, c := range collections {
		base := c.FileBase()
		if used[base] {
			base += "_" + c.ID
		}
		used[base] = true
		jobs <- exportJob{index: i, base: base, collection: c}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for out := range results {
		completed++
		res := out.result
		if res.Success {
			result.SuccessfulExports++
			send(prog, exportCompletedUpdate(completed, len(collections), res.CollectionName, len(res.Files)))
		} else {
			result.FailedExports++
			res.ErrorMessage = res.Error.Error()
			send(prog, exportFailedUpdate(completed, len(collections), res.CollectionName, res.Error))
		}
		result.Results[out.index] = res
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteJSON(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

type exportJob struct {
	index      int
	base       string
	collection formatter.Collection
}

type exportJobResult struct {
	index  int
	result CollectionExportResult
}

// exportWorker exports collections from the jobs channel until it closes.
func (f *Fetchers) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan exportJob,
	results chan<- exportJobResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		c := job.collection
		if err := ctx.Err(); err != nil {
			results <- exportJobResult{job.index, CollectionExportResult{CollectionID: c.ID, CollectionName: c.Name, Movies: len(c.Entries), Error: err}}
			continue
		}
		results <- exportJobResult{job.index, f.exportCollection(ctx, limiter, c, job.base, opts)}
	}
}

// exportCollection enriches (optionally) and writes a single collection in the requested format.
func (f *Fetchers) exportCollection(
	ctx context.Context,
	limiter *rate.Limiter,
	c formatter.Collection,
	base string,
	opts ExportOpts,
) CollectionExportResult {
	result := CollectionExportResult{
		CollectionID:   c.ID,
		CollectionName: c.Name,
		Movies:         len(c.Entries),
		Files:          []string{},
	}

	if opts.WithDetail {
		c.Entries = slices.Clone(c.Entries)
		client := f.session.Client()
		for i := range c.Entries {
			if err := limiter.Wait(ctx); err != nil {
				result.Error = fmt.Errorf("detail lookup interrupted: %w", err)
				return result
			}
			movie, err := client.Movie(ctx, c.Entries[i].MovieID)
			if err != nil {
				f.logger.Warn("export detail lookup failed", "movie_id", c.Entries[i].MovieID, "error", err)
				continue
			}
			c.Entries[i].Enrich(movie)
		}
	}

	base = filepath.Join(opts.OutputDir, base)
	switch opts.Format {
	case FormatCSV:
		csvRes, err := formatter.WriteCSVExport(&c, base)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.MoviesFile, csvRes.MetadataFile}

	case FormatMarkdown:
		var imageURL string
		if opts.Cover && len(c.Entries) > 0 {
			imageURL = models.ImageURL(c.Entries[0].PosterPath, "w500")
		}
		warn := func(err error) {
			f.logger.Warn("markdown cover skipped", "collection", c.Name, "error", err)
		}
		mdRes, err := formatter.WriteMarkdownExport(ctx, &c, base, imageURL, warn)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files

	case FormatText:
		path, err := formatter.WriteTextExport(&c, base+".txt")
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		path := base + ".json"
		if err := formatter.WriteJSON(c, path); err != nil {
			result.Error = err
			return result
		}
		result.Files = []string{path}
	}

	result.Success = true
	return result
}
