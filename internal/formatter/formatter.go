// package formatter exports favorites and watchlists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// Collection kinds
const (
	KindFavorites = "favorites"
	KindWatchlist = "watchlist"
)

// Entry is one movie in an exported collection. Detail fields are empty unless enriched.
type Entry struct {
	MovieID    int       `json:"movie_id"`
	Title      string    `json:"title"`
	PosterPath string    `json:"poster_path,omitempty"`
	AddedAt    time.Time `json:"added_at"`
	Year       string    `json:"year,omitempty"`
	Rating     float64   `json:"rating,omitempty"`
	Runtime    int       `json:"runtime,omitempty"`
	Genres     string    `json:"genres,omitempty"`
	Overview   string    `json:"overview,omitempty"`
}

// Enrich copies detail fields from m.
func (e *Entry) Enrich(m *models.Movie) {
	if m == nil {
		return
	}
	if m.Title != "" {
		e.Title = m.Title
	}
	if m.PosterPath != "" {
		e.PosterPath = m.PosterPath
	}
	e.Year = m.Year()
	e.Rating = m.VoteAverage
	e.Runtime = m.Runtime
	e.Genres = m.GenreNames()
	e.Overview = m.Overview
}

// Collection is a favorites list or a watchlist prepared for export.
type Collection struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	Entries     []Entry   `json:"entries"`
}

// FromFavorites builds the favorites collection.
func FromFavorites(favorites []models.UserMovie) Collection {
	return Collection{ID: KindFavorites, Kind: KindFavorites, Name: "Favorites", Entries: entries(favorites)}
}

// FromWatchlist builds a collection from a watchlist, keeping its order.
func FromWatchlist(wl models.Watchlist) Collection {
	return Collection{
		ID:          wl.ID,
		Kind:        KindWatchlist,
		Name:        wl.Name,
		Description: wl.Description,
		CreatedAt:   wl.CreatedAt,
		Entries:     entries(wl.Movies),
	}
}

func entries(movies []models.UserMovie) []Entry {
	out := make([]Entry, 0, len(movies))
	for _, m := range movies {
		out = append(out, Entry{MovieID: m.MovieID, Title: m.MovieTitle, PosterPath: m.MoviePoster, AddedAt: m.AddedAt})
	}
	return out
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// FileBase returns a filesystem-safe base name, e.g. "favorites" or "watchlist_weekend".
func (c *Collection) FileBase() string {
	if c.Kind == KindFavorites {
		return KindFavorites
	}
	slug := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(c.Name), "_"), "_")
	if slug == "" {
		slug = c.ID
	}
	return KindWatchlist + "_" + slug
}

// ExportToCSV converts a Collection to CSV format with columns: Movie ID, Title, Year, Rating, Runtime, Genres, Poster, Added
func ExportToCSV(c *Collection) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Movie ID", "Title", "Year", "Rating", "Runtime", "Genres", "Poster", "Added"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range c.Entries {
		rating, runtime := "", ""
		if e.Rating > 0 {
			rating = shared.FormatRating(e.Rating)
		}
		if e.Runtime > 0 {
			runtime = strconv.Itoa(e.Runtime)
		}
		record := []string{
			strconv.Itoa(e.MovieID),
			e.Title,
			e.Year,
			rating,
			runtime,
			e.Genres,
			models.ImageURL(e.PosterPath, "w500"),
			e.AddedAt.Format(time.DateOnly),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Collection to Markdown format with an optional cover image
func ExportToMarkdown(c *Collection, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", c.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if c.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", c.Description)
	}

	fmt.Fprintf(&buf, "**Movies**: %d\n\n", len(c.Entries))

	buf.WriteString("## Movies\n\n")
	for i, e := range c.Entries {
		title := e.Title
		if e.Year != "" {
			title = fmt.Sprintf("%s (%s)", title, e.Year)
		}
		fmt.Fprintf(&buf, "%d. [%s](%s)", i+1, title, shared.MovieURL(e.MovieID))

		var details []string
		if e.Rating > 0 {
			details = append(details, "★ "+shared.FormatRating(e.Rating))
		}
		if e.Runtime > 0 {
			details = append(details, shared.FormatRuntime(e.Runtime))
		}
		if e.Genres != "" {
			details = append(details, e.Genres)
		}
		if len(details) > 0 {
			fmt.Fprintf(&buf, " [%s]", strings.Join(details, " · "))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Collection to plain text format
func ExportToText(c *Collection) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", c.Name)
	if c.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", c.Description)
	}
	fmt.Fprintf(&buf, "Movies: %d\n\n", len(c.Entries))

	for i, e := range c.Entries {
		if e.Year != "" {
			fmt.Fprintf(&buf, "%d. %s (%s)\n", i+1, e.Title, e.Year)
		} else {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, e.Title)
		}
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of collection metadata (without entries)
func ToMetadataJSON(c *Collection) ([]byte, error) {
	meta := *c
	meta.Entries = nil
	return shared.MarshalJSON(struct {
		Collection
		Count int `json:"count"`
	}{meta, len(c.Entries)}, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile   string
	MetadataFile string
}

// WriteCSVExport exports a collection to CSV format with accompanying metadata JSON file.
//
// Creates {base}_movies.csv and {base}_metadata.json
func WriteCSVExport(c *Collection, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = c.FileBase()
	}

	csvData, err := ExportToCSV(c)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + "_movies.csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(c)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{MoviesFile: moviesFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a collection to Markdown format in a dedicated directory.
//
// The imageURL parameter is optional; when set, the image is downloaded as the cover.
// A failed download is reported through warn and the export continues without a cover.
// Creates {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(ctx context.Context, c *Collection, outputDir, imageURL string, warn func(error)) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = c.FileBase()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(ctx, imageURL)
		if err == nil {
			coverPath := filepath.Join(outputDir, "cover.jpg")
			err = os.WriteFile(coverPath, imageData, 0644)
			if err == nil {
				coverImageFilename = "cover.jpg"
				result.CoverImage = coverPath
				result.Files = append(result.Files, coverPath)
			}
		}
		if err != nil && warn != nil {
			warn(fmt.Errorf("cover image: %w", err))
		}
	}

	mdData, err := ExportToMarkdown(c, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteTextExport exports a collection to plain text format.
//
// Defaults to {base}.txt as the filename.
func WriteTextExport(c *Collection, path string) (string, error) {
	if path == "" {
		path = c.FileBase() + ".txt"
	}

	textData, err := ExportToText(c)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSON writes v as indented JSON to path.
func WriteJSON(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("JSON marshal failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("JSON write failed: %w", err)
	}
	return nil
}
