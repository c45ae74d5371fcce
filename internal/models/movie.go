package models

import (
	"strings"
)

// ImageBaseURL is the CDN prefix for poster and backdrop paths.
const ImageBaseURL = "https://image.tmdb.org/t/p"

// Genre is a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList wraps the /genres response.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// Company is a production company.
type Company struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path,omitempty"`
	OriginCountry string `json:"origin_country,omitempty"`
}

// Movie is the view projection of a movie. Listing endpoints fill the summary fields
// (GenreIDs), detail endpoints fill Genres, Runtime, companies, budget and revenue.
type Movie struct {
	ID                  int       `json:"id"`
	Title               string    `json:"title"`
	Overview            string    `json:"overview"`
	Tagline             string    `json:"tagline,omitempty"`
	PosterPath          string    `json:"poster_path,omitempty"`
	BackdropPath        string    `json:"backdrop_path,omitempty"`
	ReleaseDate         string    `json:"release_date,omitempty"`
	Runtime             int       `json:"runtime,omitempty"`
	VoteAverage         float64   `json:"vote_average"`
	VoteCount           int       `json:"vote_count"`
	Popularity          float64   `json:"popularity,omitempty"`
	GenreIDs            []int     `json:"genre_ids,omitempty"`
	Genres              []Genre   `json:"genres,omitempty"`
	ProductionCompanies []Company `json:"production_companies,omitempty"`
	Budget              int64     `json:"budget,omitempty"`
	Revenue             int64     `json:"revenue,omitempty"`
}

// Year returns the release year or "" when the release date is unknown.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// PosterURL returns the poster image URL at the given size (e.g. "w500") or "" without a poster.
func (m Movie) PosterURL(size string) string {
	return ImageURL(m.PosterPath, size)
}

// BackdropURL returns the backdrop image URL at the given size or "" without a backdrop.
func (m Movie) BackdropURL(size string) string {
	return ImageURL(m.BackdropPath, size)
}

// GenreNames joins the detail genres, e.g. "Action, Drama".
func (m Movie) GenreNames() string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// Ref returns the identity fields used by favorite and watchlist mutations.
func (m Movie) Ref() MovieRef {
	return MovieRef{MovieID: m.ID, MovieTitle: m.Title, MoviePoster: m.PosterPath}
}

// ImageURL joins a provider image path with the CDN prefix.
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return ImageBaseURL + "/" + size + "/" + strings.TrimPrefix(path, "/")
}

// MoviePage is one page of a movie listing.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Len returns the number of movies on the page.
func (p *MoviePage) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Results)
}

// HasNext reports whether a later page exists.
func (p *MoviePage) HasNext() bool {
	return p != nil && p.Page < p.TotalPages
}

// EmptyPage is the fallback page rendered when a listing fetch fails.
func EmptyPage(page int) *MoviePage {
	if page < 1 {
		page = 1
	}
	return &MoviePage{Page: page, Results: []Movie{}}
}
