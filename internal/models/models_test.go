package models

import (
	"errors"
	"testing"

	"github.com/desertthunder/reel/internal/shared"
)

func TestMovie(t *testing.T) {
	t.Run("Year", func(t *testing.T) {
		tc := []struct {
			name string
			date string
			want string
		}{
			{name: "full date", date: "1999-03-31", want: "1999"},
			{name: "year only", date: "2001", want: "2001"},
			{name: "empty", date: "", want: ""},
			{name: "truncated", date: "19", want: ""},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				m := Movie{ReleaseDate: tt.date}
				if got := m.Year(); got != tt.want {
					t.Errorf("Year() = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("PosterURL", func(t *testing.T) {
		m := Movie{PosterPath: "/abc.jpg"}
		if got := m.PosterURL("w500"); got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
			t.Errorf("unexpected poster URL %s", got)
		}
		if got := m.PosterURL(""); got != "https://image.tmdb.org/t/p/original/abc.jpg" {
			t.Errorf("unexpected default-size poster URL %s", got)
		}
		if got := (Movie{}).PosterURL("w500"); got != "" {
			t.Errorf("expected empty URL without poster, got %s", got)
		}
	})

	t.Run("GenreNames", func(t *testing.T) {
		m := Movie{Genres: []Genre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}}}
		if got := m.GenreNames(); got != "Action, Drama" {
			t.Errorf("GenreNames() = %q", got)
		}
	})

	t.Run("Ref", func(t *testing.T) {
		ref := Movie{ID: 603, Title: "The Matrix", PosterPath: "/m.jpg"}.Ref()
		if ref.MovieID != 603 || ref.MovieTitle != "The Matrix" || ref.MoviePoster != "/m.jpg" {
			t.Errorf("unexpected ref %+v", ref)
		}
	})
}

func TestMoviePage(t *testing.T) {
	var nilPage *MoviePage
	if nilPage.Len() != 0 {
		t.Error("nil page should have zero length")
	}
	if nilPage.HasNext() {
		t.Error("nil page should not have a next page")
	}

	empty := EmptyPage(0)
	if empty.Page != 1 || empty.Len() != 0 || empty.Results == nil {
		t.Errorf("unexpected empty page %+v", empty)
	}

	p := &MoviePage{Page: 1, TotalPages: 3, Results: []Movie{{ID: 1}, {ID: 2}}}
	if !p.HasNext() {
		t.Error("expected next page")
	}
	if p.Len() != 2 {
		t.Errorf("expected 2 results, got %d", p.Len())
	}
}

func TestValidation(t *testing.T) {
	t.Run("Credentials", func(t *testing.T) {
		tc := []struct {
			name     string
			creds    Credentials
			register bool
			wantErr  bool
		}{
			{name: "valid login", creds: Credentials{Email: "a@b.co", Password: "pw"}},
			{name: "missing email", creds: Credentials{Password: "pw"}, wantErr: true},
			{name: "bad email", creds: Credentials{Email: "nope", Password: "pw"}, wantErr: true},
			{name: "missing password", creds: Credentials{Email: "a@b.co"}, wantErr: true},
			{name: "valid register", creds: Credentials{Email: "a@b.co", Password: "pw", Name: "A"}, register: true},
			{name: "register without name", creds: Credentials{Email: "a@b.co", Password: "pw"}, register: true, wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				var err error
				if tt.register {
					err = tt.creds.ValidateRegistration()
				} else {
					err = tt.creds.Validate()
				}
				if (err != nil) != tt.wantErr {
					t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
				}
				if err != nil && !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})

	t.Run("ReviewRequest", func(t *testing.T) {
		tc := []struct {
			name    string
			req     ReviewRequest
			wantErr error
		}{
			{name: "valid", req: ReviewRequest{MovieID: 1, Rating: 7.5}},
			{name: "zero is in range", req: ReviewRequest{MovieID: 1, Rating: 0}},
			{name: "upper bound", req: ReviewRequest{MovieID: 1, Rating: 10}},
			{name: "too high", req: ReviewRequest{MovieID: 1, Rating: 10.1}, wantErr: shared.ErrInvalidRating},
			{name: "negative", req: ReviewRequest{MovieID: 1, Rating: -1}, wantErr: shared.ErrInvalidRating},
			{name: "no movie", req: ReviewRequest{Rating: 5}, wantErr: shared.ErrInvalidInput},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.req.Validate()
				if tt.wantErr == nil && err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}
	})

	t.Run("MovieRef", func(t *testing.T) {
		if err := (MovieRef{MovieID: 1, MovieTitle: "x"}).Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := (MovieRef{MovieTitle: "x"}).Validate(); err == nil {
			t.Error("expected error for missing movie id")
		}
		if err := (MovieRef{MovieID: 1, MovieTitle: "  "}).Validate(); err == nil {
			t.Error("expected error for blank title")
		}
	})

	t.Run("WatchlistName", func(t *testing.T) {
		if err := ValidateWatchlistName("Weekend"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := ValidateWatchlistName("   "); err == nil {
			t.Error("expected error for blank name")
		}
	})
}

func TestReviews(t *testing.T) {
	reviews := []Review{
		{ID: "r1", UserID: "u1", Rating: 8},
		{ID: "r2", UserID: "u2", Rating: 6.5},
		{ID: "r3", UserID: "u2", Rating: 3},
	}

	t.Run("FindReview", func(t *testing.T) {
		if r := FindReview(reviews, "u2"); r == nil || r.ID != "r2" {
			t.Errorf("expected first review of u2, got %+v", r)
		}
		if r := FindReview(reviews, "u9"); r != nil {
			t.Errorf("expected nil, got %+v", r)
		}
	})

	t.Run("AverageRating", func(t *testing.T) {
		if got := AverageRating(reviews); got != 5.8 {
			t.Errorf("AverageRating() = %v, want 5.8", got)
		}
		if got := AverageRating(nil); got != 0 {
			t.Errorf("AverageRating(nil) = %v, want 0", got)
		}
	})

	t.Run("RoundRating", func(t *testing.T) {
		if got := RoundRating(7.46); got != 7.5 {
			t.Errorf("RoundRating(7.46) = %v", got)
		}
	})

	t.Run("Watchlist Contains", func(t *testing.T) {
		w := Watchlist{Movies: []UserMovie{{MovieID: 5}}}
		if !w.Contains(5) || w.Contains(6) {
			t.Error("unexpected Contains result")
		}
	})
}
