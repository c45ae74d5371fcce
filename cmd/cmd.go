// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/tasks"
	"github.com/urfave/cli/v3"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output", Value: true},
	}
}

func pageFlags() []cli.Flag {
	return append(jsonFlags(), &cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "Page number", Value: 1})
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format (json, csv, markdown, txt)", Value: tasks.FormatJSON},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory (default: reel_export_<timestamp>)"},
		&cli.IntFlag{Name: "workers", Usage: "Concurrent export workers (max 10)", Value: tasks.DefaultExportWorkers},
		&cli.FloatFlag{Name: "rate", Usage: "Detail requests per second", Value: tasks.DefaultExportRate},
		&cli.BoolFlag{Name: "detail", Usage: "Enrich entries with movie detail", Value: true},
		&cli.BoolFlag{Name: "cover", Usage: "Download a cover poster (markdown only)"},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to configuration file", Value: "config.toml"},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the backend database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Usage: "Database path (default from config)"},
					&cli.BoolFlag{Name: "status", Usage: "Show applied migrations instead of migrating"},
					&cli.BoolFlag{Name: "rollback", Usage: "Roll back the latest migration"},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// serveCommand runs the backend API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the reel backend API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default from config)"},
			&cli.StringFlag{Name: "db", Usage: "Database path (default from config)"},
		},
		Action: r.Serve,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	credentials := func(extra ...cli.Flag) []cli.Flag {
		return append([]cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
			&cli.StringFlag{Name: "password", Usage: "Account password (or REEL_PASSWORD)", Sources: cli.EnvVars("REEL_PASSWORD")},
		}, extra...)
	}
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the signed-in session",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in and store the access token",
				Flags:  credentials(),
				Action: r.AuthLogin,
			},
			{
				Name:   "register",
				Usage:  "Create an account and sign in",
				Flags:  credentials(&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name", Required: true}),
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored access token",
				Action: r.AuthLogout,
			},
			{
				Name:    "whoami",
				Aliases: []string{"status"},
				Usage:   "Show the signed-in identity",
				Flags:   jsonFlags(),
				Action:  r.AuthWhoami,
			},
		},
	}
}

// moviesCommand handles movie listings and detail
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse movies",
		Commands: []*cli.Command{
			{
				Name:   "popular",
				Usage:  "List popular movies",
				Flags:  pageFlags(),
				Action: r.listing(tasks.Popular),
			},
			{
				Name:   "top-rated",
				Usage:  "List top rated movies",
				Flags:  pageFlags(),
				Action: r.listing(tasks.TopRated),
			},
			{
				Name:  "discover",
				Usage: "Discover movies by genre, year and ordering",
				Flags: append(pageFlags(),
					&cli.IntFlag{Name: "genre", Aliases: []string{"g"}, Usage: "Genre id (see 'reel movies genres')"},
					&cli.IntFlag{Name: "year", Aliases: []string{"y"}, Usage: "Release year"},
					&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Ordering", Value: services.DefaultSortBy},
				),
				Action: r.listing(tasks.Discover),
			},
			{
				Name:      "search",
				Usage:     "Search movies by title",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     pageFlags(),
				Action:    r.listing(tasks.Search),
			},
			{
				Name:      "show",
				Usage:     "Show movie detail and reviews",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append(jsonFlags(),
					&cli.BoolFlag{Name: "open", Usage: "Open the movie page in a browser"},
				),
				Action: r.MovieShow,
			},
			{
				Name:   "genres",
				Usage:  "List genres",
				Flags:  jsonFlags(),
				Action: r.Genres,
			},
		},
	}
}

// favoritesCommand handles favorites
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorites",
				Flags:  append(jsonFlags(), &cli.BoolFlag{Name: "detail", Usage: "Include movie detail"}),
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a movie to favorites",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie from favorites",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoritesRemove,
			},
			{
				Name:   "export",
				Usage:  "Export favorites to files",
				Flags:  exportFlags(),
				Action: r.FavoritesExport,
			},
		},
	}
}

// watchlistsCommand handles watchlists
func watchlistsCommand(r *Runner) *cli.Command {
	watchlistFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "watchlist", Aliases: []string{"w"}, Usage: "Watchlist id", Required: true}
	}
	return &cli.Command{
		Name:    "watchlists",
		Aliases: []string{"wl"},
		Usage:   "Manage watchlists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List watchlists and their movies",
				Flags:  jsonFlags(),
				Action: r.WatchlistsList,
			},
			{
				Name:      "create",
				Usage:     "Create a watchlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: append(jsonFlags(),
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Watchlist description"},
				),
				Action: r.WatchlistsCreate,
			},
			{
				Name:      "add",
				Usage:     "Add a movie to a watchlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{watchlistFlag()},
				Action:    r.WatchlistsAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie from a watchlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{watchlistFlag()},
				Action:    r.WatchlistsRemove,
			},
			{
				Name:  "export",
				Usage: "Export watchlists to files",
				Flags: append(exportFlags(),
					&cli.StringSliceFlag{Name: "id", Usage: "Watchlist id to export (repeatable, default all)"},
				),
				Action: r.WatchlistsExport,
			},
		},
	}
}

// reviewsCommand handles reviews
func reviewsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reviews",
		Usage: "Write and read reviews",
		Commands: []*cli.Command{
			{
				Name:      "submit",
				Usage:     "Create or update your review of a movie",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "rating", Aliases: []string{"r"}, Usage: "Rating, greater than 0 and at most 10", Required: true},
					&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Review text"},
				},
				Action: r.ReviewsSubmit,
			},
			{
				Name:      "movie",
				Usage:     "List reviews of a movie",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     jsonFlags(),
				Action:    r.ReviewsMovie,
			},
			{
				Name:   "mine",
				Usage:  "List your reviews",
				Flags:  jsonFlags(),
				Action: r.ReviewsMine,
			},
		},
	}
}

// recommendationsCommand lists personalized suggestions
func recommendationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommendations",
		Aliases: []string{"recs"},
		Usage:   "Suggest movies from your favorite genres",
		Flags:   jsonFlags(),
		Action:  r.Recommendations,
	}
}

// profileCommand shows the profile summary
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "profile",
		Usage:  "Show your profile with favorite, watchlist and review counts",
		Flags:  jsonFlags(),
		Action: r.Profile,
	}
}

// apiCommand handles raw backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Raw calls to the reel backend",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a path and print the response",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags:     []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Print compact JSON"}},
				Action:    r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "POST a JSON body to a path",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "JSON body to send", Required: true},
				},
				Action: r.APIPost,
			},
			{
				Name:      "delete",
				Usage:     "DELETE a path",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Action:    r.APIDelete,
			},
			{
				Name:  "replay",
				Usage: "Replay a request copied from browser DevTools (Copy as cURL)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "curl", Usage: "cURL command"},
					&cli.StringFlag{Name: "curl-file", Usage: "Path to a .sh file containing the cURL command"},
				},
				Action: r.APIReplay,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Action:  r.TUI,
	}
}
