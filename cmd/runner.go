package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/session"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	api        *services.APIService
	tokens     session.TokenStore
	session    *session.Store
	fetch      *tasks.Fetchers
	notices    chan tasks.Notice
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *services.Client
	API        *services.APIService
	Tokens     session.TokenStore
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.API.Timeout()}
	}
	if opts.Client == nil {
		opts.Client = services.NewClient(
			opts.Config.API.BaseURL,
			services.WithHTTPClient(opts.HTTPClient),
			services.WithRateLimit(opts.Config.API.RateLimit),
		)
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.BaseURL, opts.HTTPClient)
	}
	if opts.Tokens == nil {
		opts.Tokens = shared.NewTokenFile(opts.Config.Session.TokenPath)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		api:        opts.API,
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		notices:    make(chan tasks.Notice, 32),
	}
	r.session = session.New(opts.Client, opts.Tokens, opts.Logger)
	r.fetch = tasks.NewFetchers(r.session, opts.Logger, r.notices)
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, moviesCommand, favoritesCommand,
		watchlistsCommand, reviewsCommand, recommendationsCommand, profileCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.session = session.New(r.client, r.tokens, logger)
	r.fetch = tasks.NewFetchers(r.session, logger, r.notices)
}

// requireSession restores the persisted session; commands that act for a user fail without one.
func (r *Runner) requireSession(ctx context.Context) error {
	if r.session.Authenticated() || r.session.Restore(ctx) {
		return nil
	}
	return fmt.Errorf("%w: run 'reel auth login' first", shared.ErrNotAuthenticated)
}

// flushNotices logs every pending notice. The CLI reports notices on stderr through the logger.
func (r *Runner) flushNotices() {
	for {
		select {
		case n := <-r.notices:
			switch n.Level {
			case tasks.Error:
				r.logger.Error(n.Message)
			case tasks.Warning:
				r.logger.Warn(n.Message)
			default:
				r.logger.Info(n.Message)
			}
		default:
			return
		}
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
