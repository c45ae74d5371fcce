package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/urfave/cli/v3"
)

// authedAPI returns the raw API service carrying the persisted token, if any.
func (r *Runner) authedAPI() *services.APIService {
	token, err := r.tokens.Load()
	if err != nil {
		r.logger.Debug("no stored token", "error", err)
		return r.api
	}
	return r.api.WithToken(token)
}

// writeResponse prints the body, pretty when it is JSON, and fails on non-2xx statuses.
func (r *Runner) writeResponse(resp *services.APIResponse, compact bool) error {
	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}
	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !compact)
	}
	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)
	resp, err := r.authedAPI().Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, cmd.Bool("json"))
}

// APIPost makes a direct POST request to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	r.logger.Info("POST request", "path", path)
	resp, err := r.authedAPI().Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, false)
}

// APIDelete makes a direct DELETE request to the backend
func (r *Runner) APIDelete(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	r.logger.Info("DELETE request", "path", path)
	resp, err := r.authedAPI().Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, false)
}

// APIReplay replays a request copied from browser DevTools against the configured backend.
//
// The path, method, body and headers come from the cURL command. Its bearer token is used
// when present, otherwise the stored one.
func (r *Runner) APIReplay(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var (
		req *shared.CurlRequest
		err error
	)
	if curlFile != "" {
		if req, err = shared.ParseCurlFile(curlFile); err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
	} else {
		if req, err = shared.ParseCurl([]byte(curlCmd)); err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
	}

	api := r.authedAPI()
	if token := req.Token(); token != "" {
		api = api.WithToken(token)
	}

	r.logger.Info("replaying request", "method", req.Method, "path", req.Path())
	resp, err := api.WithHeaders(req.ReplayHeaders()).Do(ctx, req.Method, req.Path(), []byte(req.Data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, false)
}
