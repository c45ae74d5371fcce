package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// MoviePageURL is the public web page for a movie id.
const MoviePageURL = "https://www.themoviedb.org/movie/%d"

var getRuntime = func() string { return runtime.GOOS }

// MovieURL returns the public web page for the movie.
func MovieURL(movieID int) string {
	return fmt.Sprintf(MoviePageURL, movieID)
}

// browserCommand builds the command that opens url on the given platform.
func browserCommand(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenBrowser opens the default system browser to the specified URL.
func OpenBrowser(url string) error {
	cmd, err := browserCommand(getRuntime(), url)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
