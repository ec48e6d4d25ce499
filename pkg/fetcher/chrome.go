package fetcher

import (
	"os/exec"

	"github.com/jmylchreest/galleryfetch/internal/logger"
)

// Common Chrome/Chromium binary names across different systems
var chromeBinaryNames = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/snap/bin/chromium",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// FindChromePath resolves the browser binary. A configured path wins and
// must be executable; otherwise PATH and common install locations are
// searched. Returns "" when nothing is found, leaving chromedp to its own
// lookup.
func FindChromePath(configured string) string {
	if configured != "" {
		if path, err := lookPath(configured); err == nil {
			return path
		}
		logger.Warn("configured browser not found, searching defaults", "path", configured)
	}
	for _, name := range chromeBinaryNames {
		if path, err := lookPath(name); err == nil {
			logger.Debug("found Chrome binary", "name", name, "path", path)
			return path
		}
	}
	logger.Warn("no Chrome binary found - gallery rendering may not work")
	return ""
}
