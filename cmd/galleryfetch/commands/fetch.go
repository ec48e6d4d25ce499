package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/galleryfetch/internal/config"
	"github.com/jmylchreest/galleryfetch/internal/logger"
	"github.com/jmylchreest/galleryfetch/internal/media"
	"github.com/jmylchreest/galleryfetch/internal/output"
	"github.com/jmylchreest/galleryfetch/internal/pipeline"
	"github.com/jmylchreest/galleryfetch/pkg/fetcher"
)

// reportedError marks a failure whose message was already shown.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func isReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [phrase...]",
	Short: "Search for galleries and download their media",
	Long: `Search for a phrase and download the media of the top galleries.

Without a phrase you are asked for one; without --count you are asked how
many galleries to download. Each gallery is written to
<phrase>_galleries/galleryNNN/ with files named imageNNN.<ext>.

Examples:
  galleryfetch fetch
  galleryfetch fetch red panda -n 3 --output-dir ~/Pictures
  galleryfetch fetch cats -n 2 --fail-fast --report run.json`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	flags := fetchCmd.Flags()

	flags.IntP("count", "n", 0, "number of galleries to download (prompted when unset)")
	flags.Int("max-galleries", 60, "largest accepted gallery count")

	// Download settings
	flags.StringP("output-dir", "o", ".", "directory the <phrase>_galleries folder is created in")
	flags.Bool("fail-fast", false, "stop on the first media download that fails")
	flags.String("chunk-size", "100KB", "download buffer size (e.g., 100KB, 1MiB)")
	flags.StringSlice("extensions", media.DefaultExtensions, "file extensions that are saved")

	// Browser settings
	flags.String("browser-path", "", "Chrome/Chromium binary (default: search PATH)")
	flags.Duration("timeout", 0, "page render timeout (default 30s)")
	flags.Duration("settle", 0, "wait after page load for client-side content (default 2s)")
	flags.Bool("headful", false, "show the browser window")
	flags.String("screenshot-dir", "", "save a screenshot here when a page fails to render")

	// Report settings
	flags.String("report", "", "write a run report to this file")
	flags.String("format", "json", "report format: json, jsonl, yaml")
	flags.Bool("compact", false, "write JSON reports on a single line")

	bind := map[string]string{
		"max_galleries":          "max-galleries",
		"download.output_dir":    "output-dir",
		"download.fail_fast":     "fail-fast",
		"download.chunk_size":    "chunk-size",
		"download.extensions":    "extensions",
		"browser.path":           "browser-path",
		"browser.timeout":        "timeout",
		"browser.settle":         "settle",
		"browser.headful":        "headful",
		"browser.screenshot_dir": "screenshot-dir",
		"report.path":            "report",
		"report.format":          "format",
		"report.compact":         "compact",
	}
	for key, name := range bind {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	quiet := viper.GetBool("quiet")
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: quiet,
		JSON:  viper.GetBool("log_json"),
	})

	out := cmd.OutOrStdout()
	p := newPrompter(cmd.InOrStdin(), out)

	phrase := strings.TrimSpace(strings.Join(args, " "))
	if phrase == "" {
		if phrase, err = p.Phrase(); err != nil {
			return err
		}
		if phrase == "" {
			fmt.Fprintln(out, msgGoodbye)
			return nil
		}
	}

	count, _ := cmd.Flags().GetInt("count")
	if cmd.Flags().Changed("count") {
		if count < 0 || count > cfg.MaxGalleries {
			return fmt.Errorf("--count must be between 0 and %d", cfg.MaxGalleries)
		}
	} else {
		n, ok, err := p.Count(cfg.MaxGalleries)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, msgGoodbye)
			return nil
		}
		count = n
	}
	if count == 0 {
		fmt.Fprintln(out, msgNothingToDo)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var progress io.Writer
	if !quiet {
		progress = cmd.ErrOrStderr()
	}

	fmt.Fprintln(out, msgDownloading)
	report, err := download(ctx, cfg, phrase, count, progress)

	if cfg.Report.Path != "" && report != nil {
		werr := output.WriteFile(cfg.Report.Path, output.Format(cfg.Report.Format), report,
			output.WithPretty(!cfg.Report.Compact))
		if werr != nil {
			logger.Error("failed to write report", "path", cfg.Report.Path, "error", werr)
		} else {
			logger.Debug("report written", "path", cfg.Report.Path, "format", cfg.Report.Format)
		}
	}

	if err != nil {
		fmt.Fprintln(out, msgFailure)
		logger.Error("download failed", "query", phrase, "error", err)
		return reportedError{err: err}
	}
	fmt.Fprintln(out, msgSuccess)
	return nil
}

// download wires the fetchers and the media client into a pipeline run.
// The browser is closed before returning.
func download(ctx context.Context, cfg *config.Config, phrase string, count int, progress io.Writer) (*pipeline.Report, error) {
	search := fetcher.NewStatic(fetcher.StaticConfig{
		UserAgent: cfg.UserAgent,
		Headers:   cfg.Headers,
	})
	defer func() { _ = search.Close() }()

	renderer, err := fetcher.NewDynamic(ctx, fetcher.DynamicConfig{
		BrowserPath:   cfg.Browser.Path,
		UserAgent:     cfg.UserAgent,
		Timeout:       cfg.Browser.Timeout,
		Settle:        cfg.Browser.Settle,
		Headful:       cfg.Browser.Headful,
		Headers:       cfg.Headers,
		ScreenshotDir: cfg.Browser.ScreenshotDir,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = renderer.Close() }()

	client := media.NewClient(nil, media.Config{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Download.Timeout,
		ChunkSize: cfg.Download.ChunkBytes(),
		Headers:   cfg.Headers,
	})

	r, err := pipeline.New(
		pipeline.WithSearchFetcher(search),
		pipeline.WithRenderer(renderer),
		pipeline.WithDownloader(client),
		pipeline.WithSearchURL(cfg.Site.SearchURL),
		pipeline.WithGalleryURLs(cfg.Site.GalleryURL, cfg.Site.GridURL),
		pipeline.WithOutputDir(cfg.Download.OutputDir),
		pipeline.WithExtensions(cfg.Download.Extensions...),
		pipeline.WithFailFast(cfg.Download.FailFast),
		pipeline.WithProgress(progress),
	)
	if err != nil {
		return nil, err
	}

	logger.Debug("starting run", "query", phrase, "count", count, "renderer", renderer.Type())
	return r.Run(ctx, phrase, count)
}
