package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/OddSageID/neuroshield-site/internal/report"
	"github.com/OddSageID/neuroshield-site/internal/secheaders"
	"github.com/OddSageID/neuroshield-site/internal/site"
)

var headersOpts struct {
	check        bool
	watch        bool
	removeInline bool
	format       string
}

var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "Inject and update security headers across the HTML tree",
	Long: `Rewrite the Content-Security-Policy and companion security meta tags of
every HTML page under the site root.

Inline script source hashes are kept in sync with the published CSP, so a
hand-edited page never ships a policy its own scripts violate. With
--remove-inline, inline scripts are stripped instead and the bare policy is
published.

With --check no file is written; the command fails if any page would
change, which makes it suitable as a CI gate.`,
	RunE: runHeaders,
}

func init() {
	rootCmd.AddCommand(headersCmd)

	headersCmd.Flags().BoolVar(&headersOpts.check, "check", false,
		"Report pages that would change without writing; exit non-zero on drift")
	headersCmd.Flags().BoolVar(&headersOpts.watch, "watch", false,
		"Keep running and rewrite pages as they change on disk")
	headersCmd.Flags().BoolVar(&headersOpts.removeInline, "remove-inline", false,
		"Strip inline scripts instead of hashing them into the CSP")
	headersCmd.Flags().StringVar(&headersOpts.format, "format", "plain",
		"Output format: plain, json, markdown")
}

func newRewriter() *secheaders.Rewriter {
	opts := secheaders.Options{
		CSP:                 cfg.Headers.CSP,
		HashInlineScripts:   cfg.Headers.HashInlineScripts,
		RemoveInlineScripts: cfg.Headers.RemoveInlineScripts || headersOpts.removeInline,
	}
	return secheaders.NewRewriter(opts)
}

// rewriteTree runs the rewriter over every page. In check mode nothing is
// written and every would-be change is an error-grade finding.
func rewriteTree(rw *secheaders.Rewriter, check bool) (*report.Result, error) {
	pages, err := site.Scan(cfg.Site.Root, cfg.Site.ExcludeDirs)
	if err != nil {
		return nil, fmt.Errorf("scan site: %w", err)
	}

	result := &report.Result{
		Title: "Security header rewrite",
		Meta:  map[string]string{"pages": fmt.Sprintf("%d", len(pages))},
	}

	for _, p := range pages {
		updated, changes := rw.Rewrite(p.Content)
		if len(changes) == 0 {
			continue
		}

		for _, change := range changes {
			line := fmt.Sprintf("%s: %s", p.RelPath, change)
			if check {
				result.Errors = append(result.Errors, line)
			} else {
				result.Warnings = append(result.Warnings, line)
			}
		}
		if check {
			continue
		}

		if err := os.WriteFile(p.Path, []byte(updated), 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.RelPath, err)
		}
		logger.Debug("rewrote page", "page", p.RelPath, "changes", len(changes))
	}

	return result, nil
}

func runHeaders(cmd *cobra.Command, args []string) error {
	rw := newRewriter()

	result, err := rewriteTree(rw, headersOpts.check)
	if err != nil {
		return err
	}

	formatter := report.NewFormatter(report.FormatType(headersOpts.format))
	if err := formatter.Format(os.Stdout, result); err != nil {
		return err
	}

	if headersOpts.check && result.HasErrors() {
		return fmt.Errorf("%d page(s) out of date", len(result.Errors))
	}

	if !headersOpts.watch {
		return nil
	}

	watcher, err := site.NewWatcher(cfg.Site.Root, cfg.Site.ExcludeDirs, logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	watcher.SetChangeCallback(func(paths []string) {
		logger.Info("pages changed, rewriting", "count", len(paths))
		if _, err := rewriteTree(rw, false); err != nil {
			logger.Warn("rewrite failed", "error", err)
		}
	})
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	fmt.Fprintln(os.Stderr, "watching for changes, Ctrl-C to stop")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}
