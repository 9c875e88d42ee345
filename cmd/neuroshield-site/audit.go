package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/OddSageID/neuroshield-site/internal/audit"
	"github.com/OddSageID/neuroshield-site/internal/report"
	"github.com/OddSageID/neuroshield-site/internal/site"
)

var auditOpts struct {
	format string
	output string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit pages for structural accessibility and readability",
	Long: `Check every HTML page for the site's accessibility contract: a
#main-content landmark, exactly one h1, alt text on images, labels on
icon-only buttons, a skip link, and readable paragraph lengths.

The markdown report is written to the configured report path (default
docs/UI-AUDIT.md) and a summary goes to stdout. The command fails when any
error-grade finding exists.`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditOpts.format, "format", "plain",
		"Stdout format: plain, json, markdown")
	auditCmd.Flags().StringVar(&auditOpts.output, "output", "",
		"Markdown report path (default: [audit].report_path; \"-\" to skip)")
}

func runAudit(cmd *cobra.Command, args []string) error {
	pages, err := site.Scan(cfg.Site.Root, cfg.Site.ExcludeDirs)
	if err != nil {
		return fmt.Errorf("scan site: %w", err)
	}

	summary := audit.Run(pages, cfg.Audit.MaxParagraphLen)
	summary.Finalize()

	outputPath := auditOpts.output
	if outputPath == "" {
		outputPath = filepath.Join(cfg.Site.Root, cfg.Audit.ReportPath)
	}
	if outputPath != "-" {
		var buf bytes.Buffer
		if err := summary.RenderMarkdown(&buf); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Debug("wrote audit report", "path", outputPath, "run_id", summary.RunID)
	}

	result := &report.Result{
		Title: "UI audit",
		Meta: map[string]string{
			"pages":  fmt.Sprintf("%d", len(summary.Pages)),
			"run_id": summary.RunID,
		},
		Errors:   summary.Errors,
		Warnings: summary.Warnings,
	}
	formatter := report.NewFormatter(report.FormatType(auditOpts.format))
	if err := formatter.Format(os.Stdout, result); err != nil {
		return err
	}

	if summary.HasErrors() {
		return fmt.Errorf("audit failed with %d error(s)", len(summary.Errors))
	}
	return nil
}
