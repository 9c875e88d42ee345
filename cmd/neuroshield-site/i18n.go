package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OddSageID/neuroshield-site/internal/i18n"
	"github.com/OddSageID/neuroshield-site/internal/report"
	"github.com/OddSageID/neuroshield-site/internal/site"
)

var i18nOpts struct {
	format string
}

var i18nCmd = &cobra.Command{
	Use:   "i18n",
	Short: "Check translation consistency across page trees",
	Long: `Verify the Jekyll front matter of every page: each declares lang and
ref, English pages stay out of translated path roots, and every translated
page has an English original sharing its ref.`,
	RunE: runI18n,
}

func init() {
	rootCmd.AddCommand(i18nCmd)

	i18nCmd.Flags().StringVar(&i18nOpts.format, "format", "plain",
		"Output format: plain, json, markdown")
}

func runI18n(cmd *cobra.Command, args []string) error {
	pages, err := site.Scan(cfg.Site.Root, cfg.Site.ExcludeDirs)
	if err != nil {
		return fmt.Errorf("scan site: %w", err)
	}

	checked := i18n.Check(pages)

	result := &report.Result{
		Title: "i18n check",
		Meta:  map[string]string{"pages": fmt.Sprintf("%d", len(pages))},
	}
	for _, f := range checked.Errors() {
		result.Errors = append(result.Errors, f.String())
	}
	for _, f := range checked.Warnings() {
		result.Warnings = append(result.Warnings, f.String())
	}

	formatter := report.NewFormatter(report.FormatType(i18nOpts.format))
	if err := formatter.Format(os.Stdout, result); err != nil {
		return err
	}

	if checked.HasErrors() {
		return fmt.Errorf("i18n check failed with %d error(s)", len(result.Errors))
	}
	return nil
}
