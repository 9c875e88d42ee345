package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OddSageID/neuroshield-site/internal/preview"
	"github.com/OddSageID/neuroshield-site/internal/theme"
)

var themeOpts struct {
	scheme string
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect and change the persisted theme preference",
}

// ThemeStatus is the `theme status` JSON output, shaped for Waybar's
// custom module format so the preference can sit in a status bar:
//
//	"custom/site-theme": {
//	  "exec": "neuroshield-site theme status",
//	  "return-type": "json",
//	  "on-click": "neuroshield-site theme toggle"
//	}
type ThemeStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

var themeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output the effective theme as JSON",
	RunE:  runThemeStatus,
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip the theme and persist the choice",
	RunE:  runThemeToggle,
}

var themeSetCmd = &cobra.Command{
	Use:   "set <dark|light>",
	Short: "Persist an explicit theme choice",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeSet,
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeStatusCmd)
	themeCmd.AddCommand(themeToggleCmd)
	themeCmd.AddCommand(themeSetCmd)

	themeCmd.PersistentFlags().StringVar(&themeOpts.scheme, "scheme", "",
		"Fix the system scheme to dark or light instead of asking the desktop")
}

// newThemeController wires a controller over the preference store and a
// process-local document marker.
func newThemeController() (*theme.Controller, theme.PreferenceStore, error) {
	scheme, err := newSchemeSource(themeOpts.scheme)
	if err != nil {
		return nil, nil, err
	}

	store := newPreferenceStore()
	doc := preview.NewDocumentState(cfg.Theme.MarkerAttribute)
	ctrl := theme.NewController(store, scheme, doc, logger)
	ctrl.Initialize()
	return ctrl, store, nil
}

func runThemeStatus(cmd *cobra.Command, args []string) error {
	ctrl, store, err := newThemeController()
	if err != nil {
		return err
	}

	mode := ctrl.Effective()
	source := "system"
	if _, ok, err := store.Load(); err == nil && ok {
		source = "explicit"
	}

	status := ThemeStatus{
		Text:    string(mode),
		Alt:     source,
		Tooltip: fmt.Sprintf("Effective theme: %s (%s)", mode, source),
		Class:   string(mode),
	}
	encoder := json.NewEncoder(os.Stdout)
	return encoder.Encode(status)
}

func runThemeToggle(cmd *cobra.Command, args []string) error {
	ctrl, _, err := newThemeController()
	if err != nil {
		return err
	}

	mode := ctrl.Toggle()
	fmt.Println(mode)
	return nil
}

func runThemeSet(cmd *cobra.Command, args []string) error {
	mode, ok := theme.ParseMode(args[0])
	if !ok {
		return fmt.Errorf("invalid theme %q (want dark or light)", args[0])
	}

	ctrl, store, err := newThemeController()
	if err != nil {
		return err
	}

	if err := store.Save(mode); err != nil {
		logger.Warn("theme preference not persisted", "error", err)
	}
	ctrl.Apply(mode)
	fmt.Println(mode)
	return nil
}
