// Package theme resolves and applies the site's visual theme.
//
// The controller is the single source of truth for the dark/light decision:
// an explicit persisted preference wins, otherwise the OS-level color scheme
// decides. The document marker it maintains is the only state stylesheets
// key off of, and its absent state is the canonical light representation so
// that pages rendered with no controller at all default to light.
//
// Integration example:
//
//	store, _ := prefs.NewFileStore(prefs.DefaultPath())
//	scheme := portal.Detect(logger)
//	doc := preview.NewDocumentState(cfg.Theme.MarkerAttribute)
//	ctrl := theme.NewController(store, scheme, doc, logger)
//	ctrl.Initialize()
//	scheme.Subscribe(ctx, ctrl.HandleSystemChange)
package theme
