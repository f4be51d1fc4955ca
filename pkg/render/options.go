package render

// RenderOptions carry per-request data renderers use without changing the
// view itself.
type RenderOptions struct {
	// Locale selects the message catalog entry for labels the renderer owns.
	Locale string
	// Translator resolves those labels. Nil leaves the view text untouched.
	Translator Translator
	// OnMissing customises missing-translation output.
	OnMissing MissingTranslationHandler
	// HiddenFields are merged into the form's own hidden inputs; later entries
	// win on name collisions.
	HiddenFields map[string]string
}
