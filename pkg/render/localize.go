package render

// LocalizePage rewrites the labels of view owned by the catalog, in place.
// Field labels, buttons, column headers and the page title are translated;
// values and messages already chosen by the controller are left alone.
func LocalizePage(view *PageView, opts RenderOptions) {
	if view == nil || opts.Translator == nil {
		return
	}
	locale := opts.Locale
	if locale == "" {
		locale = view.Locale
	}
	tr := func(key, fallback string) string {
		return Translate(opts.Translator, opts.OnMissing, locale, key, fallback)
	}

	view.Locale = ResolveLocale(locale)
	view.Title = tr(KeyPageTitle, view.Title)

	for i := range view.Form.Fields {
		field := &view.Form.Fields[i]
		field.Label = tr(FieldLabelKey(field.ID), field.Label)
	}
	if view.Form.Editing {
		view.Form.SubmitLabel = tr(KeySubmitUpdate, view.Form.SubmitLabel)
	} else {
		view.Form.SubmitLabel = tr(KeySubmitCreate, view.Form.SubmitLabel)
	}
	view.Form.CancelLabel = tr(KeyCancel, view.Form.CancelLabel)

	view.List.Columns = ListColumns(opts.Translator, opts.OnMissing, locale)
	view.List.Empty = tr(KeyListEmpty, view.List.Empty)
	view.List.EditLabel = tr(KeyEdit, view.List.EditLabel)
	view.List.DeleteLabel = tr(KeyDelete, view.List.DeleteLabel)
}

// ListColumns returns the table headers in display order.
func ListColumns(t Translator, onMissing MissingTranslationHandler, locale string) []string {
	ids := []string{"title", "author", "isbn", "price", "publishDate", "publisher"}
	out := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		out = append(out, Translate(t, onMissing, locale, FieldLabelKey(id), koMessages[FieldLabelKey(id)]))
	}
	return append(out, Translate(t, onMissing, locale, KeyListActions, koMessages[KeyListActions]))
}
