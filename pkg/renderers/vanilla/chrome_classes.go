package vanilla

// ChromeClass is a typed identifier for the CSS classes the templates emit.
type ChromeClass string

const (
	ClassPage    ChromeClass = "bookform-page"
	ClassForm    ChromeClass = "bookform-form"
	ClassField   ChromeClass = "bookform-field"
	ClassActions ChromeClass = "bookform-actions"
	ClassError   ChromeClass = "bookform-error"
	ClassNotice  ChromeClass = "bookform-notice"
	ClassTable   ChromeClass = "bookform-table"
	ClassConfirm ChromeClass = "bookform-confirm"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"page":    string(ClassPage),
		"form":    string(ClassForm),
		"field":   string(ClassField),
		"actions": string(ClassActions),
		"error":   string(ClassError),
		"notice":  string(ClassNotice),
		"table":   string(ClassTable),
		"confirm": string(ClassConfirm),
	}
}
