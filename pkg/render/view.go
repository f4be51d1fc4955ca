package render

// PageView is the immutable snapshot a renderer turns into output. It is built
// once per render from the form controller and the list.
type PageView struct {
	Locale string     `json:"locale"`
	Title  string     `json:"title"`
	Form   FormView   `json:"form"`
	List   ListView   `json:"list"`
	Notice string     `json:"notice,omitempty"`
	Theme  *ThemeView `json:"theme,omitempty"`
}

// FormView describes the form controls and the edit state they reflect.
type FormView struct {
	Action        string        `json:"action"`
	Fields        []FieldView   `json:"fields"`
	Hidden        []HiddenField `json:"hidden,omitempty"`
	Editing       bool          `json:"editing"`
	EditingID     string        `json:"editingId,omitempty"`
	SubmitLabel   string        `json:"submitLabel"`
	CancelLabel   string        `json:"cancelLabel"`
	CancelVisible bool          `json:"cancelVisible"`
	Error         string        `json:"error,omitempty"`
	ErrorVisible  bool          `json:"errorVisible"`
}

// FieldView is one form control.
type FieldView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	Required bool   `json:"required"`
	Invalid  bool   `json:"invalid,omitempty"`
}

// ListView is the rendered catalogue table.
type ListView struct {
	Columns     []string  `json:"columns"`
	Rows        []RowView `json:"rows"`
	Empty       string    `json:"empty"`
	EditLabel   string    `json:"editLabel"`
	DeleteLabel string    `json:"deleteLabel"`
}

// RowView is one record as displayed. Price is already locale formatted.
type RowView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Price       string `json:"price"`
	PublishDate string `json:"publishDate"`
	Publisher   string `json:"publisher"`
	Description string `json:"description,omitempty"`
}

// ConfirmView backs the delete confirmation page.
type ConfirmView struct {
	Locale   string     `json:"locale"`
	Title    string     `json:"title"`
	Question string     `json:"question"`
	Row      RowView    `json:"row"`
	Action   string     `json:"action"`
	Yes      string     `json:"yes"`
	No       string     `json:"no"`
	Back     string     `json:"back"`
	Theme    *ThemeView `json:"theme,omitempty"`
}

// ThemeView carries the resolved theme as CSS custom properties.
type ThemeView struct {
	Name      string            `json:"name"`
	Variant   string            `json:"variant,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
	Styles    []string          `json:"styles,omitempty"`
}
