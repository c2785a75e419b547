// forms/schema.go
package forms

// Declarative field schemas drive both server-side validation and the
// external renderer: each entity service publishes its schema and the UI
// draws the form from it.

type FieldKind string

const (
	FieldText        FieldKind = "text"
	FieldTextarea    FieldKind = "textarea"
	FieldNumber      FieldKind = "number"
	FieldSelect      FieldKind = "select"
	FieldMultiSelect FieldKind = "multiselect"
	FieldCheckbox    FieldKind = "checkbox"
	FieldDate        FieldKind = "date"
	FieldTime        FieldKind = "time"
)

type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Help     string    `json:"help,omitempty"`
	Options  []string  `json:"options,omitempty"`
	Default  any       `json:"default,omitempty"`
}

type Schema struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

func NewSchema(title string) *Schema {
	return &Schema{Title: title}
}

func (s *Schema) Add(f Field) *Schema {
	s.Fields = append(s.Fields, f)
	return s
}

func (s *Schema) Text(name, label string, required bool) *Schema {
	return s.Add(Field{Name: name, Label: label, Kind: FieldText, Required: required})
}

func (s *Schema) Textarea(name, label string) *Schema {
	return s.Add(Field{Name: name, Label: label, Kind: FieldTextarea})
}

func (s *Schema) Number(name, label string, required bool, def any) *Schema {
	return s.Add(Field{Name: name, Label: label, Kind: FieldNumber, Required: required, Default: def})
}

func (s *Schema) Select(name, label string, options []string, required bool) *Schema {
	return s.Add(Field{Name: name, Label: label, Kind: FieldSelect, Required: required, Options: options})
}

func (s *Schema) MultiSelect(name, label string, options []string) *Schema {
	return s.Add(Field{Name: name, Label: label, Kind: FieldMultiSelect, Options: options})
}

func (s *Schema) Checkbox(name, label string) *Schema {
	return s.Add(Field{Name: name, Label: label, Kind: FieldCheckbox, Default: false})
}

func (s *Schema) Date(name, label string, required bool) *Schema {
	return s.Add(Field{Name: name, Label: label, Kind: FieldDate, Required: required})
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
