package element

import "strings"

type selectField struct{}

func (selectField) Tag() Tag { return TagSelectField }

func (selectField) Construct(id string) Instance {
	return Instance{
		ID:   id,
		Type: TagSelectField,
		Attributes: SelectAttributes{
			FieldAttributes: FieldAttributes{
				Label:       "Select Field",
				HelperText:  defaultHelperText,
				Placeholder: defaultPlaceholder,
			},
			Options: []string{""},
		},
	}
}

func (selectField) Validate(inst Instance, value string) bool {
	return RequireTrimmed(inst.Required(), value)
}

func (selectField) Button() Button {
	return Button{Icon: "/Selectfield.svg", Label: "SelectField"}
}

func (d selectField) data(inst Instance) map[string]any {
	attrs := attrsOf[SelectAttributes](inst, d)
	data := fieldData(inst, attrs.FieldAttributes)
	data["options"] = choices(attrs.Options)
	return data
}

func (d selectField) Designer(inst Instance) View {
	return newView("select", surfaceDesigner, d.data(inst))
}

func (d selectField) FillIn(inst Instance, state FieldState) View {
	return newView("select", surfaceFillIn, withState(d.data(inst), inst, state))
}

func (d selectField) Properties(inst Instance) View {
	attrs := attrsOf[SelectAttributes](inst, d)
	data := fieldData(inst, attrs.FieldAttributes)
	data["options"] = append([]string(nil), attrs.Options...)
	return newView("select", surfaceProperties, data)
}

// Apply replaces the option list with the posted "option" values. Blank
// entries are kept so the editor can show an empty row to fill in.
func (d selectField) Apply(inst Instance, edits Edits) (Instance, error) {
	if err := checkType(d, inst); err != nil {
		return inst, err
	}
	attrs := attrsOf[SelectAttributes](inst, d)
	attrs.FieldAttributes = applyFieldEdits(attrs.FieldAttributes, edits)
	if edits.Has("option") {
		options := make([]string, 0, len(edits["option"]))
		for _, option := range edits["option"] {
			options = append(options, SanitizeText(option))
		}
		attrs.Options = options
	} else {
		attrs.Options = append([]string(nil), attrs.Options...)
	}

	out := inst
	out.Attributes = attrs
	return out, nil
}

func (selectField) Submittable() bool { return true }

// choices drops blank options; they only exist while the author edits the
// list.
func choices(options []string) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		if strings.TrimSpace(option) == "" {
			continue
		}
		out = append(out, option)
	}
	return out
}
