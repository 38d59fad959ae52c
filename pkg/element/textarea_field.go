package element

const (
	defaultTextAreaRows = 3
	minTextAreaRows     = 1
	maxTextAreaRows     = 10
)

type textAreaField struct{}

func (textAreaField) Tag() Tag { return TagTextAreaField }

func (textAreaField) Construct(id string) Instance {
	return Instance{
		ID:   id,
		Type: TagTextAreaField,
		Attributes: TextAreaAttributes{
			FieldAttributes: FieldAttributes{
				Label:       "Text Area",
				HelperText:  defaultHelperText,
				Placeholder: defaultPlaceholder,
			},
			Rows: defaultTextAreaRows,
		},
	}
}

func (textAreaField) Validate(inst Instance, value string) bool {
	return RequireTrimmed(inst.Required(), value)
}

func (textAreaField) Button() Button {
	return Button{Icon: "/Textarea.svg", Label: "TextArea"}
}

func (d textAreaField) data(inst Instance) map[string]any {
	attrs := attrsOf[TextAreaAttributes](inst, d)
	data := fieldData(inst, attrs.FieldAttributes)
	data["rows"] = clamp(attrs.Rows, minTextAreaRows, maxTextAreaRows)
	return data
}

func (d textAreaField) Designer(inst Instance) View {
	return newView("textarea", surfaceDesigner, d.data(inst))
}

func (d textAreaField) FillIn(inst Instance, state FieldState) View {
	return newView("textarea", surfaceFillIn, withState(d.data(inst), inst, state))
}

func (d textAreaField) Properties(inst Instance) View {
	data := d.data(inst)
	data["minRows"] = minTextAreaRows
	data["maxRows"] = maxTextAreaRows
	return newView("field", surfaceProperties, data)
}

func (d textAreaField) Apply(inst Instance, edits Edits) (Instance, error) {
	if err := checkType(d, inst); err != nil {
		return inst, err
	}
	attrs := attrsOf[TextAreaAttributes](inst, d)
	rows, ok, err := edits.Int("rows")
	if err != nil {
		return inst, err
	}
	if ok {
		attrs.Rows = clamp(rows, minTextAreaRows, maxTextAreaRows)
	}
	attrs.FieldAttributes = applyFieldEdits(attrs.FieldAttributes, edits)

	out := inst.Clone()
	out.Attributes = attrs
	return out, nil
}

func (textAreaField) Submittable() bool { return true }
