package element

type checkboxField struct{}

func (checkboxField) Tag() Tag { return TagCheckbox }

func (checkboxField) Construct(id string) Instance {
	return Instance{
		ID:   id,
		Type: TagCheckbox,
		Attributes: CheckboxAttributes{
			Label:      "Checkbox Field",
			HelperText: defaultHelperText,
		},
	}
}

// Validate does not trim: any non-empty value, including " ", is accepted.
func (checkboxField) Validate(inst Instance, value string) bool {
	return RequireRaw(inst.Required(), value)
}

func (checkboxField) Button() Button {
	return Button{Icon: "/Checkbox.svg", Label: "Checkbox"}
}

func (d checkboxField) data(inst Instance) map[string]any {
	attrs := attrsOf[CheckboxAttributes](inst, d)
	data := baseData(inst)
	data["label"] = attrs.Label
	data["helperText"] = attrs.HelperText
	data["required"] = attrs.Required
	return data
}

func (d checkboxField) Designer(inst Instance) View {
	return newView("checkbox", surfaceDesigner, d.data(inst))
}

func (d checkboxField) FillIn(inst Instance, state FieldState) View {
	data := withState(d.data(inst), inst, state)
	data["checked"] = state.Value != ""
	return newView("checkbox", surfaceFillIn, data)
}

func (d checkboxField) Properties(inst Instance) View {
	return newView("checkbox", surfaceProperties, d.data(inst))
}

func (d checkboxField) Apply(inst Instance, edits Edits) (Instance, error) {
	if err := checkType(d, inst); err != nil {
		return inst, err
	}
	attrs := attrsOf[CheckboxAttributes](inst, d)
	if edits.Has("label") {
		attrs.Label = SanitizeText(edits.Get("label"))
	}
	if edits.Has("helperText") {
		attrs.HelperText = SanitizeText(edits.Get("helperText"))
	}
	attrs.Required = edits.Bool("required")

	out := inst
	out.Attributes = attrs
	return out, nil
}

func (checkboxField) Submittable() bool { return true }
