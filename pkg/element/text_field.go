package element

type textField struct{}

func (textField) Tag() Tag { return TagTextField }

func (textField) Construct(id string) Instance {
	return Instance{
		ID:   id,
		Type: TagTextField,
		Attributes: FieldAttributes{
			Label:       "Text Field",
			HelperText:  defaultHelperText,
			Placeholder: defaultPlaceholder,
		},
	}
}

func (textField) Validate(inst Instance, value string) bool {
	return RequireTrimmed(inst.Required(), value)
}

func (textField) Button() Button {
	return Button{Icon: "/Textfield.svg", Label: "TextField"}
}

func (d textField) Designer(inst Instance) View {
	data := fieldData(inst, attrsOf[FieldAttributes](inst, d))
	data["inputType"] = "text"
	return newView("input", surfaceDesigner, data)
}

func (d textField) FillIn(inst Instance, state FieldState) View {
	data := withState(fieldData(inst, attrsOf[FieldAttributes](inst, d)), inst, state)
	data["inputType"] = "text"
	return newView("input", surfaceFillIn, data)
}

func (d textField) Properties(inst Instance) View {
	return newView("field", surfaceProperties, fieldData(inst, attrsOf[FieldAttributes](inst, d)))
}

func (d textField) Apply(inst Instance, edits Edits) (Instance, error) {
	if err := checkType(d, inst); err != nil {
		return inst, err
	}
	out := inst.Clone()
	out.Attributes = applyFieldEdits(attrsOf[FieldAttributes](inst, d), edits)
	return out, nil
}

func (textField) Submittable() bool { return true }
