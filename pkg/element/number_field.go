package element

// numberField accepts any text; the browser restricts input to numbers and the
// value is kept verbatim.
type numberField struct{}

func (numberField) Tag() Tag { return TagNumberField }

func (numberField) Construct(id string) Instance {
	return Instance{
		ID:   id,
		Type: TagNumberField,
		Attributes: FieldAttributes{
			Label:       "Number Field",
			HelperText:  defaultHelperText,
			Placeholder: defaultPlaceholder,
		},
	}
}

func (numberField) Validate(inst Instance, value string) bool {
	return RequireTrimmed(inst.Required(), value)
}

func (numberField) Button() Button {
	return Button{Icon: "/Numberfield.svg", Label: "NumberField"}
}

func (d numberField) Designer(inst Instance) View {
	data := fieldData(inst, attrsOf[FieldAttributes](inst, d))
	data["inputType"] = "number"
	return newView("input", surfaceDesigner, data)
}

func (d numberField) FillIn(inst Instance, state FieldState) View {
	data := withState(fieldData(inst, attrsOf[FieldAttributes](inst, d)), inst, state)
	data["inputType"] = "number"
	return newView("input", surfaceFillIn, data)
}

func (d numberField) Properties(inst Instance) View {
	return newView("field", surfaceProperties, fieldData(inst, attrsOf[FieldAttributes](inst, d)))
}

func (d numberField) Apply(inst Instance, edits Edits) (Instance, error) {
	if err := checkType(d, inst); err != nil {
		return inst, err
	}
	out := inst.Clone()
	out.Attributes = applyFieldEdits(attrsOf[FieldAttributes](inst, d), edits)
	return out, nil
}

func (numberField) Submittable() bool { return true }
