package element

// seperatorField draws a horizontal rule. It carries a space record for
// compatibility with stored forms but exposes no editable properties.
type seperatorField struct{}

func (seperatorField) Tag() Tag { return TagSeperatorField }

func (seperatorField) Construct(id string) Instance {
	return Instance{ID: id, Type: TagSeperatorField, Attributes: SpacerAttributes{Space: defaultSpace}}
}

func (seperatorField) Validate(inst Instance, value string) bool {
	return AlwaysValid(false, value)
}

func (seperatorField) Button() Button {
	return Button{Icon: "/Separator.svg", Label: "Seperator Field"}
}

func (seperatorField) Designer(inst Instance) View {
	return newView("separator", surfaceDesigner, baseData(inst))
}

func (seperatorField) FillIn(inst Instance, _ FieldState) View {
	return newView("separator", surfaceFillIn, baseData(inst))
}

func (seperatorField) Properties(inst Instance) View {
	return newView("none", surfaceProperties, baseData(inst))
}

func (d seperatorField) Apply(inst Instance, _ Edits) (Instance, error) {
	if err := checkType(d, inst); err != nil {
		return inst, err
	}
	return inst, nil
}

func (seperatorField) Submittable() bool { return false }
