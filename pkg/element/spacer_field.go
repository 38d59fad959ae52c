package element

const (
	defaultSpace = 20
	minSpace     = 0
	maxSpace     = 200
)

type spacerField struct{}

func (spacerField) Tag() Tag { return TagSpacerField }

func (spacerField) Construct(id string) Instance {
	return Instance{ID: id, Type: TagSpacerField, Attributes: SpacerAttributes{Space: defaultSpace}}
}

func (spacerField) Validate(inst Instance, value string) bool {
	return AlwaysValid(false, value)
}

func (spacerField) Button() Button {
	return Button{Icon: "/Spacerfield.svg", Label: "Spacer Field"}
}

func (d spacerField) Designer(inst Instance) View {
	return newView("spacer", surfaceDesigner, spaceData(inst, d))
}

func (d spacerField) FillIn(inst Instance, _ FieldState) View {
	return newView("spacer", surfaceFillIn, spaceData(inst, d))
}

func (d spacerField) Properties(inst Instance) View {
	data := spaceData(inst, d)
	data["min"] = minSpace
	data["max"] = maxSpace
	return newView("spacer", surfaceProperties, data)
}

func (d spacerField) Apply(inst Instance, edits Edits) (Instance, error) {
	if err := checkType(d, inst); err != nil {
		return inst, err
	}
	attrs := attrsOf[SpacerAttributes](inst, d)
	space, ok, err := edits.Int("space")
	if err != nil {
		return inst, err
	}
	if ok {
		attrs.Space = clamp(space, minSpace, maxSpace)
	}
	out := inst
	out.Attributes = attrs
	return out, nil
}

func (spacerField) Submittable() bool { return false }

func spaceData(inst Instance, def Definition) map[string]any {
	data := baseData(inst)
	data["space"] = attrsOf[SpacerAttributes](inst, def).Space
	return data
}
