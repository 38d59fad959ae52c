package element

type subTitleField struct{}

func (subTitleField) Tag() Tag { return TagSubTitleField }

func (subTitleField) Construct(id string) Instance {
	return Instance{ID: id, Type: TagSubTitleField, Attributes: TitleAttributes{Title: "Sub-Title Field"}}
}

func (subTitleField) Validate(inst Instance, value string) bool {
	return AlwaysValid(false, value)
}

func (subTitleField) Button() Button {
	return Button{Icon: "/SubTitle.svg", Label: "SubTitle Field"}
}

func (d subTitleField) Designer(inst Instance) View {
	return newView("subtitle", surfaceDesigner, titleData(inst, d))
}

func (d subTitleField) FillIn(inst Instance, _ FieldState) View {
	return newView("subtitle", surfaceFillIn, titleData(inst, d))
}

func (d subTitleField) Properties(inst Instance) View {
	return newView("heading", surfaceProperties, titleData(inst, d))
}

func (d subTitleField) Apply(inst Instance, edits Edits) (Instance, error) {
	return applyTitle(d, inst, edits)
}

func (subTitleField) Submittable() bool { return false }
