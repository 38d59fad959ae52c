package element

type titleField struct{}

func (titleField) Tag() Tag { return TagTitleField }

func (titleField) Construct(id string) Instance {
	return Instance{ID: id, Type: TagTitleField, Attributes: TitleAttributes{Title: "Title Field"}}
}

func (titleField) Validate(inst Instance, value string) bool {
	return AlwaysValid(false, value)
}

func (titleField) Button() Button {
	return Button{Icon: "/Titlefield.svg", Label: "Title Field"}
}

func (d titleField) Designer(inst Instance) View {
	return newView("title", surfaceDesigner, titleData(inst, d))
}

func (d titleField) FillIn(inst Instance, _ FieldState) View {
	return newView("title", surfaceFillIn, titleData(inst, d))
}

func (d titleField) Properties(inst Instance) View {
	return newView("heading", surfaceProperties, titleData(inst, d))
}

func (d titleField) Apply(inst Instance, edits Edits) (Instance, error) {
	return applyTitle(d, inst, edits)
}

func (titleField) Submittable() bool { return false }

func titleData(inst Instance, def Definition) map[string]any {
	data := baseData(inst)
	data["title"] = attrsOf[TitleAttributes](inst, def).Title
	return data
}

func applyTitle(def Definition, inst Instance, edits Edits) (Instance, error) {
	if err := checkType(def, inst); err != nil {
		return inst, err
	}
	attrs := attrsOf[TitleAttributes](inst, def)
	if edits.Has("title") {
		attrs.Title = SanitizeText(edits.Get("title"))
	}
	out := inst
	out.Attributes = attrs
	return out, nil
}
