package element

type paragraphField struct{}

func (paragraphField) Tag() Tag { return TagParagraphField }

func (paragraphField) Construct(id string) Instance {
	return Instance{ID: id, Type: TagParagraphField, Attributes: ParagraphAttributes{Text: "Paragraph Text"}}
}

func (paragraphField) Validate(inst Instance, value string) bool {
	return AlwaysValid(false, value)
}

func (paragraphField) Button() Button {
	return Button{Icon: "/Paragraphfield.svg", Label: "Paragraph Field"}
}

func (d paragraphField) data(inst Instance) map[string]any {
	data := baseData(inst)
	data["text"] = attrsOf[ParagraphAttributes](inst, d).Text
	return data
}

func (d paragraphField) Designer(inst Instance) View {
	return newView("paragraph", surfaceDesigner, d.data(inst))
}

func (d paragraphField) FillIn(inst Instance, _ FieldState) View {
	return newView("paragraph", surfaceFillIn, d.data(inst))
}

func (d paragraphField) Properties(inst Instance) View {
	return newView("paragraph", surfaceProperties, d.data(inst))
}

func (d paragraphField) Apply(inst Instance, edits Edits) (Instance, error) {
	if err := checkType(d, inst); err != nil {
		return inst, err
	}
	attrs := attrsOf[ParagraphAttributes](inst, d)
	if edits.Has("text") {
		attrs.Text = SanitizeText(edits.Get("text"))
	}
	out := inst
	out.Attributes = attrs
	return out, nil
}

func (paragraphField) Submittable() bool { return false }
