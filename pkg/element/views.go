package element

import (
	"fmt"
	"strconv"
)

const (
	defaultHelperText  = "Helper Text"
	defaultPlaceholder = "Value goes here"
)

const (
	surfaceDesigner   = "designer"
	surfaceFillIn     = "fillin"
	surfaceProperties = "properties"
)

// InputName is the form input name used for an element in a fill-in render. The
// epoch suffix keeps browsers from restoring input typed into a discarded
// render.
func InputName(id string, epoch int64) string {
	return fmt.Sprintf("%s@%d", id, epoch)
}

func newView(kind, surface string, data map[string]any) View {
	return View{
		Template: "elements/" + kind + "_" + surface,
		Data:     data,
	}
}

func baseData(inst Instance) map[string]any {
	return map[string]any{
		"id":   inst.ID,
		"type": string(inst.Type),
	}
}

func fieldData(inst Instance, attrs FieldAttributes) map[string]any {
	data := baseData(inst)
	data["label"] = attrs.Label
	data["helperText"] = attrs.HelperText
	data["required"] = attrs.Required
	data["placeholder"] = attrs.Placeholder
	return data
}

func withState(data map[string]any, inst Instance, state FieldState) map[string]any {
	data["value"] = state.Value
	data["invalid"] = state.Invalid
	data["readonly"] = state.ReadOnly
	data["epoch"] = strconv.FormatInt(state.Epoch, 10)
	data["name"] = InputName(inst.ID, state.Epoch)
	return data
}

// attrsOf returns the typed record of inst, falling back to the defaults of def
// when the record has another shape.
func attrsOf[T Attributes](inst Instance, def Definition) T {
	if attrs, ok := inst.Attributes.(T); ok {
		return attrs
	}
	attrs, _ := def.Construct(inst.ID).Attributes.(T)
	return attrs
}

func checkType(def Definition, inst Instance) error {
	if inst.Type != def.Tag() {
		return fmt.Errorf("%w: %s given to %s", ErrTypeMismatch, inst.Type, def.Tag())
	}
	return nil
}

func applyFieldEdits(attrs FieldAttributes, edits Edits) FieldAttributes {
	if edits.Has("label") {
		attrs.Label = SanitizeText(edits.Get("label"))
	}
	if edits.Has("helperText") {
		attrs.HelperText = SanitizeText(edits.Get("helperText"))
	}
	if edits.Has("placeholder") {
		attrs.Placeholder = SanitizeText(edits.Get("placeholder"))
	}
	attrs.Required = edits.Bool("required")
	return attrs
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
