package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

// SubmitPath is the JSON API route that stores a submission.
const SubmitPath = "/api/submit"

// ValuesExtension carries the value map schema on the content property, since
// content travels as a JSON encoded string.
const ValuesExtension = "x-formbuilder-values"

// SubmitDocument describes PATCH /api/submit for the published form behind
// shareURL. The values schema lists every value carrying element.
func SubmitDocument(ctx context.Context, title, shareURL string, instances []element.Instance) (*openapi3.T, error) {
	if strings.TrimSpace(shareURL) == "" {
		return nil, fmt.Errorf("export: share url is required")
	}
	if strings.TrimSpace(title) == "" {
		title = "Form submission"
	}

	content := openapi3.NewStringSchema()
	content.Description = "JSON encoded value map keyed by element id."
	content.Extensions = map[string]any{ValuesExtension: ValuesSchema(instances)}

	body := openapi3.NewObjectSchema().
		WithProperty("shareURL", openapi3.NewStringSchema().WithEnum(shareURL)).
		WithPropertyRef("content", openapi3.NewSchemaRef("", content))
	body.Required = []string{"shareURL", "content"}

	op := openapi3.NewOperation()
	op.OperationID = "submitForm"
	op.Summary = "Submit " + title
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission stored")}),
		openapi3.WithStatus(404, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Form not found or not published")}),
		openapi3.WithStatus(500, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission could not be stored")}),
	)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(SubmitPath, &openapi3.PathItem{Patch: op})),
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("export: validate openapi document: %w", err)
	}
	return doc, nil
}

// SubmitDocumentJSON renders SubmitDocument as indented JSON.
func SubmitDocumentJSON(ctx context.Context, title, shareURL string, instances []element.Instance) ([]byte, error) {
	doc, err := SubmitDocument(ctx, title, shareURL, instances)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode openapi document: %w", err)
	}
	return out, nil
}

// ValuesSchema is the object schema of a submitted value map.
func ValuesSchema(instances []element.Instance) *openapi3.Schema {
	values := openapi3.NewObjectSchema()
	var required []string
	for _, inst := range instances {
		def, err := element.Lookup(inst.Type)
		if err != nil || !def.Submittable() {
			continue
		}
		prop := valueSchema(inst)
		values.WithProperty(inst.ID, prop)
		if inst.Required() {
			required = append(required, inst.ID)
		}
	}
	values.Required = required
	return values
}

func valueSchema(inst element.Instance) *openapi3.Schema {
	prop := openapi3.NewStringSchema()
	prop.Title = inst.Label()

	switch attrs := inst.Attributes.(type) {
	case element.SelectAttributes:
		prop.Description = attrs.HelperText
		var enum []any
		if !attrs.Required {
			enum = append(enum, "")
		}
		for _, option := range attrs.Options {
			if strings.TrimSpace(option) != "" {
				enum = append(enum, option)
			}
		}
		if len(enum) > 0 {
			prop.WithEnum(enum...)
		}
	case element.CheckboxAttributes:
		prop.Description = attrs.HelperText
		if attrs.Required {
			prop.MinLength = 1
		}
	case element.TextAreaAttributes:
		prop.Description = attrs.HelperText
		if attrs.Required {
			prop.Pattern = `\S`
		}
	case element.FieldAttributes:
		prop.Description = attrs.HelperText
		if attrs.Required {
			prop.Pattern = `\S`
		}
	}
	return prop
}
