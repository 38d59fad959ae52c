package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

// SchemaIssue represents a content problem with optional location metadata.
// Path is a JSON pointer into the content array; Field is the element id.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures the outcome of checking stored content.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// CheckSchema reports structural problems of decoded instances: empty or
// duplicate ids, unknown tags, and attribute records that do not match their
// tag. It never panics.
func CheckSchema(schema []element.Instance) []SchemaIssue {
	var issues []SchemaIssue
	seen := make(map[string]int, len(schema))

	for idx, inst := range schema {
		path := fmt.Sprintf("/%d", idx)
		if strings.TrimSpace(inst.ID) == "" {
			issues = append(issues, SchemaIssue{Path: path + "/id", Message: "element id is required"})
		} else if first, dup := seen[inst.ID]; dup {
			issues = append(issues, SchemaIssue{
				Path:    path + "/id",
				Field:   inst.ID,
				Message: fmt.Sprintf("duplicate element id (first used at /%d)", first),
			})
		} else {
			seen[inst.ID] = idx
		}

		def, err := element.Lookup(inst.Type)
		if err != nil {
			issues = append(issues, SchemaIssue{
				Path:    path + "/type",
				Field:   inst.ID,
				Message: fmt.Sprintf("unknown element type %q", inst.Type),
			})
			continue
		}
		want := fmt.Sprintf("%T", def.Construct(inst.ID).Attributes)
		if got := fmt.Sprintf("%T", inst.Attributes); got != want {
			issues = append(issues, SchemaIssue{
				Path:    path + "/extraAttributes",
				Field:   inst.ID,
				Message: fmt.Sprintf("attributes %s do not match type %s", got, inst.Type),
			})
		}
	}
	return issues
}

// ValidateContent checks raw stored content (a JSON array of instances).
func ValidateContent(raw []byte) SchemaValidationResult {
	result := SchemaValidationResult{Valid: true}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return result
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		result.Valid = false
		result.Issues = []SchemaIssue{issueFromError("", "", err)}
		return result
	}

	schema := make([]element.Instance, 0, len(items))
	for idx, item := range items {
		var inst element.Instance
		if err := json.Unmarshal(item, &inst); err != nil {
			result.Issues = append(result.Issues, issueFromError(fmt.Sprintf("/%d", idx), peekID(item), err))
			continue
		}
		schema = append(schema, inst)
	}
	result.Issues = append(result.Issues, CheckSchema(schema)...)
	result.Valid = len(result.Issues) == 0
	return result
}

func issueFromError(path, field string, err error) SchemaIssue {
	if err == nil {
		return SchemaIssue{Path: path, Field: field, Message: "unknown error"}
	}
	if errors.Is(err, element.ErrUnknownTag) {
		return SchemaIssue{Path: path + "/type", Field: field, Message: "unknown element type"}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return SchemaIssue{Path: path, Field: field, Message: fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset)}
	}
	return SchemaIssue{Path: path, Field: field, Message: strings.TrimSpace(err.Error())}
}

func peekID(raw json.RawMessage) string {
	var head struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &head)
	return head.ID
}
