package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

type scriptedDriver struct {
	inputs []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	value := d.inputs[0]
	d.inputs = d.inputs[1:]
	return value, nil
}
func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) { return false, nil }
func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error)    { return 0, nil }
func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", nil
}
func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	env := &cliEnv{stdin: strings.NewReader(stdin), stdout: &stdout, stderr: &stderr}
	code := run(context.Background(), args, env)
	return code, stdout.String(), stderr.String()
}

func TestNew_PrintsDefaultInstance(t *testing.T) {
	code, out, _ := runCLI(t, "", "new", "-type", "Checkbox", "-id", "c1")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["id"] != "c1" || got["type"] != "Checkbox" {
		t.Fatalf("unexpected instance %v", got)
	}
}

func TestNew_UnknownType(t *testing.T) {
	code, _, errOut := runCLI(t, "", "new", "-type", "DateField")
	if code != 1 || !strings.Contains(errOut, "unknown element type") {
		t.Fatalf("exit %d stderr %q", code, errOut)
	}
}

func TestValidate(t *testing.T) {
	path := testsupport.WriteSchemaFile(t, "form.json", testsupport.SampleContent)

	code, out, _ := runCLI(t, `{"age":"3"}`, "validate", "-schema", path)
	if code != 1 {
		t.Fatalf("expected exit 1 for invalid values, got %d", code)
	}
	var flags map[string]bool
	if err := json.Unmarshal([]byte(out), &flags); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]bool{testsupport.NameID: true, testsupport.AgreeID: true}
	if diff := cmp.Diff(want, flags); diff != "" {
		t.Fatalf("flags mismatch (-want +got):\n%s", diff)
	}

	code, _, _ = runCLI(t, `{"name":"Ada","agree":"true"}`, "validate", "-schema", path)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
}

func TestFill_PrintsSubmittedValues(t *testing.T) {
	path := testsupport.WriteSchemaFile(t, "contact.json",
		`[{"id":"email","type":"TextField","extraAttributes":{"label":"Email","required":true}}]`)

	var stdout, stderr bytes.Buffer
	env := &cliEnv{stdout: &stdout, stderr: &stderr, driver: &scriptedDriver{inputs: []string{"ada@example.com"}}}
	if code := run(context.Background(), []string{"fill", "-schema", path}, env); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != `{"email":"ada@example.com"}` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPreview_WritesDesignerHTML(t *testing.T) {
	path := testsupport.WriteSchemaFile(t, "survey.json", testsupport.SampleContent)
	code, out, errOut := runCLI(t, "", "preview", "-schema", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Customer survey") {
		t.Fatalf("expected designer html, got:\n%s", out)
	}
}

func TestPreview_AppliesPreset(t *testing.T) {
	path := testsupport.WriteSchemaFile(t, "survey.json", testsupport.SampleContent)
	preset := testsupport.WriteSchemaFile(t, "preset.json", `{"elements":{"name":{"label":"Full legal name"}},"remove":["colour"]}`)

	code, out, errOut := runCLI(t, "", "preview", "-schema", path, "-preset", preset)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Full legal name") {
		t.Fatalf("expected preset label, got:\n%s", out)
	}
	if strings.Contains(out, "Colour") {
		t.Fatalf("expected colour element removed, got:\n%s", out)
	}
}

func TestPreview_PresetUnknownElement(t *testing.T) {
	path := testsupport.WriteSchemaFile(t, "survey.json", testsupport.SampleContent)
	preset := testsupport.WriteSchemaFile(t, "preset.json", `{"elements":{"missing":{"label":"x"}}}`)

	code, _, errOut := runCLI(t, "", "preview", "-schema", path, "-preset", preset)
	if code == 0 || !strings.Contains(errOut, `"missing"`) {
		t.Fatalf("exit %d stderr %q", code, errOut)
	}
}

func TestExports(t *testing.T) {
	code, out, _ := runCLI(t, "", "jsonschema")
	if code != 0 || !strings.Contains(out, "TextAreaField") {
		t.Fatalf("jsonschema: exit %d", code)
	}

	path := testsupport.WriteSchemaFile(t, "survey.json", testsupport.SampleContent)
	code, out, errOut := runCLI(t, "", "openapi", "-schema", path, "-share", "abc")
	if code != 0 || !strings.Contains(out, `"submitForm"`) {
		t.Fatalf("openapi: exit %d %s", code, errOut)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := runCLI(t, "", "launch")
	if code != 2 || !strings.Contains(errOut, "Commands:") {
		t.Fatalf("exit %d stderr %q", code, errOut)
	}
}
