package formbuilder

import (
	"context"
	"io/fs"
	"strings"
	"testing"
)

func TestAssetsFSContainsStylesheetAndScript(t *testing.T) {
	for _, name := range []string{"formbuilder.css", "formbuilder.js"} {
		if _, err := fs.ReadFile(AssetsFS(), name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
}

func TestEmbeddedTemplatesIncludeLayout(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/layout.tmpl"); err != nil {
		t.Fatalf("expected layout template: %v", err)
	}
}

func TestGenerateHTML(t *testing.T) {
	out, err := GenerateHTML(context.Background(), "Contact", []byte(`[{"id":"t","type":"TitleField","extraAttributes":{"title":"Say hello"}}]`))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "Say hello") {
		t.Fatalf("expected title in output:\n%s", out)
	}
}
