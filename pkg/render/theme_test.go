package render_test

import (
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
			"text":  "#111111",
		},
		Templates: map[string]string{
			"elements/input_fillin": "themes/acme/input_fillin",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"vanilla.stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"elements/checkbox_fillin": "themes/acme/dark/checkbox_fillin",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"vanilla.script": "vendor.dark.js",
					},
				},
			},
		},
	}
}

func TestResolveTheme_MergesVariant(t *testing.T) {
	themes, err := render.NewThemes("acme", "dark", acmeManifest())
	if err != nil {
		t.Fatalf("new themes: %v", err)
	}

	cfg, err := render.ResolveTheme(themes, "", "", map[string]string{
		"elements/textarea_fillin": "fallback/textarea",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	wantPartials := map[string]string{
		"elements/input_fillin":    "themes/acme/input_fillin",
		"elements/checkbox_fillin": "themes/acme/dark/checkbox_fillin",
		"elements/textarea_fillin": "fallback/textarea",
	}
	if diff := cmp.Diff(wantPartials, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.Tokens["text"] != "#111111" {
		t.Fatalf("tokens not merged: %v", cfg.Tokens)
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived from variant tokens: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("vanilla.script"); got != "/assets/themes/acme/vendor.dark.js" {
		t.Fatalf("unexpected script url %q", got)
	}
	if got := cfg.AssetURL("vanilla.stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
}

func TestThemes_SelectErrors(t *testing.T) {
	themes, err := render.NewThemes("", "", acmeManifest())
	if err != nil {
		t.Fatalf("new themes: %v", err)
	}
	if _, err := themes.Select("nope", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	if _, err := themes.Select("acme", "sepia"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
	selection, err := themes.Select("", "")
	if err != nil {
		t.Fatalf("select default: %v", err)
	}
	if selection.Theme != "acme" || selection.Variant != "" {
		t.Fatalf("unexpected default selection %+v", selection)
	}
}

func TestNewThemes_RejectsUnknownDefault(t *testing.T) {
	if _, err := render.NewThemes("missing", "", acmeManifest()); err == nil {
		t.Fatalf("expected error for unregistered default")
	}
}

func TestResolveTheme_NilSelector(t *testing.T) {
	cfg, err := render.ResolveTheme(nil, "acme", "", nil)
	if err != nil || cfg != nil {
		t.Fatalf("expected nil config, got %v, %v", cfg, err)
	}
}

func TestCSSVarsStyle(t *testing.T) {
	got := render.CSSVarsStyle(map[string]string{"--text": "#111", "--brand": "#222"})
	want := "--brand: #222; --text: #111;"
	if got != want {
		t.Fatalf("style = %q, want %q", got, want)
	}
}
