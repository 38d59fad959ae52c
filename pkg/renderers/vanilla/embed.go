package vanilla

import (
	"embed"
	"io/fs"

	theme "github.com/goliatone/go-theme"
)

//go:embed templates/*.tmpl templates/elements/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName = "formbuilder.css"
	ScriptName     = "formbuilder.js"

	// Theme asset keys looked up through RendererConfig.AssetURL.
	StylesheetAsset = "vanilla.stylesheet"
	ScriptAsset     = "vanilla.script"
)

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the embedded CSS and JS so callers can serve them.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// DefaultTheme is the built-in manifest. Its tokens map onto the custom
// properties the stylesheet reads.
func DefaultTheme(assetPrefix string) *theme.Manifest {
	return &theme.Manifest{
		Name:    "formbuilder",
		Version: "1.0.0",
		Tokens: map[string]string{
			"fb-primary": "#2563eb",
			"fb-danger":  "#dc2626",
			"fb-text":    "#111827",
			"fb-muted":   "#6b7280",
			"fb-border":  "#d1d5db",
			"fb-surface": "#ffffff",
		},
		Assets: theme.Assets{
			Prefix: assetPrefix,
			Files: map[string]string{
				StylesheetAsset: StylesheetName,
				ScriptAsset:     ScriptName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"fb-primary": "#60a5fa",
					"fb-text":    "#f9fafb",
					"fb-muted":   "#9ca3af",
					"fb-border":  "#374151",
					"fb-surface": "#111827",
				},
			},
		},
	}
}

func readAsset(name string) string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+name)
	if err != nil {
		return ""
	}
	return string(data)
}
