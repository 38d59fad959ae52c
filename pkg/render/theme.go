package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Themes is a static theme.ThemeSelector over a fixed set of manifests.
type Themes struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests and records the selection used when a request
// names no theme. The first manifest is the default when defaultTheme is "".
func NewThemes(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*Themes, error) {
	t := &Themes{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
			return nil, fmt.Errorf("render: theme manifest requires a name")
		}
		if _, exists := t.manifests[manifest.Name]; exists {
			return nil, fmt.Errorf("render: theme %q already registered", manifest.Name)
		}
		t.manifests[manifest.Name] = manifest
		if t.defaultTheme == "" {
			t.defaultTheme = manifest.Name
		}
	}
	if _, ok := t.manifests[t.defaultTheme]; !ok && len(t.manifests) > 0 {
		return nil, fmt.Errorf("render: default theme %q not registered", t.defaultTheme)
	}
	return t, nil
}

// Select resolves name and variant, falling back to the defaults for blank
// values. Unknown variants are rejected.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = t.defaultTheme
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" && name == t.defaultTheme {
		variant = t.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}

	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Names lists the registered themes.
func (t *Themes) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.manifests))
	for name := range t.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTheme selects a theme and flattens it into the renderer config:
// variant tokens, templates and asset files override the base manifest, and
// fallbacks fill partials neither defines. A nil selector yields nil.
func ResolveTheme(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("render: theme %q resolved without a manifest", name)
	}

	manifest := selection.Manifest
	overlay, hasVariant := manifest.Variants[selection.Variant]

	partials := mergeStrings(fallbacks, manifest.Templates)
	tokens := mergeStrings(nil, manifest.Tokens)
	files := mergeStrings(nil, manifest.Assets.Files)
	prefix := manifest.Assets.Prefix
	if hasVariant {
		partials = mergeStrings(partials, overlay.Templates)
		tokens = mergeStrings(tokens, overlay.Tokens)
		files = mergeStrings(files, overlay.Assets.Files)
		if overlay.Assets.Prefix != "" {
			prefix = overlay.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}, nil
}

// CSSVarsStyle renders vars as an inline style attribute value in key order.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", key, vars[key])
	}
	return b.String()
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func mergeStrings(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		if value != "" {
			out[key] = value
		}
	}
	return out
}
