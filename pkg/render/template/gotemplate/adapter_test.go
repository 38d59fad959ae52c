package gotemplate_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
)

func TestEngine_RenderTemplate(t *testing.T) {
	files := fstest.MapFS{
		"templates/greeting.tmpl": {Data: []byte("Hello {{ name }}!")},
		"templates/textarea.tmpl": {Data: []byte(`<textarea rows="{{ rows }}">{% for o in options %}[{{ o }}]{% endfor %}</textarea>`)},
		"templates/theme.tmpl":    {Data: []byte(`<body style="{{ vars|cssvars }}">{{ pad|trim }}</body>`)},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files), gotemplate.WithExtension("tmpl"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	type page struct {
		Name string `json:"name"`
	}

	cases := []struct {
		name     string
		template string
		data     any
		want     string
	}{
		{
			name:     "appends extension",
			template: "templates/greeting",
			data:     map[string]any{"name": "Ada"},
			want:     "Hello Ada!",
		},
		{
			name:     "explicit extension",
			template: "templates/greeting.tmpl",
			data:     map[string]any{"name": "Ada"},
			want:     "Hello Ada!",
		},
		{
			name:     "struct data uses json keys",
			template: "templates/greeting",
			data:     page{Name: "Grace"},
			want:     "Hello Grace!",
		},
		{
			name:     "keeps integers and string slices",
			template: "templates/textarea",
			data:     map[string]any{"rows": 3, "options": []string{"a", "b"}},
			want:     `<textarea rows="3">[a][b]</textarea>`,
		},
		{
			name:     "cssvars and trim filters",
			template: "templates/theme",
			data: map[string]any{
				"vars": map[string]string{"--brand": "#123", "--accent": "#456", "plain": "x"},
				"pad":  "  hi  ",
			},
			want: `<body style="--accent: #456; --brand: #123;">hi</body>`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.RenderTemplate(tc.template, tc.data)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("render mismatch\nwant: %q\n got: %q", tc.want, got)
			}
		})
	}
}

func TestEngine_CachesParsedTemplates(t *testing.T) {
	files := fstest.MapFS{
		"label.tpl": {Data: []byte("first {{ v }}")},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if got, err := engine.RenderTemplate("label", map[string]any{"v": 1}); err != nil || got != "first 1" {
		t.Fatalf("first render = %q, %v", got, err)
	}

	files["label.tpl"] = &fstest.MapFile{Data: []byte("second {{ v }}")}
	got, err := engine.RenderTemplate("label", map[string]any{"v": 2})
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if got != "first 2" {
		t.Fatalf("expected cached template, got %q", got)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	_, err = engine.RenderTemplate("nope", nil)
	if err == nil || !strings.Contains(err.Error(), `"nope.tpl"`) {
		t.Fatalf("expected load error naming the template, got %v", err)
	}
}

func TestEngine_RejectsNonObjectData(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{
		"x.tpl": {Data: []byte("x")},
	}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderTemplate("x", []string{"a"}); err == nil {
		t.Fatalf("expected error for slice data")
	}
}

func TestNew_RequiresFS(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}
