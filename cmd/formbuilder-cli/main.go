package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/export"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// errInvalid makes the process exit with status 1 without printing an error.
var errInvalid = errors.New("invalid")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *cliEnv, args []string) error
}

type cliEnv struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// driver overrides the terminal prompts of the fill command.
	driver tui.PromptDriver
}

var commands = []command{
	{name: "new", summary: "print a default element of -type", run: runNew},
	{name: "validate", summary: "check -values against -schema and print the error flags", run: runValidate},
	{name: "fill", summary: "fill in -schema in the terminal and print the submitted values", run: runFill},
	{name: "preview", summary: "render the designer preview of -schema, optionally re-rendering on change", run: runPreview},
	{name: "jsonschema", summary: "print the JSON Schema of stored form content", run: runJSONSchema},
	{name: "openapi", summary: "print the OpenAPI document of the submit operation for -schema", run: runOpenAPI},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], &cliEnv{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}))
}

func run(ctx context.Context, args []string, env *cliEnv) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		usage(env.stderr)
		return 2
	}
	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		err := cmd.run(ctx, env, args[1:])
		switch {
		case err == nil:
			return 0
		case errors.Is(err, errInvalid):
			return 1
		case errors.Is(err, flag.ErrHelp):
			return 2
		default:
			fmt.Fprintf(env.stderr, "%s: %v\n", cmd.name, err)
			return 1
		}
	}
	fmt.Fprintf(env.stderr, "unknown command %q\n", args[0])
	usage(env.stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s <command> [flags]\n\nCommands:\n", filepath.Base(os.Args[0]))
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-11s %s\n", cmd.name, cmd.summary)
	}
}

func newFlagSet(name string, env *cliEnv) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	return fs
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runNew(_ context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("new", env)
	tag := fs.String("type", string(element.TagTextField), "element type")
	id := fs.String("id", "", "element id (random when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		*id = uuid.NewString()
	}
	inst, err := element.ConstructDefault(element.Tag(*tag), *id)
	if err != nil {
		return err
	}
	return writeJSON(env.stdout, inst)
}

func runValidate(_ context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("validate", env)
	schemaPath := fs.String("schema", "", "form content file (.json, .yaml)")
	valuesPath := fs.String("values", "-", "JSON value map file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form, err := loadSchema(*schemaPath)
	if err != nil {
		return err
	}

	var raw []byte
	if *valuesPath == "-" {
		raw, err = io.ReadAll(env.stdin)
	} else {
		raw, err = os.ReadFile(*valuesPath)
	}
	if err != nil {
		return fmt.Errorf("read values: %w", err)
	}
	values, err := schema.DecodeValues(string(raw))
	if err != nil {
		return err
	}

	result := validation.NewEngine().Validate(form, values)
	if err := writeJSON(env.stdout, result.Errors); err != nil {
		return err
	}
	if !result.Valid {
		return errInvalid
	}
	return nil
}

func runFill(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("fill", env)
	schemaPath := fs.String("schema", "", "form content file (.json, .yaml)")
	title := fs.String("title", "", "form title")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form, err := loadSchema(*schemaPath)
	if err != nil {
		return err
	}
	if *title == "" {
		*title = strings.TrimSuffix(filepath.Base(*schemaPath), filepath.Ext(*schemaPath))
	}

	var submitted string
	persister := session.PersisterFunc(func(_ context.Context, _ string, content string) error {
		submitted = content
		return nil
	})
	sess := session.New("terminal", form, persister)

	opts := []tui.Option{tui.WithOutput(env.stderr)}
	if env.driver != nil {
		opts = append(opts, tui.WithPromptDriver(env.driver))
	}
	if _, err := tui.New(opts...).Render(ctx, render.FillInPage{Title: *title, Session: sess}, render.RenderOptions{}); err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.stdout, submitted)
	return err
}

func runPreview(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("preview", env)
	schemaPath := fs.String("schema", "", "form content file (.json, .yaml)")
	output := fs.String("output", "", "output file (stdout if empty)")
	watch := fs.Bool("watch", false, "re-render when the schema file changes")
	presetPath := fs.String("preset", "", "JSON attribute preset applied before rendering")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" {
		return errors.New("-schema is required")
	}

	var opts []orchestrator.Option
	if *presetPath != "" {
		preset, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(*presetPath)), filepath.Base(*presetPath))
		if err != nil {
			return err
		}
		opts = append(opts, orchestrator.WithSchemaTransformer(preset))
	}
	orch := orchestrator.New(opts...)
	renderOnce := func() error {
		html, err := orch.Generate(ctx, orchestrator.Request{Path: *schemaPath})
		if err != nil {
			return err
		}
		if *output == "" {
			_, err = env.stdout.Write(html)
			return err
		}
		if err := os.WriteFile(*output, html, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(env.stderr, "Preview written to %s\n", *output)
		return nil
	}

	if err := renderOnce(); err != nil {
		return err
	}
	if !*watch {
		return nil
	}
	return watchFile(ctx, *schemaPath, func() {
		if err := renderOnce(); err != nil {
			fmt.Fprintf(env.stderr, "preview: %v\n", err)
		}
	})
}

func runJSONSchema(_ context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("jsonschema", env)
	if err := fs.Parse(args); err != nil {
		return err
	}
	return writeJSON(env.stdout, export.ContentSchema())
}

func runOpenAPI(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("openapi", env)
	schemaPath := fs.String("schema", "", "form content file (.json, .yaml)")
	share := fs.String("share", "", "share URL of the published form")
	title := fs.String("title", "", "document title")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form, err := loadSchema(*schemaPath)
	if err != nil {
		return err
	}
	doc, err := export.SubmitDocumentJSON(ctx, *title, *share, form)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.stdout, string(doc))
	return err
}

func loadSchema(path string) (schema.Schema, error) {
	if path == "" {
		return nil, errors.New("-schema is required")
	}
	form, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	if issues := validation.CheckSchema(form); len(issues) > 0 {
		return nil, fmt.Errorf("%s: %s", issues[0].Path, issues[0].Message)
	}
	return form, nil
}
