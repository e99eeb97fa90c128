package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
)

type renderOptions struct {
	data string
	sets []string
	ids  bool
	out  string
}

func renderCmd(a *app) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Compile a template and print the bound HTML",
		Long: `Compile a template against a data file and print the resulting HTML.

Each --set writes one key after compilation, in order, and every write
re-renders the nodes bound to that key before the next one. Values are
parsed as JSON when possible and used as plain strings otherwise.

Examples:
  vbind render index.html --data data.json
  vbind render index.html --data data.yaml --set msg=bye --set count=3
  vbind render s3://site/index.html --data s3://site/data.json --out s3://site/out.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), a, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "Data file (JSON or YAML)")
	cmd.Flags().StringArrayVarP(&opts.sets, "set", "s", nil, "Write key=value after compiling (repeatable)")
	cmd.Flags().BoolVar(&opts.ids, "ids", false, "Emit node IDs")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write to a path or s3:// URI instead of stdout")

	return cmd
}

func runRender(ctx context.Context, a *app, templateURI string, opts renderOptions) error {
	assignments := make([][2]string, 0, len(opts.sets))
	for _, s := range opts.sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return errors.New("E160").
				WithDetailf("--set %q", s).
				WithSuggestion("Use --set key=value")
		}
		assignments = append(assignments, [2]string{key, value})
	}

	c, err := a.compile(ctx, templateURI, opts.data)
	if err != nil {
		return err
	}
	defer c.view.Dispose()
	for _, d := range c.diagnostics.All() {
		a.logger.Warn(d.Message, "code", d.Code, "detail", d.Detail, "at", d.Location.String())
	}

	for _, kv := range assignments {
		c.store.Set(kv[0], parseValue(kv[1]))
	}

	out, err := dom.RenderString(c.root, dom.RenderOptions{IDs: opts.ids})
	if err != nil {
		return fmt.Errorf("render %s: %w", c.name, err)
	}
	if opts.out != "" {
		return a.loader.Write(ctx, opts.out, []byte(out), "text/html; charset=utf-8")
	}
	fmt.Fprintln(a.stdout, out)
	return nil
}

// parseValue decodes s as JSON, falling back to the raw string.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
