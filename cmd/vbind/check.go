package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vango-dev/vbind/internal/errors"
)

type checkOptions struct {
	data    string
	strict  bool
	json    bool
	compact bool
}

func checkCmd(a *app) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check <template>",
		Short: "Report binding diagnostics for a template",
		Long: `Compile a template and print every diagnostic: unknown directives,
undefined data keys, missing methods, empty keys and malformed
interpolation markers.

Without --data every referenced key is reported as missing. With --strict
the command fails when any diagnostic is reported.

Examples:
  vbind check index.html --data data.json
  vbind check index.html --data data.json --strict --compact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), a, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "Data file (JSON or YAML)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero when diagnostics are reported")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print one JSON object per diagnostic")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "Print one line per diagnostic")

	return cmd
}

func runCheck(ctx context.Context, a *app, templateURI string, opts checkOptions) error {
	c, err := a.compile(ctx, templateURI, opts.data)
	if err != nil {
		return err
	}
	defer c.view.Dispose()

	diags := c.diagnostics.All()
	for _, d := range diags {
		switch {
		case opts.json:
			fmt.Fprintln(a.stdout, d.FormatJSON())
		case opts.compact:
			fmt.Fprintln(a.stdout, d.FormatCompact())
		default:
			errors.Print(a.stdout, d)
		}
	}

	if !opts.json {
		fmt.Fprintf(a.stdout, "%s: %d bindings, %d diagnostics\n", c.name, c.view.Len(), len(diags))
	}
	if opts.strict && len(diags) > 0 {
		return errors.New("E161").WithDetailf("%d diagnostics in %s", len(diags), c.name)
	}
	return nil
}
