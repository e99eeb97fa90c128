package main

import (
	"context"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/source"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// compiled is a template bound to its data.
type compiled struct {
	name        string
	root        *dom.Node
	store       *reactive.Store
	view        *binding.View
	diagnostics *binding.Collector
}

// compiler returns a Compiler configured from the loaded config.
func (a *app) compiler(name string, opts ...binding.Option) *binding.Compiler {
	base := []binding.Option{
		binding.WithPrefix(a.cfg.Prefix),
		binding.WithCollapseText(a.cfg.CollapseText),
		binding.WithMissingValue(a.cfg.MissingValue),
		binding.WithSourceName(name),
		binding.WithLogger(a.logger.With("component", "binding")),
	}
	return binding.NewCompiler(append(base, opts...)...)
}

// loadData reads the data file at uri. An empty uri yields an empty store.
func (a *app) loadData(ctx context.Context, uri string) (*reactive.Store, error) {
	if uri == "" {
		return reactive.NewStore(nil), nil
	}
	src, err := a.loader.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	return src.Store()
}

// parseTemplate parses a template source into a tree.
func parseTemplate(src *source.Source) (*dom.Node, error) {
	root, err := dom.ParseString(string(src.Data))
	if err != nil {
		return nil, errors.New("E124").WithLocation(src.Location.String(), "").Wrap(err)
	}
	return root, nil
}

// compile loads, parses and compiles the template at templateURI against the
// data file at dataURI.
func (a *app) compile(ctx context.Context, templateURI, dataURI string, opts ...binding.Option) (*compiled, error) {
	src, err := a.loader.Open(ctx, templateURI)
	if err != nil {
		return nil, err
	}
	root, err := parseTemplate(src)
	if err != nil {
		return nil, err
	}
	store, err := a.loadData(ctx, dataURI)
	if err != nil {
		return nil, err
	}

	diags := &binding.Collector{}
	opts = append(opts, binding.WithDiagnostics(diags))
	view := a.compiler(src.Location.String(), opts...).Compile(root, store, nil)
	return &compiled{
		name:        src.Location.String(),
		root:        root,
		store:       store,
		view:        view,
		diagnostics: diags,
	}, nil
}
