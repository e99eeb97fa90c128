package binding

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
)

// DefaultPrefix marks directive attributes.
const DefaultPrefix = "v-"

// eventInfix separates the event directive from its event type.
const eventInfix = "on:"

// interpolation matches the first {{ key }} marker, non-greedy.
var interpolation = regexp.MustCompile(`\{\{(.+?)\}\}`)

// Methods maps method names to event handlers for v-on directives.
type Methods map[string]dom.Handler

// Compiler turns a static markup tree into a live-bound one.
// A Compiler is immutable after construction and may be shared.
type Compiler struct {
	prefix       string
	collapseText bool
	missingValue string
	sourceName   string
	logger       *slog.Logger
	diagnostics  Diagnostics
	hooks        Hooks
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithPrefix sets the directive attribute prefix (default "v-").
func WithPrefix(prefix string) Option {
	return func(c *Compiler) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithCollapseText makes interpolation updates replace the whole text of the
// node with the new value, dropping the literals around the marker. By
// default the value is spliced back between them.
func WithCollapseText(collapse bool) Option {
	return func(c *Compiler) {
		c.collapseText = collapse
	}
}

// WithMissingValue sets the text rendered for undefined or nil values.
func WithMissingValue(s string) Option {
	return func(c *Compiler) {
		c.missingValue = s
	}
}

// WithSourceName names the template in diagnostic locations.
func WithSourceName(name string) Option {
	return func(c *Compiler) {
		c.sourceName = name
	}
}

// WithLogger sets the logger. Diagnostics are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDiagnostics sets the collector that receives soft failures.
func WithDiagnostics(d Diagnostics) Option {
	return func(c *Compiler) {
		c.diagnostics = d
	}
}

// WithHooks sets the engine observer, typically telemetry.Metrics.
func WithHooks(h Hooks) Option {
	return func(c *Compiler) {
		c.hooks = h
	}
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		prefix: DefaultPrefix,
		logger: slog.Default().With("component", "binding"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// With returns a copy of c with opts applied.
func (c *Compiler) With(opts ...Option) *Compiler {
	cp := *c
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// Compile binds every directive and interpolation marker below root to store.
// It processes root's descendants, not root itself, and never fails.
func Compile(root *dom.Node, store Store, methods Methods) *View {
	return NewCompiler().Compile(root, store, methods)
}

// Compile binds every directive and interpolation marker below root to store
// and returns the View owning the installed bindings.
func (c *Compiler) Compile(root *dom.Node, store Store, methods Methods) *View {
	cc := &compilation{
		Compiler: c,
		store:    store,
		methods:  methods,
		view:     &View{root: root},
	}
	cc.compile(root)
	c.logger.Debug("compiled",
		"source", c.sourceName,
		"watchers", cc.view.Len(),
		"diagnostics", cc.reported)
	return cc.view
}

// compilation is the state of one Compile call.
type compilation struct {
	*Compiler
	store    Store
	methods  Methods
	view     *View
	reported int
}

// compile processes el's children in document order. Each child is handled
// first and then descended into, so bindings are created in document order.
func (cc *compilation) compile(el *dom.Node) {
	for _, node := range el.ChildNodes() {
		switch {
		case node.IsText():
			cc.compileText(node)
		case node.IsElement():
			cc.compileElement(node)
		}
		if node.HasChildNodes() {
			cc.compile(node)
		}
	}
}

// compileText binds the first {{ key }} marker of a text node.
func (cc *compilation) compileText(node *dom.Node) {
	text := node.TextContent()
	m := interpolation.FindStringSubmatchIndex(text)
	if m == nil {
		if i := strings.Index(text, "{{"); i >= 0 && !strings.Contains(text[i:], "}}") {
			cc.report(node, errors.New("W005"))
		}
		return
	}

	key := strings.TrimSpace(text[m[2]:m[3]])
	prefix, suffix := text[:m[0]], text[m[1]:]
	if interpolation.MatchString(suffix) {
		cc.report(node, errors.New("W006").WithDetailf("bound %q; later markers stay as text", key))
	}

	value := cc.lookup(node, "interpolation", key)
	node.SetTextContent(prefix + cc.format(value) + suffix)

	cc.watch(node, "interpolation", key, func(v any) {
		if cc.collapseText {
			node.SetTextContent(cc.format(v))
			return
		}
		node.SetTextContent(prefix + cc.format(v) + suffix)
	})
}

// compileElement dispatches every directive attribute of an element in
// attribute order. Other attributes are left untouched.
func (cc *compilation) compileElement(node *dom.Node) {
	for _, attr := range node.Attributes() {
		if !strings.HasPrefix(attr.Name, cc.prefix) {
			continue
		}
		name := attr.Name[len(cc.prefix):]
		key := attr.Value
		if i := strings.Index(name, eventInfix); i >= 0 {
			cc.bindEvent(node, name[i+len(eventInfix):], key)
			continue
		}
		cc.update(node, key, name)
	}
}

// update runs the updater registered for directive, if any.
func (cc *compilation) update(node *dom.Node, key, directive string) {
	fn, ok := updaters[directive]
	if !ok {
		cc.report(node, errors.New("W001").
			WithDetailf("%s%s=%q", cc.prefix, directive, key).
			WithSuggestion("Use one of "+cc.prefix+"text, "+cc.prefix+"html, "+cc.prefix+"model or "+cc.prefix+"on:<event>"))
		return
	}
	fn(cc, node, key)
}

// lookup reads key for the initial render and reports undefined keys.
func (cc *compilation) lookup(node *dom.Node, directive, key string) any {
	if key == "" {
		cc.report(node, errors.New("W004").WithDetailf("%s has no key", directive))
	}
	value, ok := cc.store.Get(key)
	if !ok && key != "" {
		cc.report(node, errors.New("W002").WithDetailf("%s refers to %q", directive, key))
	}
	return value
}

// watch installs a Watcher for a binding on node.
func (cc *compilation) watch(node *dom.Node, directive, key string, render func(any)) *Watcher {
	w := newWatcher(cc.store, key, render, cc.hooks)
	cc.view.add(&bound{node: node, directive: directive, key: key, watcher: w})
	if cc.hooks != nil {
		cc.hooks.WatcherCreated(directive)
	}
	return w
}

func (cc *compilation) format(v any) string {
	return FormatValue(v, cc.missingValue)
}

func (cc *compilation) report(node *dom.Node, d *errors.Error) {
	d.WithLocation(cc.sourceName, nodePath(node))
	cc.reported++
	cc.logger.Debug("binding diagnostic",
		"code", d.Code,
		"message", d.Message,
		"detail", d.Detail,
		"path", d.Location.Path)
	if cc.diagnostics != nil {
		cc.diagnostics.Report(d)
	}
	if cc.hooks != nil {
		cc.hooks.Diagnostic(d.Code)
	}
}

// nodePath describes where node sits, e.g. "div#app > p > #text".
func nodePath(node *dom.Node) string {
	var parts []string
	for n := node; n != nil && n.Type != dom.DocumentNode; n = n.Parent() {
		switch n.Type {
		case dom.TextNode:
			parts = append(parts, "#text")
		case dom.ElementNode:
			part := n.Tag
			if id, ok := n.Attr("id"); ok && id != "" {
				part += "#" + id
			}
			parts = append(parts, part)
		default:
			parts = append(parts, "#"+strings.ToLower(n.Type.String()))
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}
