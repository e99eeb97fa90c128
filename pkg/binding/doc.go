// Package binding compiles declarative bindings in a markup tree into live
// links to a reactive store.
//
// The Compiler walks the tree once. Every {{ key }} marker in a text node and
// every v-text, v-html and v-model attribute gets an initial render and
// exactly one Watcher; v-on:<event> attributes assign a method from the
// methods table as the element's event handler. After compilation, each write
// to the store re-renders the dependent nodes synchronously, in the order
// their bindings were compiled.
//
//	root, _ := dom.ParseString(`<span>{{ msg }}</span>`)
//	store := reactive.NewStore(map[string]any{"msg": "hi"})
//	view := binding.Compile(root, store, nil)
//	store.Set("msg", "bye") // <span>bye</span>
//	view.Dispose()
//
// # Soft Failure
//
// Compilation never fails. Unknown directives, undefined keys and missing
// methods degrade to no-ops and are reported to the Diagnostics collector
// configured with WithDiagnostics.
package binding
