// Package errors provides coded, actionable diagnostics for vbind.
//
// Every diagnostic carries a code from a fixed registry. Codes starting with
// W are soft failures found while compiling bindings: the tree is still
// compiled and the binding degrades to a no-op. Codes starting with E are
// hard failures of the outer layers (config, sources, CLI, live server).
//
// # Categories
//
//   - binding: directive and interpolation problems (W001-W099)
//   - config: vbind.json problems (E100-E119)
//   - source: template and data loading (E120-E139)
//   - live: live transport problems (E140-E159)
//   - cli: command line usage (E160-E179)
//
// # Usage
//
//	err := errors.New("W001").
//	    WithLocation("index.html", "div#app > span").
//	    WithSuggestion("Use one of v-text, v-html, v-model or v-on:<event>")
//
//	fmt.Println(err.Format())
//	// Output:
//	// WARNING W001: Unknown directive
//	//
//	//   index.html: div#app > span
//	//
//	//   Hint: Use one of v-text, v-html, v-model or v-on:<event>
package errors
