package errors

import (
	"sort"
	"strings"
)

// Template defines a registered diagnostic.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

func (t Template) severity(code string) Severity {
	if strings.HasPrefix(code, "W") {
		return SeverityWarning
	}
	return SeverityError
}

// registry maps codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Binding Warnings (W001-W099)
	// ============================================

	"W001": {
		Category: CategoryBinding,
		Message:  "Unknown directive",
		Detail:   "The attribute looks like a directive but no updater is registered for it. It was left in place and ignored.",
	},
	"W002": {
		Category: CategoryBinding,
		Message:  "Missing data key",
		Detail:   "The binding refers to a key that is not defined on the data object. It renders as the missing value until the key is written.",
	},
	"W003": {
		Category: CategoryBinding,
		Message:  "Missing method",
		Detail:   "The event directive names a method that is not in the methods table. The event handler was assigned nothing.",
	},
	"W004": {
		Category: CategoryBinding,
		Message:  "Empty directive key",
		Detail:   "The directive has no value, so there is nothing to bind.",
	},
	"W005": {
		Category: CategoryBinding,
		Message:  "Unterminated interpolation",
		Detail:   "The text contains {{ without a matching }}. It was left as static text.",
	},
	"W006": {
		Category: CategoryBinding,
		Message:  "Extra interpolation ignored",
		Detail:   "Only the first {{ key }} marker in a text node is bound.",
	},

	// ============================================
	// Config Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// Source Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategorySource,
		Message:  "Source not found",
	},
	"E121": {
		Category: CategorySource,
		Message:  "Invalid source URI",
	},
	"E122": {
		Category: CategorySource,
		Message:  "Failed to read source",
	},
	"E123": {
		Category: CategorySource,
		Message:  "Failed to decode data",
	},
	"E124": {
		Category: CategorySource,
		Message:  "Failed to parse template",
	},

	// ============================================
	// Live Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryLive,
		Message:  "WebSocket upgrade failed",
	},
	"E141": {
		Category: CategoryLive,
		Message:  "Invalid client frame",
	},
	"E142": {
		Category: CategoryLive,
		Message:  "Unknown target node",
	},
	"E143": {
		Category: CategoryLive,
		Message:  "Session factory failed",
	},
	"E144": {
		Category: CategoryLive,
		Message:  "Session closed",
	},

	// ============================================
	// CLI Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
	},
	"E161": {
		Category: CategoryCLI,
		Message:  "Diagnostics reported",
	},
}

// GetAllCodes returns all registered codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
