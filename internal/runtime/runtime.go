package runtime

// These helpers are called by lowered code at run time. Each one is a
// separate declaration so a file only includes the helpers it uses. Instance
// variable storage is one WeakMap per variable, mapping each instance to a
// descriptor of the form "{ writable, value }".

import (
	"strings"

	"github.com/evanw/classvars/internal/helpers"
	"github.com/evanw/classvars/internal/slotmap"
)

const (
	InstanceVarGet    = "__instanceVarGet"
	InstanceVarSet    = "__instanceVarSet"
	ClassNameTDZError = "__classNameTDZError"
)

// Helpers are always emitted in this order
var HelperNames = []string{
	InstanceVarGet,
	InstanceVarSet,
	ClassNameTDZError,
}

// The error messages match the Go model of these helpers in "slotmap"
var helperCode = map[string]string{
	InstanceVarGet: `function __instanceVarGet(receiver, map) {
  if (!map.has(receiver))
    throw new TypeError(` + quote(slotmap.GetOnNonInstanceText) + `);
  return map.get(receiver).value;
}
`,

	InstanceVarSet: `function __instanceVarSet(receiver, map, value) {
  if (!map.has(receiver))
    throw new TypeError(` + quote(slotmap.SetOnNonInstanceText) + `);
  var descriptor = map.get(receiver);
  if (!descriptor.writable)
    throw new TypeError(` + quote(slotmap.SetNonWritableText) + `);
  descriptor.value = value;
  return value;
}
`,

	// Class bodies are always strict, so this is only reached before the class
	// binding has been initialized
	ClassNameTDZError: `function __classNameTDZError(name) {
  throw new ReferenceError(` + quote(slotmap.ClassNameTDZPrefix) + ` + JSON.stringify(name) + ` + quote(slotmap.ClassNameTDZSuffix) + `);
}
`,
}

func quote(text string) string {
	return string(helpers.QuoteForJS(text, false))
}

func IsHelper(name string) bool {
	_, ok := helperCode[name]
	return ok
}

// Returns the definitions of the given helpers. Unknown names are ignored.
func Code(names []string) string {
	used := make(map[string]bool, len(names))
	for _, name := range names {
		used[name] = true
	}
	sb := strings.Builder{}
	for _, name := range HelperNames {
		if used[name] {
			sb.WriteString(helperCode[name])
		}
	}
	return sb.String()
}

// Returns an import statement for the given helpers, for output that loads
// the helpers from a shared module instead of defining them inline
func ImportCode(names []string, modulePath string, quote func(string) string) string {
	if len(names) == 0 {
		return ""
	}
	sorted := make([]string, 0, len(names))
	for _, name := range HelperNames {
		for _, used := range names {
			if used == name {
				sorted = append(sorted, name)
				break
			}
		}
	}
	return "import { " + strings.Join(sorted, ", ") + " } from " + quote(modulePath) + ";\n"
}
