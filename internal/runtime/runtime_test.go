package runtime

import (
	"strings"
	"testing"

	"github.com/evanw/classvars/internal/helpers"
	"github.com/evanw/classvars/internal/slotmap"
	"github.com/evanw/classvars/internal/test"
)

func TestCodeOrder(t *testing.T) {
	code := Code([]string{ClassNameTDZError, InstanceVarGet})
	get := strings.Index(code, "function __instanceVarGet(")
	tdz := strings.Index(code, "function __classNameTDZError(")
	if get == -1 || tdz == -1 || get > tdz {
		t.Fatalf("Unexpected helper code:\n%s", code)
	}
	test.AssertEqual(t, strings.Contains(code, "__instanceVarSet"), false)
	test.AssertEqual(t, Code(nil), "")
	test.AssertEqual(t, Code([]string{"__unknown"}), "")
}

func TestHelperMessages(t *testing.T) {
	code := Code(HelperNames)
	for _, text := range []string{
		slotmap.GetOnNonInstanceText,
		slotmap.SetOnNonInstanceText,
		slotmap.SetNonWritableText,
		slotmap.ClassNameTDZSuffix,
	} {
		if !strings.Contains(code, text) {
			t.Fatalf("Missing %q in helper code", text)
		}
	}
	test.AssertEqual(t, strings.Contains(code, `throw new ReferenceError("Class " + JSON.stringify(name) + " cannot`), true)
}

func TestImportCode(t *testing.T) {
	quote := func(text string) string { return string(helpers.QuoteForJS(text, false)) }
	test.AssertEqual(t, ImportCode(nil, "classvars/runtime", quote), "")
	test.AssertEqual(t, ImportCode([]string{InstanceVarSet, InstanceVarGet}, "classvars/runtime", quote),
		"import { __instanceVarGet, __instanceVarSet } from \"classvars/runtime\";\n")
}

func TestIsHelper(t *testing.T) {
	for _, name := range HelperNames {
		test.AssertEqual(t, IsHelper(name), true)
	}
	test.AssertEqual(t, IsHelper("WeakMap"), false)
}
