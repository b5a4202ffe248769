package helpers_test

import (
	"testing"

	"github.com/evanw/classvars/internal/helpers"
	"github.com/evanw/classvars/internal/test"
)

func TestQuoteForJS(t *testing.T) {
	check := func(text string, expected string) {
		t.Helper()
		test.AssertEqual(t, string(helpers.QuoteForJS(text, false)), expected)
	}

	check("", `""`)
	check("abc", `"abc"`)
	check(`say "hi"`, `'say "hi"'`)
	check(`it's`, `"it's"`)
	check("a\nb\tc", `"a\nb\tc"`)
	check("back\\slash", `"back\\slash"`)
	check("\u2028", `"\u2028"`)
	check("caf\u00E9", "\"caf\u00E9\"")
}

func TestQuoteASCIIOnly(t *testing.T) {
	test.AssertEqual(t, string(helpers.QuoteForJSON("caf\u00E9", true)), `"caf\u00E9"`)
	test.AssertEqual(t, string(helpers.QuoteForJSON("\U0001F600", true)), `"\uD83D\uDE00"`)
}
