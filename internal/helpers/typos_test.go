package helpers_test

import (
	"testing"

	"github.com/evanw/classvars/internal/helpers"
	"github.com/evanw/classvars/internal/test"
)

func TestTypoDetector(t *testing.T) {
	detector := helpers.MakeTypoDetector([]string{"counter", "name", "x"})

	check := func(typo string, expected string) {
		t.Helper()
		corrected, ok := detector.MaybeCorrectTypo(typo)
		if expected == "" {
			test.AssertEqual(t, ok, false)
		} else {
			test.AssertEqual(t, ok, true)
			test.AssertEqual(t, corrected, expected)
		}
	}

	check("countr", "counter")
	check("conuter", "counter")
	check("countre", "counter")
	check("nmae", "name")
	check("y", "")
	check("unrelated", "")
}

func TestTypoDetectorEdits(t *testing.T) {
	detector := helpers.MakeTypoDetector([]string{"value", "values"})

	corrected, ok := detector.MaybeCorrectTypo("vaule")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, corrected, "value")

	// The first valid name wins
	corrected, ok = detector.MaybeCorrectTypo("valuex")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, corrected, "value")

	corrected, ok = detector.MaybeCorrectTypo("valuess")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, corrected, "values")

	// Names two edits away aren't suggested
	_, ok = detector.MaybeCorrectTypo("vlaeu")
	test.AssertEqual(t, ok, false)

	// Neither are exact matches
	_, ok = helpers.MakeTypoDetector([]string{"value"}).MaybeCorrectTypo("value")
	test.AssertEqual(t, ok, false)
}

func TestQuotedList(t *testing.T) {
	test.AssertEqual(t, helpers.QuotedList(nil), "")
	test.AssertEqual(t, helpers.QuotedList([]string{"a"}), `"a"`)
	test.AssertEqual(t, helpers.QuotedList([]string{"a", "b"}), `"a" or "b"`)
	test.AssertEqual(t, helpers.QuotedList([]string{"a", "b", "c"}), `"a", "b", or "c"`)
}
