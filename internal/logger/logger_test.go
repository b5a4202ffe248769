package logger_test

import (
	"strings"
	"testing"

	"github.com/evanw/classvars/internal/logger"
	"github.com/evanw/classvars/internal/test"
)

func TestMsgIDs(t *testing.T) {
	for id := logger.MsgID_None; id <= logger.MsgID_END; id++ {
		str := logger.MsgIDToString(id)
		if str == "" {
			continue
		}

		overrides := make(map[logger.MsgID]logger.LogLevel)
		logger.StringToMsgIDs(str, logger.LevelError, overrides)
		if len(overrides) == 0 {
			t.Fatalf("Failed to find message id(s) for the string %q", str)
		}

		for k, v := range overrides {
			test.AssertEqual(t, logger.MsgIDToString(k), str)
			test.AssertEqual(t, v, logger.LevelError)
		}
	}
}

func TestMsgString(t *testing.T) {
	source := test.SourceForTest("class Foo {\n  let x;\n  let x;\n}\n")
	log := logger.NewDeferLog()
	log.AddRangeError(&source, logger.Range{Loc: logger.Loc{Start: 27}, Len: 1}, "Duplicate class instance variable \"x\"")
	msgs := log.Done()
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqualWithDiff(t, msgs[0].String(logger.OutputOptions{IncludeSource: true}, logger.TerminalInfo{}),
		"<stdin>:3:6: error: Duplicate class instance variable \"x\"\n  let x;\n      ^\n")
}

func TestOverrides(t *testing.T) {
	source := test.SourceForTest("foo")
	log := logger.NewDeferLog()
	log.Overrides = map[logger.MsgID]logger.LogLevel{
		logger.MsgID_JS_SuperCallInClosure:         logger.LevelSilent,
		logger.MsgID_JS_ComputedKeyEvaluationOrder: logger.LevelError,
	}
	log.AddIDWithRange(logger.MsgID_JS_SuperCallInClosure, &source, logger.Range{}, "dropped")
	log.AddIDWithRange(logger.MsgID_JS_ComputedKeyEvaluationOrder, &source, logger.Range{}, "promoted")
	log.AddIDWithRange(logger.MsgID_JS_UnusedInstanceVariable, &source, logger.Range{}, "kept")

	msgs := log.Done()
	test.AssertEqual(t, len(msgs), 2)
	test.AssertEqual(t, log.HasErrors(), true)
	test.AssertEqual(t, msgs[0].Kind, logger.Error)
	test.AssertEqual(t, msgs[0].Text, "promoted")
	test.AssertEqual(t, msgs[1].Kind, logger.Warning)
}

func TestLongLineIsTrimmed(t *testing.T) {
	line := "let value = aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa + b;"
	source := test.SourceForTest(line)
	msg := logger.Msg{
		Kind:     logger.Error,
		Text:     "oops",
		Location: logger.LocationOrNil(&source, logger.Range{Loc: logger.Loc{Start: int32(len(line) - 2)}, Len: 1}),
	}
	text := msg.String(logger.OutputOptions{IncludeSource: true}, logger.TerminalInfo{Width: 40})
	test.AssertEqual(t, text[:len("<stdin>:1:")], "<stdin>:1:")
	for _, part := range []string{"...", "^"} {
		if !strings.Contains(text, part) {
			t.Fatalf("Expected %q in %q", part, text)
		}
	}
}
