package logger

// Most non-error log messages are given a message ID that can be used to set
// the log level for that message. Errors do not get a message ID because you
// cannot turn errors into non-errors (otherwise the transform would
// incorrectly succeed).
type MsgID = uint8

const (
	MsgID_None MsgID = iota

	// JavaScript
	MsgID_JS_ComputedKeyEvaluationOrder
	MsgID_JS_EarlyInstanceVariableAccess
	MsgID_JS_SuperCallInClosure
	MsgID_JS_UnusedInstanceVariable

	// Config files
	MsgID_Config_UnknownField

	// Cache
	MsgID_Cache_Unavailable

	MsgID_END // Keep this at the end (used only for tests)
)

func StringToMsgIDs(str string, logLevel LogLevel, overrides map[MsgID]LogLevel) {
	switch str {
	// JS
	case "computed-key-evaluation-order":
		overrides[MsgID_JS_ComputedKeyEvaluationOrder] = logLevel
	case "early-instance-variable-access":
		overrides[MsgID_JS_EarlyInstanceVariableAccess] = logLevel
	case "super-call-in-closure":
		overrides[MsgID_JS_SuperCallInClosure] = logLevel
	case "unused-instance-variable":
		overrides[MsgID_JS_UnusedInstanceVariable] = logLevel

	// Config
	case "config-unknown-field":
		overrides[MsgID_Config_UnknownField] = logLevel

	// Cache
	case "cache-unavailable":
		overrides[MsgID_Cache_Unavailable] = logLevel
	}
}

func MsgIDToString(id MsgID) string {
	switch id {
	// JS
	case MsgID_JS_ComputedKeyEvaluationOrder:
		return "computed-key-evaluation-order"
	case MsgID_JS_EarlyInstanceVariableAccess:
		return "early-instance-variable-access"
	case MsgID_JS_SuperCallInClosure:
		return "super-call-in-closure"
	case MsgID_JS_UnusedInstanceVariable:
		return "unused-instance-variable"

	// Config
	case MsgID_Config_UnknownField:
		return "config-unknown-field"

	// Cache
	case MsgID_Cache_Unavailable:
		return "cache-unavailable"
	}

	return ""
}
