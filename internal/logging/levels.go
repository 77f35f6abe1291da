package logging

import "go.uber.org/zap/zapcore"

// TraceLevel sits below debug for wire-level detail such as full prompts
// and raw model responses.
const TraceLevel = zapcore.Level(-2)

// ParseLevel parses a level name, accepting "trace" in addition to the
// zap level names.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}
