// Package extract recovers structured trip documents from raw LLM output.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeError indicates model output that could not be parsed as a JSON
// object even after repair. Raw carries the offending text for diagnostic
// logging; Line/Column are 1-based when the underlying parser reported a
// position, 0 otherwise.
type DecodeError struct {
	Raw    string
	Line   int
	Column int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "decoding model output: empty text"
	}
	if e.Line > 0 {
		return fmt.Sprintf("decoding model output at line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("decoding model output: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode recovers a JSON object from raw model text. Surrounding whitespace
// and a fenced code block are stripped first; if a strict parse then fails, a
// single repair pass adds missing outer braces and collapses newlines before
// retrying. It returns either a fully parsed object or a *DecodeError, never
// a partial result.
func Decode(text string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &DecodeError{Raw: text}
	}

	candidate := stripFence(trimmed)
	if candidate == "" {
		return nil, &DecodeError{Raw: text}
	}

	obj, strictErr := parseObject(candidate)
	if strictErr == nil {
		return obj, nil
	}

	if obj, err := parseObject(repair(candidate)); err == nil {
		return obj, nil
	}

	// Report the position from the strict attempt; the repaired text no
	// longer matches what the model produced.
	line, col := position(candidate, strictErr)
	return nil, &DecodeError{Raw: text, Line: line, Column: col, Err: strictErr}
}

// stripFence removes a Markdown code fence: the first line (fence plus
// optional language tag) and, when present, the trailing fence line.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// repair applies the recovery heuristic for nearly-JSON output: missing
// outer braces are added and lines are rejoined with single spaces. The
// target schema has no multi-line string values, so collapsing newlines is
// safe.
func repair(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	if !strings.HasPrefix(lines[0], "{") {
		lines = append([]string{"{"}, lines...)
	}
	if !strings.HasSuffix(lines[len(lines)-1], "}") {
		lines = append(lines, "}")
	}
	return strings.Join(lines, " ")
}

func parseObject(text string) (map[string]interface{}, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// position translates a json.SyntaxError offset into a 1-based line/column.
func position(text string, err error) (int, int) {
	syntaxErr, ok := err.(*json.SyntaxError)
	if !ok || syntaxErr.Offset <= 0 || int(syntaxErr.Offset) > len(text) {
		return 0, 0
	}
	prefix := text[:syntaxErr.Offset]
	line := strings.Count(prefix, "\n") + 1
	col := len(prefix) - strings.LastIndex(prefix, "\n")
	return line, col
}
