package validation

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

func newParseError(path string, data []byte, err *json.SyntaxError) *ParseError {
	// Offset counts the bytes consumed including the offending one.
	idx := int(err.Offset) - 1
	if int(err.Offset) >= len(data) && strings.HasPrefix(err.Error(), "unexpected end") {
		idx = len(data)
	}
	idx = min(max(idx, 0), len(data))

	line, column := position(data, idx)

	return &ParseError{
		Path:   path,
		Line:   line,
		Column: column,
		Msg:    err.Error(),
	}
}

// position converts a byte index into a 1-based line and rune column.
func position(data []byte, idx int) (line, column int) {
	head := data[:idx]
	line = bytes.Count(head, []byte{'\n'}) + 1
	lineStart := bytes.LastIndexByte(head, '\n') + 1
	column = utf8.RuneCount(head[lineStart:]) + 1
	return line, column
}
