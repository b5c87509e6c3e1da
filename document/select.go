package document

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrInvalidSelection is returned when a line selection is empty or out of range.
var ErrInvalidSelection = errors.New("invalid line selection")

// SelectLines returns lines first..last (1-based, inclusive) of src together
// with the position where the selection starts. last <= 0 selects through the
// end of the file.
func SelectLines(src []byte, first, last int) ([]byte, Position, error) {
	lines := bytes.SplitAfter(src, []byte("\n"))
	if last <= 0 || last > len(lines) {
		last = len(lines)
	}
	if first < 1 || first > last {
		return nil, Position{}, fmt.Errorf("%w: %d:%d of %d lines", ErrInvalidSelection, first, last, len(lines))
	}
	return bytes.Join(lines[first-1:last], nil), Position{Line: first - 1}, nil
}
