package markdown

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Edit replaces source[Start:End] with Replacement. Start == End inserts.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

var errOverlap = errors.New("overlapping edits")

// ApplyEdits applies non-overlapping edits whose offsets refer to the original
// source. Edits are applied back to front so earlier offsets stay valid.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int {
		if c := cmp.Compare(b.Start, a.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.End, a.End)
	})

	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < e.Start:
			return nil, fmt.Errorf("edit %d: invalid range [%d:%d]", i, e.Start, e.End)
		case e.End > len(source):
			return nil, fmt.Errorf("edit %d: range [%d:%d] beyond %d bytes", i, e.Start, e.End, len(source))
		case i > 0 && e.End > sorted[i-1].Start:
			return nil, errOverlap
		}
	}

	out := slices.Clone(source)
	for _, e := range sorted {
		out = slices.Concat(out[:e.Start], e.Replacement, out[e.End:])
	}
	return out, nil
}
