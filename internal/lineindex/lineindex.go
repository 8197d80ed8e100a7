// Package lineindex maps byte offsets in a source file to 1-indexed line
// numbers via binary search over newline positions.
package lineindex

import "sort"

// LineIndex holds the ascending byte offsets where each line begins.
// Offsets[0] is always 0.
type LineIndex struct {
	offsets []int
}

// New builds a LineIndex for source. An empty source still yields a single
// line starting at offset 0.
func New(source []byte) *LineIndex {
	offsets := make([]int, 0, 64)
	offsets = append(offsets, 0)
	for i, b := range source {
		if b == '\n' && i+1 < len(source) {
			offsets = append(offsets, i+1)
		}
	}
	return &LineIndex{offsets: offsets}
}

// Line returns the 1-indexed line containing the given byte offset.
func (li *LineIndex) Line(offset int) int {
	if offset <= 0 {
		return 1
	}
	// sort.Search finds the first offset strictly greater than the query;
	// the line starting at or before it is the answer.
	i := sort.Search(len(li.offsets), func(i int) bool {
		return li.offsets[i] > offset
	})
	return i
}
