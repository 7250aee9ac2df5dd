package gallery

import (
	"fmt"
	"strconv"
	"strings"
)

// SequenceOf parses the numeric suffix of a photo ID for the given category.
// Returns 0 when the ID does not belong to the category.
func SequenceOf(id string, c Category) int {
	prefix := c.IDPrefix() + "-"
	if !strings.HasPrefix(id, prefix) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil {
		return 0
	}
	return n
}

// FormatID renders a category-prefixed, zero-padded photo ID, e.g.
// FormatID(CategoryBirds, 3) == "bird-003".
func FormatID(c Category, seq int) string {
	return fmt.Sprintf("%s-%03d", c.IDPrefix(), seq)
}

// MaxSequence returns the highest numeric ID suffix among photos for the
// given category.
func MaxSequence(photos []Photo, c Category) int {
	max := 0
	for _, p := range photos {
		if seq := SequenceOf(p.ID, c); seq > max {
			max = seq
		}
	}
	return max
}
