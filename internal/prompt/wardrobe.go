package prompt

import (
	"fmt"
	"strings"

	"github.com/gia-fashion/stylist-platform/internal/model"
)

// MaxWardrobeItems caps how many garments are described to the model.
const MaxWardrobeItems = 10

// FormatWardrobe renders wardrobe items as the prompt's data block.
func FormatWardrobe(items []model.WardrobeItem) string {
	if len(items) > MaxWardrobeItems {
		items = items[:MaxWardrobeItems]
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "ITEM-%03d: %s", i+1, strings.TrimSpace(item.Description))

		var meta []string
		if len(item.ColorTags) > 0 {
			meta = append(meta, "Colors: "+strings.Join(item.ColorTags, ", "))
		}
		if len(item.StyleTags) > 0 {
			meta = append(meta, "Style: "+strings.Join(item.StyleTags, ", "))
		}
		if len(meta) > 0 {
			b.WriteString("\n   ")
			b.WriteString(strings.Join(meta, " | "))
		}
	}
	return b.String()
}
