// Package conversation assembles the ordered message list for a chat turn.
package conversation

import (
	"github.com/gia-fashion/stylist-platform/internal/llm"
	"github.com/gia-fashion/stylist-platform/internal/model"
)

// HistoryWindow is the number of prior turns sent with each chat turn. Older
// turns are dropped.
const HistoryWindow = 10

const (
	OriginalLabel = "Original outfit for reference:"
	NewPhotoLabel = "New photo:"
)

// BuildMessages returns the system prompt, the last HistoryWindow turns of
// history oldest first, and the current user turn. When the tail of history
// already is the current turn it is rendered in place instead of appended
// again.
func BuildMessages(systemPrompt string, history []model.Turn, currentText string, original, newImage *model.ImageRef) []llm.Message {
	turns := dialogue(history)
	if len(turns) > HistoryWindow {
		turns = turns[len(turns)-HistoryWindow:]
	}

	if n := len(turns); n > 0 && isCurrent(turns[n-1], currentText) {
		turns = turns[:n-1]
	}

	msgs := make([]llm.Message, 0, len(turns)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, t := range turns {
		msgs = append(msgs, historyMessage(t))
	}
	return append(msgs, CurrentMessage(currentText, original, newImage))
}

// CurrentMessage renders the user's turn. A new photo is sent after the
// original so the model compares against the right baseline.
func CurrentMessage(text string, original, newImage *model.ImageRef) llm.Message {
	if original != nil && newImage != nil && original.URL == newImage.URL {
		original = nil
	}

	var parts []llm.Part
	if text != "" {
		parts = append(parts, llm.TextPart(text))
	}

	switch {
	case newImage != nil:
		if original != nil {
			parts = append(parts, llm.TextPart(OriginalLabel), llm.ImagePart(original.URL))
		}
		parts = append(parts, llm.TextPart(NewPhotoLabel), llm.ImagePart(newImage.URL))
	case original != nil:
		parts = append(parts, llm.ImagePart(original.URL))
	default:
		return llm.Message{Role: llm.RoleUser, Content: text}
	}

	return llm.Message{Role: llm.RoleUser, Parts: parts}
}

func historyMessage(t model.Turn) llm.Message {
	if t.Role == model.RoleUser && t.HasImage() {
		parts := []llm.Part{llm.ImagePart(t.ImageURL)}
		if t.Content != "" {
			parts = append([]llm.Part{llm.TextPart(t.Content)}, parts...)
		}
		return llm.Message{Role: llm.RoleUser, Parts: parts}
	}
	return llm.Message{Role: string(t.Role), Content: t.Content}
}

func dialogue(history []model.Turn) []model.Turn {
	out := make([]model.Turn, 0, len(history))
	for _, t := range history {
		if t.Role == model.RoleUser || t.Role == model.RoleAssistant {
			out = append(out, t)
		}
	}
	return out
}

func isCurrent(t model.Turn, text string) bool {
	return t.Role == model.RoleUser && t.Content == text
}
