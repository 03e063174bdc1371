package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gia-fashion/stylist-platform/internal/llm"
	"github.com/gia-fashion/stylist-platform/internal/model"
)

func turns(n int) []model.Turn {
	out := make([]model.Turn, n)
	for i := range out {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		out[i] = model.Turn{Role: role, Content: fmt.Sprintf("turn %d", i)}
	}
	return out
}

func TestBuildMessagesHistoryWindow(t *testing.T) {
	history := turns(15)
	// the current turn is already the tail
	history[14].Content = "what about shoes?"

	msgs := BuildMessages("system", history, "what about shoes?", nil, nil)
	require.Len(t, msgs, 11)
	require.Equal(t, llm.RoleSystem, msgs[0].Role)
	require.Equal(t, "system", msgs[0].Content)
	require.Equal(t, "turn 5", msgs[1].Content)
	require.Equal(t, "turn 13", msgs[9].Content)
	require.Equal(t, "what about shoes?", msgs[10].Content)
	require.Equal(t, llm.RoleUser, msgs[10].Role)
}

func TestBuildMessagesAppendsNewTurn(t *testing.T) {
	msgs := BuildMessages("system", turns(15), "what about shoes?", nil, nil)
	require.Len(t, msgs, 12)
	require.Equal(t, "turn 5", msgs[1].Content)
	require.Equal(t, "turn 14", msgs[10].Content)
	require.Equal(t, "what about shoes?", msgs[11].Content)
}

func TestBuildMessagesAlternatesRoles(t *testing.T) {
	msgs := BuildMessages("system", turns(4), "next", nil, nil)
	roles := make([]string, len(msgs))
	for i, m := range msgs {
		roles[i] = m.Role
	}
	require.Equal(t, []string{"system", "user", "assistant", "user", "assistant", "user"}, roles)
}

func TestBuildMessagesSkipsSystemTurns(t *testing.T) {
	history := []model.Turn{
		{Role: model.RoleSystem, Content: "old prompt"},
		{Role: model.RoleUser, Content: "hi"},
	}
	msgs := BuildMessages("system", history, "next", nil, nil)
	require.Len(t, msgs, 3)
	require.Equal(t, "hi", msgs[1].Content)
}

func TestCurrentMessageImages(t *testing.T) {
	original := model.NewImageRef("https://img.example/original.jpg")
	fresh := model.NewImageRef("data:image/jpeg;base64,AAAA")

	t.Run("new image with original", func(t *testing.T) {
		m := CurrentMessage("better?", original, fresh)
		require.Equal(t, []llm.Part{
			llm.TextPart("better?"),
			llm.TextPart(OriginalLabel),
			llm.ImagePart(original.URL),
			llm.TextPart(NewPhotoLabel),
			llm.ImagePart(fresh.URL),
		}, m.Parts)
		require.Equal(t, []string{original.URL, fresh.URL}, m.Images())
	})

	t.Run("new image without original", func(t *testing.T) {
		m := CurrentMessage("thoughts?", nil, fresh)
		require.Equal(t, []llm.Part{
			llm.TextPart("thoughts?"),
			llm.TextPart(NewPhotoLabel),
			llm.ImagePart(fresh.URL),
		}, m.Parts)
	})

	t.Run("new image equal to original", func(t *testing.T) {
		m := CurrentMessage("thoughts?", fresh, fresh)
		require.Equal(t, []string{fresh.URL}, m.Images())
	})

	t.Run("original only", func(t *testing.T) {
		m := CurrentMessage("what shoes?", original, nil)
		require.Equal(t, []llm.Part{
			llm.TextPart("what shoes?"),
			llm.ImagePart(original.URL),
		}, m.Parts)
	})

	t.Run("text only", func(t *testing.T) {
		m := CurrentMessage("hello", nil, nil)
		require.False(t, m.Multipart())
		require.Equal(t, "hello", m.Content)
		require.Equal(t, llm.RoleUser, m.Role)
	})
}

func TestBuildMessagesImageTurnsInHistory(t *testing.T) {
	history := []model.Turn{
		{Role: model.RoleUser, Content: "rate this", ImageURL: "https://img.example/a.jpg"},
		{Role: model.RoleAssistant, Content: "**Score: 7/10** nice"},
	}
	msgs := BuildMessages("system", history, "and now?", history[0].Image(), model.NewImageRef("https://img.example/b.jpg"))
	require.Len(t, msgs, 4)

	require.Equal(t, []llm.Part{
		llm.TextPart("rate this"),
		llm.ImagePart("https://img.example/a.jpg"),
	}, msgs[1].Parts)
	require.False(t, msgs[2].Multipart())
	require.Equal(t, []string{"https://img.example/a.jpg", "https://img.example/b.jpg"}, msgs[3].Images())
}

func TestBuildMessagesTailRenderedWithImage(t *testing.T) {
	history := []model.Turn{
		{Role: model.RoleUser, Content: "first", ImageURL: "https://img.example/a.jpg"},
		{Role: model.RoleAssistant, Content: "ok"},
		{Role: model.RoleUser, Content: "new one", ImageURL: "https://img.example/b.jpg"},
	}
	msgs := BuildMessages("system", history, "new one", history[0].Image(), history[2].Image())
	require.Len(t, msgs, 4)
	require.Equal(t, "new one\n"+OriginalLabel+"\n"+NewPhotoLabel, msgs[3].Text())
}
