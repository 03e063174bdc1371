package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveState(t *testing.T) {
	user := Turn{Role: RoleUser, Content: "hi"}
	photo := Turn{Role: RoleUser, Content: "look", ImageURL: "https://img.example/a.jpg"}
	reply := Turn{Role: RoleAssistant, Content: "nice"}

	tests := []struct {
		name    string
		session *Session
		turns   []Turn
		want    SessionState
	}{
		{name: "empty", session: &Session{}, want: StateNoImage},
		{name: "text only", session: &Session{}, turns: []Turn{user}, want: StateNoImage},
		{name: "image uploaded", session: &Session{}, turns: []Turn{photo}, want: StateImageUploaded},
		{name: "occasion selected", session: &Session{Occasion: "work"}, turns: []Turn{photo}, want: StateOccasionSelected},
		{name: "analyzed", session: &Session{}, turns: []Turn{photo, reply}, want: StateAnalyzed},
		{name: "chat without image", session: &Session{}, turns: []Turn{user, reply}, want: StateChatting},
		{name: "chatting", session: &Session{}, turns: []Turn{photo, reply, user, reply}, want: StateChatting},
		{name: "nil session", turns: []Turn{photo}, want: StateImageUploaded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DeriveState(tt.session, tt.turns))
		})
	}
}

func TestOriginalImage(t *testing.T) {
	require.Nil(t, OriginalImage(nil))

	turns := []Turn{
		{Role: RoleAssistant, ImageURL: "https://img.example/ignored.jpg"},
		{Role: RoleUser, Content: "hello"},
		{Role: RoleUser, ImageURL: "https://img.example/first.jpg"},
		{Role: RoleUser, ImageURL: "https://img.example/second.jpg"},
	}
	img := OriginalImage(turns)
	require.NotNil(t, img)
	require.Equal(t, "https://img.example/first.jpg", img.URL)
}

func TestImageRef(t *testing.T) {
	require.Nil(t, NewImageRef("   "))

	encoded := EncodeDataURL("image/png", []byte{0x89, 'P', 'N', 'G'})
	require.Equal(t, "data:image/png;base64,iVBORw==", encoded)

	mediaType, data, ok := NewImageRef(encoded).DataURL()
	require.True(t, ok)
	require.Equal(t, "image/png", mediaType)
	require.Equal(t, "iVBORw==", data)

	tests := []struct {
		url   string
		valid bool
	}{
		{"https://img.example/a.jpg", true},
		{"http://img.example/a.jpg", true},
		{encoded, true},
		{"data:image/png;base64,", false},
		{"data:text/plain;base64,AAAA", false},
		{"data:image/png,raw", false},
		{"ftp://img.example/a.jpg", false},
		{"a.jpg", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.valid, NewImageRef(tt.url).Valid(), tt.url)
	}

	_, _, ok = NewImageRef("https://img.example/a.jpg").DataURL()
	require.False(t, ok)
}

func TestHeightCategory(t *testing.T) {
	require.Equal(t, "petite", BodyMeasurements{HeightCM: 155}.HeightCategory())
	require.Equal(t, "regular", BodyMeasurements{HeightCM: 165}.HeightCategory())
	require.Equal(t, "tall", BodyMeasurements{HeightCM: 178}.HeightCategory())
}
