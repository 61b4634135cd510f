package duckai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	body := `{
		"answer": {"text":"hi","fbmd":"**hi**","mdv2":"*hi*"},
		"chatbot_uuid": "c1",
		"client_id": "u1"
	}`

	reply, err := ParseReply([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "hi", reply.Text)
	assert.Equal(t, "**hi**", reply.TextMarkdown)
	assert.Equal(t, "*hi*", reply.TextMarkdownV2)
	assert.Equal(t, "c1", reply.ChatbotID)
	assert.Equal(t, "u1", reply.ClientID)
	assert.Nil(t, reply.Metadata)
}

func TestParseReplyMetadata(t *testing.T) {
	body := `{
		"answer": {"text":"hi","fbmd":"**hi**","mdv2":"*hi*"},
		"chatbot_uuid": "c1",
		"client_id": "u1",
		"metadata": {"ticket":"42"}
	}`

	reply, err := ParseReply([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ticket": "42"}, reply.Metadata)
}

func TestParseReplyMissingFields(t *testing.T) {
	cases := []string{
		`{}`,
		`{"answer":{"text":"hi","fbmd":"**hi**","mdv2":"*hi*"},"chatbot_uuid":"c1"}`,
		`{"answer":{"text":"hi","fbmd":"**hi**","mdv2":"*hi*"},"client_id":"u1"}`,
		`{"answer":{"text":"hi","fbmd":"**hi**"},"chatbot_uuid":"c1","client_id":"u1"}`,
		`{"chatbot_uuid":"c1","client_id":"u1"}`,
	}

	for _, body := range cases {
		_, err := ParseReply([]byte(body))
		if !errors.Is(err, ErrBadResponse) {
			t.Errorf("ParseReply(%s): expected ErrBadResponse, got %v", body, err)
		}
	}
}

func TestParseReplyInvalidJSON(t *testing.T) {
	_, err := ParseReply([]byte("not json"))
	if !errors.Is(err, ErrBadResponse) {
		t.Errorf("expected ErrBadResponse, got %v", err)
	}
}

func TestParseReplyEmptyRequiredFieldsAccepted(t *testing.T) {
	// Present-but-empty is a valid server answer; only absence is an error.
	body := `{
		"answer": {"text":"","fbmd":"","mdv2":""},
		"chatbot_uuid": "c1",
		"client_id": "u1"
	}`

	reply, err := ParseReply([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, reply.Text)
}
