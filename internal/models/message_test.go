package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonchat/backend/internal/models"
)

func TestNewChatMessageDefaultsAuthor(t *testing.T) {
	msg := models.NewChatMessage("room-a", "", "hello", "")
	assert.Equal(t, models.DefaultAuthor, msg.Author)
	assert.Equal(t, models.KindChat, msg.Kind)
	assert.NotEmpty(t, msg.ID)
	assert.NotZero(t, msg.Ts)
}

func TestNewSystemMessage(t *testing.T) {
	msg := models.NewSystemMessage("room-a", "alice", "alice joined the chat")
	assert.Equal(t, models.KindSystem, msg.Kind)
	assert.Equal(t, "alice", msg.Author)
	assert.Empty(t, msg.Media)
}

func TestMessageWireFormat(t *testing.T) {
	msg := models.NewChatMessage("room-a", "alice", "hello", "")
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "room-a", wire["room"])
	assert.Equal(t, "message", wire["type"])
	assert.NotContains(t, wire, "media", "empty media stays off the wire")
}

func TestTopicRegistry(t *testing.T) {
	assert.Len(t, models.Topics, 10)
	assert.Equal(t, "Anxiety", models.Topics[0])
	assert.NotContains(t, models.Topics, models.TopicAny)
}
