package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hookchat/internal/conversation"
)

func TestKeyIgnoresTimestamps(t *testing.T) {
	a := []conversation.Message{
		{Role: conversation.RoleUser, Content: "hello", Timestamp: time.Unix(100, 0)},
		{Role: conversation.RoleAssistant, Content: "hi", Timestamp: time.Unix(200, 0)},
	}
	b := []conversation.Message{
		{Role: conversation.RoleUser, Content: "hello", Timestamp: time.Unix(9999, 0)},
		{Role: conversation.RoleAssistant, Content: "hi"},
	}

	require.Equal(t, Key(a), Key(b))
}

func TestKeyDistinguishesTranscripts(t *testing.T) {
	base := []conversation.Message{
		{Role: conversation.RoleUser, Content: "hello"},
		{Role: conversation.RoleAssistant, Content: "hi"},
	}

	t.Run("different content", func(t *testing.T) {
		other := []conversation.Message{
			{Role: conversation.RoleUser, Content: "hello"},
			{Role: conversation.RoleAssistant, Content: "hey"},
		}
		require.NotEqual(t, Key(base), Key(other))
	})

	t.Run("different role", func(t *testing.T) {
		other := []conversation.Message{
			{Role: conversation.RoleUser, Content: "hello"},
			{Role: conversation.RoleUser, Content: "hi"},
		}
		require.NotEqual(t, Key(base), Key(other))
	})

	t.Run("different order", func(t *testing.T) {
		other := []conversation.Message{
			{Role: conversation.RoleAssistant, Content: "hi"},
			{Role: conversation.RoleUser, Content: "hello"},
		}
		require.NotEqual(t, Key(base), Key(other))
	})
}

func TestKeyIsHexDigest(t *testing.T) {
	key := Key(nil)
	require.Len(t, key, 64)
	require.Equal(t, key, Key([]conversation.Message{}))
}
