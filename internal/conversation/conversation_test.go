package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	conv := New()
	require.NotEmpty(t, conv.ID)
	require.False(t, conv.StartTime.IsZero())
	require.Equal(t, 0, conv.Len())
	require.Empty(t, conv.Snapshot())

	other := New()
	require.NotEqual(t, conv.ID, other.ID)
}

func TestAppendPreservesOrder(t *testing.T) {
	conv := New()
	conv.Append(Message{Role: RoleUser, Content: "first", Timestamp: time.Now()})
	conv.Append(Message{Role: RoleAssistant, Content: "second", Timestamp: time.Now()})
	conv.Append(Message{Role: RoleUser, Content: "third", Timestamp: time.Now()})

	msgs := conv.Snapshot()
	require.Len(t, msgs, 3)
	require.Equal(t, "first", msgs[0].Content)
	require.Equal(t, "second", msgs[1].Content)
	require.Equal(t, "third", msgs[2].Content)
	require.Equal(t, RoleUser, msgs[0].Role)
	require.Equal(t, RoleAssistant, msgs[1].Role)
	require.Equal(t, 3, conv.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	conv := New()
	conv.Append(Message{Role: RoleUser, Content: "original"})

	snap := conv.Snapshot()
	snap[0].Content = "mutated"

	require.Equal(t, "original", conv.Snapshot()[0].Content)
}

func TestSnapshotIsStableAcrossLaterAppends(t *testing.T) {
	conv := New()
	conv.Append(Message{Role: RoleUser, Content: "one"})

	before := conv.Snapshot()
	conv.Append(Message{Role: RoleAssistant, Content: "two"})

	require.Len(t, before, 1)
	require.Len(t, conv.Snapshot(), 2)
}
