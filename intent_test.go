package parley_test

import (
	"testing"

	"github.com/fwojciec/parley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want parley.Intent
	}{
		{"plain text is sent", "hello", parley.Intent{Kind: parley.IntentSend, Text: "hello"}},
		{"switch", "/switch 3", parley.Intent{Kind: parley.IntentSwitch, ID: 3}},
		{"remove", " /remove 2 ", parley.Intent{Kind: parley.IntentRemove, ID: 2}},
		{"new with subtitle", "/new Trip | Alice, Bob", parley.Intent{Kind: parley.IntentCreate, Name: "Trip", Subtitle: "Alice, Bob"}},
		{"new without subtitle", "/new Trip", parley.Intent{Kind: parley.IntentCreate, Name: "Trip"}},
		{"wait", "/wait", parley.Intent{Kind: parley.IntentWait}},
		{"fav", "/fav 2", parley.Intent{Kind: parley.IntentFavorite, Index: 2}},
		{"jump", "/jump 1", parley.Intent{Kind: parley.IntentJump, Index: 1}},
		{"unknown command is sent as text", "/shrug", parley.Intent{Kind: parley.IntentSend, Text: "/shrug"}},
		{"double slash escapes", "//switch 1", parley.Intent{Kind: parley.IntentSend, Text: "/switch 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parley.ParseIntent(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed commands are rejected", func(t *testing.T) {
		t.Parallel()
		for _, line := range []string{"/switch", "/switch abc", "/remove 0", "/remove -1", "/new", "/new  | sub", "/fav", "/fav 0", "/jump x"} {
			_, err := parley.ParseIntent(line)
			assert.ErrorIs(t, err, parley.ErrValidation, line)
		}
	})
}

func TestIntentKind_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "send", parley.IntentSend.String())
	assert.Equal(t, "new", parley.IntentCreate.String())
	assert.Equal(t, "fav", parley.IntentFavorite.String())
	assert.Equal(t, "unknown", parley.IntentKind(42).String())
}

func TestSession_Apply(t *testing.T) {
	t.Parallel()

	t.Run("dispatches each kind", func(t *testing.T) {
		t.Parallel()
		s, store, scheduled := newSession(t)

		_, err := s.Apply(parley.Intent{Kind: parley.IntentSwitch, ID: 2})
		require.NoError(t, err)
		assert.Equal(t, parley.ConversationID(2), s.CurrentConversationID())

		before := historyLen(t, store, 2)
		msg, err := s.Apply(parley.Intent{Kind: parley.IntentSend, Text: "hi"})
		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, "hi", msg.Body)
		assert.Equal(t, before+1, historyLen(t, store, 2))
		assert.Equal(t, []parley.ConversationID{2}, *scheduled)

		_, err = s.Apply(parley.Intent{Kind: parley.IntentFavorite, Index: 1})
		require.NoError(t, err)
		require.Len(t, s.Favorites(), 1)

		_, err = s.Apply(parley.Intent{Kind: parley.IntentCreate, Name: "Trip"})
		require.NoError(t, err)
		assert.Equal(t, parley.ConversationID(5), s.CurrentConversationID())

		_, err = s.Apply(parley.Intent{Kind: parley.IntentJump, Index: 1})
		require.NoError(t, err)
		assert.Equal(t, parley.ConversationID(2), s.CurrentConversationID())

		_, err = s.Apply(parley.Intent{Kind: parley.IntentRemove, ID: 5})
		require.NoError(t, err)
		assert.Equal(t, parley.ConversationID(2), s.CurrentConversationID())

		msg, err = s.Apply(parley.Intent{Kind: parley.IntentWait})
		require.NoError(t, err)
		assert.Nil(t, msg)
	})

	t.Run("send returns the stored body", func(t *testing.T) {
		t.Parallel()
		s, _, _ := newSession(t)

		msg, err := s.Apply(parley.Intent{Kind: parley.IntentSend, Text: "  \x1b[31mred\x1b[0m  "})
		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, "red", msg.Body)
	})

	t.Run("errors propagate", func(t *testing.T) {
		t.Parallel()
		s, _, _ := newSession(t)
		_, err := s.Apply(parley.Intent{Kind: parley.IntentSwitch, ID: 99})
		assert.ErrorIs(t, err, parley.ErrNotFound)
		_, err = s.Apply(parley.Intent{Kind: parley.IntentFavorite, Index: 99})
		assert.ErrorIs(t, err, parley.ErrValidation)
		_, err = s.Apply(parley.Intent{Kind: parley.IntentJump, Index: 1})
		assert.ErrorIs(t, err, parley.ErrValidation)
		_, err = s.Apply(parley.Intent{Kind: parley.IntentKind(42)})
		assert.ErrorIs(t, err, parley.ErrValidation)
	})
}
