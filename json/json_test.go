package json_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/parley"
	parleyjson "github.com/fwojciec/parley/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogue_SaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "catalogue.json")
	want := parley.DefaultCatalogue()

	require.NoError(t, parleyjson.Save(path, want))
	got, err := parleyjson.Load(path)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestUnmarshalCatalogue(t *testing.T) {
	t.Parallel()

	t.Run("decodes envelope", func(t *testing.T) {
		t.Parallel()
		data := []byte(`{
			"version": 1,
			"reply_delay_ms": [10, 20],
			"reply_target": "active",
			"response_pool": ["ok"],
			"conversations": [
				{"display_name": "Ann", "subtitle": "friend", "history": [
					{"from": "me", "body": "hey"},
					{"from": "them", "body": "hi"}
				]}
			]
		}`)
		c, err := parleyjson.UnmarshalCatalogue(data)
		require.NoError(t, err)

		assert.Equal(t, parley.DelayRange{Min: 10 * time.Millisecond, Max: 20 * time.Millisecond}, c.ReplyDelay)
		assert.Equal(t, parley.TargetActive, c.ReplyTarget)
		assert.Equal(t, []string{"ok"}, c.ResponsePool)
		require.Len(t, c.Conversations, 1)
		assert.Equal(t, "Ann", c.Conversations[0].DisplayName)
		assert.Equal(t, []parley.SeedMessage{
			{Direction: parley.Outgoing, Body: "hey"},
			{Direction: parley.Incoming, Body: "hi"},
		}, c.Conversations[0].History)
		assert.Empty(t, c.LocalUser)
	})

	t.Run("rejects unknown version", func(t *testing.T) {
		t.Parallel()
		_, err := parleyjson.UnmarshalCatalogue([]byte(`{"version": 2}`))
		assert.ErrorContains(t, err, "unsupported envelope version")
	})

	t.Run("rejects malformed delay", func(t *testing.T) {
		t.Parallel()
		_, err := parleyjson.UnmarshalCatalogue([]byte(`{"version": 1, "reply_delay_ms": [1]}`))
		assert.ErrorIs(t, err, parley.ErrValidation)
	})

	t.Run("rejects unknown sender", func(t *testing.T) {
		t.Parallel()
		_, err := parleyjson.UnmarshalCatalogue([]byte(`{"version": 1, "conversations": [
			{"display_name": "A", "history": [{"from": "ghost", "body": "boo"}]}
		]}`))
		assert.ErrorIs(t, err, parley.ErrValidation)
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		t.Parallel()
		_, err := parleyjson.UnmarshalCatalogue([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := parleyjson.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
