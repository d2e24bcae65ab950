package main

import (
	"bytes"
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/parley"
	parleyjson "github.com/fwojciec/parley/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogueTemplate = `local_user: Me
reply_sender: Bot
reply_delay: {min: %s, max: %s}
response_pool: ["pong"]
conversations:
  - display_name: Alpha
    subtitle: first
    history:
      - {from: me, body: seeded hello}
      - {from: them, body: seeded reply}
  - display_name: Beta
`

// writeCatalogue writes a two-conversation catalogue whose replies arrive
// within a few milliseconds.
func writeCatalogue(t *testing.T) string {
	t.Helper()
	return writeCatalogueWithDelay(t, "1ms", "5ms")
}

func writeCatalogueWithDelay(t *testing.T, minDelay, maxDelay string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogue.yaml")
	data := fmt.Sprintf(catalogueTemplate, minDelay, maxDelay)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "parley dev\n", out)
}

func TestScriptCommand(t *testing.T) {
	t.Run("every send gets exactly one reply in its origin", func(t *testing.T) {
		path := writeCatalogue(t)
		script := "hello\n/switch 2\nhi there\n/wait\n"

		out, err := execute(t, script, "script", "--catalogue", path, "--seed", "3", "--log-level", "error")
		require.NoError(t, err)

		assert.Contains(t, out, "-> Alpha (#1): hello")
		assert.Contains(t, out, "-> Beta (#2): hi there")
		assert.Equal(t, 2, strings.Count(out, "<- "))
		assert.Contains(t, out, "<- Alpha (#1): pong")
		assert.Contains(t, out, "<- Beta (#2): pong")

		alpha, beta, ok := strings.Cut(out[strings.Index(out, "== Alpha"):], "== Beta")
		require.True(t, ok)
		assert.Contains(t, alpha, "Me: seeded hello")
		assert.Contains(t, alpha, "Alpha: seeded reply")
		assert.Contains(t, alpha, "Me: hello")
		assert.Equal(t, 1, strings.Count(alpha, "Bot: pong"))
		assert.Equal(t, 1, strings.Count(beta, "Bot: pong"))
	})

	t.Run("intent errors are reported and the script continues", func(t *testing.T) {
		path := writeCatalogue(t)
		script := "# comment\n/switch 9\n/remove 1\n/remove 2\n/new Gamma | third\nyo\n"

		out, err := execute(t, script, "script", "--catalogue", path, "--log-level", "error")
		require.NoError(t, err)

		assert.Contains(t, out, "!! line 2:")
		assert.Contains(t, out, "conversation not found")
		assert.Contains(t, out, "!! line 4:")
		assert.Contains(t, out, "-> Gamma (#3): yo")
		assert.Contains(t, out, "<- Gamma (#3): pong")
		assert.NotContains(t, out, "== Alpha")
	})

	t.Run("reads the script from a file", func(t *testing.T) {
		path := writeCatalogue(t)
		scriptPath := filepath.Join(t.TempDir(), "demo.txt")
		require.NoError(t, os.WriteFile(scriptPath, []byte("ping\n"), 0o600))

		out, err := execute(t, "", "script", scriptPath, "--catalogue", path, "--log-level", "error")
		require.NoError(t, err)
		assert.Contains(t, out, "<- Alpha (#1): pong")
	})

	t.Run("active reply target follows the switch", func(t *testing.T) {
		path := writeCatalogueWithDelay(t, "200ms", "300ms")
		out, err := execute(t, "hello\n/switch 2\n", "script", "--catalogue", path, "--reply-target", "active", "--log-level", "error")
		require.NoError(t, err)
		assert.Contains(t, out, "<- Beta (#2): pong")
	})

	t.Run("rejects an unknown reply target", func(t *testing.T) {
		_, err := execute(t, "", "script", "--reply-target", "sideways")
		assert.ErrorIs(t, err, parley.ErrValidation)
	})

	t.Run("rejects an unknown log level", func(t *testing.T) {
		_, err := execute(t, "", "script", "--log-level", "loud")
		assert.ErrorIs(t, err, parley.ErrValidation)
	})

	t.Run("sends echo the stored body", func(t *testing.T) {
		path := writeCatalogue(t)
		out, err := execute(t, "\x1b[31mred\x1b[0m  \n", "script", "--catalogue", path, "--log-level", "error")
		require.NoError(t, err)
		assert.Contains(t, out, "-> Alpha (#1): red\n")
		assert.NotContains(t, out, "\x1b")
	})

	t.Run("starred messages are marked and listed", func(t *testing.T) {
		path := writeCatalogue(t)
		script := "/fav 2\n/switch 2\n/jump 1\n/fav 9\nback in alpha\n"

		out, err := execute(t, script, "script", "--catalogue", path, "--log-level", "error")
		require.NoError(t, err)

		assert.Contains(t, out, "!! line 4:")
		assert.Contains(t, out, "-> Alpha (#1): back in alpha")
		assert.Contains(t, out, "★ [")
		assert.Equal(t, 1, strings.Count(out, "★ "))
		_, favs, ok := strings.Cut(out, "== Favorites ==\n")
		require.True(t, ok)
		assert.Contains(t, favs, "1. Alpha (#1)")
		assert.Contains(t, favs, "Alpha: seeded reply")
	})

	t.Run("missing catalogue files are not found", func(t *testing.T) {
		_, err := execute(t, "", "script", "--catalogue", filepath.Join(t.TempDir(), "*.yaml"))
		require.ErrorIs(t, err, iofs.ErrNotExist)
		assert.NotContains(t, err.Error(), "conversation")
	})
}

func TestLoadCatalogue(t *testing.T) {
	t.Run("defaults to the built-in catalogue", func(t *testing.T) {
		cat, err := loadCatalogue(config{})
		require.NoError(t, err)
		assert.Equal(t, parley.DefaultCatalogue(), cat)
	})

	t.Run("files replace conversations and pool", func(t *testing.T) {
		cat, err := loadCatalogue(config{Catalogue: writeCatalogue(t)})
		require.NoError(t, err)
		assert.Len(t, cat.Conversations, 2)
		assert.Equal(t, []string{"pong"}, cat.ResponsePool)
		assert.Equal(t, "Me", cat.LocalUser)
		assert.Equal(t, parley.TargetOrigin, cat.ReplyTarget)
	})
}

func TestCatalogueExportCommand(t *testing.T) {
	t.Run("stdout round-trips through the JSON reader", func(t *testing.T) {
		out, err := execute(t, "", "catalogue", "export", "--catalogue", writeCatalogue(t), "--reply-target", "active")
		require.NoError(t, err)

		got, err := parleyjson.UnmarshalCatalogue([]byte(out))
		require.NoError(t, err)
		want, err := loadCatalogue(config{Catalogue: writeCatalogue(t), ReplyTarget: "active"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("file output loads back as a catalogue", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "export.json")
		out, err := execute(t, "", "catalogue", "export", path)
		require.NoError(t, err)
		assert.Empty(t, out)

		got, err := parleyjson.Load(path)
		require.NoError(t, err)
		assert.Equal(t, parley.DefaultCatalogue(), got)

		cat, err := loadCatalogue(config{Catalogue: path})
		require.NoError(t, err)
		assert.Len(t, cat.Conversations, len(parley.DefaultCatalogue().Conversations))
	})

	t.Run("catalogue errors are returned", func(t *testing.T) {
		_, err := execute(t, "", "catalogue", "export", "--reply-target", "sideways")
		assert.ErrorIs(t, err, parley.ErrValidation)
	})
}

func TestEnvironmentOverridesFlagDefaults(t *testing.T) {
	t.Setenv("PARLEY_REPLY_TARGET", "nowhere")
	_, err := execute(t, "", "script")
	assert.ErrorIs(t, err, parley.ErrValidation)
}
