package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--env-file", ""))
	t.Cleanup(func() {
		flagPlain, flagBold = false, false
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	t.Run("Should normalize stdin in plain style", func(t *testing.T) {
		out, err := execute(t, "<p>Plan:</p><p>Rest.</p>", "normalize", "--plain")
		require.NoError(t, err)
		assert.Equal(t, `<p style="margin: 2px 0;">Plan:</p>`+"\n"+`<p style="margin: 2px 0;">Rest.</p>`+"\n", out)
	})

	t.Run("Should read a file argument", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "entry.html")
		require.NoError(t, os.WriteFile(path, []byte("<p>NOTES</p>"), 0644))

		out, err := execute(t, "", "normalize", "--bold", path)
		require.NoError(t, err)
		assert.Equal(t, `<p style="margin: 2px 0;"><strong>NOTES</strong></p>`+"\n", out)
	})

	t.Run("Should reject conflicting style flags", func(t *testing.T) {
		_, err := execute(t, "", "normalize", "--plain", "--bold")
		assert.Error(t, err)
	})
}
