package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valet-org/valet/internal/test"
)

// newRootCommand mirrors the flag surface of the real root command.
func newRootCommand(sub *cobra.Command) (*cobra.Command, *bytes.Buffer) {
	root := &cobra.Command{Use: "valet"}
	root.PersistentFlags().BoolP("quiet", "q", false, "suppress console output")
	root.AddCommand(sub)

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	return root, buf
}

func TestCmdVersion(t *testing.T) {
	root, buf := newRootCommand(CmdVersion())
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "dev")
}

func TestCmdStatus(t *testing.T) {
	test.Setup(t)

	root, buf := newRootCommand(CmdStatus())
	root.SetArgs([]string{"status", "--quiet"})

	require.NoError(t, root.Execute())

	out := buf.String()
	assert.Contains(t, out, "Ollama:")
	assert.Contains(t, out, "Models:   0")
	assert.Contains(t, out, "Active:   None")
	assert.Contains(t, out, "Memories: 0")
}

func TestCmdModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"models":[{"name":"llama3"},{"name":"mistral"}]}`)
	}))
	defer srv.Close()

	test.Setup(t)
	t.Setenv("VALET_OLLAMA_BASE_URL", srv.URL)

	root, buf := newRootCommand(CmdModels())
	root.SetArgs([]string{"models", "--quiet"})

	require.NoError(t, root.Execute())

	out := buf.String()
	assert.Contains(t, out, "llama3")
	assert.Contains(t, out, "mistral")
	assert.Contains(t, out, "MODEL")
}

func TestContext_Gateway(t *testing.T) {
	test.Setup(t)

	root, _ := newRootCommand(NewCommand(
		&cobra.Command{Use: "probe"}, nil,
		func(ctx *Context, _ []string) error {
			gw, err := ctx.Gateway()
			require.NoError(t, err)
			assert.Zero(t, gw.MemoryCount())
			assert.False(t, gw.Ready())
			return nil
		},
	))
	root.SetArgs([]string{"probe", "--quiet"})
	require.NoError(t, root.Execute())
}
