package command

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerSuccessCapturesOutput(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	res, err := ExecRunner{}.Run(t.Context(), Cmd{Dir: dir, Name: "sh", Args: []string{"-c", "pwd; echo oops >&2"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Output, "oops")
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	requireShell(t)

	res, err := ExecRunner{}.Run(t.Context(), Cmd{Name: "sh", Args: []string{"-c", "echo failing; exit 3"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonZeroExit)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output, "failing")
}

func TestExecRunnerMissingBinary(t *testing.T) {
	res, err := ExecRunner{}.Run(t.Context(), Cmd{Name: "cryptogen-no-such-binary"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNonZeroExit)
	assert.Equal(t, -1, res.ExitCode)
}

func TestCmdString(t *testing.T) {
	assert.Equal(t, "git", Cmd{Name: "git"}.String())
	assert.Equal(t, "git checkout develop", Cmd{Name: "git", Args: []string{"checkout", "develop"}}.String())
}
