package tools

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radareorg/r2meson/internal/model"
)

// recordingRunner captures invocations instead of spawning processes.
type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil
}

// TestMesonCommandLine verifies the argument construction for a fully
// specified generator invocation.
func TestMesonCommandLine(t *testing.T) {
	rec := &recordingRunner{}

	err := Meson(context.Background(), rec, MesonOptions{
		Root:     "/src/radare2",
		BuildDir: "/src/radare2/build",
		Prefix:   "/opt/radare2",
		Backend:  model.BackendVS2017,
		Release:  true,
		Shared:   true,
		Extra:    []string{"-Duse_sys_capstone=false"},
	})
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{
		"meson",
		"/src/radare2", "/src/radare2/build",
		"--prefix=/opt/radare2",
		"--backend=vs2017",
		"--buildtype=release",
		"--default-library=shared",
		"-Duse_sys_capstone=false",
	}, rec.calls[0])
}

// TestMesonDefaults verifies that omitted prefix and backend leave the
// choice to meson, while the link mode is always emitted (static when
// --shared is not given).
func TestMesonDefaults(t *testing.T) {
	rec := &recordingRunner{}

	err := Meson(context.Background(), rec, MesonOptions{
		Root:     "/src/radare2",
		BuildDir: "/src/radare2/build",
	})
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{
		"meson",
		"/src/radare2", "/src/radare2/build",
		"--default-library=static",
	}, rec.calls[0])
}

// TestNinjaCommandLine verifies target handling.
func TestNinjaCommandLine(t *testing.T) {
	rec := &recordingRunner{}

	require.NoError(t, Ninja(context.Background(), rec, "/src/radare2/build"))
	require.NoError(t, Ninja(context.Background(), rec, "/src/radare2/build", "libr", "binr"))

	require.Len(t, rec.calls, 2)
	assert.Equal(t, []string{"ninja", "-C", "/src/radare2/build"}, rec.calls[0])
	assert.Equal(t, []string{"ninja", "-C", "/src/radare2/build", "libr", "binr"}, rec.calls[1])
}

// TestMSBuildCommandLine verifies parameter pass-through.
func TestMSBuildCommandLine(t *testing.T) {
	rec := &recordingRunner{}

	require.NoError(t, MSBuild(context.Background(), rec, `build\radare2.sln`, "/m"))

	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"msbuild", `build\radare2.sln`, "/m"}, rec.calls[0])
}

// TestExecRunnerFailure verifies that a non-zero child exit becomes a
// tool-invocation CLIError. The "false" utility is available on every
// POSIX test host.
func TestExecRunnerFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the POSIX false utility")
	}

	err := NewRunner().Run(context.Background(), "false")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.KindTool, cliErr.Kind)
}
