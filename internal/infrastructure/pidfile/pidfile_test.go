package pidfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/pidfile"
)

func TestAcquire_WritesCurrentPID(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "run", "uexcorp.pid")
	pf := pidfile.New(path)

	// Act
	err := pf.Acquire()

	// Assert
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))

	require.NoError(t, pf.Release())
	assert.NoFileExists(t, path)
}

func TestAcquire_ReplacesStaleAndGarbageFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "garbage", content: "not-a-pid\n"},
		// PIDs are capped far below this on Linux
		{name: "dead process", content: "2147483646\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "uexcorp.pid")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			pf := pidfile.New(path)

			require.NoError(t, pf.Acquire())

			pid, err := pf.ReadPID()
			require.NoError(t, err)
			assert.Equal(t, os.Getpid(), pid)
		})
	}
}

func TestAcquire_FailsWhileOwnerIsAlive(t *testing.T) {
	// the parent of the test binary is alive for the duration of the test
	path := filepath.Join(t.TempDir(), "uexcorp.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0644))

	err := pidfile.New(path).Acquire()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestKillExisting_WithoutDaemon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uexcorp.pid")
	require.NoError(t, os.WriteFile(path, []byte("2147483646"), 0644))

	err := pidfile.New(path).KillExisting()

	assert.True(t, errors.Is(err, pidfile.ErrNotRunning))
	assert.NoFileExists(t, path)
}

func TestRelease_MissingFileIsNotAnError(t *testing.T) {
	pf := pidfile.New(filepath.Join(t.TempDir(), "missing.pid"))

	assert.NoError(t, pf.Release())
}
