package global

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, path string) string {
	t.Helper()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(contents)
}

func TestRollingWriterAppends(t *testing.T) {
	w, err := NewRollingFileWriter(t.TempDir(), "test")
	require.NoError(t, err)

	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	assert.Equal(t, "first\nsecond\n", readLog(t, w.MainLogPath()))
}

func TestRollingWriterRotates(t *testing.T) {
	dir := t.TempDir()
	w, err := NewRollingFileWriter(dir, "test")
	require.NoError(t, err)
	w.MaxSize = 10
	w.MaxLogs = 3

	for _, line := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		_, err := w.Write([]byte(line))
		require.NoError(t, err)
	}

	assert.Equal(t, "dddddddd\n", readLog(t, w.MainLogPath()))
	assert.Equal(t, "cccccccc\n", readLog(t, filepath.Join(dir, "test-1.log")))
	assert.Equal(t, "bbbbbbbb\n", readLog(t, filepath.Join(dir, "test-2.log")))

	// the oldest file fell off the end
	_, err = os.Stat(filepath.Join(dir, "test-3.log"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRollingWriterRemovesMangledLogs(t *testing.T) {
	dir := t.TempDir()
	w, err := NewRollingFileWriter(dir, "test")
	require.NoError(t, err)
	w.MaxSize = 4

	mangled := filepath.Join(dir, "test-old.log")
	require.NoError(t, os.WriteFile(mangled, []byte("junk"), 0644))

	_, err = w.Write([]byte("1234"))
	require.NoError(t, err)
	_, err = w.Write([]byte("5678"))
	require.NoError(t, err)

	_, err = os.Stat(mangled)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "1234", readLog(t, filepath.Join(dir, "test-1.log")))
}

func TestLogIndex(t *testing.T) {
	index, err := logIndex("pokeduel", "/tmp/logs/pokeduel-12.log")
	require.NoError(t, err)
	assert.Equal(t, int64(12), index)

	_, err = logIndex("pokeduel", "/tmp/logs/pokeduel-x.log")
	assert.Error(t, err)

	_, err = logIndex("pokeduel", "/tmp/logs/other-1.log")
	assert.Error(t, err)
}

func TestGlobalInitWritesToFile(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Dir = t.TempDir()
	cfg.Logging.Level = "debug"

	require.NoError(t, GlobalInit(cfg, false))
	t.Cleanup(StopLogging)

	assert.Equal(t, "Red", Opt.Player.Name)

	log.Debug().Msg("debug line")
	log.Trace().Msg("trace line")

	contents := readLog(t, filepath.Join(cfg.Logging.Dir, LOG_FILE_NAME+".log"))
	assert.Contains(t, contents, "logging initialized")
	assert.Contains(t, contents, "debug line")
	assert.NotContains(t, contents, "trace line")
	// the file writer never colors its output
	assert.False(t, strings.Contains(contents, "\x1b["))

	StopLogging()
	log.Info().Msg("while stopped")
	ContinueLogging()
	log.Info().Msg("after continue")

	contents = readLog(t, filepath.Join(cfg.Logging.Dir, LOG_FILE_NAME+".log"))
	assert.NotContains(t, contents, "while stopped")
	assert.Contains(t, contents, "after continue")
}

func TestGlobalInitRejectsBadLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Dir = t.TempDir()
	cfg.Logging.Level = "loud"

	assert.Error(t, GlobalInit(cfg, false))
}
