package splitter

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"PageSplit/pkg/chunk"
	"PageSplit/pkg/config"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir string, size int) (string, []byte) {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i/chunk.PageSize*13 + i%241)
	}
	path := filepath.Join(dir, "source.bin")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path, data
}

func testConfig(input, out string, workers int) config.Config {
	cfg := config.Default()
	cfg.Input = input
	cfg.OutputDir = out
	cfg.Workers = workers
	cfg.MemoryBudget = 1 << 30
	cfg.DirectIO = false
	cfg.Interval = 10 * time.Millisecond
	return cfg
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}

// chunkFiles returns the chunk files of worker in dir, ordered by sequence.
func chunkFiles(t *testing.T, dir string, worker int) []string {
	t.Helper()
	prefix := chunk.Name(worker, 0)
	prefix = prefix[:len(prefix)-1]
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	type file struct {
		seq  int
		name string
	}
	var files []file
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(e.Name(), prefix))
		require.NoError(t, err, e.Name())
		files = append(files, file{seq, e.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].seq < files[j].seq })

	names := make([]string, len(files))
	for i, f := range files {
		require.Equal(t, i, f.seq, "chunk sequence of worker %d has a gap", worker)
		names[i] = f.name
	}
	return names
}

func concatChunks(t *testing.T, dir string, worker int) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, name := range chunkFiles(t, dir, worker) {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		buf.Write(b)
	}
	return buf.Bytes()
}

func hasEntry(hook *test.Hook, level logrus.Level, substr string) bool {
	for _, e := range hook.AllEntries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
