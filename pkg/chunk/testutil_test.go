package chunk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeSource creates a file of pages pages where every byte encodes its
// page index and position.
func writeSource(t *testing.T, pages int) (string, []byte) {
	t.Helper()
	data := make([]byte, pages*PageSize)
	for i := range data {
		data[i] = byte(i/PageSize*7 + i%251)
	}
	path := filepath.Join(t.TempDir(), "source.bin")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path, data
}
