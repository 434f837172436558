package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	v := Version()
	assert.True(t, strings.HasPrefix(v, "0.1-dev ("), v)
	assert.True(t, strings.HasSuffix(v, ")"), v)
}
