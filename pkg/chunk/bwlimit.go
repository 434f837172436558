// pkg/chunk/bwlimit.go

package chunk

import (
	"io"

	"github.com/juju/ratelimit"
)

type limitedReader struct {
	io.Reader
	r *ratelimit.Bucket
}

func (l *limitedReader) Read(buf []byte) (int, error) {
	n, err := l.Reader.Read(buf)
	if l.r != nil {
		l.r.Wait(int64(n))
	}
	return n, err
}

// NewLimit returns a token bucket allowing rate bytes per second, or nil when
// rate is not positive.
func NewLimit(rate int64) *ratelimit.Bucket {
	if rate <= 0 {
		return nil
	}
	return ratelimit.NewBucketWithRate(float64(rate), rate)
}

func limited(r io.Reader, bucket *ratelimit.Bucket) io.Reader {
	if bucket == nil {
		return r
	}
	return &limitedReader{r, bucket}
}
