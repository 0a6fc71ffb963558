package core

import (
	"fmt"
	"sync/atomic"
	"time"
)

var resultCounter atomic.Uint64

// NewResultID returns a process-unique result identifier of the form
// search_<category>_<unixMillis>_<counter>.
func NewResultID(category Category, now time.Time) string {
	n := resultCounter.Add(1) - 1
	return fmt.Sprintf("search_%s_%d_%d", category, now.UnixMilli(), n)
}
