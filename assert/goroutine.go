package assert

import (
	"bytes"
	"runtime"
	"strconv"
)

// GetGoRoutineID returns an identify for a goroutine. it returns a result that
// is (a) different between goroutines and (b) consistent for a given
// goroutine. It is undoubtedly useful for but it should only ever be used for
// debugging or testing purposes.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// Owner records the goroutine a single-threaded value was created on, so
// that later access from a different goroutine can be caught instead of
// silently corrupting state. The core's frame/audio queue is read by a
// host goroutine while RunFrame's goroutine is still writing to it, which
// is the one boundary in this codebase where that distinction matters.
type Owner struct {
	id uint64
}

// NewOwner records the calling goroutine as the owner.
func NewOwner() Owner {
	return Owner{id: GetGoRoutineID()}
}

// Owns reports whether the calling goroutine is the recorded owner.
func (o Owner) Owns() bool {
	return o.id == GetGoRoutineID()
}
