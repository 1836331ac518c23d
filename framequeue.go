// This file is part of islacore.
//
// islacore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// islacore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with islacore.  If not, see <https://www.gnu.org/licenses/>.

package islacore

import (
	"sync"

	"github.com/islacore/islacore/errors"
	"github.com/islacore/islacore/logger"
)

// frameQueueDepth is the "bounded two-deep" framebuffer queue named by
// this module's concurrency model: one frame the host hasn't collected
// yet, plus one more in flight while RunFrame finishes the next.
const frameQueueDepth = 2

// framequeue is a mutex-guarded, bounded, single-producer/single-consumer
// FIFO of decoded frames. RunFrame is the only producer; a host goroutine
// calling GetFrame is the only consumer.
type framequeue struct {
	mu    sync.Mutex
	log   *logger.Logger
	items []Pixels
}

func newFramequeue(log *logger.Logger) *framequeue {
	return &framequeue{log: log}
}

// push enqueues a frame, dropping it instead of blocking if the queue is
// already at capacity.
func (q *framequeue) push(p Pixels) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= frameQueueDepth {
		q.log.Logf(logger.Info, "core", errors.FrameQueueFull)
		return
	}
	q.items = append(q.items, p)
}

// pop removes and returns the oldest queued frame, if any.
func (q *framequeue) pop() (Pixels, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Pixels{}, false
	}
	p := q.items[0]
	q.items = q.items[1:]
	return p, true
}
