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

// audioQueueDepth bounds the sample backlog a slow consumer can force the
// producer to hold before samples start getting dropped.
const audioQueueDepth = 4096

// audioqueue is the single-producer/single-consumer sample queue backing
// a future audio-pull hook: no DSP audio synthesis is implemented by this
// module, so nothing currently calls push, and no test in this module
// exercises the queue.
type audioqueue struct {
	mu      sync.Mutex
	log     *logger.Logger
	samples []int16
	last    int16
}

func newAudioqueue(log *logger.Logger) *audioqueue {
	return &audioqueue{log: log}
}

// push appends samples, dropping the entire batch rather than blocking if
// it would exceed capacity.
func (q *audioqueue) push(samples []int16) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.samples)+len(samples) > audioQueueDepth {
		q.log.Logf(logger.Info, "core", errors.AudioQueueFull)
		return
	}
	q.samples = append(q.samples, samples...)
}

// pull removes up to n queued samples. If fewer than n are queued, the
// shortfall is filled by repeating the last sample value a consumer
// actually received, rather than returning silence.
func (q *audioqueue) pull(n int) []int16 {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]int16, n)
	have := len(q.samples)
	if have > n {
		have = n
	}
	copy(out, q.samples[:have])
	q.samples = q.samples[have:]

	if have > 0 {
		q.last = out[have-1]
	}
	for i := have; i < n; i++ {
		out[i] = q.last
	}
	return out
}
