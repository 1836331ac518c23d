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

package scheduler

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// pendingEvent is an exported snapshot of one queued event, used only for
// diagnostic graphing; task closures themselves aren't graphable.
type pendingEvent struct {
	Deadline Cycles
	Seq      int64
}

// DumpGraph renders the pending event queue as a graph for diagnostics.
// Never called from RunFrame; this is strictly an offline debugging aid.
func (s *Scheduler) DumpGraph(w io.Writer) {
	snapshot := struct {
		GlobalCycles Cycles
		Events       []pendingEvent
	}{
		GlobalCycles: s.global,
	}
	for _, ev := range s.events {
		snapshot.Events = append(snapshot.Events, pendingEvent{Deadline: ev.deadline, Seq: ev.seq})
	}
	memviz.Map(w, &snapshot)
}
