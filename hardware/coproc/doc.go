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

// Package coproc implements the system-control coprocessor each CPU
// talks to through MRC/MCR: the A11 cores' MMU (translation-table walks,
// a per-core page-granularity translation cache invalidated by tag
// rather than by clearing) and the A9's two fixed tightly-coupled memory
// windows (ITCM/DTCM), which are overlaid on the physical map rather
// than translated.
//
// A CoProc satisfies cpu.Memory directly: it is the only thing standing
// between a CPU and the bus.
package coproc
