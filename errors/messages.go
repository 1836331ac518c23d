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

package errors

// Message templates used with Errorf. The template string itself is the
// error's "head" (see Head/Is/Has), grouped by the taxonomy this module's
// error handling design calls for: configuration, decode, translation and
// queue-overflow errors. Decode/translation/queue-overflow errors are
// logged, never returned from RunFrame; only configuration errors below are
// ever returned to a caller.
const (
	// configuration errors, surfaced from construction
	MissingBootROM     = "missing boot ROM: %s"
	UnreadableBootROM   = "cannot read boot ROM: %s"
	UnreadableNANDImage = "cannot read NAND image: %s"
	UnreadableSDImage   = "cannot read SD image: %s"
	UnreadablePrefs     = "cannot read preferences file: %s"
	CorruptPrefsLine    = "malformed preferences line: %q"

	// decode errors, logged and never abort execution
	UnknownArmOpcode   = "unknown ARM opcode: 0x%08x"
	UnknownThumbOpcode = "unknown THUMB opcode: 0x%04x"
	UnknownCoprocReg   = "unknown coprocessor register: c%d, c%d, %d"
	UnknownMmioAddress = "unknown MMIO address: 0x%08x"
	UnknownGpuCommand  = "unknown GPU command: 0x%03x"

	// translation faults
	UnsupportedDescriptor = "unsupported translation descriptor at 0x%08x"

	// queue overflows
	FrameQueueFull = "frame queue full, dropping frame"
	AudioQueueFull = "audio queue full, dropping samples"
)
