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

// Package islacore is the root of the emulation: the Core type wires the
// scheduler, both CPU islands, the shared coprocessor/bus/MMIO stack,
// and the GPU into the single headless library a host drives one frame
// at a time. Host windowing, input, and audio drivers are not this
// module's concern; Core exposes RunFrame, key/touch input, and
// framebuffer polling for a host to build those around.
package islacore

import (
	"os"

	"github.com/islacore/islacore/assert"
	"github.com/islacore/islacore/errors"
	"github.com/islacore/islacore/gpu"
	"github.com/islacore/islacore/hardware/bus"
	"github.com/islacore/islacore/hardware/clocks"
	"github.com/islacore/islacore/hardware/coproc"
	"github.com/islacore/islacore/hardware/cpu"
	"github.com/islacore/islacore/hardware/instance"
	"github.com/islacore/islacore/hardware/mmio"
	"github.com/islacore/islacore/logger"
	"github.com/islacore/islacore/scheduler"
)

// Paths names every file NewCore needs to bring a Core up. Boot11 and
// Boot9 are mandatory; Nand, Sd, and Settings may be left empty, in
// which case the corresponding state starts empty (Nand, Sd) or at
// library defaults (Settings).
type Paths struct {
	Boot11   string
	Boot9    string
	Nand     string
	Sd       string
	Settings string
}

// Pixels is one display frame, GetFrame's fixed RGBA8 400x480 surface.
type Pixels struct {
	Width, Height int
	RGBA          []byte
}

const (
	displayWidth  = 400
	displayHeight = 480

	// framePeriod is the emulated-cycle length of one display frame,
	// derived from the documented ~268MHz A11 clock at 60 frames per
	// second. Like hardware/bus's physical map, this is a placeholder
	// figure: the retrieval pack did not include the file that fixes
	// the console's exact clock rate and frame timing (see DESIGN.md).
	framePeriod scheduler.Cycles = 4468000

	// rebasePeriod is how often the scheduler's cycle counters are
	// rebased to keep them from growing without bound across a long
	// play session; ten seconds of emulated time is arbitrary headroom,
	// chosen only to keep rebases infrequent relative to a frame.
	rebasePeriod scheduler.Cycles = framePeriod * 600
)

// Core is the whole emulation. It is driven one frame at a time by
// RunFrame, called from a single host goroutine; GetFrame and the input
// methods may be called from a second goroutine concurrently with
// RunFrame, since they only touch the mutex-guarded queues and the
// plain input state (itself never read by RunFrame).
type Core struct {
	log *logger.Logger
	ins *instance.Instance

	sched  *scheduler.Scheduler
	bus    *bus.Bus
	coproc *coproc.CoProc
	intr   *mmio.Interrupts
	timer  *mmio.Timers
	gpu    *gpu.GPU
	cpus   [int(cpu.NumCPUs)]*cpu.CPU

	// extraMode gates whether A11-2 and A11-3 are ever scheduled, per
	// the "only cores {0,1} run unless extra-mode is enabled" rule.
	// Nothing in the external interface currently flips it; it is read
	// by the closures passed to scheduler.AddCore and left false.
	extraMode bool

	input input

	frames *framequeue
	audio  *audioqueue

	// owner records whichever goroutine first calls RunFrame, so that a
	// later call from a second goroutine is caught rather than racing
	// the frame/audio queues' producer side. It is bound lazily, since
	// NewCore itself commonly runs on a setup goroutine distinct from
	// whichever goroutine ends up driving the frame loop.
	ownerSet bool
	owner    assert.Owner
}

// mmioForward lets hardware/bus.New receive a stable Mmio reference
// before the Dispatcher it forwards to exists. The two packages need
// each other at construction time (Bus backs gpu.GPU's Memory, and the
// Dispatcher routes the GPU's register window), so one side has to be
// wired after the fact; this is that seam.
type mmioForward struct {
	d *mmio.Dispatcher
}

func (m *mmioForward) Read32(addr uint32) uint32      { return m.d.Read32(addr) }
func (m *mmioForward) Read16(addr uint32) uint16      { return m.d.Read16(addr) }
func (m *mmioForward) Read8(addr uint32) uint8        { return m.d.Read8(addr) }
func (m *mmioForward) Write32(addr uint32, v uint32)  { m.d.Write32(addr, v) }
func (m *mmioForward) Write16(addr uint32, v uint16)  { m.d.Write16(addr, v) }
func (m *mmioForward) Write8(addr uint32, v uint8)    { m.d.Write8(addr, v) }

// Halt satisfies coproc.HaltController, routing a WFI register write on
// any core to that specific core's CPU.Halt.
func (c *Core) Halt(id cpu.ID) {
	c.cpus[id].Halt()
}

// NewCore constructs a Core: it loads both boot ROMs (and the optional
// NAND/SD images and settings file), wires every component described by
// this module's component design, and leaves A11-0 and A9 ready to run
// from their reset vectors with A11-1 through A11-3 halted pending a
// wake request this module does not model.
func NewCore(paths Paths) (*Core, error) {
	c := &Core{
		log:   logger.NewLogger(2048),
		sched: scheduler.New(),
	}

	var err error
	c.ins, err = instance.NewInstance(paths.Settings, c.sched)
	if err != nil {
		return nil, err
	}

	boot11, err := loadBootROM(paths.Boot11)
	if err != nil {
		return nil, err
	}
	boot9, err := loadBootROM(paths.Boot9)
	if err != nil {
		return nil, err
	}

	if _, err := loadOptionalImage(paths.Nand, errors.UnreadableNANDImage); err != nil {
		return nil, err
	}
	if _, err := loadOptionalImage(paths.Sd, errors.UnreadableSDImage); err != nil {
		return nil, err
	}

	c.intr = mmio.NewInterrupts()
	c.timer = mmio.NewTimers(c.sched, c.intr, cpu.A11_0)

	forward := &mmioForward{}
	c.bus = bus.New(forward, c.log)
	c.bus.LoadBoot11(boot11)
	c.bus.LoadBoot9(boot9)

	c.gpu = gpu.New(c.bus, c.log)
	dispatcher := mmio.New(c.log, c.intr, c.timer, c.gpu)
	forward.d = dispatcher

	c.coproc = coproc.NewCoProc(c.bus, c, c.log)

	for id := cpu.A11_0; id < cpu.NumCPUs; id++ {
		core := cpu.NewCPU(id, c.coproc, c.intr, c.log)
		core.Init()
		c.cpus[id] = core
		c.intr.RegisterCore(id, core)
	}

	c.sched.AddCore(c.cpus[cpu.A11_0], clocks.A11, nil)
	c.sched.AddCore(c.cpus[cpu.A11_1], clocks.A11, nil)
	c.sched.AddCore(c.cpus[cpu.A11_2], clocks.A11, func() bool { return c.extraMode })
	c.sched.AddCore(c.cpus[cpu.A11_3], clocks.A11, func() bool { return c.extraMode })
	c.sched.AddCore(c.cpus[cpu.A9], clocks.A9, nil)

	c.input = newInput()
	c.frames = newFramequeue(c.log)
	c.audio = newAudioqueue(c.log)

	c.scheduleFrameEnd()
	c.scheduleRebase()

	return c, nil
}

func loadBootROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf(errors.MissingBootROM, path)
		}
		return nil, errors.Errorf(errors.UnreadableBootROM, path)
	}
	return data, nil
}

// loadOptionalImage reads path if it names a file, returning (nil, nil)
// for an empty path rather than treating it as missing.
func loadOptionalImage(path string, unreadable string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf(unreadable, path)
	}
	return data, nil
}

// RunFrame advances exactly one display frame's worth of work: CPU
// opcodes and scheduled events up to the next frame-end boundary.
func (c *Core) RunFrame() {
	if !c.ownerSet {
		c.owner = assert.NewOwner()
		c.ownerSet = true
	} else if !c.owner.Owns() {
		panic("islacore: RunFrame must always be called from the same goroutine")
	}
	c.sched.RunFrame()
}

func (c *Core) scheduleFrameEnd() {
	c.sched.Schedule(framePeriod, c.onFrameEnd)
}

func (c *Core) onFrameEnd() {
	if f, ok := c.gpu.ReadFrame(); ok {
		c.frames.push(fitToDisplay(f))
	}
	c.scheduleFrameEnd()
	c.sched.Stop()
}

func (c *Core) scheduleRebase() {
	c.sched.Schedule(rebasePeriod, c.onRebase)
}

func (c *Core) onRebase() {
	origin := c.sched.GlobalCycles()
	c.sched.RebaseCycles(origin)
	c.scheduleRebase()
}

// fitToDisplay copies a decoded GPU frame into a fixed 400x480 canvas,
// cropping or letterboxing (leaving the remainder transparent black) as
// needed, since the rasterizer's configured buffer size is not required
// to match the display's.
func fitToDisplay(f gpu.Frame) Pixels {
	out := Pixels{
		Width:  displayWidth,
		Height: displayHeight,
		RGBA:   make([]byte, displayWidth*displayHeight*4),
	}

	w, h := f.Width, f.Height
	if w > displayWidth {
		w = displayWidth
	}
	if h > displayHeight {
		h = displayHeight
	}

	for y := 0; y < h; y++ {
		srcOff := y * f.Width * 4
		dstOff := y * displayWidth * 4
		copy(out.RGBA[dstOff:dstOff+w*4], f.RGBA[srcOff:srcOff+w*4])
	}

	return out
}

// GetFrame pops the next ready framebuffer, if one has been produced
// since the last call.
func (c *Core) GetFrame() (Pixels, bool) {
	return c.frames.pop()
}

// PressKey and ReleaseKey update the button pad bitmask; idx identifies
// one of the host's 12 bindable buttons.
func (c *Core) PressKey(idx int)   { c.input.pressKey(idx) }
func (c *Core) ReleaseKey(idx int) { c.input.releaseKey(idx) }

// PressScreen and ReleaseScreen record a touch-screen contact in the
// bottom screen's coordinate space.
func (c *Core) PressScreen(x, y int) { c.input.pressScreen(x, y) }
func (c *Core) ReleaseScreen()       { c.input.releaseScreen() }
