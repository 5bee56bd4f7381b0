package cpu

import (
	"fmt"

	"github.com/dmgo/dmgo/jeebie/addr"
	"github.com/dmgo/dmgo/jeebie/bit"
	"github.com/dmgo/dmgo/jeebie/memory"
)

// Flag is one of the 4 possible flags used in the flag register (high part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// interruptVectors holds the service routine address for each of the five
// interrupt sources, indexed by their bit position in IE/IF.
var interruptVectors = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}

// CPU is the main struct holding Sharp SM83 state: registers, the bus it
// reads and writes through, and the bits of soft state (HALT, IME, the
// halt bug) the fetch-decode-execute loop needs to track between Ticks.
// Register pairs (AF, BC, DE, HL) are exposed through accessor methods in
// registers.go rather than as a distinct type, since almost every opcode
// operates on a single 8 bit half of a pair.
type CPU struct {
	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8

	sp uint16
	pc uint16

	memory *memory.MMU

	// currentOpcode holds the most recently fetched opcode, with CB-prefixed
	// values carrying the CB byte in the low byte and 0xCB00 set.
	currentOpcode uint16

	stopped bool
	halted  bool
	haltBug bool

	interruptsEnabled bool
	eiPending         bool
	eiArmed           bool

	// cycles is a running total of T-cycles spent servicing interrupts.
	cycles uint64
}

// New returns a CPU wired to the given memory bus, with registers set to
// the state a DMG has right after the boot ROM hands off execution.
func New(mem *memory.MMU) *CPU {
	return &CPU{
		memory: mem,
		pc:     0x100,
		sp:     0xFFFE,
	}
}

// GetPC returns the current program counter, mainly for debuggers and logging.
func (c *CPU) GetPC() uint16 {
	return c.pc
}

// GetSP returns the current stack pointer.
func (c *CPU) GetSP() uint16 {
	return c.sp
}

// IsHalted reports whether the CPU is currently idling in HALT.
func (c *CPU) IsHalted() bool {
	return c.halted
}

// RegisterSnapshot is a read-only copy of CPU register state, for
// debuggers and disassemblers that shouldn't hold a live *CPU.
type RegisterSnapshot struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME                    bool
	Cycles                 uint64
}

// Registers returns a snapshot of the current register file.
func (c *CPU) Registers() RegisterSnapshot {
	return RegisterSnapshot{
		A: c.a, F: c.f,
		B: c.b, C: c.c,
		D: c.d, E: c.e,
		H: c.h, L: c.l,
		SP:     c.sp,
		PC:     c.pc,
		IME:    c.interruptsEnabled,
		Cycles: c.cycles,
	}
}

// Tick executes a single step of the CPU: servicing a pending interrupt if
// one is due, idling if halted, or fetching and running the next
// instruction. It returns the number of T-cycles the step took.
func (c *CPU) Tick() int {
	applyIME := c.eiArmed
	c.eiArmed = false

	if c.halted {
		imeAtWake := c.interruptsEnabled
		if c.handleInterrupts() {
			c.halted = false
			if !imeAtWake {
				// Waking from HALT with IME clear arms the halt bug.
				c.haltBug = true
			}
		}
		if applyIME {
			c.interruptsEnabled = true
		}
		return 4
	}

	if c.interruptsEnabled && c.handleInterrupts() {
		if applyIME {
			c.interruptsEnabled = true
		}
		return 20
	}

	if c.stopped {
		if applyIME {
			c.interruptsEnabled = true
		}
		return 4
	}

	opcode := c.memory.Read(c.pc)
	if c.haltBug {
		// The halt bug stalls PC: the byte at pc is fetched again next
		// time around, since the increment that should have happened here
		// is skipped once.
		c.haltBug = false
	} else {
		c.pc++
	}

	if opcode == 0xCB {
		cb := c.memory.Read(c.pc)
		c.pc++
		c.currentOpcode = 0xCB00 | uint16(cb)
	} else {
		c.currentOpcode = uint16(opcode)
	}

	cycles := decode(c.currentOpcode)(c)

	if applyIME {
		c.interruptsEnabled = true
	}
	if c.eiPending {
		c.eiPending = false
		c.eiArmed = true
	}

	return cycles
}

// handleInterrupts checks IE & IF for a pending interrupt. It reports
// whether one is pending regardless of IME, since a pending interrupt wakes
// the CPU from HALT even with interrupts disabled, but it only actually
// dispatches (pushing PC, jumping to the handler, clearing the IF bit and
// clearing IME) when interrupts are enabled.
func (c *CPU) handleInterrupts() bool {
	ifReg := c.memory.Read(addr.IF)
	ieReg := c.memory.Read(addr.IE)
	pending := ifReg & ieReg & 0x1F
	if pending == 0 {
		return false
	}

	if !c.interruptsEnabled {
		return true
	}

	var bitPos uint8
	for bitPos = 0; bitPos < 5; bitPos++ {
		if pending&(1<<bitPos) != 0 {
			break
		}
	}

	c.interruptsEnabled = false
	c.eiPending = false
	c.eiArmed = false
	c.memory.Write(addr.IF, ifReg&^(1<<bitPos))
	c.pushStack(c.pc)
	c.pc = interruptVectors[bitPos]
	c.cycles += 20

	return true
}

// halt puts the CPU into HALT, idling until an interrupt is pending. If
// interrupts are disabled and one is already pending at the moment HALT
// executes, the halt bug triggers instead: the CPU does not actually halt,
// and the next instruction fetch fails to advance PC.
func (c *CPU) halt() {
	pending := c.memory.Read(addr.IE) & c.memory.Read(addr.IF) & 0x1F
	if !c.interruptsEnabled && pending != 0 {
		c.haltBug = true
		return
	}
	c.halted = true
}

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &^= uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

// readImmediate fetches the byte at PC and advances PC past it.
func (c *CPU) readImmediate() uint8 {
	value := c.memory.Read(c.pc)
	c.pc++
	return value
}

// readImmediateWord fetches the little-endian word at PC and advances PC past it.
func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return bit.Combine(high, low)
}

// readSignedImmediate fetches the signed byte at PC and advances PC past it.
func (c *CPU) readSignedImmediate() int8 {
	return int8(c.readImmediate())
}

func (c *CPU) String() string {
	return fmt.Sprintf(
		"PC:%04X SP:%04X A:%02X F:%02X B:%02X C:%02X D:%02X E:%02X H:%02X L:%02X",
		c.pc, c.sp, c.a, c.f, c.b, c.c, c.d, c.e, c.h, c.l,
	)
}
