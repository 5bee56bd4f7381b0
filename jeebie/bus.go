package jeebie

import (
	"github.com/dmgo/dmgo/jeebie/addr"
	"github.com/dmgo/dmgo/jeebie/cpu"
	"github.com/dmgo/dmgo/jeebie/memory"
	"github.com/dmgo/dmgo/jeebie/video"
)

// BusInterface defines the interface for component communication
type BusInterface interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	RequestInterrupt(interrupt addr.Interrupt)
}

// Bus wires the CPU, MMU and GPU together and owns the order they're
// stepped in. The Game Boy doesn't run the CPU and run the PPU, it runs
// one system clock that both are slaved to, so every CPU instruction has
// to be immediately followed by ticking the rest of the machine forward
// by the same number of cycles before the next instruction is fetched.
type Bus struct {
	CPU *cpu.CPU
	MMU *memory.MMU
	GPU *video.GPU
}

func NewBus(c *cpu.CPU, mmu *memory.MMU, gpu *video.GPU) *Bus {
	return &Bus{CPU: c, MMU: mmu, GPU: gpu}
}

func (b *Bus) Read(address uint16) byte {
	return b.MMU.Read(address)
}

func (b *Bus) Write(address uint16, value byte) {
	b.MMU.Write(address, value)
}

func (b *Bus) RequestInterrupt(interrupt addr.Interrupt) {
	b.MMU.RequestInterrupt(interrupt)
}

func (b *Bus) ReadBit(index uint8, address uint16) bool {
	return b.MMU.ReadBit(index, address)
}

// StepInstruction runs one CPU instruction (or interrupt dispatch, or a
// single HALT/STOP cycle) and advances the timer, OAM DMA, APU and PPU by
// the same number of T-cycles it took. Returns the cycle count.
func (b *Bus) StepInstruction() int {
	cycles := b.CPU.Tick()
	b.MMU.Tick(cycles)
	b.GPU.Tick(cycles)
	return cycles
}
