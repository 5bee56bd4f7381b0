package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPU_AF(t *testing.T) {
	cpu := &CPU{}

	cpu.setAF(0xABCD)
	assert.Equal(t, uint8(0xAB), cpu.a)
	// low nibble of F is never wired to anything, always reads as zero
	assert.Equal(t, uint8(0xC0), cpu.f)
	assert.Equal(t, uint16(0xABC0), cpu.getAF())
}

func TestCPU_BC(t *testing.T) {
	cpu := &CPU{}

	cpu.setBC(0x1234)
	assert.Equal(t, uint8(0x12), cpu.b)
	assert.Equal(t, uint8(0x34), cpu.c)
	assert.Equal(t, uint16(0x1234), cpu.getBC())
}

func TestCPU_DE(t *testing.T) {
	cpu := &CPU{}

	cpu.setDE(0xBEEF)
	assert.Equal(t, uint8(0xBE), cpu.d)
	assert.Equal(t, uint8(0xEF), cpu.e)
	assert.Equal(t, uint16(0xBEEF), cpu.getDE())
}

func TestCPU_HL(t *testing.T) {
	cpu := &CPU{}

	cpu.setHL(0xCAFE)
	assert.Equal(t, uint8(0xCA), cpu.h)
	assert.Equal(t, uint8(0xFE), cpu.l)
	assert.Equal(t, uint16(0xCAFE), cpu.getHL())
}
