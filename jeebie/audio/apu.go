package audio

import (
	"github.com/dmgo/dmgo/jeebie/addr"
	"github.com/dmgo/dmgo/jeebie/bit"
)

// APU is the Audio Processing Unit of a DMG Game Boy. Sound synthesis is out
// of scope here: this is a register bank for FF10-FF3F plus wave RAM, with
// just enough derived state (power, per-channel "on" status, DAC gating) to
// answer the same questions real hardware exposes through NR52 and the debug
// tooling in jeebie/debug. Tick is a no-op and GetSamples always returns
// silence - nothing actually drives a sample clock.
type APU struct {
	enabled bool
	ch      [4]channelState

	NR10, NR11, NR12, NR13, NR14 uint8 // Channel 1
	NR21, NR22, NR23, NR24       uint8 // Channel 2
	NR30, NR31, NR32, NR33, NR34 uint8 // Channel 3
	NR41, NR42, NR43, NR44       uint8 // Channel 4
	NR50, NR51, NR52             uint8 // Global controls
	waveRAM                      [waveRAMSize]uint8
}

// channelState tracks the bits of a channel's life that don't require
// synthesis: whether NR52 should report it active, and the debug mute/solo
// state the audio.Provider interface exposes to backends.
type channelState struct {
	enabled bool // NR52 status bit: set on trigger, cleared when DAC turns off or APU powers down
	muted   bool // debug-only mute, independent of enabled
}

func New() *APU {
	return &APU{}
}

// Tick would advance the APU by the given number of T-cycles. Audio
// synthesis isn't implemented, so there's nothing to step.
func (a *APU) Tick(cycles int) {}

// dacEnabled reports whether the given channel's DAC is currently on,
// derived straight from its volume/control register.
func (a *APU) dacEnabled(ch int) bool {
	switch ch {
	case 0:
		return bit.ExtractBits(a.NR12, 7, 3) != 0
	case 1:
		return bit.ExtractBits(a.NR22, 7, 3) != 0
	case 2:
		return bit.IsSet(7, a.NR30)
	case 3:
		return bit.ExtractBits(a.NR42, 7, 3) != 0
	}
	return false
}

func (a *APU) ReadRegister(address uint16) uint8 {
	switch address {
	case addr.NR10:
		return a.NR10 | 0b1000_0000
	case addr.NR11:
		return a.NR11 | 0b0011_1111
	case addr.NR12:
		return a.NR12
	case addr.NR13:
		return 0xFF // write-only reg
	case addr.NR14:
		return a.NR14 | 0b1011_1111
	case addr.NR21:
		return a.NR21 | 0b0011_1111
	case addr.NR22:
		return a.NR22
	case addr.NR23:
		return 0xFF // write-only reg
	case addr.NR24:
		return a.NR24 | 0b1011_1111
	case addr.NR30:
		return a.NR30 | 0b0111_1111
	case addr.NR31:
		return 0xFF // write-only reg
	case addr.NR32:
		return a.NR32 | 0b1001_1111
	case addr.NR33:
		return 0xFF // write-only reg
	case addr.NR34:
		return a.NR34 | 0b1011_1111
	case addr.NR41:
		return 0xFF // write-only reg
	case addr.NR42:
		return a.NR42
	case addr.NR43:
		return a.NR43
	case addr.NR44:
		return a.NR44 | 0b1011_1111
	case addr.NR50:
		return a.NR50
	case addr.NR51:
		return a.NR51
	case addr.NR52:
		// bit 7 = power, bits 6-4 always 1, bits 3-0 = channel active status
		status := uint8(0b0111_0000)
		if a.enabled {
			status = bit.Set(7, status)
		}
		for i := range 4 {
			if a.ch[i].enabled {
				status = bit.Set(uint8(i), status)
			}
		}
		return status
	}
	if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
		return a.waveRAM[address-addr.WaveRAMStart]
	}
	return 0xFF
}

// WriteRegister stores the value of the given register/memory, then updates
// the small bit of derived state (power, per-channel on/off) that tracks it.
func (a *APU) WriteRegister(address uint16, value uint8) {
	isInWaveRAM := address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd

	if !a.enabled && address != addr.NR52 && !isInWaveRAM {
		// writes to audio regs are ignored while powered off, except NR52 itself and wave RAM
		return
	}

	switch address {
	case addr.NR10:
		a.NR10 = value
	case addr.NR11:
		a.NR11 = value
	case addr.NR12:
		a.NR12 = value
		if !a.dacEnabled(0) {
			a.ch[0].enabled = false
		}
	case addr.NR13:
		a.NR13 = value
	case addr.NR14:
		a.NR14 = value
		if bit.IsSet(7, value) && a.dacEnabled(0) {
			a.ch[0].enabled = true
		}
	case addr.NR21:
		a.NR21 = value
	case addr.NR22:
		a.NR22 = value
		if !a.dacEnabled(1) {
			a.ch[1].enabled = false
		}
	case addr.NR23:
		a.NR23 = value
	case addr.NR24:
		a.NR24 = value
		if bit.IsSet(7, value) && a.dacEnabled(1) {
			a.ch[1].enabled = true
		}
	case addr.NR30:
		a.NR30 = value
		if !a.dacEnabled(2) {
			a.ch[2].enabled = false
		}
	case addr.NR31:
		a.NR31 = value
	case addr.NR32:
		a.NR32 = value
	case addr.NR33:
		a.NR33 = value
	case addr.NR34:
		a.NR34 = value
		if bit.IsSet(7, value) && a.dacEnabled(2) {
			a.ch[2].enabled = true
		}
	case addr.NR41:
		a.NR41 = value
	case addr.NR42:
		a.NR42 = value
		if !a.dacEnabled(3) {
			a.ch[3].enabled = false
		}
	case addr.NR43:
		a.NR43 = value
	case addr.NR44:
		a.NR44 = value
		if bit.IsSet(7, value) && a.dacEnabled(3) {
			a.ch[3].enabled = true
		}
	case addr.NR50:
		a.NR50 = value
	case addr.NR51:
		a.NR51 = value
	case addr.NR52:
		wasEnabled := a.enabled
		a.enabled = bit.IsSet(7, value)
		if wasEnabled && !a.enabled {
			// powering off clears every register except wave RAM
			a.NR10, a.NR11, a.NR12, a.NR13, a.NR14 = 0, 0, 0, 0, 0
			a.NR21, a.NR22, a.NR23, a.NR24 = 0, 0, 0, 0
			a.NR30, a.NR31, a.NR32, a.NR33, a.NR34 = 0, 0, 0, 0, 0
			a.NR41, a.NR42, a.NR43, a.NR44 = 0, 0, 0, 0
			a.NR50, a.NR51 = 0, 0
			for i := range a.ch {
				a.ch[i].enabled = false
			}
		}
	default:
		// ignore
	}

	if isInWaveRAM {
		a.waveRAM[address-addr.WaveRAMStart] = value
	}
}

// GetSamples returns count stereo frames (2*count int16 values) of silence.
// Without a synthesis engine there is no generated waveform to return.
func (a *APU) GetSamples(count int) []int16 {
	if count <= 0 {
		return nil
	}
	return make([]int16, count*2)
}

// Debug helpers required by Provider.

// ToggleChannel toggles the mute state of a channel.
func (a *APU) ToggleChannel(channel int) {
	idx := channel - 1
	if idx < 0 || idx >= 4 {
		return
	}
	a.ch[idx].muted = !a.ch[idx].muted
}

// SoloChannel sets a channel to solo mode (only that channel unmuted).
// Calling with the same channel again unmutes all channels.
func (a *APU) SoloChannel(channel int) {
	idx := channel - 1
	if idx < 0 || idx >= 4 {
		return
	}

	soloed := !a.ch[idx].muted
	for i := range a.ch {
		if i != idx && !a.ch[i].muted {
			soloed = false
		}
	}
	if soloed {
		for i := range a.ch {
			a.ch[i].muted = false
		}
		return
	}

	for i := range a.ch {
		a.ch[i].muted = i != idx
	}
}

// GetChannelStatus returns the NR52 active-status bit for each channel.
func (a *APU) GetChannelStatus() (ch1, ch2, ch3, ch4 bool) {
	return a.ch[0].enabled, a.ch[1].enabled, a.ch[2].enabled, a.ch[3].enabled
}

// GetChannelVolumes returns each channel's initial volume field straight
// from its control register; there's no envelope engine to post-process it.
func (a *APU) GetChannelVolumes() (ch1, ch2, ch3, ch4 uint8) {
	ch1 = bit.ExtractBits(a.NR12, 7, 4)
	ch2 = bit.ExtractBits(a.NR22, 7, 4)
	switch bit.ExtractBits(a.NR32, 6, 5) {
	case 0:
		ch3 = 0
	case 1:
		ch3 = 15
	case 2:
		ch3 = 7
	case 3:
		ch3 = 3
	}
	ch4 = bit.ExtractBits(a.NR42, 7, 4)
	return
}
