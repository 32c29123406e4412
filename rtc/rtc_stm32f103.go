//go:build stm32f103
// +build stm32f103

package rtc

import (
	"device/stm32"
	"runtime/interrupt"
)

// Hardware returns the memory-mapped counter peripheral of an STM32F103 (the CH32V203 has
// the same layout).
func Hardware() Registers {
	return hardware{}
}

type hardware struct{}

// handler is called from the RTC global interrupt. It is a package variable because the
// vector is bound at compile time.
var handler func()

func (hardware) ReadHigh() uint16 { return uint16(stm32.RTC.CNTH.Get()) }
func (hardware) ReadLow() uint16  { return uint16(stm32.RTC.CNTL.Get()) }

func waitWriteDone() {
	for !stm32.RTC.CRL.HasBits(stm32.RTC_CRL_RTOFF) {
	}
}

// configMask holds the interrupt state saved by BeginConfig. Configuration mode is never
// nested.
var configMask interrupt.State

func (hardware) BeginConfig() {
	// the console writes the counter from the main loop; keep the tick handler out
	// until both halves are written
	configMask = interrupt.Disable()
	waitWriteDone()
	stm32.RTC.CRL.SetBits(stm32.RTC_CRL_CNF)
}

func (hardware) EndConfig() {
	stm32.RTC.CRL.ClearBits(stm32.RTC_CRL_CNF)
	waitWriteDone()
	interrupt.Restore(configMask)
}

func (hardware) SetPrescaler(div uint32) {
	stm32.RTC.PRLH.Set(div >> 16)
	stm32.RTC.PRLL.Set(div & 0xFFFF)
}

func (hardware) SetCounter(v uint32) {
	stm32.RTC.CNTH.Set(v >> 16)
	stm32.RTC.CNTL.Set(v & 0xFFFF)
}

func (hardware) SetAlarm(v uint32) {
	stm32.RTC.ALRH.Set(v >> 16)
	stm32.RTC.ALRL.Set(v & 0xFFFF)
}

func (hardware) EnableInterrupts() {
	waitWriteDone()
	stm32.RTC.CRH.SetBits(stm32.RTC_CRH_SECIE | stm32.RTC_CRH_ALRIE)
}

func (hardware) AttachHandler(h func()) {
	handler = h
	intr := interrupt.New(stm32.IRQ_RTC, func(interrupt.Interrupt) {
		if handler != nil {
			handler()
		}
	})
	intr.Enable()
}

func (hardware) TickPending() bool  { return stm32.RTC.CRL.HasBits(stm32.RTC_CRL_SECF) }
func (hardware) AlarmPending() bool { return stm32.RTC.CRL.HasBits(stm32.RTC_CRL_ALRF) }
func (hardware) ClearTickFlag()     { stm32.RTC.CRL.ClearBits(stm32.RTC_CRL_SECF) }
func (hardware) ClearAlarmFlag()    { stm32.RTC.CRL.ClearBits(stm32.RTC_CRL_ALRF) }

func (hardware) Sentinel() uint16     { return uint16(stm32.BKP.DR1.Get()) }
func (hardware) SetSentinel(v uint16) { stm32.BKP.DR1.Set(uint32(v)) }

func (hardware) UnlockBackup() {
	stm32.RCC.APB1ENR.SetBits(stm32.RCC_APB1ENR_PWREN | stm32.RCC_APB1ENR_BKPEN)
	stm32.PWR.CR.SetBits(stm32.PWR_CR_DBP)
}

func (hardware) ResetBackupDomain() {
	stm32.RCC.BDCR.SetBits(stm32.RCC_BDCR_BDRST)
	stm32.RCC.BDCR.ClearBits(stm32.RCC_BDCR_BDRST)
}

func (hardware) ResetCause() ResetCause {
	var c ResetCause
	if stm32.RCC.CSR.HasBits(stm32.RCC_CSR_PORRSTF) {
		c |= ResetPowerOn
	}
	if stm32.RCC.CSR.HasBits(stm32.RCC_CSR_PINRSTF) {
		c |= ResetPin
	}
	return c
}

func (hardware) ClearResetFlags() {
	stm32.RCC.CSR.SetBits(stm32.RCC_CSR_RMVF)
}

func (hardware) EnableOscillator(o Oscillator) {
	if o == OscillatorLSI {
		stm32.RCC.CSR.SetBits(stm32.RCC_CSR_LSION)
		return
	}
	stm32.RCC.BDCR.SetBits(stm32.RCC_BDCR_LSEON)
}

func (hardware) OscillatorReady(o Oscillator) bool {
	if o == OscillatorLSI {
		return stm32.RCC.CSR.HasBits(stm32.RCC_CSR_LSIRDY)
	}
	return stm32.RCC.BDCR.HasBits(stm32.RCC_BDCR_LSERDY)
}

// RTCSEL encodings
const (
	rtcselLSE = 0b01
	rtcselLSI = 0b10
)

func (hardware) SelectOscillator(o Oscillator) {
	sel := uint32(rtcselLSE)
	if o == OscillatorLSI {
		sel = rtcselLSI
	}
	stm32.RCC.BDCR.ClearBits(stm32.RCC_BDCR_RTCSEL_Msk)
	stm32.RCC.BDCR.SetBits(sel<<stm32.RCC_BDCR_RTCSEL_Pos | stm32.RCC_BDCR_RTCEN)
}

func (hardware) ClearSync()   { stm32.RTC.CRL.ClearBits(stm32.RTC_CRL_RSF) }
func (hardware) Synced() bool { return stm32.RTC.CRL.HasBits(stm32.RTC_CRL_RSF) }
