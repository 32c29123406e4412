// Package calendar decodes a 32-bit seconds-since-epoch counter value, as kept by a
// microcontroller real-time counter, into calendar fields for display.
//
// The decoder uses fixed-width unsigned arithmetic only and needs no time zone database:
// a single fixed offset (UTC-5) is applied before decomposition.
package calendar

import "time"

// TimezoneOffset is subtracted from every counter value before it is decoded (GMT -5:00).
const TimezoneOffset = 18000

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	epochYear        = 1970
)

// Weekday codes, Sunday first.
const (
	Sunday uint8 = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// weekdays maps daysSinceEpoch%7 onto a weekday code. Epoch day 0 (1970-01-01) was a
// Thursday.
var weekdays = [7]uint8{Thursday, Friday, Saturday, Sunday, Monday, Tuesday, Wednesday}

var monthNames = [13]string{
	"",
	"January",
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

var weekdayNames = [7]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// Moment is a decoded counter value. It carries no state of its own and is recomputed
// from scratch for every counter value.
type Moment struct {
	Year      uint16
	Month     uint8 // 1..12
	Date      uint8 // 1..31
	Hour      uint8
	Minute    uint8
	Second    uint8
	Weekday   uint8  // 0 = Sunday
	DayOfYear uint16 // 1..366

	// LeapDays counts the leap days elapsed since the epoch, including this year's
	// February 29 once it has passed. Informational only.
	LeapDays uint8
	// February is the length of February used while decoding this moment.
	February uint8
}

// monthDays returns the month lengths for a year. The table is built per call so that no
// two decodes ever share it.
func monthDays(leap bool) [12]uint8 {
	days := [12]uint8{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if leap {
		days[1] = 29
	}
	return days
}

// IsLeapYear reports whether year is a leap year in the proleptic Gregorian calendar.
func IsLeapYear(year uint16) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// Decode decodes a counter value. See DecodeInto.
func Decode(seconds uint32) Moment {
	var m Moment
	DecodeInto(&m, seconds)
	return m
}

// DecodeInto decodes a counter value into m, overwriting every field.
//
// TimezoneOffset is subtracted with uint32 wraparound. Values below TimezoneOffset
// therefore wrap to the far end of the counter range and decode to a date in February
// 2106 (0 decodes to 2106-02-07 01:28:16, a Sunday). This is not clamped or reported.
func DecodeInto(m *Moment, seconds uint32) {
	epoch := seconds - TimezoneOffset

	m.Second = uint8(epoch % 60)
	epoch /= 60
	m.Minute = uint8(epoch % 60)
	epoch /= 60
	m.Hour = uint8(epoch % 24)
	epoch /= 24

	daysSinceEpoch := epoch
	m.Weekday = weekdays[daysSinceEpoch%7]

	// subtract whole years until fewer days remain than the current year holds
	day := daysSinceEpoch
	year := uint16(epochYear)
	leap := false
	m.LeapDays = 0
	for (!leap && day >= 365) || (leap && day >= 366) {
		if leap {
			day -= 366
			m.LeapDays++
		} else {
			day -= 365
		}
		year++
		leap = IsLeapYear(year)
	}
	m.Year = year
	m.DayOfYear = uint16(day + 1)

	days := monthDays(leap)
	m.February = days[1]
	if leap && m.DayOfYear >= 60 {
		m.LeapDays++
	}

	var total uint16
	month := 0
	for ; month < 11; month++ {
		if m.DayOfYear <= total+uint16(days[month]) {
			break
		}
		total += uint16(days[month])
	}
	m.Month = uint8(month + 1)
	m.Date = uint8(m.DayOfYear - total)
}

// MonthName returns the English name of the month, or "" for an undecoded Moment.
func (m Moment) MonthName() string {
	if m.Month > 12 {
		return ""
	}
	return monthNames[m.Month]
}

// WeekdayName returns the English name of the weekday.
func (m Moment) WeekdayName() string {
	return weekdayNames[m.Weekday%7]
}

// DaysInMonth returns the length of the decoded month.
func (m Moment) DaysInMonth() uint8 {
	if m.Month < 1 || m.Month > 12 {
		return 0
	}
	return monthDays(m.February == 29)[m.Month-1]
}

// Zone is the fixed zone decoded moments are expressed in.
var Zone = time.FixedZone("UTC-5", -TimezoneOffset)

// Time returns the moment as a time.Time in Zone.
func (m Moment) Time() time.Time {
	return time.Date(int(m.Year), time.Month(m.Month), int(m.Date),
		int(m.Hour), int(m.Minute), int(m.Second), 0, Zone)
}
