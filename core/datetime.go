package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate reports calendar fields that do not form a real date or
// time of day.
var ErrInvalidDate = errors.New("invalid calendar date")

const (
	// MicrosecondsPerSecond and friends relate the DateTime scale to civil
	// time units.
	MicrosecondsPerSecond int64 = 1_000_000
	MicrosecondsPerMinute       = 60 * MicrosecondsPerSecond
	MicrosecondsPerHour         = 60 * MicrosecondsPerMinute
	MicrosecondsPerDay          = 24 * MicrosecondsPerHour
)

// DateTimeFormatLen is the byte length of the canonical rendering
// "YYYY-MM-DD HH:MM:SS.UUUUUU".
const DateTimeFormatLen = 26

// DateTime is a civil timestamp with microsecond resolution: a point on the
// proleptic Gregorian calendar with no time zone attached, stored as a single
// microsecond count since 1970-01-01 00:00:00.000000. Differences and
// additions are plain integer arithmetic; calendar fields are reconstructed
// exactly on demand, so adding microseconds rolls seconds, minutes, hours,
// days, months and years over correctly, leap days included.
//
// The zero DateTime is 1970-01-01 00:00:00.000000.
type DateTime struct {
	us int64
}

// NewDateTime builds a DateTime from calendar fields. Month is 1..12, day
// must exist in that month and year, hour is 0..23, minute and second 0..59,
// microsecond 0..999999. Years outside 1..9999 are rejected so the canonical
// rendering stays fixed width. Invalid fields return an error wrapping
// ErrInvalidDate.
func NewDateTime(year, month, day, hour, minute, second, microsecond int) (DateTime, error) {
	if err := validateDate(year, month, day); err != nil {
		return DateTime{}, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 ||
		microsecond < 0 || microsecond > 999_999 {
		return DateTime{}, fmt.Errorf("%w: time of day %d:%d:%d.%d", ErrInvalidDate, hour, minute, second, microsecond)
	}
	us := daysFromCivil(year, month, day)*MicrosecondsPerDay +
		int64(hour)*MicrosecondsPerHour +
		int64(minute)*MicrosecondsPerMinute +
		int64(second)*MicrosecondsPerSecond +
		int64(microsecond)
	return DateTime{us: us}, nil
}

// MustDateTime is NewDateTime that panics on invalid fields.
func MustDateTime(year, month, day, hour, minute, second, microsecond int) DateTime {
	dt, err := NewDateTime(year, month, day, hour, minute, second, microsecond)
	if err != nil {
		panic(err)
	}
	return dt
}

// DateTimeFromYMD builds a midnight DateTime from a packed integer of the
// form YYYYMMDD, the inverse of AsYYYYMMDD.
func DateTimeFromYMD(yyyymmdd int) (DateTime, error) {
	return NewDateTime(yyyymmdd/10_000, (yyyymmdd/100)%100, yyyymmdd%100, 0, 0, 0, 0)
}

// DateTimeFromTime converts t using the civil fields of its own location.
func DateTimeFromTime(t time.Time) DateTime {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	us := daysFromCivil(y, int(mo), d)*MicrosecondsPerDay +
		int64(h)*MicrosecondsPerHour +
		int64(mi)*MicrosecondsPerMinute +
		int64(s)*MicrosecondsPerSecond +
		int64(t.Nanosecond()/1000)
	return DateTime{us: us}
}

// DateTimeFromMicroseconds builds a DateTime from a raw microsecond count,
// the inverse of Microseconds.
func DateTimeFromMicroseconds(us int64) DateTime { return DateTime{us: us} }

// NowDateTime returns the current local time.
func NowDateTime() DateTime { return DateTimeFromTime(time.Now()) }

func validateDate(year, month, day int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidDate, year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidDate, month)
	}
	if day < 1 || day > DaysInMonth(month, year) {
		return fmt.Errorf("%w: day %d out of range for %d-%02d", ErrInvalidDate, day, year, month)
	}
	return nil
}

// Microseconds returns the raw count since 1970-01-01 00:00:00.000000.
func (dt DateTime) Microseconds() int64 { return dt.us }

func (dt DateTime) split() (days, rem int64) {
	days = floorDiv(dt.us, MicrosecondsPerDay)
	rem = dt.us - days*MicrosecondsPerDay
	return days, rem
}

// Date returns the calendar date.
func (dt DateTime) Date() (year, month, day int) {
	days, _ := dt.split()
	return civilFromDays(days)
}

// Clock returns the time of day.
func (dt DateTime) Clock() (hour, minute, second int) {
	_, rem := dt.split()
	hour = int(rem / MicrosecondsPerHour)
	minute = int(rem % MicrosecondsPerHour / MicrosecondsPerMinute)
	second = int(rem % MicrosecondsPerMinute / MicrosecondsPerSecond)
	return hour, minute, second
}

// Year returns the calendar year.
func (dt DateTime) Year() int { y, _, _ := dt.Date(); return y }

// Month returns the calendar month, 1..12.
func (dt DateTime) Month() int { _, m, _ := dt.Date(); return m }

// Day returns the day of the month.
func (dt DateTime) Day() int { _, _, d := dt.Date(); return d }

// Hour returns the hour of the day.
func (dt DateTime) Hour() int { h, _, _ := dt.Clock(); return h }

// Minute returns the minute within the hour.
func (dt DateTime) Minute() int { _, m, _ := dt.Clock(); return m }

// Second returns the second within the minute.
func (dt DateTime) Second() int { _, _, s := dt.Clock(); return s }

// Microsecond returns the full sub-second count, 0..999999.
func (dt DateTime) Microsecond() int {
	_, rem := dt.split()
	return int(rem % MicrosecondsPerSecond)
}

// Millisecond returns the sub-second count truncated to milliseconds.
func (dt DateTime) Millisecond() int { return dt.Microsecond() / 1000 }

// AsYYYYMMDD packs the date into a single integer, e.g. 20231231.
func (dt DateTime) AsYYYYMMDD() int {
	y, m, d := dt.Date()
	return y*10_000 + m*100 + d
}

// AddMicroseconds returns the instant us microseconds later (or earlier when
// negative).
func (dt DateTime) AddMicroseconds(us int64) DateTime { return DateTime{us: dt.us + us} }

// Sub returns the difference dt - o in microseconds.
func (dt DateTime) Sub(o DateTime) int64 { return dt.us - o.us }

// Before reports whether dt precedes o.
func (dt DateTime) Before(o DateTime) bool { return dt.us < o.us }

// After reports whether dt follows o.
func (dt DateTime) After(o DateTime) bool { return dt.us > o.us }

// Equal reports whether dt and o are the same instant.
func (dt DateTime) Equal(o DateTime) bool { return dt.us == o.us }

// AppendFormat appends the canonical 26-byte rendering
// "YYYY-MM-DD HH:MM:SS.UUUUUU" to dst and returns the extended slice.
func (dt DateTime) AppendFormat(dst []byte) []byte {
	year, month, day := dt.Date()
	_, rem := dt.split()
	hour := int(rem / MicrosecondsPerHour)
	minute := int(rem % MicrosecondsPerHour / MicrosecondsPerMinute)
	second := int(rem % MicrosecondsPerMinute / MicrosecondsPerSecond)
	micro := int(rem % MicrosecondsPerSecond)

	var b [DateTimeFormatLen]byte
	padInt(b[0:4], year)
	b[4] = '-'
	padInt(b[5:7], month)
	b[7] = '-'
	padInt(b[8:10], day)
	b[10] = ' '
	padInt(b[11:13], hour)
	b[13] = ':'
	padInt(b[14:16], minute)
	b[16] = ':'
	padInt(b[17:19], second)
	b[19] = '.'
	padInt(b[20:26], micro)
	return append(dst, b[:]...)
}

// String returns the canonical rendering.
func (dt DateTime) String() string {
	return string(dt.AppendFormat(make([]byte, 0, DateTimeFormatLen)))
}

// IsLeapYear reports whether year has a February 29th: divisible by four,
// centuries only when divisible by four hundred.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var daysPerMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the given month of the given
// year, or 0 when month is outside 1..12.
func DaysInMonth(month, year int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month]
}

// padInt writes v zero-padded and right-aligned across all of dst.
func padInt(dst []byte, v int) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte('0' + v%10)
		v /= 10
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// daysFromCivil converts a proleptic Gregorian date to days since
// 1970-01-01.
func daysFromCivil(year, month, day int) int64 {
	y := int64(year)
	if month <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	var mp int64
	if month > 2 {
		mp = int64(month) - 3
	} else {
		mp = int64(month) + 9
	}
	doy := (153*mp+2)/5 + int64(day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays is the exact inverse of daysFromCivil.
func civilFromDays(days int64) (year, month, day int) {
	z := days + 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	var m int64
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return int(y), int(m), int(d)
}
