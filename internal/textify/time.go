package textify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timePattern = regexp.MustCompile(`^([+-])(\d{1,16})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})Z$`)

// TimeToText renders a Wikidata time value at its stated precision, per
// §4.3's 15-level precision table. The julian->Gregorian conversion is
// gated exactly as decided for the preserved edge case: calendarmodel names
// Q1985786, year > 1, and the year's magnitude is at most 4 digits.
func TimeToText(timeValue string, precision int, calendarModel string, vars TimeVariables) (string, error) {
	m := timePattern.FindStringSubmatch(timeValue)
	if m == nil {
		return "", fmt.Errorf("textify: malformed time string %q", timeValue)
	}
	sign := m[1]
	year, _ := strconv.ParseInt(m[2], 10, 64)
	if sign == "-" {
		year = -year
	}
	monthStr, dayStr := m[3], m[4]
	hour, minute, second := m[5], m[6], m[7]

	var month, day int
	if strings.Contains(calendarModel, "Q1985786") && year > 1 && len(strconv.FormatInt(abs64(year), 10)) <= 4 {
		mm := 1
		if monthStr != "00" {
			mm, _ = strconv.Atoi(monthStr)
		}
		dd := 1
		if dayStr != "00" {
			dd, _ = strconv.Atoi(dayStr)
		}
		gy, gm, gd := julianToGregorian(year, mm, dd)
		year, month, day = gy, gm, gd
	} else {
		month = 1
		if monthStr != "00" {
			month, _ = strconv.Atoi(monthStr)
		}
		day = 1
		if dayStr != "00" {
			day, _ = strconv.Atoi(dayStr)
		}
	}

	monthName := ""
	if month != 0 {
		monthName = vars.Months[month-1]
	}
	ad, bc := vars.AD, vars.BC

	switch precision {
	case 14:
		return fmt.Sprintf("%d %s %d %s:%s:%s", year, monthName, day, hour, minute, second), nil
	case 13:
		return fmt.Sprintf("%d %s %d %s:%s", year, monthName, day, hour, minute), nil
	case 12:
		return fmt.Sprintf("%d %s %d %s:00", year, monthName, day, hour), nil
	case 11:
		return fmt.Sprintf("%d %s %d", day, monthName, year), nil
	case 10:
		return fmt.Sprintf("%s %d", monthName, year), nil
	case 9:
		era := ""
		if year <= 0 {
			era = " " + bc
		}
		return fmt.Sprintf("%d%s", abs64(year), era), nil
	case 8:
		decade := (year / 10) * 10
		era := ad
		if year <= 0 {
			era = bc
		}
		return fmt.Sprintf("%d%s %s", abs64(decade), vars.DecadeSuffix, era), nil
	case 7:
		century := (abs64(year)-1)/100 + 1
		era := ad
		if year <= 0 {
			era = bc
		}
		return fmt.Sprintf("%d%s %s", century, vars.Century, era), nil
	case 6:
		millennium := (abs64(year)-1)/1000 + 1
		era := ad
		if year <= 0 {
			era = bc
		}
		return fmt.Sprintf("%d%s %s", millennium, vars.Millennium, era), nil
	case 5:
		era := ad
		if year <= 0 {
			era = bc
		}
		return fmt.Sprintf("%d %s %s", abs64(year)/10000, vars.TenThousandYears, era), nil
	case 4:
		era := ad
		if year <= 0 {
			era = bc
		}
		return fmt.Sprintf("%d %s %s", abs64(year)/100000, vars.HundredThousandYears, era), nil
	case 3:
		era := ad
		if year <= 0 {
			era = bc
		}
		return fmt.Sprintf("%d %s %s", abs64(year)/1000000, vars.MillionYears, era), nil
	case 2:
		era := ad
		if year <= 0 {
			era = bc
		}
		return fmt.Sprintf("%d %s %s", abs64(year)/10000000, vars.TensOfMillionsOfYears, era), nil
	case 1:
		era := ad
		if year <= 0 {
			era = bc
		}
		return fmt.Sprintf("%d %s %s", abs64(year)/100000000, vars.HundredMillionYears, era), nil
	case 0:
		era := ad
		if year <= 0 {
			era = bc
		}
		return fmt.Sprintf("%d %s %s", abs64(year)/1000000000, vars.BillionYears, era), nil
	default:
		return "", fmt.Errorf("textify: unknown time precision %d", precision)
	}
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// julianToGregorian applies the spec's fixed ordinal-day shift: add the
// difference between 1582-10-15 (Gregorian) and 1582-10-05 (Julian), i.e.
// exactly 10 days, to the proleptic-Gregorian reading of the numerals.
// This is not a true calendar conversion (the actual Julian/Gregorian gap
// widens over time, 12 days by the 19th century) — it reproduces the
// original's date(y,m,d).toordinal() + 10, preserved literally rather than
// "corrected" into an astronomically accurate conversion, since the guard
// (year > 1, magnitude <= 4 digits) is itself only an approximation the
// original accepted.
func julianToGregorian(y int64, m, d int) (int64, int, int) {
	shifted := time.Date(int(y), time.Month(m), d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 10)
	return int64(shifted.Year()), int(shifted.Month()), shifted.Day()
}
