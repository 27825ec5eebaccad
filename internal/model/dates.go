package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateValue is the structured alternative to free-text dates. Year is always
// set; Month (1-12) and Day are zero when absent.
type DateValue struct {
	Year      int  `json:"year"`
	Month     int  `json:"month,omitempty"`
	Day       int  `json:"day,omitempty"`
	IsPresent bool `json:"isPresent,omitempty"`
}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var (
	reYearOnly     = regexp.MustCompile(`^(\d{4})$`)
	reMonthYear    = regexp.MustCompile(`^([A-Za-z]{3})\s+(\d{4})$`)
	reDayMonthYear = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3})\s+(\d{4})$`)
	reSlashDate    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reISODate      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
)

// ParseDateString parses the free-text date formats the frontend produces:
// "2023", "Jan 2023", "15 Jan 2023", "MM/DD/YYYY", "YYYY-MM-DD" and the
// literals "present"/"current". Returns nil when nothing matches.
func ParseDateString(s string) *DateValue {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if low := strings.ToLower(s); low == "present" || low == "current" {
		return &DateValue{Year: time.Now().Year(), IsPresent: true}
	}

	if m := reYearOnly.FindStringSubmatch(s); m != nil {
		return &DateValue{Year: atoi(m[1])}
	}
	if m := reMonthYear.FindStringSubmatch(s); m != nil {
		if mo := monthNumber(m[1]); mo > 0 {
			return &DateValue{Year: atoi(m[2]), Month: mo}
		}
		return nil
	}
	if m := reDayMonthYear.FindStringSubmatch(s); m != nil {
		if mo := monthNumber(m[2]); mo > 0 {
			return &DateValue{Year: atoi(m[3]), Month: mo, Day: atoi(m[1])}
		}
		return nil
	}
	if m := reSlashDate.FindStringSubmatch(s); m != nil {
		mo, d := atoi(m[1]), atoi(m[2])
		if mo < 1 || mo > 12 {
			return nil
		}
		return &DateValue{Year: atoi(m[3]), Month: mo, Day: d}
	}
	if m := reISODate.FindStringSubmatch(s); m != nil {
		mo, d := atoi(m[2]), atoi(m[3])
		if mo < 1 || mo > 12 {
			return nil
		}
		return &DateValue{Year: atoi(m[1]), Month: mo, Day: d}
	}
	return nil
}

// FormatDate renders a DateValue for display: "Present", "15 Jan 2023",
// "Jan 2023" or "2023" depending on which parts are set.
func FormatDate(d DateValue) string {
	if d.IsPresent {
		return "Present"
	}
	if d.Month >= 1 && d.Month <= 12 {
		if d.Day > 0 {
			return fmt.Sprintf("%d %s %d", d.Day, monthNames[d.Month-1], d.Year)
		}
		return fmt.Sprintf("%s %d", monthNames[d.Month-1], d.Year)
	}
	return strconv.Itoa(d.Year)
}

func monthNumber(name string) int {
	low := strings.ToLower(name)
	for i, m := range monthNames {
		if strings.ToLower(m) == low {
			return i + 1
		}
	}
	return 0
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
