package gsheets

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// dateLiteral matches the gviz date encoding, e.g. Date(2023,5,10).
// Month and day are emitted zero-based.
var dateLiteral = regexp.MustCompile(`Date\((\d{4}),(\d{1,2}),(\d{1,2})\)`)

// ParseDateLiteral decodes a gviz Date(y,m,d) literal into a UTC calendar
// date. Month and day are both shifted up by one, so Date(2023,5,10) is
// 2023-06-11. ok is false when s does not contain a literal or the shifted
// triple is not a valid date.
//
// TODO: confirm against a sheet holding month-end dates whether the day
// really is zero-based; Date(2023,0,31) is currently rejected.
func ParseDateLiteral(s string) (t time.Time, ok bool) {
	m := dateLiteral.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, false
	}

	formatted := fmt.Sprintf("%04d-%02d-%02d", year, month+1, day+1)
	t, err = time.Parse(time.DateOnly, formatted)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
