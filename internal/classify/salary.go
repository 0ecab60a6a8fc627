package classify

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	salaryNumberRe = regexp.MustCompile(`\d+\.?\d*`)
	hourlyRe       = regexp.MustCompile(`(?i)(hour|hr|/hr|per hour)`)
)

// ParseSalary extracts an annualized USD range from a free-form salary string.
// Hourly rates are annualized at 2080 hours (40h × 52wk) before the small-
// number filter so "$45/hour" survives it; values ≤100 after annualization are
// treated as stray digits (e.g. the 4 in "401k") and dropped.
//
// Returns (min, max) when two or more numbers remain, (n, n) for exactly one,
// and (nil, nil) otherwise.
func ParseSalary(s string) (*int, *int) {
	if s == "" {
		return nil, nil
	}

	hourly := hourlyRe.MatchString(s)
	stripped := strings.ReplaceAll(s, ",", "")

	var nums []int
	for _, tok := range salaryNumberRe.FindAllString(stripped, -1) {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		if hourly {
			f *= 2080
		}
		if f <= 100 {
			continue
		}
		nums = append(nums, int(f))
	}

	switch {
	case len(nums) >= 2:
		lo, hi := nums[0], nums[0]
		for _, n := range nums[1:] {
			if n < lo {
				lo = n
			}
			if n > hi {
				hi = n
			}
		}
		return &lo, &hi
	case len(nums) == 1:
		n := nums[0]
		return &n, &n
	default:
		return nil, nil
	}
}
