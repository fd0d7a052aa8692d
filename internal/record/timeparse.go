package record

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Exports annotate times with a parenthesized zone like "(UTC+5)". The
// annotation is stripped and the remainder is parsed as naive local
// wall-clock time; malformed values fall back to now so the record stays
// visible rather than being dropped.
var zoneSuffixRe = regexp.MustCompile(`\([^)]*\)\s*$`)

// ParseUnifiedTime parses a unified-schema timestamp:
// "DD/MM/YYYY HH:MM:SS(UTC+N)".
func ParseUnifiedTime(s string) time.Time {
	s = strings.TrimSpace(zoneSuffixRe.ReplaceAllString(s, ""))
	parts := strings.SplitN(s, " ", 2)
	if len(parts) != 2 {
		return time.Now()
	}
	d := strings.Split(parts[0], "/")
	if len(d) != 3 {
		return time.Now()
	}
	iso := fmt.Sprintf("%s-%s-%sT%s", d[2], d[1], d[0], strings.TrimSpace(parts[1]))
	t, err := time.ParseInLocation("2006-01-02T15:04:05", iso, time.Local)
	if err != nil {
		return time.Now()
	}
	return t
}

// ParseLegacyTime parses a legacy-schema time object: date "DD/MM/YYYY"
// plus time "HH:MM:SS(UTC+N)".
func ParseLegacyTime(lt *LegacyTime) time.Time {
	if lt == nil {
		return time.Now()
	}
	d := strings.Split(strings.TrimSpace(lt.Date), "/")
	if len(d) != 3 {
		return time.Now()
	}
	clock := strings.TrimSpace(zoneSuffixRe.ReplaceAllString(lt.Time, ""))
	t, err := time.ParseInLocation("01/02/2006 15:04:05",
		fmt.Sprintf("%s/%s/%s %s", d[1], d[0], d[2], clock), time.Local)
	if err != nil {
		return time.Now()
	}
	return t
}
