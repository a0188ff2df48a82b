package weekplan

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports a malformed line of a textual week plan.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("weekplan: line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a textual week plan. Each non-empty line names a weekday
// followed by comma separated HH:MM-HH:MM ranges, for example
//
//	Mo 08:00-12:00, 13:00-18:00
//	Saturday 10:00-14:00
//
// Text after '#' is ignored. The returned slots are sorted.
func Parse(text string) ([]Slot, error) {
	var slots []Slot
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := raw
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		day, err := ParseWeekday(fields[0])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: raw, Err: err}
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		if rest == "" {
			return nil, &ParseError{Line: lineNo, Text: raw, Err: fmt.Errorf("no time ranges for %s", day)}
		}

		for _, part := range strings.Split(rest, ",") {
			slot, err := parseRange(day, strings.TrimSpace(part))
			if err != nil {
				return nil, &ParseError{Line: lineNo, Text: raw, Err: err}
			}
			slots = append(slots, slot)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	SortSlots(slots)
	return slots, nil
}

// Format renders slots in the form accepted by Parse, one line per weekday.
func Format(slots []Slot) string {
	sorted := append([]Slot(nil), slots...)
	SortSlots(sorted)

	var b strings.Builder
	for i, slot := range sorted {
		if i == 0 || sorted[i-1].Weekday != slot.Weekday {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(slot.Weekday.Short())
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(FormatClock(slot.Start))
		b.WriteByte('-')
		b.WriteString(FormatClock(slot.End))
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}

func parseRange(day Weekday, value string) (Slot, error) {
	startText, endText, ok := strings.Cut(value, "-")
	if !ok {
		return Slot{}, fmt.Errorf("range %q must look like HH:MM-HH:MM", value)
	}
	start, err := ParseClock(startText)
	if err != nil {
		return Slot{}, err
	}
	end, err := ParseClock(endText)
	if err != nil {
		return Slot{}, err
	}
	slot := Slot{Weekday: day, Start: start, End: end}
	if err := slot.Validate(); err != nil {
		return Slot{}, err
	}
	return slot, nil
}

// ParseClock parses HH:MM into an offset from midnight. 24:00 is accepted as
// the end of the day.
func ParseClock(value string) (time.Duration, error) {
	hText, mText, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("time %q must look like HH:MM", value)
	}
	hours, err := strconv.Atoi(hText)
	if err != nil {
		return 0, fmt.Errorf("time %q has invalid hours", value)
	}
	minutes, err := strconv.Atoi(mText)
	if err != nil || len(mText) != 2 {
		return 0, fmt.Errorf("time %q has invalid minutes", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("time %q is out of range", value)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// FormatClock renders an offset from midnight as HH:MM.
func FormatClock(offset time.Duration) string {
	minutes := int(offset / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
