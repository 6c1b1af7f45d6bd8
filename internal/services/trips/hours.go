package trips

import (
	"fmt"
	"strconv"
	"strings"
)

// Иконки времени суток (Material Icons)
const (
	IconDawn      = "bedtime"
	IconMorning   = "wb_sunny"
	IconAfternoon = "wb_twilight"
	IconEvening   = "nights_stay"
	IconUnknown   = "schedule"
)

// ParseClock переводит "14:30", "14:30:00", "4:00 AM", "4:00pm", "4:00 p.m." в минуты от полуночи
func ParseClock(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ".", "")

	meridiem := ""
	if strings.HasSuffix(s, "AM") || strings.HasSuffix(s, "PM") {
		meridiem = s[len(s)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) > 2 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || m < 0 || m > 59 {
		return 0, false
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return 0, false
		}
	}

	switch meridiem {
	case "":
		if h < 0 || h > 23 {
			return 0, false
		}
	default:
		if h < 1 || h > 12 {
			return 0, false
		}
		h %= 12
		if meridiem == "PM" {
			h += 12
		}
	}
	return h*60 + m, true
}

// FormatClock минуты от полуночи в "h:mm AM/PM"
func FormatClock(minutes int) string {
	minutes = ((minutes % (24 * 60)) + 24*60) % (24 * 60)
	h, m := minutes/60, minutes%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}

// NormalizeHoraDisplay приводит время к "h:mm AM/PM"; нераспознанное возвращается как есть
func NormalizeHoraDisplay(hora string) string {
	minutes, ok := ParseClock(hora)
	if !ok {
		return strings.TrimSpace(hora)
	}
	return FormatClock(minutes)
}

// IconFor иконка по часу отправления
func IconFor(hora string) string {
	minutes, ok := ParseClock(hora)
	if !ok {
		return IconUnknown
	}
	switch h := minutes / 60; {
	case h < 6:
		return IconDawn
	case h < 12:
		return IconMorning
	case h < 18:
		return IconAfternoon
	default:
		return IconEvening
	}
}
