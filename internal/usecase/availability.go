package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sportsbooking/internal/domain/model"
)

const dateLayout = "2006-01-02"

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

type SlotAvailability struct {
	StartTime    string     `json:"startTime"`
	EndTime      string     `json:"endTime"`
	PricePerHour int64      `json:"pricePerHour"`
	Status       SlotStatus `json:"status"`
}

type FieldAvailability struct {
	ID    int64              `json:"id"`
	Name  string             `json:"name"`
	Slots []SlotAvailability `json:"slots"`
}

// YYYY-MM-DDをlocの0時として読む
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
}

// 土日
func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// その日の 00:00:00.000 〜 23:59:59.999
func DayWindow(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// "HH:MM" を0時からの経過時間に。終端として "24:00" も許す
func ParseClock(s string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// コートごとに、その日の区分（平日/週末）の料金枠を予約と突き合わせる。
// 予約は日の範囲に切り詰めてから時刻同士で比較し、端が接するだけなら重なりとみなさない
func ComputeAvailability(fields []model.Field, day time.Time) ([]FieldAvailability, error) {
	dayStart, _ := DayWindow(day)
	dayLen := dayStart.AddDate(0, 0, 1).Sub(dayStart)
	weekend := IsWeekend(dayStart)

	out := make([]FieldAvailability, 0, len(fields))
	for _, f := range fields {
		type span struct{ start, end time.Duration }
		booked := make([]span, 0, len(f.Bookings))
		for _, b := range f.Bookings {
			if !b.Status.Occupying() {
				continue
			}
			booked = append(booked, span{
				start: clip(b.StartTime.Sub(dayStart), dayLen),
				end:   clip(b.EndTime.Sub(dayStart), dayLen),
			})
		}

		slots := make([]SlotAvailability, 0, len(f.Pricings))
		for _, p := range f.Pricings {
			if p.IsWeekend != weekend {
				continue
			}
			start, err := ParseClock(p.StartTime)
			if err != nil {
				return nil, fmt.Errorf("field %d pricing %d: %w", f.ID, p.ID, err)
			}
			end, err := ParseClock(p.EndTime)
			if err != nil {
				return nil, fmt.Errorf("field %d pricing %d: %w", f.ID, p.ID, err)
			}

			status := SlotAvailable
			for _, b := range booked {
				if b.start < end && b.end > start {
					status = SlotBooked
					break
				}
			}
			slots = append(slots, SlotAvailability{
				StartTime:    p.StartTime,
				EndTime:      p.EndTime,
				PricePerHour: p.PricePerHour,
				Status:       status,
			})
		}

		out = append(out, FieldAvailability{ID: f.ID, Name: f.Name, Slots: slots})
	}
	return out, nil
}

func clip(d, max time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > max {
		return max
	}
	return d
}
