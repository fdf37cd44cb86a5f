package clock

import (
	"fmt"
	"math"
)

// DefaultHour and DefaultMinute are the face an interactive clock starts from.
const (
	DefaultHour   = 12
	DefaultMinute = 0
)

// Face is a render-ready snapshot of an analog clock.
type Face struct {
	Hour        int     `json:"hour"`
	Minute      int     `json:"minute"`
	HourAngle   float64 `json:"hourAngle"`
	MinuteAngle float64 `json:"minuteAngle"`
	Digital     string  `json:"digital"`
	Spoken      string  `json:"spoken"`
}

// NewFace builds the face for hour:minute.
func NewFace(hour, minute int) Face {
	return Face{
		Hour:        hour,
		Minute:      minute,
		HourAngle:   HourAngle(hour),
		MinuteAngle: MinuteAngle(minute),
		Digital:     Digital(hour, minute),
		Spoken:      Spoken(hour, minute),
	}
}

// HourAngle points the short hand exactly at the hour numeral; it never
// creeps toward the next hour as minutes pass.
func HourAngle(hour int) float64 {
	return float64(hour%12) * 30
}

// MinuteAngle returns the long hand rotation in degrees.
func MinuteAngle(minute int) float64 {
	return float64(minute) * 6
}

// NextHour advances the hour by one, wrapping 12 to 1.
func NextHour(hour int) int {
	next := (hour + 1 + 12) % 12
	if next == 0 {
		next = 12
	}
	return next
}

// ToggleMinute flips between quarter past and half past. Any other value
// (including the 00 default) lands on 15.
func ToggleMinute(minute int) int {
	if minute == 15 {
		return 30
	}
	return 15
}

// Digital formats the time the way a digital clock card shows it, e.g. "05:15".
func Digital(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Spoken formats the time for narration, e.g. "3 giờ 15 phút".
func Spoken(hour, minute int) string {
	return fmt.Sprintf("%d giờ %d phút", hour, minute)
}

// Numeral is a dial number placed in percent coordinates of the face box.
type Numeral struct {
	Value int     `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Numerals lays out 1..12 on a circle of radius 40% around the center.
func Numerals() []Numeral {
	out := make([]Numeral, 0, 12)
	for n := 1; n <= 12; n++ {
		rad := float64(n*30-90) * math.Pi / 180
		out = append(out, Numeral{
			Value: n,
			X:     50 + 40*math.Cos(rad),
			Y:     50 + 40*math.Sin(rad),
		})
	}
	return out
}
