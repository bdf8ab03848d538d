package scale

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Tick is an axis mark in domain units with its pixel position and label.
type Tick struct {
	Value float64
	Pixel float64
	Label string
}

// Ticks returns up to about n marks inside the domain. Linear scales step by
// 1/2/2.5/5/10 multiples of a power of ten; temporal scales step by a
// calendar-friendly duration picked from the span.
func (s Scale) Ticks(n int) []Tick {
	if n < 2 || s.domain.span() <= 0 {
		return nil
	}
	if s.kind == Temporal {
		return s.timeTicks()
	}

	step := niceStep(s.domain.Min, s.domain.Max, n)
	start := math.Ceil(s.domain.Min/step) * step
	ticks := make([]Tick, 0, n+2)
	for v := start; v <= s.domain.Max+step*1e-9; v += step {
		ticks = append(ticks, Tick{Value: v, Pixel: s.Forward(v), Label: FormatValue(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func (s Scale) timeTicks() []Tick {
	minT := ValueTime(s.domain.Min).UTC()
	maxT := ValueTime(s.domain.Max).UTC()
	step, layout := pickTimeStep(maxT.Sub(minT))

	st := int64(step / time.Second)
	aligned := time.Unix((minT.Unix()/st)*st, 0).UTC()
	if aligned.Before(minT) {
		aligned = aligned.Add(step)
	}

	var ticks []Tick
	for t := aligned; !t.After(maxT); t = t.Add(step) {
		v := TimeValue(t)
		ticks = append(ticks, Tick{Value: v, Pixel: s.Forward(v), Label: t.Format(layout)})
		if len(ticks) > 20 {
			break
		}
	}
	return ticks
}

// niceStep picks the 1/2/2.5/5/10 step whose tick count is closest to n.
func niceStep(min, max float64, n int) float64 {
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	best := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			best = step
		}
	}
	return best
}

func niceCeil(min, max float64, n int) float64 {
	step := niceStep(min, max, n)
	return math.Ceil(max/step) * step
}

// pickTimeStep selects a readable step and label layout for a time span.
func pickTimeStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 2*time.Minute:
		return 10 * time.Second, "15:04:05"
	case span <= 10*time.Minute:
		return time.Minute, "15:04"
	case span <= 30*time.Minute:
		return 5 * time.Minute, "15:04"
	case span <= 2*time.Hour:
		return 10 * time.Minute, "15:04"
	case span <= 6*time.Hour:
		return 30 * time.Minute, "15:04"
	case span <= 24*time.Hour:
		return 2 * time.Hour, "15:04"
	case span <= 3*24*time.Hour:
		return 6 * time.Hour, "Jan 2 15:04"
	case span <= 14*24*time.Hour:
		return 24 * time.Hour, "Jan 2"
	default:
		return 7 * 24 * time.Hour, "Jan 2"
	}
}

// FormatValue renders a magnitude the way the traffic axis labels it:
// thousands as "1.2k", smaller values as integers.
func FormatValue(v float64) string {
	if math.Abs(v) >= 1000 {
		return fmt.Sprintf("%.1fk", v/1000)
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
