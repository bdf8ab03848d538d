package locate

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/scale"
)

func msSequence(points ...[2]float64) domain.Sequence {
	samples := make([]domain.Sample, len(points))
	for i, p := range points {
		samples[i] = domain.Sample{Timestamp: time.UnixMilli(int64(p[0])), Value: p[1]}
	}
	return domain.NewSequence("test", 10*time.Millisecond, samples)
}

func threePoints(t *testing.T) (domain.Sequence, scale.Scale) {
	t.Helper()
	seq := msSequence([2]float64{0, 10}, [2]float64{10, 20}, [2]float64{20, 30})
	x, err := scale.Make(scale.Extent{Min: 0, Max: 20}, scale.Extent{Min: 0, Max: 200}, scale.Temporal)
	require.NoError(t, err)
	return seq, x
}

func TestLocateNearest(t *testing.T) {
	seq, x := threePoints(t)

	cases := []struct {
		pixel float64
		want  float64
	}{
		{49, 10},  // t=4.9, closer to t=0
		{50, 10},  // t=5, tie resolves to the earlier sample
		{55, 20},  // t=5.5, 4.5 from t=10 vs 5.5 from t=0
		{149, 20}, // t=14.9
		{151, 30}, // t=15.1
		{100, 20}, // exact hit
		{200, 30},
	}
	for _, tc := range cases {
		got, err := Locate(seq, tc.pixel, x)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Value, "pixel %v", tc.pixel)
	}
}

func TestLocateClampsToEdges(t *testing.T) {
	seq, x := threePoints(t)

	first, err := Locate(seq, -50, x) // t=-5
	require.NoError(t, err)
	assert.Equal(t, 10.0, first.Value)

	last, err := Locate(seq, 250, x) // t=25
	require.NoError(t, err)
	assert.Equal(t, 30.0, last.Value)
}

func TestLocateEmpty(t *testing.T) {
	_, x := threePoints(t)

	_, err := Locate(domain.Sequence{}, 10, x)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = Index(nil, 0)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestLocateSingleSample(t *testing.T) {
	seq := msSequence([2]float64{5, 1})
	x, err := scale.ForSequence(seq, scale.Extent{Min: 0, Max: 100}, scale.Temporal)
	require.NoError(t, err)

	for _, px := range []float64{-10, 0, 50, 100, 1e6} {
		got, err := Locate(seq, px, x)
		require.NoError(t, err)
		assert.Equal(t, 1.0, got.Value)
	}
}

// Index must agree with a linear nearest-neighbour scan.
func TestIndexMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(60)
		samples := make([]domain.Sample, n)
		ts := int64(rng.Intn(100))
		for i := range samples {
			ts += 1 + int64(rng.Intn(30))
			samples[i] = domain.Sample{Timestamp: time.UnixMilli(ts), Value: float64(i)}
		}

		for q := 0; q < 20; q++ {
			target := rng.Float64()*float64(ts+100) - 50
			got, err := Index(samples, target)
			require.NoError(t, err)

			best := math.Inf(1)
			for _, s := range samples {
				best = math.Min(best, math.Abs(scale.TimeValue(s.Timestamp)-target))
			}
			dist := math.Abs(scale.TimeValue(samples[got].Timestamp) - target)
			require.Equal(t, best, dist, "trial %d target %v", trial, target)
		}
	}
}

func BenchmarkIndex(b *testing.B) {
	samples := make([]domain.Sample, 1<<16)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range samples {
		samples[i] = domain.Sample{Timestamp: base.Add(time.Duration(i) * time.Minute)}
	}
	hi := scale.TimeValue(samples[len(samples)-1].Timestamp)
	lo := scale.TimeValue(base)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		target := lo + float64(i%1000)/1000*(hi-lo)
		if _, err := Index(samples, target); err != nil {
			b.Fatal(err)
		}
	}
}
