package scale

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAM-Haris-K/NFX/internal/domain"
)

func TestForwardInvertRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))

	cases := []struct {
		name string
		dom  Extent
		out  Extent
		kind Kind
	}{
		{"pixels up", Extent{0, 20}, Extent{0, 200}, Temporal},
		{"pixels down", Extent{0, 950}, Extent{330, 0}, Linear},
		{"epoch millis", Extent{1.70e12, 1.70e12 + 7*24*3600e3}, Extent{0, 720}, Temporal},
		{"negative domain", Extent{-50, 50}, Extent{10, 610}, Temporal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Make(tc.dom, tc.out, tc.kind, WithPad(0), WithBaseline(false))
			require.NoError(t, err)

			d := s.Domain()
			for i := 0; i < 1000; i++ {
				x := d.Min + rng.Float64()*(d.Max-d.Min)
				got := s.Invert(s.Forward(x))
				tol := 1e-9 * math.Max(math.Abs(x), 1)
				require.InDelta(t, x, got, tol, "x=%v", x)
			}
		})
	}
}

func TestForwardAffine(t *testing.T) {
	s, err := Make(Extent{0, 20}, Extent{0, 200}, Temporal)
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Forward(0))
	assert.Equal(t, 200.0, s.Forward(20))
	assert.InDelta(t, 55.0, s.Forward(5.5), 1e-9)
	assert.InDelta(t, 5.5, s.Invert(55), 1e-9)
	assert.Equal(t, -50.0, s.Forward(-5))
}

func TestDegenerateDomainReturnsMidpoint(t *testing.T) {
	for _, kind := range []Kind{Linear, Temporal} {
		s, err := Make(Extent{7, 7}, Extent{100, 300}, kind, WithBaseline(false))
		require.NoError(t, err)

		for _, x := range []float64{-1e9, 0, 7, 42, 1e12} {
			got := s.Forward(x)
			assert.Equal(t, 200.0, got, "kind=%s x=%v", kind, x)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
		}
		assert.Equal(t, 7.0, s.Invert(123))
	}
}

func TestDegenerateLinearDomainSkipsPadding(t *testing.T) {
	s, err := Make(Extent{7, 7}, Extent{100, 300}, Linear)
	require.NoError(t, err)
	assert.Equal(t, Extent{7, 7}, s.Domain())
	assert.Equal(t, 200.0, s.Forward(7))
	assert.Equal(t, 200.0, s.Forward(42))
	assert.Equal(t, 7.0, s.Invert(123))

	s, err = Make(Extent{7, 7}, Extent{100, 300}, Linear, WithPad(0.5), WithNice(5))
	require.NoError(t, err)
	assert.Equal(t, Extent{7, 7}, s.Domain())
	assert.Equal(t, 200.0, s.Forward(0))
}

func TestDegenerateRangeInvert(t *testing.T) {
	s, err := Make(Extent{0, 10}, Extent{5, 5}, Temporal)
	require.NoError(t, err)
	assert.Equal(t, 5.0, s.Invert(99))
	assert.Equal(t, 5.0, s.Forward(3))
}

func TestLinearHeadroomAndBaseline(t *testing.T) {
	s, err := Make(Extent{200, 1000}, Extent{400, 0}, Linear)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Domain().Min)
	assert.InDelta(t, 1100, s.Domain().Max, 1e-9)

	s, err = Make(Extent{200, 1000}, Extent{400, 0}, Linear, WithBaseline(false), WithPad(0.5))
	require.NoError(t, err)
	assert.Equal(t, 200.0, s.Domain().Min)
	assert.InDelta(t, 1500, s.Domain().Max, 1e-9)

	s, err = Make(Extent{0, 440}, Extent{400, 0}, Linear, WithPad(0), WithNice(5))
	require.NoError(t, err)
	assert.Equal(t, 500.0, s.Domain().Max)

	s, err = Make(Extent{0, 0}, Extent{400, 0}, Linear)
	require.NoError(t, err)
	assert.Equal(t, 200.0, s.Forward(0))
}

func TestTemporalIgnoresHeadroom(t *testing.T) {
	s, err := Make(Extent{10, 20}, Extent{0, 100}, Temporal, WithPad(0.5))
	require.NoError(t, err)
	assert.Equal(t, Extent{10, 20}, s.Domain())
}

func TestEmptySequenceIsEmptyDomain(t *testing.T) {
	var seq domain.Sequence

	_, err := ForSequence(seq, Extent{0, 100}, Linear)
	assert.True(t, errors.Is(err, ErrEmptyDomain))
	_, err = ForSequence(seq, Extent{0, 100}, Temporal)
	assert.True(t, errors.Is(err, ErrEmptyDomain))

	_, err = Make(Extent{math.NaN(), 1}, Extent{0, 1}, Linear)
	assert.True(t, errors.Is(err, ErrEmptyDomain))
}

func TestForSequenceExtents(t *testing.T) {
	base := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	seq := domain.NewSequence("s", time.Hour, []domain.Sample{
		{Timestamp: base, Value: 40},
		{Timestamp: base.Add(time.Hour), Value: 100},
		{Timestamp: base.Add(2 * time.Hour), Value: 10},
	})

	x, err := ForSequence(seq, Extent{0, 300}, Temporal)
	require.NoError(t, err)
	assert.Equal(t, 0.0, x.ForwardTime(base))
	assert.Equal(t, 150.0, x.ForwardTime(base.Add(time.Hour)))
	assert.True(t, x.InvertTime(300).Equal(base.Add(2*time.Hour)))

	y, err := ForSequence(seq, Extent{110, 0}, Linear)
	require.NoError(t, err)
	assert.InDelta(t, 0, y.Forward(110), 1e-9)
	assert.InDelta(t, 10, y.Forward(100), 1e-9)
}

func TestTimeValueRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 6, 13, 45, 12, 250_000_000, time.UTC)
	assert.True(t, ValueTime(TimeValue(ts)).Equal(ts))
}
