// Package locate resolves pointer positions to the nearest sample of an
// ascending sequence. It runs on every pointer move, so lookups are a
// binary search rather than a scan.
package locate

import (
	"errors"
	"sort"

	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/scale"
)

// ErrNoData is returned when locating over an empty sequence.
var ErrNoData = errors.New("locate: no data")

// Locate inverts pixelX through xScale and returns the sample whose
// timestamp is closest to the resulting instant.
func Locate(seq domain.Sequence, pixelX float64, xScale scale.Scale) (domain.Sample, error) {
	samples := seq.View()
	i, err := Index(samples, xScale.Invert(pixelX))
	if err != nil {
		return domain.Sample{}, err
	}
	return samples[i], nil
}

// Index returns the position of the sample nearest to target, expressed in
// the temporal domain unit. Targets outside the sequence clamp to the first
// or last sample; equidistant neighbours resolve to the earlier one.
func Index(samples []domain.Sample, target float64) (int, error) {
	n := len(samples)
	if n == 0 {
		return 0, ErrNoData
	}

	// first i with samples[i] > target, so samples[i-1] <= target < samples[i]
	i := sort.Search(n, func(i int) bool {
		return scale.TimeValue(samples[i].Timestamp) > target
	})

	switch {
	case i == 0:
		return 0, nil
	case i == n:
		return n - 1, nil
	}

	before := target - scale.TimeValue(samples[i-1].Timestamp)
	after := scale.TimeValue(samples[i].Timestamp) - target
	if after < before {
		return i, nil
	}
	return i - 1, nil
}
