package domain

import (
	"testing"
	"time"
)

func TestNewSequenceSortsAndCopies(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	in := []Sample{
		{Timestamp: base.Add(2 * time.Hour), Value: 3},
		{Timestamp: base, Value: 1},
		{Timestamp: base.Add(time.Hour), Value: 2},
	}
	seq := NewSequence("s", time.Hour, in)

	in[0].Value = 99
	for i := 0; i < seq.Len(); i++ {
		if seq.At(i).Value != float64(i+1) {
			t.Fatalf("sample %d value=%v", i, seq.At(i).Value)
		}
	}

	out := seq.Samples()
	out[0].Value = 42
	if seq.At(0).Value != 1 {
		t.Fatalf("Samples must return a copy, got %v", seq.At(0).Value)
	}
}

func TestSequenceFilterAndTotals(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	seq := NewSequence("s", time.Hour, []Sample{
		{Timestamp: base, Value: 10, Protocol: ProtocolTCP},
		{Timestamp: base, Value: 5, Protocol: ProtocolUDP},
		{Timestamp: base.Add(time.Hour), Value: 20, Protocol: ProtocolTCP},
		{Timestamp: base.Add(time.Hour), Value: 7, Protocol: ProtocolUDP},
	})

	tcp := seq.Filter(ProtocolTCP)
	if tcp.Len() != 2 || tcp.At(0).Value != 10 || tcp.At(1).Value != 20 {
		t.Fatalf("unexpected tcp partition: %+v", tcp.Samples())
	}
	if icmp := seq.Filter(ProtocolICMP); icmp.Len() != 0 {
		t.Fatalf("expected empty icmp partition, got %d", icmp.Len())
	}

	totals := seq.Totals()
	if totals.Len() != 2 {
		t.Fatalf("totals len=%d", totals.Len())
	}
	if totals.At(0).Value != 15 || totals.At(1).Value != 27 {
		t.Fatalf("totals=%+v", totals.Samples())
	}
	if totals.At(0).Protocol != "" {
		t.Fatalf("totals should be untagged, got %s", totals.At(0).Protocol)
	}
}

func TestSequenceStats(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	seq := NewSequence("s", time.Hour, []Sample{
		{Timestamp: base, Value: 10},
		{Timestamp: base.Add(time.Hour), Value: 30},
		{Timestamp: base.Add(2 * time.Hour), Value: 20},
	})

	st := seq.Stats()
	if st.Count != 3 || st.Min != 10 || st.Max != 30 || st.Mean != 20 || st.Total != 60 {
		t.Fatalf("stats=%+v", st)
	}
	if st.P95 != 30 {
		t.Fatalf("p95=%v", st.P95)
	}
	if !st.From.Equal(base) || !st.To.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("from/to=%s/%s", st.From, st.To)
	}

	if empty := (Sequence{}).Stats(); empty.Count != 0 {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func TestParseProtocol(t *testing.T) {
	t.Parallel()

	p, err := ParseProtocol(" https ")
	if err != nil || p != ProtocolHTTPS {
		t.Fatalf("ParseProtocol=%q err=%v", p, err)
	}
	if _, err := ParseProtocol("SSH"); err == nil {
		t.Fatalf("expected error for unknown protocol")
	}
}
