package gateway

import (
	"testing"
	"time"
)

func TestTTLFor(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		hints Hints
		want  time.Duration
	}{
		{"live", Hints{Live: true}, TTLLive},
		{"live wins over date", Hints{Live: true, Date: now}, TTLLive},
		{"slow tier", Hints{Slow: true}, TTLRates},
		{"today", Hints{Date: now.Add(6 * time.Hour)}, TTLToday},
		{"yesterday", Hints{Date: now.AddDate(0, 0, -1)}, TTLSlow},
		{"next week", Hints{Date: now.AddDate(0, 0, 7)}, TTLSlow},
		{"no hints", Hints{}, TTLSlow},
	}

	for _, tt := range tests {
		if got := TTLFor(tt.hints, now); got != tt.want {
			t.Errorf("TTLFor(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
