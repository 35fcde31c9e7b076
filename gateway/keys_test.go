package gateway

import (
	"strings"
	"testing"
	"time"
)

func TestKeyIgnoresParamOrder(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a := Params{}.SetInt("league", 5).SetDate("date", date)
	b := Params{}.SetDate("date", date).SetInt("league", 5)

	ka, kb := Key("fixtures", a), Key("fixtures", b)
	if ka != kb {
		t.Errorf("Key() order-dependent: %q vs %q", ka, kb)
	}
	if ka != "fixtures?date=2024-01-01&league=5" {
		t.Errorf("unexpected key %q", ka)
	}
}

func TestKeyRoundsCoordinates(t *testing.T) {
	tests := []struct {
		a, b float64
		same bool
	}{
		{4.7110, 4.711, true},    // trailing zero
		{4.71104, 4.711, true},   // below rounding threshold
		{4.7110, 4.7121, false}, // materially different
		{-74.0721, -74.0714, false},
		{-74.07209, -74.0721, true},
	}

	for _, tt := range tests {
		ka := Key("weather", Params{}.SetCoord("lat", tt.a))
		kb := Key("weather", Params{}.SetCoord("lat", tt.b))
		if (ka == kb) != tt.same {
			t.Errorf("Key(%v) = %q, Key(%v) = %q, want same=%v", tt.a, ka, tt.b, kb, tt.same)
		}
	}
}

func TestKeyOmitsUnsetParams(t *testing.T) {
	p := Params{}.
		Set("timezone", "").
		SetInt("team", 0).
		SetBool("live", false).
		SetDate("date", time.Time{}).
		SetInt("league", 5)

	got := Key("fixtures", p)
	if got != "fixtures?league=5" {
		t.Errorf("unset params leaked into key: %q", got)
	}
}

func TestKeyEscapesFreeTextValues(t *testing.T) {
	a := Key("teams", Params{}.Set("t", "a&b=c"))
	b := Key("teams", Params{}.Set("t", "a").Set("b", "c"))
	if a == b {
		t.Errorf("free-text value collided with a different parameter set: %q", a)
	}
}

func TestKeyNoParams(t *testing.T) {
	if got := Key("rates", Params{}); got != "rates" {
		t.Errorf("Key with no params = %q, want %q", got, "rates")
	}
}

func TestKeyHashesLongKeys(t *testing.T) {
	p := Params{}
	for i := 0; i < 40; i++ {
		p.SetInt("param"+strings.Repeat("x", i), i+1)
	}
	got := Key("fixtures", p)
	if len(got) > 200 {
		t.Errorf("long key not hashed, len=%d", len(got))
	}
	if !strings.HasPrefix(got, "fixtures?hash_") {
		t.Errorf("hashed key lost domain prefix: %q", got)
	}
}
