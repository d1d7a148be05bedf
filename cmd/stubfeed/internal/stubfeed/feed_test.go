package stubfeed_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mohitrana7/Stock-Predictor/cmd/stubfeed/internal/stubfeed"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedRand struct{ v float64 }

func (r fixedRand) Float64() float64 { return r.v }

func serve(t *testing.T, f *stubfeed.Feed, target string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Status %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return body
}

func newFeed(base map[string]float64, rnd stubfeed.Rand) *stubfeed.Feed {
	clock := fixedClock{t: time.Date(2024, 5, 20, 15, 59, 0, 0, time.UTC)}
	return stubfeed.New(zap.NewNop(), base, rnd, clock)
}

func TestFeed_ResponseShape(t *testing.T) {
	f := newFeed(map[string]float64{"RELIANCE.NS": 2950}, fixedRand{v: 0.5}) // fluctuation 0

	body := serve(t, f, "/query?symbol=RELIANCE.NS")

	series, ok := body["Time Series (1min)"].(map[string]interface{})
	if !ok {
		t.Fatalf("Missing time series: %v", body)
	}
	bucket, ok := series["2024-05-20 15:59:00"].(map[string]interface{})
	if !ok {
		t.Fatalf("Missing clock-stamped bucket: %v", series)
	}
	if bucket["1. open"] != "2950.00" {
		t.Errorf("Expected open 2950.00, got %v", bucket["1. open"])
	}
	if bucket["5. volume"] == "" {
		t.Error("Expected a volume value")
	}
}

func TestFeed_RandomWalkAdvances(t *testing.T) {
	// Float64 = 1.0 -> fluctuation +5 per request.
	f := newFeed(map[string]float64{"TCS.NS": 100}, fixedRand{v: 1.0})

	first := serve(t, f, "/query?symbol=TCS.NS")
	second := serve(t, f, "/query?symbol=TCS.NS")

	open := func(body map[string]interface{}) string {
		series := body["Time Series (1min)"].(map[string]interface{})
		for _, v := range series {
			return v.(map[string]interface{})["1. open"].(string)
		}
		return ""
	}

	if open(first) != "105.00" {
		t.Errorf("Expected 105.00 after first walk step, got %v", open(first))
	}
	if open(second) != "110.00" {
		t.Errorf("Expected 110.00 after second walk step, got %v", open(second))
	}
}

func TestFeed_UnknownSymbolStartsAtDefault(t *testing.T) {
	f := newFeed(nil, fixedRand{v: 0.5})

	body := serve(t, f, "/query?symbol=UNKNOWN.NS")
	series := body["Time Series (1min)"].(map[string]interface{})
	for _, v := range series {
		if v.(map[string]interface{})["1. open"] != "1000.00" {
			t.Errorf("Expected default base 1000.00, got %v", v)
		}
	}
}

func TestFeed_MissingSymbolRejected(t *testing.T) {
	f := newFeed(nil, fixedRand{v: 0.5})

	req := httptest.NewRequest("GET", "/query", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Errorf("Expected 400 for missing symbol, got %d", rec.Code)
	}
}
