package health

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/cache"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestNewAggregator_Defaults(t *testing.T) {
	agg := NewAggregator()
	if agg.config.Timeout != time.Minute {
		t.Errorf("Timeout = %v, want 1m", agg.config.Timeout)
	}
	if agg.config.Parallel != 4 {
		t.Errorf("Parallel = %d, want 4", agg.config.Parallel)
	}

	for _, cfg := range []AggregatorConfig{{}, {Timeout: -time.Second, Parallel: -3}} {
		agg = NewAggregator(cfg)
		if agg.config.Timeout != DefaultTimeout || agg.config.Parallel != DefaultParallel {
			t.Errorf("NewAggregator(%+v) config = %+v, want the defaults", cfg, agg.config)
		}
	}

	agg = NewAggregator(AggregatorConfig{Parallel: 1})
	if agg.config.Parallel != 1 {
		t.Errorf("explicit Parallel = %d, want 1", agg.config.Parallel)
	}
}

func TestAggregator_RegisterKeepsOrder(t *testing.T) {
	agg := NewAggregator()
	for _, name := range []string{"b", "a", "c", "a"} {
		agg.Register(NewCheckerFunc(name, func(context.Context) Result { return Healthy(name) }))
	}

	got := strings.Join(agg.CheckerNames(), ",")
	if got != "b,a,c" {
		t.Errorf("CheckerNames = %s, want b,a,c", got)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"one unhealthy", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			for i, s := range tt.statuses {
				name := string(rune('a' + i))
				agg.Register(NewCheckerFunc(name, func(context.Context) Result {
					return Result{Status: s, Message: name}
				}))
			}

			report := agg.CheckAll(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Fatalf("got %d checks, want %d", len(report.Checks), len(tt.statuses))
			}
			for i, c := range report.Checks {
				if c.Name != string(rune('a'+i)) || c.Status != tt.statuses[i] {
					t.Errorf("Checks[%d] = %s/%v, want %c/%v", i, c.Name, c.Status, 'a'+i, tt.statuses[i])
				}
			}
		})
	}
}

func TestAggregator_CheckAllRespectsParallelLimit(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: time.Second, Parallel: 2})
	var running, peak atomic.Int32
	for i := range 6 {
		agg.Register(NewCheckerFunc(string(rune('a'+i)), func(context.Context) Result {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			return Healthy("ok")
		}))
	}

	agg.CheckAll(context.Background())
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", got)
	}
}

func TestAggregator_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond, Parallel: 1})
	block := make(chan struct{})
	defer close(block)
	agg.Register(NewCheckerFunc("slow", func(context.Context) Result {
		<-block
		return Healthy("late")
	}))

	report := agg.CheckAll(context.Background())
	if report.Status != StatusUnhealthy {
		t.Fatalf("Status = %v, want unhealthy", report.Status)
	}
	if !errors.Is(report.Checks[0].Error, ErrCheckTimeout) {
		t.Errorf("Error = %v, want ErrCheckTimeout", report.Checks[0].Error)
	}
}

func TestAggregator_Check(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewCheckerFunc("one", func(context.Context) Result { return Degraded("meh") }))

	r, err := agg.Check(context.Background(), "one")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if r.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", r.Status)
	}
	if _, err := agg.Check(context.Background(), "two"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("error = %v, want ErrCheckerNotFound", err)
	}
}

func TestToleranceChecker(t *testing.T) {
	mc := arith.NewConfig(64)
	one := mc.Int(1)

	tests := []struct {
		name string
		got  *big.Float
		err  error
		want Status
	}{
		{"exact", one, nil, StatusHealthy},
		{"last bits off", mc.Add(one, mc.Ldexp(1, -66)), nil, StatusHealthy},
		{"half precision", mc.Add(one, mc.Ldexp(1, -40)), nil, StatusDegraded},
		{"wrong", mc.Int(2), nil, StatusUnhealthy},
		{"error", nil, errors.New("boom"), StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewToleranceChecker("x", 64, func(context.Context) (*big.Float, *big.Float, error) {
				return tt.got, one, tt.err
			})
			r := c.Check(context.Background())
			if r.Status != tt.want {
				t.Errorf("Status = %v (%s), want %v", r.Status, r.Message, tt.want)
			}
			if tt.want == StatusUnhealthy && tt.err == nil && !errors.Is(r.Error, ErrCheckFailed) {
				t.Errorf("Error = %v, want ErrCheckFailed", r.Error)
			}
		})
	}
}

type fixedStats cache.Stats

func (s fixedStats) CacheStats() cache.Stats { return cache.Stats(s) }

func TestCacheChecker(t *testing.T) {
	healthy := NewCacheChecker("nodes", fixedStats{Hits: 3, Misses: 1, Len: 4, Capacity: 8})
	if r := healthy.Check(context.Background()); r.Status != StatusHealthy || r.Message != "4 of 8 slots used" {
		t.Errorf("got %v %q, want healthy", r.Status, r.Message)
	}

	evicting := NewCacheChecker("nodes", fixedStats{Misses: 9, Evictions: 5, Len: 4, Capacity: 4})
	r := evicting.Check(context.Background())
	if r.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", r.Status)
	}
	if r.Details["evictions"] != uint64(5) {
		t.Errorf("Details[evictions] = %v, want 5", r.Details["evictions"])
	}
}

func TestReport_JSON(t *testing.T) {
	report := Report{
		Status: StatusDegraded,
		Checks: []NamedResult{{Name: "a", Result: Degraded("slow")}},
	}
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"status":"degraded","checks":[{"name":"a","status":"degraded","message":"slow","duration_ns":0}]}`
	if string(data) != want {
		t.Errorf("JSON = %s, want %s", data, want)
	}
}
