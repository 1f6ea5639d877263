package summation

import (
	"context"
	"testing"

	"github.com/jonwraymond/scicalc/arith"
)

func BenchmarkSum_FiniteRange(b *testing.B) {
	mc := arith.NewConfig(64)
	from, to := mc.Int(2), mc.Int(12)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Sum(context.Background(), mc, expNeg, from, to); err != nil {
			b.Fatal(err)
		}
	}
}
