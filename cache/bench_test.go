package cache

import (
	"math/big"
	"testing"
)

// BenchmarkLRU_Get_Hit measures cache hit performance.
func BenchmarkLRU_Get_Hit(b *testing.B) {
	c := NewLRU[string, int](DefaultCapacity)
	c.Put("key", 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get("key")
	}
}

// BenchmarkLRU_Get_Miss measures cache miss performance.
func BenchmarkLRU_Get_Miss(b *testing.B) {
	c := NewLRU[string, int](DefaultCapacity)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get("missing")
	}
}

// BenchmarkLRU_Put_Evicting measures writes into a full cache.
func BenchmarkLRU_Put_Evicting(b *testing.B) {
	c := NewLRU[int, int](64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Put(i, i)
	}
}

// BenchmarkLRU_Parallel measures contended Get/Put on the single lock.
func BenchmarkLRU_Parallel(b *testing.B) {
	c := NewLRU[int, int](DefaultCapacity)

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%4 == 0 {
				c.Put(i%512, i)
			} else {
				c.Get(i % 512)
			}
			i++
		}
	})
}

// BenchmarkKeyOf measures key derivation for a high-precision value.
func BenchmarkKeyOf(b *testing.B) {
	x := new(big.Float).SetPrec(1024).SetInt64(3)
	x.Quo(x, big.NewFloat(7))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = KeyOf(x)
	}
}
