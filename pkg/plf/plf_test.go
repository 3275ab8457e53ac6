package plf

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoPointPLF is the day profile 100ms at midnight, 200ms at noon.
func twoPointPLF() IPPList {
	return NewIPPList(Period, []IPP{
		{DepartureTime: 0, TravelTime: 100},
		{DepartureTime: 43_200_000, TravelTime: 200},
	})
}

// randomPLF builds a PLF with n IPPs at random distinct departure times.
func randomPLF(r *rand.Rand, n int, maxTravelTime uint32) IPPList {
	seen := make(map[uint32]bool, n)
	ipps := make([]IPP, 0, n)
	for len(ipps) < n {
		d := r.Uint32N(Period)
		if seen[d] {
			continue
		}
		seen[d] = true
		ipps = append(ipps, IPP{DepartureTime: d, TravelTime: r.Uint32N(maxTravelTime)})
	}
	slices.SortFunc(ipps, func(a, b IPP) int { return cmp.Compare(a.DepartureTime, b.DepartureTime) })
	return NewIPPList(Period, ipps)
}

func TestTwoPointScenario(t *testing.T) {
	p := twoPointPLF()

	assert.Equal(t, uint32(100), Evaluate(p, 0))
	assert.Equal(t, uint32(150), Evaluate(p, 21_600_000))
	assert.Equal(t, uint32(200), Evaluate(p, 43_200_000))
	// Wrap segment: halfway between noon and the next midnight.
	assert.Equal(t, uint32(150), Evaluate(p, 64_800_000))
	assert.Equal(t, uint32(100), Minimum(p))
	assert.Equal(t, uint32(200), Maximum(p))
}

func TestEvaluateSingleIPP(t *testing.T) {
	p := NewIPPList(Period, []IPP{{DepartureTime: 5000, TravelTime: 42}})
	for _, d := range []uint32{0, 4999, 5000, 5001, Period - 1} {
		assert.Equal(t, uint32(42), Evaluate(p, d))
		var stab uint32
		assert.Equal(t, uint32(42), EvaluateWithStabbing(p, d, &stab))
	}
	assert.Equal(t, uint64(42)*uint64(Period), Integral(p, 0, Period))
}

func TestEvaluateHitsBreakpoints(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		p := randomPLF(r, 1+r.IntN(20), 1_000_000)
		for i := uint32(0); i < p.IPPCount(); i++ {
			require.Equal(t, p.IPPTravelTime(i), Evaluate(p, p.IPPDepartureTime(i)), "ipp %d", i)
		}
	}
}

func TestEvaluatePeriodic(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	p := randomPLF(r, 12, 500_000)
	for range 1000 {
		d := r.Uint32N(Period)
		assert.Equal(t, Evaluate(p, d), EvaluatePeriodic(p, d+Period))
	}
}

func TestEvaluateWithinMinMax(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for range 20 {
		p := randomPLF(r, 1+r.IntN(30), 3_000_000)
		lo, hi := Minimum(p), Maximum(p)
		for range 200 {
			v := Evaluate(p, r.Uint32N(Period))
			require.GreaterOrEqual(t, v, lo)
			require.LessOrEqual(t, v, hi)
		}
	}
}

func TestStabbingMatchesEvaluate(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for range 30 {
		p := randomPLF(r, 1+r.IntN(25), 2_000_000)

		times := make([]uint32, 300)
		for i := range times {
			times[i] = r.Uint32N(Period)
		}
		slices.Sort(times)
		// Include both ends of the period and the first breakpoint.
		times = append([]uint32{0, p.IPPDepartureTime(0)}, times...)
		times = append(times, Period-1)
		slices.Sort(times)

		var stab uint32
		for _, d := range times {
			require.Equal(t, Evaluate(p, d), EvaluateWithStabbing(p, d, &stab), "departure %d", d)
		}
	}
}

func TestStabbingNonMonotonicStillCorrect(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 10))
	p := randomPLF(r, 15, 1_000_000)
	var stab uint32
	for range 500 {
		d := r.Uint32N(Period)
		require.Equal(t, Evaluate(p, d), EvaluateWithStabbing(p, d, &stab))
	}
}

func TestIntegralTwoPoint(t *testing.T) {
	p := twoPointPLF()
	assert.Equal(t, uint64(150)*43_200_000, Integral(p, 0, 43_200_000))
	assert.Equal(t, uint64(150)*uint64(Period), Integral(p, 0, Period))
	assert.Equal(t, uint64(0), Integral(p, 1000, 1000))
}

func TestIntegralAdditivity(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	for range 50 {
		p := randomPLF(r, 1+r.IntN(40), 4_000_000)
		bounds := []uint32{r.Uint32N(Period + 1), r.Uint32N(Period + 1), r.Uint32N(Period + 1)}
		slices.Sort(bounds)
		begin, mid, end := bounds[0], bounds[1], bounds[2]

		whole := Integral(p, begin, end)
		split := Integral(p, begin, mid) + Integral(p, mid, end)
		slack := float64(p.IPPCount() + 2)
		assert.InDelta(t, float64(whole), float64(split), slack)
	}
}

func TestIntegralWraparound(t *testing.T) {
	r := rand.New(rand.NewPCG(13, 14))
	for range 50 {
		p := randomPLF(r, 1+r.IntN(40), 4_000_000)
		end := r.Uint32N(Period / 2)
		begin := Period/2 + r.Uint32N(Period/2)

		wrapped := Integral(p, begin, end)
		assert.InDelta(t, float64(Integral(p, begin, Period)+Integral(p, 0, end)), float64(wrapped), 1)
	}
}

func TestIntegralLargeValues(t *testing.T) {
	// Travel times near 2^31 make the intermediate terms exceed 64 bits.
	p := NewIPPList(Period, []IPP{
		{DepartureTime: 0, TravelTime: 2_000_000_000},
		{DepartureTime: 86_000_000, TravelTime: 1},
	})
	got := Integral(p, 0, Period)
	// Every value lies between 1 and 2e9, so the mean must too.
	mean := got / uint64(Period)
	assert.Greater(t, mean, uint64(0))
	assert.Less(t, mean, uint64(2_000_000_000))
	// Trapezoid over the first piece: (2e9+1)/2 * 86e6.
	assert.Equal(t, uint64(86_000_000_043_000_000), Integral(p, 0, 86_000_000))
}

func TestWindowLength(t *testing.T) {
	assert.Equal(t, uint32(100), WindowLength(Period, 100, 200))
	assert.Equal(t, uint32(300), WindowLength(Period, Period-200, 100))
}

func TestDerivedWeights(t *testing.T) {
	// Arc 0: constant 500. Arc 1: the two point profile.
	firstIPPOfArc := []uint32{0, 1, 3}
	departure := []uint32{0, 0, 43_200_000}
	travel := []uint32{500, 100, 200}

	assert.Equal(t, []uint32{500, 100}, MinWeights(Period, firstIPPOfArc, departure, travel))
	assert.Equal(t, []uint32{500, 200}, MaxWeights(Period, firstIPPOfArc, departure, travel))
	assert.Equal(t, []uint32{500, 150}, TimePointWeights(21_600_000, Period, firstIPPOfArc, departure, travel))
	assert.Equal(t, []uint32{500, 150}, TimeWindowAvgWeights(0, 43_200_000, Period, firstIPPOfArc, departure, travel))
	// A window centred on midnight averages the wrap segment and the morning.
	assert.Equal(t, []uint32{500, 125}, TimeWindowAvgWeights(64_800_000, 21_600_000, Period, firstIPPOfArc, departure, travel))
}

func TestMul128(t *testing.T) {
	a := mul128(-3, 1<<62)
	assert.True(t, a.negative())
	assert.Equal(t, int64(-3), a.quo(1<<62))
	b := mul128(1<<40, 1<<40)
	assert.Equal(t, uint64(1<<16), b.hi)
	assert.Equal(t, int64(1<<50), b.quo(1<<30))
	assert.Equal(t, int64(7), mul128(10, 10).sub(mul128(3, 10)).quo(10))
}

func BenchmarkEvaluate(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 1))
	p := randomPLF(r, 96, 1_000_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(p, uint32(i)%Period)
	}
}

func BenchmarkIntegral(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 1))
	p := randomPLF(r, 96, 1_000_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Integral(p, 6*60*60*1000, 10*60*60*1000)
	}
}
