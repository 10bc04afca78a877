// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestTwoTailedPValue_ZeroStatistic(t *testing.T) {
	for df := 1; df <= 50; df++ {
		assert.Equal(t, 1.0, TwoTailedPValue(0, df), "df=%d", df)
	}
}

func TestTwoTailedPValue_ClosedForms(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		df   int
		want float64
	}{
		// df=1 is Cauchy: p = 1 - 2/π·atan(t)
		{"cauchy", 1, 1, 0.5},
		// df=2: p = 1 - t/sqrt(2+t²)
		{"df2", 2, 2, 1 - 2/math.Sqrt(6)},
		// critical value t(0.975, 3) = 3.182446
		{"df3 critical", 3.182446305284263, 3, 0.05},
		{"df3 worked example", 3.5762373640756184, 3, 0.03738607346849865},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TwoTailedPValue(tt.t, tt.df), 1e-9)
		})
	}
}

func TestTwoTailedPValue_SignSymmetric(t *testing.T) {
	for _, v := range []float64{0.3, 1.7, 4.2} {
		assert.Equal(t, TwoTailedPValue(v, 7), TwoTailedPValue(-v, 7))
	}
}

func TestTwoTailedPValue_MatchesStudentsT(t *testing.T) {
	for _, df := range []int{1, 2, 3, 5, 10, 30, 120} {
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
		for _, tv := range []float64{0.1, 0.5, 1, 2, 3, 5} {
			t.Run(fmt.Sprintf("df=%d/t=%g", df, tv), func(t *testing.T) {
				want := 2 * dist.Survival(tv)
				assert.InDelta(t, want, TwoTailedPValue(tv, df), 1e-8)
			})
		}
	}
}

func TestTwoTailedPValue_Extremes(t *testing.T) {
	assert.Equal(t, 0.0, TwoTailedPValue(math.Inf(1), 4))
	assert.Equal(t, 0.0, TwoTailedPValue(math.Inf(-1), 4))
	assert.Less(t, TwoTailedPValue(50, 10), 1e-10)
	assert.Equal(t, 1.0, TwoTailedPValue(2.5, 0), "df below 1 carries no evidence")
}
