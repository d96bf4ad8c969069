package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/PuzzleCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grids(pairs ...[2]int) []model.Grid {
	out := make([]model.Grid, len(pairs))
	for i, p := range pairs {
		out[i] = model.Grid{Columns: p[0], Rows: p[1]}
	}
	return out
}

func TestFindDivisors(t *testing.T) {
	assert.Equal(t,
		grids([2]int{1, 24}, [2]int{2, 12}, [2]int{3, 8}, [2]int{4, 6}, [2]int{6, 4}, [2]int{8, 3}, [2]int{12, 2}, [2]int{24, 1}),
		FindDivisors(24))
	assert.Equal(t, grids([2]int{1, 9}, [2]int{3, 3}, [2]int{9, 1}), FindDivisors(9))
	assert.Equal(t, grids([2]int{1, 1}), FindDivisors(1))
	assert.Equal(t, grids([2]int{1, 7}, [2]int{7, 1}), FindDivisors(7))
	assert.Nil(t, FindDivisors(0))
	assert.Nil(t, FindDivisors(-4))
}

func TestFindDivisors_ProductsAndOrder(t *testing.T) {
	for n := 1; n <= 500; n++ {
		d := FindDivisors(n)
		require.NotEmpty(t, d, "n=%d", n)
		for i, g := range d {
			assert.Equal(t, n, g.Count(), "n=%d", n)
			if i > 0 {
				assert.Greater(t, g.Columns, d[i-1].Columns, "n=%d: columns must increase", n)
			}
		}
	}
}

func TestOptimalAspectRatio(t *testing.T) {
	g, err := OptimalAspectRatio(FindDivisors(24), 666, 666)
	require.NoError(t, err)
	assert.Equal(t, model.Grid{Columns: 6, Rows: 4}, g, "4x6 and 6x4 tie; the later one wins")

	g, err = OptimalAspectRatio(grids([2]int{1, 25}, [2]int{5, 5}, [2]int{25, 1}), 1024, 768)
	require.NoError(t, err)
	assert.Equal(t, model.Grid{Columns: 5, Rows: 5}, g)
}

func TestOptimalAspectRatio_NearSquareReturnsImmediately(t *testing.T) {
	// 3x2 gives exactly square pieces on a 300x200 image.
	g, err := OptimalAspectRatio(FindDivisors(6), 300, 200)
	require.NoError(t, err)
	assert.Equal(t, model.Grid{Columns: 3, Rows: 2}, g)
}

func TestOptimalAspectRatio_Empty(t *testing.T) {
	_, err := OptimalAspectRatio(nil, 100, 100)
	assert.ErrorIs(t, err, ErrNoValidLayout)
}

func TestColumnsRows(t *testing.T) {
	g, err := ColumnsRows(1920, 1080, 1)
	require.NoError(t, err)
	assert.Equal(t, model.Grid{Columns: 1, Rows: 1}, g)

	g, err = ColumnsRows(1600, 900, 144)
	require.NoError(t, err)
	assert.Equal(t, 144, g.Count())
	assert.Greater(t, g.Columns, g.Rows, "landscape image gets more columns")

	_, err = ColumnsRows(100, 100, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

// exhaustiveAspectRatio scores every candidate with the same rules as
// OptimalAspectRatio but never stops early.
func exhaustiveAspectRatio(candidates []model.Grid, width, height float64) model.Grid {
	best := candidates[0]
	bestDiff := math.MaxFloat64
	for _, c := range candidates {
		d := pieceDifference(c, width, height)
		if d < squareEnough {
			return c
		}
		if d <= bestDiff {
			best, bestDiff = c, d
		}
	}
	return best
}

func checkAgainstExhaustive(t *testing.T, width, height float64, count int) {
	t.Helper()
	candidates := FindDivisors(count)
	got, err := OptimalAspectRatio(candidates, width, height)
	require.NoError(t, err)
	want := exhaustiveAspectRatio(candidates, width, height)
	assert.Equal(t, want, got, "%vx%v, %d pieces", width, height, count)
}

func TestOptimalAspectRatio_MatchesExhaustiveSearch(t *testing.T) {
	sizes := [][2]float64{{666, 666}, {1024, 768}, {1920, 1080}, {1080, 1920}, {3000, 200}, {123.4, 987.6}}
	for _, s := range sizes {
		for n := 1; n <= 1000; n++ {
			checkAgainstExhaustive(t, s[0], s[1], n)
		}
	}
}

func FuzzOptimalAspectRatio(f *testing.F) {
	f.Add(666.0, 666.0, uint16(24))
	f.Add(1024.0, 768.0, uint16(25))
	f.Add(1920.0, 1200.0, uint16(500))
	f.Add(10.0, 5000.0, uint16(360))
	f.Add(1.0, 1.0, uint16(1))
	f.Fuzz(func(t *testing.T, width, height float64, count uint16) {
		if !(width >= 1 && width <= 1e5) || !(height >= 1 && height <= 1e5) || count == 0 {
			t.Skip()
		}
		checkAgainstExhaustive(t, width, height, int(count))
	})
}
