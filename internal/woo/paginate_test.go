package woo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainPages_StopsAtReportedTotal(t *testing.T) {
	// Three pages of 10, last page partial; every item exactly once, in order.
	pages := [][]int{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		{21, 22, 23, 24},
	}
	var calls int
	got, err := DrainPages(context.Background(), func(ctx context.Context, page int) ([]int, int, error) {
		calls++
		return pages[page-1], 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	want := make([]int, 0, 24)
	for i := 1; i <= 24; i++ {
		want = append(want, i)
	}
	assert.Equal(t, want, got)
}

func TestDrainPages_AbsentHeaderStopsAfterCurrentPage(t *testing.T) {
	var calls int
	got, err := DrainPages(context.Background(), func(ctx context.Context, page int) ([]int, int, error) {
		calls++
		return []int{1, 2, 3}, 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "missing total-pages header must terminate the loop")
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestDrainPages_EmptyPageTerminates(t *testing.T) {
	var calls int
	got, err := DrainPages(context.Background(), func(ctx context.Context, page int) ([]int, int, error) {
		calls++
		if page == 2 {
			return nil, 5, nil
		}
		return []int{page}, 5, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1}, got)
}

func TestDrainPages_MidDrainErrorReturnsPartial(t *testing.T) {
	boom := errors.New("upstream gone")
	got, err := DrainPages(context.Background(), func(ctx context.Context, page int) ([]int, int, error) {
		if page == 2 {
			return nil, 0, boom
		}
		return []int{1, 2}, 3, nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, got)
}
