package handlers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	testCases := []struct {
		n, start, count int
		lo, hi          int
	}{
		{n: 12, start: 0, count: 5, lo: 0, hi: 5},
		{n: 12, start: 10, count: 5, lo: 10, hi: 12},
		{n: 3, start: 0, count: 5, lo: 0, hi: 3},
		{n: 3, start: 3, count: 5, lo: 3, hi: 3},
		{n: 3, start: 7, count: 5, lo: 3, hi: 3},
		{n: 3, start: 0, count: 0, lo: 0, hi: 0},
		{n: 0, start: 0, count: 5, lo: 0, hi: 0},
		{n: 10, start: 2, count: int(^uint(0) >> 1), lo: 2, hi: 10},
	}

	for _, testCase := range testCases {
		t.Run(fmt.Sprintf("n=%d,start=%d,count=%d", testCase.n, testCase.start, testCase.count), func(t *testing.T) {
			assert := require.New(t)
			lo, hi := window(testCase.n, testCase.start, testCase.count)
			assert.Equal(testCase.lo, lo)
			assert.Equal(testCase.hi, hi)
		})
	}
}

func TestPageLinksInvariants(t *testing.T) {
	assert := require.New(t)
	links := linkBuilder{base: testBaseURL}

	for n := 0; n <= 15; n++ {
		for start := 0; start <= 17; start++ {
			for count := 0; count <= 16; count++ {
				lo, hi := window(n, start, count)
				visible := hi - lo
				assert.LessOrEqual(visible, count)
				assert.GreaterOrEqual(lo, 0)
				assert.LessOrEqual(hi, n)

				got := pageLinks(links, "q", n, start, count, visible)
				assert.NotEmpty(got)
				assert.LessOrEqual(len(got), 2)
				assert.Equal(RelSelf, got[0].Rel)
				assert.Equal(links.search("q", start, count), got[0].Href)

				if visible == 0 || n <= count {
					assert.Len(got, 1, "n=%d start=%d count=%d", n, start, count)
					continue
				}

				assert.Len(got, 2, "n=%d start=%d count=%d", n, start, count)
				if hi == n {
					assert.Equal(RelPrevious, got[1].Rel)
					assert.Equal(links.search("q", start-count, count), got[1].Href)
				} else {
					assert.Equal(RelNext, got[1].Rel)
					assert.Equal(links.search("q", start+count, count), got[1].Href)
				}
			}
		}
	}
}
