package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineClearPoints(t *testing.T) {
	tests := []struct {
		lines, expected int
	}{
		{0, 0},
		{1, 100},
		{2, 300},
		{3, 500},
		{4, 800},
		{5, 0},
		{-1, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, LineClearPoints(tc.lines), "lines=%d", tc.lines)
	}
	assert.Equal(t, 300, AwardedPoints(1, 2))
	assert.Equal(t, 800, AwardedPoints(4, 0))
}

// linesNeededRecursive is the reference definition the closed form must match.
func linesNeededRecursive(level int) int {
	if level < 1 {
		return 10
	}
	return 10*level + linesNeededRecursive(level-1)
}

func TestLinesNeededForLevel(t *testing.T) {
	assert.Equal(t, []int{10, 20, 40, 70, 110}, []int{
		LinesNeededForLevel(0),
		LinesNeededForLevel(1),
		LinesNeededForLevel(2),
		LinesNeededForLevel(3),
		LinesNeededForLevel(4),
	})
	for level := 0; level < 40; level++ {
		assert.Equal(t, linesNeededRecursive(level), LinesNeededForLevel(level), "level %d", level)
	}
}

func TestWaitTicksForLevel(t *testing.T) {
	tests := []struct {
		level, expected int
	}{
		{0, 48},
		{1, 43},
		{8, 8},
		{9, 6},
		{10, 5},
		{12, 5},
		{13, 4},
		{15, 4},
		{16, 3},
		{18, 3},
		{19, 2},
		{28, 2},
		{29, 1},
		{100, 1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, WaitTicksForLevel(tc.level), "level %d", tc.level)
	}
}
