package tetris

// lineClearPoints is the base award per number of rows cleared at once.
var lineClearPoints = [...]int{0, 100, 300, 500, 800}

// LineClearPoints returns the base points for clearing n rows at once.
// Counts outside 0-4 cannot happen with four-cell pieces and score nothing.
func LineClearPoints(n int) int {
	if n < 0 || n >= len(lineClearPoints) {
		return 0
	}
	return lineClearPoints[n]
}

// AwardedPoints returns the points for clearing n rows at the given level.
func AwardedPoints(n, level int) int {
	return LineClearPoints(n) * (level + 1)
}

// LinesNeededForLevel returns the cumulative number of cleared lines needed to
// advance past level. It is defined by f(0) = 10, f(L) = 10*L + f(L-1).
func LinesNeededForLevel(level int) int {
	if level < 1 {
		return 10
	}
	return 10 + 5*level*(level+1)
}

// WaitTicksForLevel returns how many gravity ticks are skipped between two
// automatic drops at the given level.
func WaitTicksForLevel(level int) int {
	switch {
	case level < 0:
		return 48
	case level <= 8:
		return 48 - 5*level
	case level == 9:
		return 6
	case level <= 12:
		return 5
	case level <= 15:
		return 4
	case level <= 18:
		return 3
	case level <= 28:
		return 2
	default:
		return 1
	}
}
