package grid

// Level is the ordinal colour bucket of a day cell.
type Level int

const (
	Level0 Level = iota
	Level1
	Level2
	Level3
	Level4
)

// NumLevels is the number of intensity levels.
const NumLevels = 5

// LegendSamples holds one representative distance in km per level, in order.
var LegendSamples = [NumLevels]float64{0, 3, 7, 12, 20}

// Intensity maps a day's distance in km to its level:
// 0, (0,5), [5,10), [10,15), [15,inf).
func Intensity(km float64) Level {
	switch {
	case km <= 0:
		return Level0
	case km < 5:
		return Level1
	case km < 10:
		return Level2
	case km < 15:
		return Level3
	default:
		return Level4
	}
}
