package grid

import "math"

// Achievement is the share of elapsed days with a run, as a rounded percentage.
func Achievement(s Stats) int {
	if s.TotalDaysElapsedThisYear <= 0 {
		return 0
	}
	return int(math.Round(float64(s.RunDaysThisYear) / float64(s.TotalDaysElapsedThisYear) * 100))
}

// LevelMessage is the headline shown for an achievement percentage.
func LevelMessage(percent int) string {
	switch {
	case percent > 80:
		return "Wow, incredible! Running is your life!"
	case percent > 60:
		return "Awesome! You run like you eat, every single day!"
	case percent > 40:
		return "You are serious about running!"
	case percent >= 20:
		return "Doing great, you are falling for running!"
	default:
		return "Keep pushing, you are still a rookie runner!"
	}
}
