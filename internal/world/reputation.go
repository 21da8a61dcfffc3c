package world

// ReputationType mirrors the host's per-category villager reputation.
type ReputationType int

const (
	MajorPositive ReputationType = iota
	MinorPositive
	MinorNegative
	MajorNegative
	Trading
)

// WeightedScore folds per-category reputation values into the single
// score used in prompts. Major categories weigh five times the minor
// ones; negative categories subtract.
func WeightedScore(rep map[ReputationType]int) int {

	finalScore := 0

	for repType, value := range rep {
		switch repType {
		case MajorPositive:
			finalScore += value * 5
		case MinorPositive:
			finalScore += value
		case MinorNegative:
			finalScore -= value
		case MajorNegative:
			finalScore -= value * 5
		default: // Trading and any future category count at face value
			finalScore += value
		}
	}

	return finalScore
}
