package review

import "github.com/vytor/wordladder/internal/models"

// DefaultHardThreshold is the fail ratio at which a card counts as hard.
const DefaultHardThreshold = 0.5

// DefaultExamPassAccuracy is the exam accuracy, in percent, a deck needs to
// move up a level.
const DefaultExamPassAccuracy = 65

// SelectHard returns the ids of cards whose fail ratio reaches threshold.
// Cards without attempts are never selected. Ids keep the order of stats and
// appear once.
func SelectHard(stats []models.CardSessionStat, threshold float64) []int64 {
	var ids []int64
	seen := make(map[int64]struct{}, len(stats))
	for _, st := range stats {
		if st.Attempts <= 0 {
			continue
		}
		if float64(st.Fails)/float64(st.Attempts) < threshold {
			continue
		}
		if _, ok := seen[st.CardID]; ok {
			continue
		}
		seen[st.CardID] = struct{}{}
		ids = append(ids, st.CardID)
	}
	return ids
}

// Accuracy is the share of cards passing the exam round, as an integer
// percentage truncated toward zero. An empty batch scores 0.
func Accuracy(stats []models.CardSessionStat) int {
	if len(stats) == 0 {
		return 0
	}
	correct := 0
	for _, st := range stats {
		if st.IsCorrect {
			correct++
		}
	}
	return correct * 100 / len(stats)
}
