package chain

import "slices"

// MasteryThreshold is the multiplier at which an item counts as learned.
const MasteryThreshold = 16

// IsMastered reports whether the item has reached the mastery threshold.
func (i Item) IsMastered() bool {
	return i.Multiplier >= MasteryThreshold
}

// UpdateLearned returns learned with the entry for item inserted, overwritten
// or removed according to the item's current multiplier.
func UpdateLearned(learned []LearnedEntry, item Item) []LearnedEntry {
	idx := slices.IndexFunc(learned, func(e LearnedEntry) bool {
		return e.ItemID == item.ID
	})

	if !item.IsMastered() {
		if idx >= 0 {
			learned = slices.Delete(learned, idx, idx+1)
		}
		return learned
	}

	entry := LearnedEntry{ItemID: item.ID, Score: item.Score}
	if idx >= 0 {
		learned[idx] = entry
		return learned
	}

	return append(learned, entry)
}

// DeriveLearned recomputes the learned set from the items alone, in chain arena order.
func DeriveLearned(items Chain) []LearnedEntry {
	learned := []LearnedEntry{}
	for _, item := range items {
		if item.IsMastered() {
			learned = append(learned, LearnedEntry{ItemID: item.ID, Score: item.Score})
		}
	}
	return learned
}

// LearnedIDs returns the item IDs of the learned set.
func (s State) LearnedIDs() []string {
	ids := make([]string, 0, len(s.Learned))
	for _, e := range s.Learned {
		ids = append(ids, e.ItemID)
	}
	return ids
}
