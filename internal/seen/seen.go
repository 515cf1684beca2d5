// Package seen tracks which vocabulary items have already been shown to a
// user. It only partitions words into seen and unseen; it is not a spaced
// repetition scheduler.
package seen

// Merge folds candidates into history. The result is history with every
// novel candidate appended in candidate order; existing entries keep their
// positions. novel[i] reports whether candidates[i] was absent from history
// (and from the preceding candidates, so repeats inside one batch are only
// counted once).
func Merge(history []string, candidates []string) (updated []string, novel []bool) {
	known := make(map[string]struct{}, len(history)+len(candidates))
	for _, key := range history {
		known[key] = struct{}{}
	}

	updated = append(make([]string, 0, len(history)+len(candidates)), history...)
	novel = make([]bool, len(candidates))

	for i, key := range candidates {
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = struct{}{}
		updated = append(updated, key)
		novel[i] = true
	}

	return updated, novel
}

// CountNovel returns the number of true flags in novel.
func CountNovel(novel []bool) int {
	n := 0
	for _, ok := range novel {
		if ok {
			n++
		}
	}
	return n
}
