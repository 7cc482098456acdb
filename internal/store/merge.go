package store

import "github.com/bassista/go_quotes/internal/repository"

// MergePlan splits an incoming batch against an existing collection.
type MergePlan struct {
	New     []repository.Quote // appended in incoming order
	Ignored int                // already present, repeated in the batch or invalid
}

// Partition decides which incoming records are new. Identity is the normalized
// text alone; the category of a duplicate is ignored, never overwritten.
// Incoming records are trimmed, and any still missing a field are counted as ignored.
func Partition(existing, incoming []repository.Quote) MergePlan {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, q := range existing {
		seen[q.Key()] = struct{}{}
	}

	plan := MergePlan{New: []repository.Quote{}}
	for _, raw := range incoming {
		q := raw.Trimmed()
		if repository.ValidateQuote(q) != nil {
			plan.Ignored++
			continue
		}
		key := q.Key()
		if _, dup := seen[key]; dup {
			plan.Ignored++
			continue
		}
		seen[key] = struct{}{}
		plan.New = append(plan.New, q)
	}
	return plan
}
