package queueview

import (
	"sort"

	"github.com/trichbarbershop/barber-queue/internal/models"
	"github.com/trichbarbershop/barber-queue/internal/realtime"
)

// Apply folds one change event into an ordered entry list and returns
// the new list. It is pure: inputs are never mutated.
//
// Insert prepends after dropping any row with the same id, which makes
// duplicate delivery and fetch/subscribe overlap harmless. Update
// replaces in place and deliberately does not re-sort: created_at is
// immutable, so order cannot have changed. Delete removes by the old
// row's id, falling back to the new row's id for malformed events.
func Apply(list []models.BookingEntry, ev realtime.ChangeEvent) []models.BookingEntry {
	switch ev.Type {
	case realtime.EventInsert:
		if ev.New == nil {
			return list
		}
		out := make([]models.BookingEntry, 0, len(list)+1)
		out = append(out, *ev.New)
		for _, it := range list {
			if it.ID != ev.New.ID {
				out = append(out, it)
			}
		}
		return out

	case realtime.EventUpdate:
		if ev.New == nil {
			return list
		}
		out := make([]models.BookingEntry, len(list))
		for i, it := range list {
			if it.ID == ev.New.ID {
				out[i] = *ev.New
			} else {
				out[i] = it
			}
		}
		return out

	case realtime.EventDelete:
		id := ev.EntryID()
		if id == "" {
			return list
		}
		out := make([]models.BookingEntry, 0, len(list))
		for _, it := range list {
			if it.ID != id {
				out = append(out, it)
			}
		}
		return out
	}

	return list
}

// Merge reconciles a fresh fetch into the seeded snapshot. Rows are
// keyed by id, fetched rows win on conflict, and the result is
// re-sorted newest first.
func Merge(seed, fetched []models.BookingEntry) []models.BookingEntry {
	byID := make(map[string]models.BookingEntry, len(seed)+len(fetched))
	order := make([]string, 0, len(seed)+len(fetched))

	for _, it := range seed {
		if it.ID == "" {
			continue
		}
		if _, ok := byID[it.ID]; !ok {
			order = append(order, it.ID)
		}
		byID[it.ID] = it
	}
	for _, it := range fetched {
		if it.ID == "" {
			continue
		}
		if _, ok := byID[it.ID]; !ok {
			order = append(order, it.ID)
		}
		byID[it.ID] = it
	}

	out := make([]models.BookingEntry, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
