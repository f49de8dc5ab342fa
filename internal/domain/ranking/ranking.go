// Package ranking orders roster snapshots for the reporting views.
//
// Functions never mutate their input; each returns a fresh slice.
package ranking

import (
	"strings"
	"time"

	"github.com/okian/roster/internal/domain/model"
)

// Alphabetical orders records by name, ignoring case.
//
// It partitions around the first element: records whose lower-cased name is
// not greater than the pivot go left, the rest go right, so duplicates of a
// pivot end up ahead of it. The order is not stable.
func Alphabetical(records []model.Record) []model.Record {
	if len(records) <= 1 {
		return append([]model.Record(nil), records...)
	}

	pivot := records[0]
	key := strings.ToLower(pivot.Name)

	var lower, higher []model.Record
	for _, r := range records[1:] {
		if strings.ToLower(r.Name) <= key {
			lower = append(lower, r)
		} else {
			higher = append(higher, r)
		}
	}

	out := make([]model.Record, 0, len(records))
	out = append(out, Alphabetical(lower)...)
	out = append(out, pivot)
	out = append(out, Alphabetical(higher)...)
	return out
}

// ByServiceTime orders records longest-serving first, using elapsed days at now.
//
// Each position receives the maximum of the unsorted suffix; equal day counts
// end up in whatever order the swaps leave them. Since elapsed days depend on
// now, two calls straddling midnight may disagree.
func ByServiceTime(records []model.Record, now time.Time) []model.Record {
	out := append([]model.Record(nil), records...)
	days := make([]int, len(out))
	for i, r := range out {
		days[i] = r.ElapsedDays(now)
	}

	for i := range out {
		maxIdx := i
		for j := i + 1; j < len(out); j++ {
			if days[j] > days[maxIdx] {
				maxIdx = j
			}
		}
		out[i], out[maxIdx] = out[maxIdx], out[i]
		days[i], days[maxIdx] = days[maxIdx], days[i]
	}
	return out
}

// Compensation returns the records in their given order for the pay report.
func Compensation(records []model.Record) []model.Record {
	return append([]model.Record(nil), records...)
}
