// Package similarity finds the records closest to a target over the numeric
// attributes (absenteeism rate, performance score, compensation).
//
// Attributes are not normalized: compensation is usually in the thousands
// and dominates the distance.
package similarity

import (
	"math"
	"sort"

	"github.com/okian/roster/internal/domain/model"
)

// Neighbor pairs a record with its distance to the query target.
type Neighbor struct {
	Record   model.Record
	Distance float64
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b model.Record) float64 {
	da := a.AbsenteeismRate - b.AbsenteeismRate
	dp := a.PerformanceScore - b.PerformanceScore
	dc := a.Compensation - b.Compensation
	return math.Sqrt(da*da + dp*dp + dc*dc)
}

// Nearest returns up to k records from pool ordered by ascending distance to
// target. The target is excluded by key, so a different record with identical
// values is still returned. Ties keep pool order.
func Nearest(target model.Record, pool []model.Record, k int) []Neighbor {
	if k <= 0 {
		return nil
	}

	key := model.NormalizeName(target.Name)
	candidates := make([]Neighbor, 0, len(pool))
	for _, r := range pool {
		if model.NormalizeName(r.Name) == key {
			continue
		}
		candidates = append(candidates, Neighbor{Record: r, Distance: Distance(target, r)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}
