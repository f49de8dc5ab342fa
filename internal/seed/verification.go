package seed

import (
	"fmt"
	"strings"

	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/types"
)

// verifyAlphabetical checks that the report contains every submitted name
// and is non-decreasing case-insensitively.
func verifyAlphabetical(rows []types.NameEntry, submitted []types.CreateRequest) error {
	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		if row.Position != i+1 {
			return fmt.Errorf("alphabetical: row %d has position %d", i, row.Position)
		}
		if i > 0 && strings.ToLower(rows[i-1].Name) > strings.ToLower(row.Name) {
			return fmt.Errorf("alphabetical: %q listed before %q", rows[i-1].Name, row.Name)
		}
		seen[row.Name] = true
	}
	return missing("alphabetical", seen, submitted)
}

// verifyServiceTime checks that elapsed days never increase down the report.
func verifyServiceTime(rows []types.ServiceTimeEntry, want int) error {
	if len(rows) != want {
		return fmt.Errorf("service-time: %d rows, want %d", len(rows), want)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].ElapsedDays > rows[i-1].ElapsedDays {
			return fmt.Errorf("service-time: %q (%d days) listed after %q (%d days)",
				rows[i].Name, rows[i].ElapsedDays, rows[i-1].Name, rows[i-1].ElapsedDays)
		}
	}
	return nil
}

// verifyCompensation checks that every submitted server is listed with the
// compensation it was created with.
func verifyCompensation(rows []types.CompensationEntry, submitted []types.CreateRequest) error {
	pay := make(map[string]float64, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		pay[row.Name] = row.Compensation
		seen[row.Name] = true
	}
	if err := missing("compensation", seen, submitted); err != nil {
		return err
	}
	for _, s := range submitted {
		key := model.NormalizeName(s.Name)
		if pay[key] != s.Compensation {
			return fmt.Errorf("compensation: %q listed with %.2f, submitted %.2f", key, pay[key], s.Compensation)
		}
	}
	return nil
}

// verifySimilar checks the neighbour list of one similarity query.
func verifySimilar(resp types.SimilarResponse, k int) error {
	if len(resp.Neighbors) > k {
		return fmt.Errorf("similar %q: %d neighbours for k=%d", resp.Target, len(resp.Neighbors), k)
	}
	for i, n := range resp.Neighbors {
		if n.Name == resp.Target {
			return fmt.Errorf("similar %q: target listed as its own neighbour", resp.Target)
		}
		if n.Rank != i+1 {
			return fmt.Errorf("similar %q: neighbour %d has rank %d", resp.Target, i, n.Rank)
		}
		if i > 0 && n.Distance < resp.Neighbors[i-1].Distance {
			return fmt.Errorf("similar %q: distances not sorted at rank %d", resp.Target, n.Rank)
		}
	}
	return nil
}

func missing(report string, seen map[string]bool, submitted []types.CreateRequest) error {
	for _, s := range submitted {
		if key := model.NormalizeName(s.Name); !seen[key] {
			return fmt.Errorf("%s: submitted server %q is missing", report, key)
		}
	}
	return nil
}
