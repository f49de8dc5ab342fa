package seed

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/roster/internal/domain/types"
	"github.com/okian/roster/pkg/logger"
)

const randomFloatDivisor = 1000000

// Generation ranges.
const (
	minCompensation   = 1500.0
	compensationRange = 28500.0
	maxAbsenteeism    = 15.0
	minPerformance    = 40.0
	performanceRange  = 60.0
)

var (
	firstNames = []string{"ana", "bruno", "carla", "davi", "elisa", "fabio", "gabriela", "heitor", "iris", "joao"}
	roles      = []string{"analista", "tecnico", "auxiliar", "assessor", "coordenador"}
	cities     = []string{"natal", "mossoro", "parnamirim", "caico", "currais novos"}
	education  = []string{"medio", "superior", "especializacao", "mestrado", "doutorado"}
	specialty  = []string{"ti", "saude", "educacao", "financas", "juridico"}
)

// randomFloat returns a random float64 in [0, 1) using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func pick(values []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(values))))
	return values[n.Int64()]
}

// round2 keeps generated figures readable in reports.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// generateServers creates count requests whose names are unique thanks to a
// uuid suffix. First names vary in case to exercise the case-insensitive sort.
func generateServers(ctx context.Context, count int, stats *Stats) []types.CreateRequest {
	logger.Get().Info(ctx, "generating servers", logger.Int("count", count))

	out := make([]types.CreateRequest, count)
	for i := range out {
		first := pick(firstNames)
		if i%2 == 1 {
			first = strings.ToUpper(first[:1]) + first[1:]
		}
		out[i] = types.CreateRequest{
			Name:             first + " " + uuid.NewString()[:8],
			Role:             pick(roles),
			Compensation:     round2(minCompensation + randomFloat()*compensationRange),
			City:             pick(cities),
			Education:        pick(education),
			Specialty:        pick(specialty),
			AbsenteeismRate:  round2(randomFloat() * maxAbsenteeism),
			PerformanceScore: round2(minPerformance + randomFloat()*performanceRange),
		}
	}

	stats.Generated = len(out)
	return out
}
