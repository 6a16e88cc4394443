package normalize

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"signal-desk/internal/models"
)

// For any input, Normalize preserves length exactly: no record is ever
// dropped or invented, regardless of how malformed the fields are.
func TestPropertyNormalizePreservesLength(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Normalize output length equals input length", prop.ForAll(
		func(scores []float64) bool {
			records := make([]models.RawRecord, len(scores))
			for i, s := range scores {
				records[i] = models.RawRecord{"symbol": "S", "score": s}
			}
			return len(Normalize(records, "tag")) == len(records)
		},
		gen.SliceOf(gen.Float64()),
	))

	properties.TestingRun(t)
}

// Coerce never yields NaN or an infinity: every non-nil result is finite.
func TestPropertyCoerceFiniteOrNil(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Coerce result is finite or nil", prop.ForAll(
		func(v float64) bool {
			got := Coerce(v)
			if got == nil {
				return math.IsNaN(v) || math.IsInf(v, 0)
			}
			return !math.IsNaN(*got) && !math.IsInf(*got, 0)
		},
		gen.Float64(),
	))

	properties.TestingRun(t)
}

// After Rank, scores are non-increasing and every nil score sits after every
// non-nil score.
func TestPropertyRankScoreOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Rank yields non-increasing scores with nils last", prop.ForAll(
		func(raw []float64, nilCount uint8) bool {
			records := make([]models.CanonicalRecord, 0, len(raw)+int(nilCount%8))
			for _, s := range raw {
				if math.IsNaN(s) || math.IsInf(s, 0) {
					continue
				}
				v := s
				records = append(records, models.CanonicalRecord{Score: &v})
			}
			for i := 0; i < int(nilCount%8); i++ {
				records = append(records, models.CanonicalRecord{})
			}

			Rank(records)

			seenNil := false
			var prev *float64
			for i := range records {
				s := records[i].Score
				if s == nil {
					seenNil = true
					continue
				}
				if seenNil {
					return false // non-nil after nil
				}
				if prev != nil && *s > *prev {
					return false // ascending pair
				}
				prev = s
			}
			return true
		},
		gen.SliceOf(gen.Float64()),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

// Ranking is deterministic: running Rank twice on the same input yields the
// same order, and a second Rank over already-ranked data is a no-op.
func TestPropertyRankIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Rank is idempotent", prop.ForAll(
		func(raw []float64) bool {
			records := make([]models.CanonicalRecord, 0, len(raw))
			for i, s := range raw {
				if math.IsNaN(s) || math.IsInf(s, 0) {
					continue
				}
				v := s
				records = append(records, models.CanonicalRecord{
					Symbol: string(rune('A' + i%26)),
					Score:  &v,
				})
			}

			Rank(records)
			first := make([]models.CanonicalRecord, len(records))
			copy(first, records)

			Rank(records)
			for i := range records {
				if records[i].Symbol != first[i].Symbol {
					return false
				}
				a, b := records[i].Score, first[i].Score
				if (a == nil) != (b == nil) || (a != nil && *a != *b) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64()),
	))

	properties.TestingRun(t)
}
