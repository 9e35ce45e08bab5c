package commission

import (
	"math"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

func ValidatePercentage(pct float64) error {
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		return httperr.ErrValidation("invalid_commission_percentage")
	}
	return nil
}

// Compute returns amount*pct/100 rounded to cents. pct is taken at the
// two-decimal precision it is persisted with.
func Compute(amount, pct float64) float64 {
	return Round2(amount * Round2(pct) / 100)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
