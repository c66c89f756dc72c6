// Package impact scores single-period trading costs under the Almgren-Chriss model.
// All functions are pure; callers guarantee rate >= 0 and 0 <= n <= x.
package impact

import (
	"math"

	"liquidation-planner/internal/model"
)

// TemporaryImpact is the transient price concession eta * rate^alpha.
func TemporaryImpact(rate, alpha, eta float64) float64 {
	return eta * math.Pow(rate, alpha)
}

// PermanentImpact is the lasting price shift gamma * rate^beta.
func PermanentImpact(rate, beta, gamma float64) float64 {
	return gamma * math.Pow(rate, beta)
}

// Terms splits the Hamiltonian into its additive parts.
type Terms struct {
	Permanent float64 // psi * n * g(n/tau)
	Temporary float64 // psi * (x-n) * tau * h(n/tau)
	Risk      float64 // 0.5 * psi^2 * sigma^2 * tau * (x-n)^2
	Total     float64
}

// Breakdown scores trading n out of x shares over one period of length p.Tau.
func Breakdown(x, n float64, p model.ImpactParams) Terms {
	rate := n / p.Tau
	held := x - n
	t := Terms{
		Permanent: p.Psi * n * PermanentImpact(rate, p.Beta, p.Gamma),
		Risk:      0.5 * p.Psi * p.Psi * p.Sigma * p.Sigma * p.Tau * held * held,
	}
	// Nothing held means no temporary cost, even when rate^alpha overflows (0 * Inf is NaN).
	if held > 0 {
		t.Temporary = p.Psi * held * p.Tau * TemporaryImpact(rate, p.Alpha, p.Eta)
	}
	t.Total = t.Permanent + t.Temporary + t.Risk
	return t
}

// Hamiltonian is the risk-adjusted cost of trading n shares now while holding x-n
// for one more period.
func Hamiltonian(x, n float64, p model.ImpactParams) float64 {
	return Breakdown(x, n, p).Total
}

// TerminalCost is the exponent of the terminal condition: liquidating all x shares
// in the last period.
func TerminalCost(x float64, p model.ImpactParams) float64 {
	return x * TemporaryImpact(x/p.Tau, p.Alpha, p.Eta)
}
