package model

import "math"

const (
	DefaultSigma = 0.3
	DefaultTau   = 0.5
)

// ImpactParams defines the market-impact and risk parameters of one solve.
// - Alpha, Eta: temporary impact exponent and magnitude
// - Beta, Gamma: permanent impact exponent and magnitude
// - Psi: risk aversion
// - Sigma: volatility per unit time
// - Tau: period length
type ImpactParams struct {
	Alpha float64
	Beta  float64
	Gamma float64
	Eta   float64
	Psi   float64
	Sigma float64
	Tau   float64
}

// WithDefaults returns a copy with zero Sigma/Tau replaced by DefaultSigma/DefaultTau.
func (p ImpactParams) WithDefaults() ImpactParams {
	if p.Sigma == 0 {
		p.Sigma = DefaultSigma
	}
	if p.Tau == 0 {
		p.Tau = DefaultTau
	}
	return p
}

func (p ImpactParams) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"alpha", p.Alpha}, {"beta", p.Beta}, {"gamma", p.Gamma}, {"eta", p.Eta},
		{"psi", p.Psi}, {"sigma", p.Sigma}, {"tau", p.Tau},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid(f.name, "must be finite")
		}
	}
	if p.Alpha < 1 {
		return invalid("alpha", "must be >= 1")
	}
	if p.Beta < 1 {
		return invalid("beta", "must be >= 1")
	}
	if p.Gamma <= 0 {
		return invalid("gamma", "must be > 0")
	}
	if p.Eta <= 0 {
		return invalid("eta", "must be > 0")
	}
	if p.Psi <= 0 {
		return invalid("psi", "must be > 0")
	}
	if p.Sigma <= 0 {
		return invalid("sigma", "must be > 0")
	}
	if p.Tau <= 0 {
		return invalid("tau", "must be > 0")
	}
	return nil
}

// Problem is one liquidation problem: sell Inventory shares over Periods trading periods.
type Problem struct {
	Periods   int
	Inventory int
	Params    ImpactParams
}

func NewProblem(periods, inventory int, params ImpactParams) (*Problem, error) {
	p := &Problem{
		Periods:   periods,
		Inventory: inventory,
		Params:    params.WithDefaults(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Problem) Validate() error {
	if p.Periods < 1 {
		return invalid("periods", "must be >= 1")
	}
	if p.Inventory < 0 {
		return invalid("inventory", "must be >= 0")
	}
	return p.Params.Validate()
}
