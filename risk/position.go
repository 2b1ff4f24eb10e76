// Package risk sizes futures positions from account balance and stop
// distance.
package risk

import "math"

type Inputs struct {
	Balance        float64
	EntryPrice     float64
	StopPrice      float64
	RiskPct        float64 // fraction of balance lost if the stop fires
	Leverage       float64
	MaxExposurePct float64 // fraction of balance allowed as margin
}

type Result struct {
	Quantity   float64
	RiskAmount float64
	PriceRisk  float64
}

// Calculate sizes a position so the loss at the stop equals RiskPct of
// balance, then caps the quantity by the exposure ceiling
// Balance × MaxExposurePct × Leverage at the entry price. A stop at the
// entry price cannot be sized and yields quantity zero.
func Calculate(in Inputs) Result {
	riskAmt := in.Balance * in.RiskPct
	priceRisk := math.Abs(in.EntryPrice - in.StopPrice)

	if priceRisk == 0 {
		return Result{RiskAmount: riskAmt}
	}

	qty := riskAmt / priceRisk
	maxQty := in.Balance * in.MaxExposurePct * in.Leverage / in.EntryPrice
	if qty > maxQty {
		qty = maxQty
	}

	return Result{
		Quantity:   qty,
		RiskAmount: riskAmt,
		PriceRisk:  priceRisk,
	}
}
