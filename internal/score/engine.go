// Package score holds the rule engine that turns a snapshot pair into
// a directional score. It is pure and deterministic: no I/O, no clock,
// no state.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/dolarscope/backend/internal/contracts"
)

// Factor labels, in rule evaluation order.
const (
	FactorDXYUp        = "DXY em alta"
	FactorUS10YUp      = "Juros EUA (10Y) em alta"
	FactorSelicDown    = "Juros Brasil em queda"
	FactorVIXAbove20   = "VIX acima de 20"
	FactorFlowNegative = "Fluxo cambial negativo"
	FactorUSPositive   = "Dados econômicos EUA positivos"
	FactorBRPositive   = "Dados econômicos Brasil positivos"
	FactorSelicUp      = "Selic estável/subindo"
	FactorExportsUp    = "Exportações em alta"
)

const symbolUS10Y = "US10Y"

// Compute evaluates the rule table against a snapshot pair. Either
// snapshot may be nil; a rule with no evidence simply does not fire.
// Each rule prefers the percent change when one is present and falls
// back to the delta and then the level comparison.
func Compute(market *contracts.MarketSnapshot, macro *contracts.MacroSnapshot) contracts.ScoreResult {
	var total float64
	factors := []string{}

	fire := func(weight float64, label string) {
		total += weight
		factors = append(factors, label)
	}

	// DXY rising favors the dollar.
	if pct, ok := market.Change("^DXY"); ok {
		if pct > 0 {
			fire(2.0, FactorDXYUp)
		}
	} else if dxy, ok := market.Quote("^DXY"); ok && dxy > 102 {
		fire(2.0, FactorDXYUp)
	}

	// US 10Y rising favors the dollar.
	if pct, ok := market.Change(symbolUS10Y); ok {
		if pct > 0 {
			fire(1.5, FactorUS10YUp)
		}
	} else if delta, ok := optional(macroOf(macro).USRatesDelta); ok {
		if delta > 0 {
			fire(1.5, FactorUS10YUp)
		}
	} else if level, ok := us10yLevel(market, macro); ok && level > 4 {
		fire(1.5, FactorUS10YUp)
	}

	// Selic falling favors the dollar (carry unwind).
	if delta, ok := optional(macroOf(macro).BRRatesDelta); ok {
		if delta < 0 {
			fire(1.5, FactorSelicDown)
		}
	} else if level, ok := optional(macroOf(macro).BRRates); ok && level < 10.5 {
		fire(1.5, FactorSelicDown)
	}

	if flagged(macroOf(macro).VIXAbove20) {
		fire(1.0, FactorVIXAbove20)
	}

	if flagged(macroOf(macro).BRLFlowNegative) {
		fire(2.0, FactorFlowNegative)
	}

	if flagged(macroOf(macro).USPositive) {
		fire(1.5, FactorUSPositive)
	}

	if flagged(macroOf(macro).BRPositive) {
		fire(-1.5, FactorBRPositive)
	}

	// Selic stable or rising attracts flow into the real.
	if delta, ok := optional(macroOf(macro).BRRatesDelta); ok {
		if delta >= 0 {
			fire(-2.0, FactorSelicUp)
		}
	} else if level, ok := optional(macroOf(macro).BRRates); ok && level >= 10.5 {
		fire(-2.0, FactorSelicUp)
	}

	if flagged(macroOf(macro).ExportsUp) {
		fire(-1.0, FactorExportsUp)
	}

	rounded := round1(total)

	return contracts.ScoreResult{
		Score:   rounded,
		Bias:    classify(rounded),
		Brief:   describe(rounded, factors),
		Factors: factors,
	}
}

// classify maps a rounded score to the five-level bias. The strong
// thresholds are checked before the neutral band on purpose: a score
// of exactly 3.0 is StrongBuy even though the bands are not a clean
// partition around the ±1 Buy/Sell split.
func classify(score float64) contracts.Bias {
	switch {
	case score >= 3:
		return contracts.BiasStrongBuy
	case score <= -3:
		return contracts.BiasStrongSell
	case score >= -0.9 && score <= 0.9:
		return contracts.BiasNeutral
	case score > 0:
		return contracts.BiasBuy
	default:
		return contracts.BiasSell
	}
}

// describe renders the one-line brief for the dashboard header.
func describe(score float64, factors []string) string {
	switch {
	case score >= 5:
		return "Condições externas favorecem dólar forte contra o real."
	case score <= -5:
		return "Cenário favorece real mais forte e dólar pressionado."
	case score > 0:
		return fmt.Sprintf("Leve viés comprador: %s.", leadFactors(factors))
	case score < 0:
		return fmt.Sprintf("Leve viés vendedor: %s.", leadFactors(factors))
	default:
		return "Viés neutro no momento."
	}
}

func leadFactors(factors []string) string {
	if len(factors) == 0 {
		return "sinais mistos"
	}
	if len(factors) > 2 {
		factors = factors[:2]
	}
	return strings.Join(factors, ", ")
}

// us10yLevel prefers the market's derived quote and falls back to the
// macro observation.
func us10yLevel(market *contracts.MarketSnapshot, macro *contracts.MacroSnapshot) (float64, bool) {
	if v, ok := market.Quote(symbolUS10Y); ok {
		return v, true
	}
	return optional(macroOf(macro).USRates)
}

// macroOf makes nil macro snapshots safe to dereference field by field.
func macroOf(macro *contracts.MacroSnapshot) *contracts.MacroSnapshot {
	if macro == nil {
		return &contracts.MacroSnapshot{}
	}
	return macro
}

func optional(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func flagged(p *bool) bool {
	return p != nil && *p
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
