package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolarscope/backend/internal/contracts"
)

func TestCompute_NilSnapshots(t *testing.T) {
	result := Compute(nil, nil)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, contracts.BiasNeutral, result.Bias)
	assert.Equal(t, "Viés neutro no momento.", result.Brief)
	assert.Empty(t, result.Factors)
}

func TestCompute_DXYRule(t *testing.T) {
	tests := []struct {
		name   string
		market *contracts.MarketSnapshot
		fires  bool
	}{
		{
			name: "positive percent change fires",
			market: &contracts.MarketSnapshot{
				Quotes:  map[string]float64{"^DXY": 101.0},
				Changes: map[string]float64{"^DXY": 0.3},
			},
			fires: true,
		},
		{
			name: "negative percent change blocks the level fallback",
			market: &contracts.MarketSnapshot{
				Quotes:  map[string]float64{"^DXY": 105.0},
				Changes: map[string]float64{"^DXY": -0.2},
			},
			fires: false,
		},
		{
			name: "no percent change, level above 102 fires",
			market: &contracts.MarketSnapshot{
				Quotes: map[string]float64{"^DXY": 103.2},
			},
			fires: true,
		},
		{
			name: "no percent change, level at 102 does not fire",
			market: &contracts.MarketSnapshot{
				Quotes: map[string]float64{"^DXY": 102.0},
			},
			fires: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compute(tt.market, nil)
			if tt.fires {
				assert.Equal(t, 2.0, result.Score)
				assert.Contains(t, result.Factors, FactorDXYUp)
			} else {
				assert.Equal(t, 0.0, result.Score)
				assert.NotContains(t, result.Factors, FactorDXYUp)
			}
		})
	}
}

func TestCompute_US10YRule(t *testing.T) {
	t.Run("percent change wins over delta", func(t *testing.T) {
		market := &contracts.MarketSnapshot{
			Quotes:  map[string]float64{"US10Y": 4.2},
			Changes: map[string]float64{"US10Y": -0.05},
		}
		// Delta is positive but the percent change is present and
		// non-positive, so the rule must not fire.
		macro := &contracts.MacroSnapshot{USRatesDelta: contracts.Float(0.1)}

		result := Compute(market, macro)
		assert.NotContains(t, result.Factors, FactorUS10YUp)
	})

	t.Run("delta fires when no percent change", func(t *testing.T) {
		macro := &contracts.MacroSnapshot{USRatesDelta: contracts.Float(0.02)}

		result := Compute(nil, macro)
		assert.Equal(t, 1.5, result.Score)
		assert.Contains(t, result.Factors, FactorUS10YUp)
	})

	t.Run("level fallback above 4", func(t *testing.T) {
		macro := &contracts.MacroSnapshot{USRates: contracts.Float(4.3)}

		result := Compute(nil, macro)
		assert.Contains(t, result.Factors, FactorUS10YUp)
	})

	t.Run("market quote beats macro level", func(t *testing.T) {
		market := &contracts.MarketSnapshot{
			Quotes: map[string]float64{"US10Y": 3.8},
		}
		macro := &contracts.MacroSnapshot{USRates: contracts.Float(4.5)}

		result := Compute(market, macro)
		assert.NotContains(t, result.Factors, FactorUS10YUp)
	})
}

func TestCompute_SelicRules(t *testing.T) {
	t.Run("falling selic favors the dollar", func(t *testing.T) {
		macro := &contracts.MacroSnapshot{
			BRRates:      contracts.Float(11.0),
			BRRatesDelta: contracts.Float(-0.25),
		}

		result := Compute(nil, macro)
		assert.Equal(t, 1.5, result.Score)
		assert.Contains(t, result.Factors, FactorSelicDown)
		assert.NotContains(t, result.Factors, FactorSelicUp)
	})

	t.Run("stable selic favors the real", func(t *testing.T) {
		macro := &contracts.MacroSnapshot{
			BRRates:      contracts.Float(11.0),
			BRRatesDelta: contracts.Float(0.0),
		}

		result := Compute(nil, macro)
		assert.Equal(t, -2.0, result.Score)
		assert.Contains(t, result.Factors, FactorSelicUp)
	})

	t.Run("level fallback below 10.5 reads as falling", func(t *testing.T) {
		macro := &contracts.MacroSnapshot{BRRates: contracts.Float(9.75)}

		result := Compute(nil, macro)
		assert.Contains(t, result.Factors, FactorSelicDown)
	})

	t.Run("level fallback at 10.5 reads as stable", func(t *testing.T) {
		macro := &contracts.MacroSnapshot{BRRates: contracts.Float(10.5)}

		result := Compute(nil, macro)
		assert.Contains(t, result.Factors, FactorSelicUp)
	})
}

func TestCompute_FlagRules(t *testing.T) {
	macro := &contracts.MacroSnapshot{
		VIXAbove20:      contracts.Bool(true),
		BRLFlowNegative: contracts.Bool(true),
		USPositive:      contracts.Bool(true),
		BRPositive:      contracts.Bool(true),
		ExportsUp:       contracts.Bool(true),
	}

	result := Compute(nil, macro)

	// 1.0 + 2.0 + 1.5 - 1.5 - 1.0
	assert.Equal(t, 2.0, result.Score)
	assert.Equal(t, []string{
		FactorVIXAbove20,
		FactorFlowNegative,
		FactorUSPositive,
		FactorBRPositive,
		FactorExportsUp,
	}, result.Factors)
}

func TestCompute_FalseFlagsDoNotFire(t *testing.T) {
	macro := &contracts.MacroSnapshot{
		VIXAbove20:      contracts.Bool(false),
		BRLFlowNegative: contracts.Bool(false),
		USPositive:      contracts.Bool(false),
		BRPositive:      contracts.Bool(false),
		ExportsUp:       contracts.Bool(false),
	}

	result := Compute(nil, macro)
	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Factors)
}

func TestCompute_Deterministic(t *testing.T) {
	market := &contracts.MarketSnapshot{
		Quotes:  map[string]float64{"^DXY": 103.2, "US10Y": 4.25},
		Changes: map[string]float64{"US10Y": 0.1},
	}
	macro := &contracts.MacroSnapshot{
		BRRates:      contracts.Float(10.75),
		BRRatesDelta: contracts.Float(0.0),
		VIXAbove20:   contracts.Bool(false),
	}

	first := Compute(market, macro)
	second := Compute(market, macro)

	require.Equal(t, first, second)
	// DXY 2.0 + US10Y 1.5 - Selic 2.0
	assert.Equal(t, 1.5, first.Score)
	assert.Equal(t, contracts.BiasBuy, first.Bias)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  contracts.Bias
	}{
		{3.0, contracts.BiasStrongBuy},
		{5.5, contracts.BiasStrongBuy},
		{2.9, contracts.BiasBuy},
		{1.0, contracts.BiasBuy},
		{0.9, contracts.BiasNeutral},
		{0.0, contracts.BiasNeutral},
		{-0.9, contracts.BiasNeutral},
		{-1.0, contracts.BiasSell},
		{-2.9, contracts.BiasSell},
		{-3.0, contracts.BiasStrongSell},
		{-6.0, contracts.BiasStrongSell},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.score), "score %.1f", tt.score)
	}
}

func TestDescribe(t *testing.T) {
	factors := []string{FactorDXYUp, FactorUS10YUp, FactorVIXAbove20}

	assert.Equal(t,
		"Condições externas favorecem dólar forte contra o real.",
		describe(5.0, factors))
	assert.Equal(t,
		"Cenário favorece real mais forte e dólar pressionado.",
		describe(-5.0, factors))
	assert.Equal(t,
		"Leve viés comprador: DXY em alta, Juros EUA (10Y) em alta.",
		describe(2.0, factors))
	assert.Equal(t,
		"Leve viés vendedor: Selic estável/subindo.",
		describe(-2.0, []string{FactorSelicUp}))
	assert.Equal(t,
		"Leve viés comprador: sinais mistos.",
		describe(0.95, nil))
	assert.Equal(t,
		"Viés neutro no momento.",
		describe(0.0, factors))
}
