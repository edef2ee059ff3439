package contracts

// Bias is the five-level directional classification of a score.
// The values are the Portuguese labels served to the dashboard.
type Bias string

const (
	BiasStrongBuy  Bias = "Forte Compra"
	BiasBuy        Bias = "Compra"
	BiasNeutral    Bias = "Neutro"
	BiasSell       Bias = "Venda"
	BiasStrongSell Bias = "Forte Venda"
)

// ScoreResult is the pure output of the score engine for one snapshot pair.
type ScoreResult struct {
	Score   float64  `json:"score"`
	Bias    Bias     `json:"bias"`
	Brief   string   `json:"brief"`
	Factors []string `json:"factors"`
}

// ScoreEntry is one persisted day in the rolling history, keyed by its
// ISO calendar date. Label always equals Date; the dashboard uses it as
// the chart axis label.
type ScoreEntry struct {
	Date    string   `json:"date"`
	Score   float64  `json:"score"`
	Label   string   `json:"label"`
	Bias    Bias     `json:"bias"`
	Brief   string   `json:"brief"`
	Factors []string `json:"factors"`
}

// ScoreBundle is the aggregation pipeline's sole output: today's entry
// plus the rolling 30-day series it belongs to.
type ScoreBundle struct {
	Today   ScoreEntry   `json:"today"`
	History []ScoreEntry `json:"history"`
}
