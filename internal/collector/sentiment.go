package collector

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dolarscope/backend/internal/external/tradingeconomics"
)

// EventClass is the keyword classification of a calendar event name.
type EventClass int

const (
	// EventUnclassified events carry no sentiment signal.
	EventUnclassified EventClass = iota
	// EventInflation: actual below forecast is a positive surprise.
	EventInflation
	// EventUnemploymentRate: actual below forecast is positive.
	EventUnemploymentRate
	// EventActivity: actual above forecast is positive.
	EventActivity
	// EventRateDecision entries are excluded from sentiment; rate moves
	// already feed the score through the dedicated rate rules.
	EventRateDecision
)

var (
	reInflation    = regexp.MustCompile(`cpi|ppi|inflation|ipc|ipca|core`)
	reUnemployment = regexp.MustCompile(`unemployment|desemprego`)
	reRateWord     = regexp.MustCompile(`rate|taxa`)
	reActivity     = regexp.MustCompile(`gdp|pib|pmi|ism|industrial|produção|retail|vendas|payroll|nonfarm`)
	reRateDecision = regexp.MustCompile(`rate decision|interest rate|selic|fomc|copom`)
)

// ClassifyEvent maps an event name to its sentiment class. Matching is
// case-insensitive and the checks run in a fixed precedence order, so
// e.g. "Core CPI" stays inflation even though "core" alone would too.
func ClassifyEvent(name string) EventClass {
	name = strings.ToLower(name)

	switch {
	case reInflation.MatchString(name):
		return EventInflation
	case reUnemployment.MatchString(name) && reRateWord.MatchString(name):
		return EventUnemploymentRate
	case reActivity.MatchString(name):
		return EventActivity
	case reRateDecision.MatchString(name):
		return EventRateDecision
	default:
		return EventUnclassified
	}
}

type sentimentResult struct {
	usPositive bool
	brPositive bool
}

// scoreSentiment reduces a day's calendar to per-country sentiment.
// Each classified event with numeric actual and forecast contributes a
// signed weight (2.0 high, 1.0 medium, 0.5 otherwise) to its country's
// running total; the boolean is total > 0.
func scoreSentiment(events []tradingeconomics.Event) sentimentResult {
	var usScore, brScore float64

	for _, e := range events {
		country := eventCountry(e.Country)
		if country == "" {
			continue
		}

		actual, actualOK := parseEventNumber(e.Actual)
		forecast, forecastOK := parseEventNumber(e.Forecast)
		if !actualOK || !forecastOK {
			continue
		}

		var good bool
		switch ClassifyEvent(e.Name) {
		case EventInflation, EventUnemploymentRate:
			good = actual < forecast
		case EventActivity:
			good = actual > forecast
		default:
			continue
		}

		weight := eventWeight(e.Importance)
		if !good {
			weight = -weight
		}

		if country == "US" {
			usScore += weight
		} else {
			brScore += weight
		}
	}

	return sentimentResult{
		usPositive: usScore > 0,
		brPositive: brScore > 0,
	}
}

func eventCountry(raw string) string {
	switch {
	case strings.Contains(raw, "United"):
		return "US"
	case strings.Contains(raw, "Brazil"):
		return "BR"
	case raw == "US" || raw == "BR":
		return raw
	default:
		return ""
	}
}

func eventWeight(importance string) float64 {
	switch {
	case strings.Contains(importance, "high"):
		return 2.0
	case strings.Contains(importance, "medium"):
		return 1.0
	default:
		return 0.5
	}
}

var nonNumeric = regexp.MustCompile(`[^0-9+\-.]`)

// parseEventNumber extracts a float from a calendar value like "3.2%"
// or "-12.4K". Blank or non-numeric values report ok=false and the
// event is skipped.
func parseEventNumber(s string) (float64, bool) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
