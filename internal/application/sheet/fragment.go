package sheet

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// EncodeFragment serializes quantities as ticker=quantity pairs joined by '&',
// sorted by ticker. Zero quantities are left out.
func EncodeFragment(q market.QuantityMap) string {
	pairs := make([]string, 0, len(q))
	for _, ticker := range q.Tickers() {
		amount := q[ticker]
		if amount == 0 {
			continue
		}
		pairs = append(pairs, url.QueryEscape(ticker.String())+"="+strconv.FormatFloat(amount, 'f', -1, 64))
	}
	return strings.Join(pairs, "&")
}

// ParseFragment restores quantities from EncodeFragment output. A leading '#'
// is ignored. Malformed pairs, and tickers rejected by accept when it is
// non-nil, are skipped and reported as warnings. A repeated ticker keeps its
// last value.
func ParseFragment(fragment string, accept func(market.Ticker) bool) (market.QuantityMap, []shared.Warning) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")

	out := make(market.QuantityMap)
	var warnings []shared.Warning
	if fragment == "" {
		return out, nil
	}

	for _, pair := range strings.Split(fragment, "&") {
		if pair == "" {
			continue
		}

		rawTicker, rawAmount, ok := strings.Cut(pair, "=")
		if !ok {
			warnings = append(warnings, invalidPair(pair, "missing '='"))
			continue
		}
		rawTicker, err := url.QueryUnescape(rawTicker)
		if err != nil {
			warnings = append(warnings, invalidPair(pair, "bad escape"))
			continue
		}
		ticker, err := market.NewTicker(rawTicker)
		if err != nil {
			warnings = append(warnings, invalidPair(pair, "invalid ticker"))
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(rawAmount), 64)
		if err != nil || market.ValidateQuantity(amount) != nil {
			warnings = append(warnings, invalidPair(pair, "quantity must be a non-negative number"))
			continue
		}
		if accept != nil && !accept(ticker) {
			warnings = append(warnings, shared.NewWarning(shared.WarningInvalidOverride, ticker.String(),
				"ticker is not tracked, ignored"))
			continue
		}

		out[ticker] = amount
	}
	return out, warnings
}

func invalidPair(pair, reason string) shared.Warning {
	return shared.NewWarning(shared.WarningInvalidOverride, pair, "skipped fragment pair: %s", reason)
}
