package analytics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTicker marks requests referencing tickers outside the loaded
// universe. Callers match it with errors.Is.
var ErrUnknownTicker = errors.New("unknown tickers")

func unknownTickerError(tickers []string) error {
	if len(tickers) > 20 {
		tickers = tickers[:20]
	}
	return fmt.Errorf("%w: %s", ErrUnknownTicker, strings.Join(tickers, ", "))
}
