package packbuild

import (
	"fmt"

	"FolioPulse/internal/domain/models"
	"FolioPulse/pkg/logger"
	"FolioPulse/pkg/util"
)

// Options configures one pack build.
type Options struct {
	ETFCSV     string
	StocksCSV  string
	CorrTopN   int
	MinCorrObs int

	// Optional metadata inputs, skipped when absent or unreadable.
	ETFSymbolsPath string
	StockNamesPath string
	ETFNamesPath   string
	SectorMapPath  string
}

// Builder turns wide price CSVs into an analytics pack.
type Builder struct {
	opts Options
	log  *logger.Logger
}

func NewBuilder(opts Options, log *logger.Logger) *Builder {
	if opts.CorrTopN <= 0 {
		opts.CorrTopN = 8
	}
	if opts.MinCorrObs <= 0 {
		opts.MinCorrObs = 60
	}
	return &Builder{opts: opts, log: log}
}

// Build reads both price files, merges them, derives per-ticker metrics and
// the correlation index, and assembles the pack.
func (b *Builder) Build() (*models.AnalyticsPack, error) {
	etf, err := ReadWidePricesCSV(b.opts.ETFCSV)
	if err != nil {
		return nil, fmt.Errorf("etf prices: %w", err)
	}
	stocks, err := ReadWidePricesCSV(b.opts.StocksCSV)
	if err != nil {
		return nil, fmt.Errorf("stock prices: %w", err)
	}
	b.log.Info("price files loaded",
		logger.Int("etf_tickers", len(etf.Tickers)),
		logger.Int("stock_tickers", len(stocks.Tickers)))

	prices, err := MergePriceTables(etf, stocks)
	if err != nil {
		return nil, err
	}

	refs := b.loadReferences()

	metrics := BuildTickerMetrics(prices, refs)
	rets := DailyReturns(prices)
	corrTop := BuildCorrelationTop(rets, b.opts.CorrTopN, b.opts.MinCorrObs)

	asOf := ""
	if prices.Len() > 0 {
		asOf = util.FormatDate(prices.Dates[prices.Len()-1])
	}

	pack := &models.AnalyticsPack{
		AsOf: asOf,
		Source: models.PackSource{
			ETFCSV:                b.opts.ETFCSV,
			StocksCSV:             b.opts.StocksCSV,
			TradingDaysAssumption: models.TradingDays,
		},
		Tickers:        metrics,
		CorrelationTop: corrTop,
	}
	b.log.Info("pack assembled",
		logger.Int("tickers", len(metrics)),
		logger.Int("corr_entries", len(corrTop)),
		logger.String("as_of", asOf))
	return pack, nil
}

// loadReferences never fails the build. A broken or absent reference file
// only costs enrichment, so it is logged and skipped.
func (b *Builder) loadReferences() References {
	etfSymbols, err := LoadETFSymbols(b.opts.ETFSymbolsPath)
	if err != nil {
		b.log.Warn("etf symbol list skipped", logger.Error(err))
		etfSymbols = map[string]bool{}
	}
	names, err := LoadNameMap(b.opts.StockNamesPath)
	if err != nil {
		b.log.Warn("stock name map skipped", logger.Error(err))
		names = map[string]string{}
	}
	etfNames, err := LoadNameMap(b.opts.ETFNamesPath)
	if err != nil {
		b.log.Warn("etf name map skipped", logger.Error(err))
	}
	for t, n := range etfNames {
		names[t] = n
	}
	sectors, err := LoadSectorMap(b.opts.SectorMapPath)
	if err != nil {
		b.log.Warn("sector map skipped", logger.Error(err))
		sectors = map[string]string{}
	}
	return References{ETFSymbols: etfSymbols, Names: names, Sectors: sectors}
}
