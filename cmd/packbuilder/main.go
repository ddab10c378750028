package main

import (
	"flag"
	"log"
	"os"

	"FolioPulse/internal/services/packbuild"
	applogger "FolioPulse/pkg/logger"
)

func main() {
	etfCSV := flag.String("etf_csv", "", "wide CSV of ETF daily closes (required)")
	stocksCSV := flag.String("stocks_csv", "", "wide CSV of stock daily closes (required)")
	out := flag.String("out", "data/analytics_pack.json", "output pack path")
	corrTopN := flag.Int("corr_top_n", 8, "correlation neighbors kept per ticker")
	minCorrObs := flag.Int("min_corr_obs", 60, "minimum shared observations for a correlation")
	etfSymbols := flag.String("etf_symbols", "", "optional one-column CSV of ETF symbols")
	stockNames := flag.String("stock_names", "", "optional symbol,name CSV for stocks")
	etfNames := flag.String("etf_names", "", "optional symbol,name CSV for ETFs")
	sectorMap := flag.String("sector_map", "", "optional symbol,sector CSV")
	flag.Parse()

	if *etfCSV == "" || *stocksCSV == "" {
		log.Fatal("both -etf_csv and -stocks_csv are required")
	}

	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	b := packbuild.NewBuilder(packbuild.Options{
		ETFCSV:         *etfCSV,
		StocksCSV:      *stocksCSV,
		CorrTopN:       *corrTopN,
		MinCorrObs:     *minCorrObs,
		ETFSymbolsPath: *etfSymbols,
		StockNamesPath: *stockNames,
		ETFNamesPath:   *etfNames,
		SectorMapPath:  *sectorMap,
	}, l)

	pack, err := b.Build()
	if err != nil {
		l.Error("pack build failed", applogger.Error(err))
		os.Exit(1)
	}
	if err := pack.Save(*out); err != nil {
		l.Error("pack save failed", applogger.Error(err))
		os.Exit(1)
	}
	l.Info("pack written",
		applogger.String("path", *out),
		applogger.Int("tickers", len(pack.Tickers)))
}
