package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/nievasdev/brazilgas/internal/convert"
	"github.com/nievasdev/brazilgas/internal/logger"
)

func main() {
	in := flag.String("in", "Gas in Brazil dataset v1.0.xlsx", "source workbook")
	out := flag.String("out", "data/gas-prices-raw.csv", "destination CSV")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.New(logger.Options{Level: *level})
	mainLog := log.WithComponent("convert")

	src, err := os.Open(*in)
	if err != nil {
		mainLog.WithError(err).Fatal("open workbook")
	}
	defer src.Close()

	dst, err := os.Create(*out)
	if err != nil {
		mainLog.WithError(err).Fatal("create csv")
	}

	report, err := convert.WorkbookToCSV(src, dst, log)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		mainLog.WithError(err).Fatal("conversion failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}
