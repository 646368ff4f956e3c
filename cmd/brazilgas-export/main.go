package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/nievasdev/brazilgas/internal/config"
	"github.com/nievasdev/brazilgas/internal/export"
	"github.com/nievasdev/brazilgas/internal/fuel"
	"github.com/nievasdev/brazilgas/internal/fuel/sources"
	"github.com/nievasdev/brazilgas/internal/logger"
	"github.com/nievasdev/brazilgas/internal/objstore"
	"github.com/nievasdev/brazilgas/internal/store"
)

func main() {
	product := flag.String("product", fuel.All, "product filter for the states view")
	region := flag.String("region", fuel.All, "region filter")
	view := flag.String("view", "all", "states | monthly | all")
	format := flag.String("format", "csv", "csv | parquet")
	outDir := flag.String("out", "exports", "local output directory (ignored when -bucket is set)")
	bucket := flag.String("bucket", "", "upload to this S3 bucket instead of writing files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).WithError(err).Fatal("failed to load config")
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	mainLog := log.WithComponent("export")

	f, err := export.ParseFormat(*format)
	if err != nil {
		mainLog.WithError(err).Fatal("invalid -format")
	}
	filter := fuel.Filter{Product: fuel.Product(*product), Region: fuel.Region(*region)}
	cat := fuel.DefaultCatalog()
	if filter.Product != fuel.All && !cat.IsProduct(filter.Product) {
		mainLog.Fatalf("unknown product %q", *product)
	}
	if filter.Region != fuel.All && !cat.IsRegion(filter.Region) {
		mainLog.Fatalf("unknown region %q", *region)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	source, err := sources.FromConfig(ctx, cfg, &http.Client{})
	if err != nil {
		mainLog.WithError(err).Fatal("failed to configure data source")
	}
	service := fuel.NewService(store.NewMemoryStore(1, 0), source, fuel.WithLogger(log))
	if _, err := service.Refresh(ctx); err != nil {
		mainLog.WithError(err).Fatal("dataset load failed")
	}

	outputs := make(map[string][]byte)
	if *view == "states" || *view == "all" {
		states, err := service.StateView(filter)
		if err != nil {
			mainLog.WithError(err).Fatal("states view failed")
		}
		if outputs["states"], err = export.EncodeStates(states, f); err != nil {
			mainLog.WithError(err).Fatal("encode states")
		}
	}
	if *view == "monthly" || *view == "all" {
		points, err := service.MonthlyView(filter.Region)
		if err != nil {
			mainLog.WithError(err).Fatal("monthly view failed")
		}
		if outputs["monthly"], err = export.EncodeMonthly(points, cat.Products(), f); err != nil {
			mainLog.WithError(err).Fatal("encode monthly")
		}
	}
	if len(outputs) == 0 {
		mainLog.Fatalf("unknown view %q", *view)
	}

	if *bucket != "" {
		client, err := objstore.NewS3Client(ctx, objstore.Options{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			mainLog.WithError(err).Fatal("failed to create s3 client")
		}
		uploader := export.NewS3Uploader(client, *bucket, cfg.ExportPrefix, log)
		for name, data := range outputs {
			key, err := uploader.Upload(ctx, name, f, data)
			if err != nil {
				mainLog.WithError(err).Fatal("upload failed")
			}
			fmt.Printf("s3://%s/%s\n", *bucket, key)
		}
		return
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		mainLog.WithError(err).Fatal("create output directory")
	}
	for name, data := range outputs {
		path := filepath.Join(*outDir, fmt.Sprintf("%s.%s", name, f.Extension()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			mainLog.WithError(err).Fatal("write export")
		}
		fmt.Println(path)
	}
}
