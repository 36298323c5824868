package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/mongodb/marian/api"
	"github.com/mongodb/marian/config"
	"github.com/mongodb/marian/internal/coordinator"
	"github.com/mongodb/marian/internal/correlation"
	"github.com/mongodb/marian/internal/manifest"
	"github.com/mongodb/marian/internal/metrics"
	"github.com/mongodb/marian/internal/speller"
)

func main() {
	var (
		help           = flag.Bool("help", false, "Show help message")
		version        = flag.Bool("version", false, "Show version information")
		port           = flag.String("port", "8080", "Port to run the server on")
		dataDir        = flag.String("data-dir", "./search_data", "Directory to store admin config and correlation snapshots")
		manifestSource = flag.String("manifest-source", "dir:./manifests", "Manifest source: \"bucket:<bucket>/<prefix>\" or \"dir:<path>\"")
		workers        = flag.Int("workers", 0, "Worker pool size (0 uses the canonical default)")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Marian - a full-text search service with typo correction and correlation-aware ranking\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                                         # Start on port 8080, reading ./manifests\n", os.Args[0])
		fmt.Printf("  %s --manifest-source bucket:docs/prod       # Read manifests from a bucket\n", os.Args[0])
		fmt.Printf("  %s --port 9000 --workers 4                 # Custom port and pool size\n", os.Args[0])
		return
	}

	if *version {
		fmt.Println("Marian v1.0.0")
		return
	}

	source, err := config.ParseManifestSource(*manifestSource)
	if err != nil {
		log.Fatalf("invalid --manifest-source: %v", err)
	}

	var fetcher manifest.Fetcher
	switch source.Kind {
	case config.ManifestSourceDir:
		fetcher = manifest.DirFetcher{Dir: source.Dir}
	case config.ManifestSourceBucket:
		bf, err := manifest.NewBucketFetcher(source.Bucket, source.Prefix)
		if err != nil {
			log.Fatalf("failed to construct bucket fetcher: %v", err)
		}
		fetcher = bf
	}

	if err := os.MkdirAll(*dataDir, 0750); err != nil {
		log.Fatalf("failed to create data directory %q: %v", *dataDir, err)
	}

	corr, err := correlation.New(*dataDir)
	if err != nil {
		log.Fatalf("failed to load correlation store: %v", err)
	}

	var rankerSettings config.RankerSettings
	rankerSettings.ApplyDefaults()
	var poolSettings config.PoolSettings
	if *workers > 0 {
		poolSettings.WorkerCount = *workers
	}
	poolSettings.ApplyDefaults()

	c, err := coordinator.New(fetcher, poolSettings.WorkerCount, config.DefaultFieldWeights(), rankerSettings, poolSettings, *dataDir, corr)
	if err != nil {
		log.Fatalf("failed to construct coordinator: %v", err)
	}
	c.UpdateSpeller(speller.NewDictionary(nil))

	log.Printf("loading manifests from %s", *manifestSource)
	if err := c.Load(context.Background()); err != nil {
		log.Fatalf("initial manifest load failed: %v", err)
	}

	m := metrics.New()
	a := api.New(c, corr, m)

	router := gin.Default()
	api.SetupRoutes(router, a)

	log.Printf("starting server on port %s", *port)
	if err := router.Run(":" + *port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
