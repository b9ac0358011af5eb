// Command variation derives a second theme mapping from an existing one by
// applying controlled random changes. The same seed and level always
// produce the same output mapping.
package main

import (
	"flag"
	"log"
	"math/rand"

	"github.com/ThomasJButler/iAI-Assessment/internal/config"
	"github.com/ThomasJButler/iAI-Assessment/internal/mapping"
	"github.com/ThomasJButler/iAI-Assessment/internal/variation"
)

var (
	inputFile  = flag.String("input", "mapping1.json", "Source theme mapping file")
	outputFile = flag.String("output", "mapping2.json", "Destination for the varied mapping")
	level      = flag.Float64("level", -1, "Variation level 0..1 (overrides config)")
	seed       = flag.Int64("seed", 0, "Random seed (overrides config when non-zero)")
	configFile = flag.String("config", "", "Path to pipeline config JSON (optional)")
)

func main() {
	flag.Parse()

	cfg := config.EmptyPipelineConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadPipelineConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	varLevel := cfg.GetVariationLevel()
	if *level >= 0 {
		varLevel = *level
	}
	varSeed := cfg.GetSeed()
	if *seed != 0 {
		varSeed = *seed
	}

	m, err := mapping.LoadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to load mapping: %v", err)
	}

	gen := variation.NewGenerator(varLevel, rand.New(rand.NewSource(varSeed)))
	varied := gen.Vary(m)

	if err := mapping.SaveFile(*outputFile, varied); err != nil {
		log.Fatalf("Failed to write varied mapping: %v", err)
	}
	log.Printf("varied %d responses at level %.2f (seed %d)", varied.Len(), varLevel, varSeed)
}
