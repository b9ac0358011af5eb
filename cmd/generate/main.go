// Command generate produces a synthetic consultation corpus and its first
// theme mapping. Responses come from the Gemini API when GEMINI_API_KEY is
// set, or from the offline generator with -offline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/ThomasJButler/iAI-Assessment/internal/config"
	"github.com/ThomasJButler/iAI-Assessment/internal/extract"
	"github.com/ThomasJButler/iAI-Assessment/internal/mapping"
	"github.com/ThomasJButler/iAI-Assessment/internal/synthetic"
)

var (
	count         = flag.Int("count", 0, "Number of responses to generate (overrides config)")
	responsesFile = flag.String("responses", "survey_responses.json", "Output path for the raw responses JSON")
	mappingFile   = flag.String("mapping", "mapping1.json", "Output path for the extracted theme mapping")
	offline       = flag.Bool("offline", false, "Use the offline generator instead of the Gemini API")
	seed          = flag.Int64("seed", 0, "Random seed (overrides config when non-zero)")
	configFile    = flag.String("config", "", "Path to pipeline config JSON (optional)")
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

	responseCount := cfg.GetResponseCount()
	if *count > 0 {
		responseCount = *count
	}
	genSeed := cfg.GetSeed()
	if *seed != 0 {
		genSeed = *seed
	}

	responses, err := generateResponses(cfg, responseCount, genSeed)
	if err != nil {
		log.Fatalf("Failed to generate responses: %v", err)
	}
	log.Printf("generated %d responses", len(responses))

	data, err := json.MarshalIndent(responses, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal responses: %v", err)
	}
	if err := os.WriteFile(*responsesFile, data, 0644); err != nil {
		log.Fatalf("Failed to write responses: %v", err)
	}

	extractor := extract.NewExtractor(cfg.GetThemeCount(), rand.New(rand.NewSource(genSeed)))
	m := extractor.Extract(responses)

	if err := mapping.SaveFile(*mappingFile, m); err != nil {
		log.Fatalf("Failed to write mapping: %v", err)
	}
}

func generateResponses(cfg *config.PipelineConfig, count int, seed int64) ([]string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if *offline || apiKey == "" {
		if !*offline {
			log.Print("GEMINI_API_KEY not set, falling back to offline generator")
		}
		gen := synthetic.NewOfflineGenerator(rand.New(rand.NewSource(seed)))
		return gen.Generate(count), nil
	}

	ctx := context.Background()
	gen, err := synthetic.NewGenerator(ctx, apiKey, cfg.GetGenerationModel(), cfg.GetGenerationBatchSize())
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, count)
}
