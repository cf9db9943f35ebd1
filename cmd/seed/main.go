package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"workshopzones/internal/config"
	"workshopzones/internal/logging"
	"workshopzones/internal/model"
	"workshopzones/internal/repository"
	"workshopzones/internal/scoring"
	"workshopzones/internal/service"
)

// leanings biases each synthetic respondent towards one category
var leanings = []model.Category{
	model.CategoryA, model.CategoryA, model.CategoryB, model.CategoryC, model.CategoryD,
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	groupID := flag.String("group", "demo-workshop", "workshop id to seed")
	size := flag.Int("n", 24, "number of respondents")
	seed := flag.Uint64("seed", 2026, "random seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	snapshots := repository.NewSnapshotRepo(client.Database(cfg.Mongo.Database))
	if err := snapshots.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	engine := scoring.NewEngine(nil, scoring.Options{
		ScaleMin: cfg.Scoring.ScaleMin,
		ScaleMax: cfg.Scoring.ScaleMax,
		Epsilon:  cfg.Scoring.Epsilon,
		Workers:  cfg.Scoring.Workers,
	})
	svc := service.NewAnalysisService(engine, snapshots, nil, nil, logger, 0)

	roster := syntheticRoster(engine, *size, rand.New(rand.NewPCG(*seed, *seed)))
	result, err := svc.Analyze(ctx, *groupID, roster)
	if err != nil {
		logger.Fatal("failed to seed workshop", zap.Error(err))
	}

	logger.Info("seeded workshop",
		zap.String("group_id", result.GroupID),
		zap.Int("respondents", result.RespondentCount),
		zap.Stringer("zone_by_average", result.ZoneByAverage),
		zap.Stringer("zone_by_count", result.ZoneByCount),
	)
}

// syntheticRoster answers every item, scoring the respondent's leaning high
// and everything else low
func syntheticRoster(engine *scoring.Engine, n int, rng *rand.Rand) []model.RosterRecord {
	scale := engine.Options()
	items := engine.QuestionMap().Items()
	start := time.Now().UTC().Add(-time.Duration(n) * time.Minute)

	roster := make([]model.RosterRecord, 0, n)
	for i := range n {
		lean := leanings[rng.IntN(len(leanings))]
		answers := make(map[string]int, len(items))
		for _, it := range items {
			v := scale.ScaleMin + rng.IntN(2)
			if it.Category == lean {
				v = scale.ScaleMax - rng.IntN(2)
			}
			if it.Reversed {
				v = scale.ScaleMin + scale.ScaleMax - v
			}
			answers[it.ItemID] = v
		}
		roster = append(roster, model.RosterRecord{
			Email:       fmt.Sprintf("participant%02d@example.com", i+1),
			Name:        fmt.Sprintf("Participant %d", i+1),
			Answers:     answers,
			SubmittedAt: start.Add(time.Duration(i) * time.Minute),
		})
	}
	return roster
}
