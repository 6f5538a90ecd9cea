// Command sample writes a generated contest as submissions.csv and games.csv.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/pickem/internal/adapters/source"
	"github.com/okian/pickem/internal/domain/normalize"
	"github.com/okian/pickem/internal/sample"
	"github.com/okian/pickem/pkg/logger"
)

func main() {
	def := sample.DefaultConfig()
	var (
		outDir    = flag.String("out", "data", "Directory for submissions.csv and games.csv")
		players   = flag.Int("players", def.Players, "Number of players")
		games     = flag.Int("games", def.Games, "Number of games (max 16)")
		seed      = flag.Uint64("seed", def.Seed, "Random seed")
		kickoff   = flag.String("kickoff", def.Kickoff.Format(time.RFC3339), "First game deadline (RFC3339)")
		complete  = flag.Float64("complete", def.CompleteRatio, "Share of games with a final score")
		resubmit  = flag.Float64("resubmit", def.ResubmitRatio, "Share of players who resubmit")
		duplicate = flag.Float64("duplicate", def.DuplicateRatio, "Share of players who reuse a weight")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx := context.Background()
	log := logger.Named("sample")

	start, err := time.Parse(time.RFC3339, *kickoff)
	if err != nil {
		log.Fatal(ctx, "invalid kickoff", logger.String("kickoff", *kickoff), logger.Error(err))
	}

	contest, err := sample.Generate(sample.Config{
		Players:        *players,
		Games:          *games,
		Seed:           *seed,
		Kickoff:        start.UTC(),
		CompleteRatio:  *complete,
		ResubmitRatio:  *resubmit,
		DuplicateRatio: *duplicate,
	})
	if err != nil {
		log.Fatal(ctx, "generate contest", logger.Error(err))
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(ctx, "create output directory", logger.Error(err))
	}
	for name, table := range map[string]normalize.Table{
		"submissions.csv": contest.Submissions,
		"games.csv":       contest.Games,
	} {
		path := filepath.Join(*outDir, name)
		if err := writeTable(path, table); err != nil {
			log.Fatal(ctx, "write table", logger.String("path", path), logger.Error(err))
		}
	}

	log.Info(ctx, "sample contest written",
		logger.String("contest_id", contest.ID),
		logger.String("dir", *outDir),
		logger.Int("rows", len(contest.Submissions.Rows)),
		logger.Int("games", len(contest.Games.Rows)),
	)
}

func writeTable(path string, t normalize.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := source.WriteCSV(f, t); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
