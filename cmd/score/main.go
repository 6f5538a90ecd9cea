// Command score loads the configured source once and prints the scored tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"

	app "github.com/okian/pickem/internal/app"
	"github.com/okian/pickem/internal/config"
	"github.com/okian/pickem/internal/domain/pipeline"
	"github.com/okian/pickem/internal/domain/report"
	"github.com/okian/pickem/internal/domain/types"
	"github.com/okian/pickem/pkg/logger"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

func main() {
	var (
		format = flag.String("format", formatText, "Output format: text or json")
		tables = flag.String("tables", "games,scoreboard,picks", "Comma-separated tables: games, scoreboard, picks, stats")
	)
	flag.Parse()

	if err := logger.InitWith(os.Stderr, logger.FormatText); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx := context.Background()
	log := logger.Named("score")

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(ctx, "failed to load config", logger.Error(err))
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	out, err := score(ctx, cfg)
	if err != nil {
		log.Fatal(ctx, "scoring failed", logger.Error(err))
	}

	if err := render(os.Stdout, out, *format, strings.Split(*tables, ",")); err != nil {
		log.Fatal(ctx, "render tables", logger.Error(err))
	}
}

func score(ctx context.Context, cfg *config.Config) (types.Tables, error) {
	src, err := app.NewSource(ctx, cfg)
	if err != nil {
		return types.Tables{}, err
	}
	defer src.Close()

	snap, err := src.Load(ctx)
	if err != nil {
		return types.Tables{}, fmt.Errorf("load inputs: %w", err)
	}
	res, err := pipeline.Run(ctx, snap.Input(), app.PipelineOptions(cfg)...)
	if err != nil {
		return types.Tables{}, err
	}
	return report.Build(res), nil
}

func render(w io.Writer, t types.Tables, format string, names []string) error {
	switch format {
	case formatJSON:
		selected := make(map[string]any, len(names))
		for _, name := range names {
			switch strings.TrimSpace(name) {
			case "games":
				selected["games"] = t.Games
			case "scoreboard":
				selected["scoreboard"] = t.Scoreboard
			case "picks":
				selected["picks"] = t.Picks
			case "stats":
				selected["stats"] = t.Stats
			default:
				return fmt.Errorf("unknown table: %s", name)
			}
		}
		b, err := sonic.ConfigStd.MarshalIndent(selected, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case formatText:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, name := range names {
			switch strings.TrimSpace(name) {
			case "games":
				writeGames(tw, t.Games)
			case "scoreboard":
				writeScoreboard(tw, t.Scoreboard)
			case "picks":
				writePicks(tw, t.Picks)
			case "stats":
				writeStats(tw, t.Stats)
			default:
				return fmt.Errorf("unknown table: %s", name)
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeGames(w io.Writer, games []types.GameResult) {
	fmt.Fprintln(w, "GAME\tAWAY\tHOME\tLINE\tSCORE\tRESULT")
	for _, g := range games {
		score := ""
		if g.AwayScore != nil && g.HomeScore != nil {
			score = fmt.Sprintf("%d-%d", *g.AwayScore, *g.HomeScore)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%s\t%s\n", g.GameID, g.Away, g.Home, g.Line, score, g.Result)
	}
}

func writeScoreboard(w io.Writer, rows []types.ScoreboardRow) {
	fmt.Fprintln(w, "RANK\tPLAYER\tTOTAL\tREMAINING\tMAX\tEFFICIENCY")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Rank, r.Player, r.Total, r.WeightsRemaining, r.MaxPossible, r.Efficiency)
	}
}

func writePicks(w io.Writer, grid types.PicksGrid) {
	fmt.Fprintln(w, "PLAYER\t"+strings.Join(grid.Games, "\t"))
	for _, row := range grid.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.Text
		}
		fmt.Fprintln(w, row.Player+"\t"+strings.Join(cells, "\t"))
	}
}

func writeStats(w io.Writer, s types.RunStats) {
	fmt.Fprintln(w, "STAT\tVALUE")
	for _, kv := range []struct {
		name  string
		value int
	}{
		{"rows", s.Rows},
		{"dropped_rows", s.DroppedRows},
		{"submissions", s.Submissions},
		{"late", s.Late},
		{"malformed", s.Malformed},
		{"out_of_range", s.OutOfRange},
		{"unknown_game", s.UnknownGame},
		{"selected", s.Selected},
		{"duplicates", s.Duplicates},
		{"players", s.Players},
		{"games_complete", s.Complete},
	} {
		fmt.Fprintf(w, "%s\t%d\n", kv.name, kv.value)
	}
}
