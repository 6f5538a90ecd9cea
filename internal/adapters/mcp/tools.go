// Package mcp exposes the latest scored run as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/pickem/internal/domain/types"
)

const (
	serverName     = "pickem-mcp"
	serverVersion  = "1.0.0"
	defaultLimit   = 25
	maxToolResults = 500
)

// ErrMissingPlayer is returned by tools that need a player name.
var ErrMissingPlayer = errors.New("player is required")

// Dependencies are the read operations the tools serve.
type Dependencies interface {
	Games(ctx context.Context) ([]types.GameResult, error)
	Picks(ctx context.Context) (types.PicksGrid, error)
	TopN(ctx context.Context, n int) ([]types.ScoreboardRow, error)
	Rank(ctx context.Context, player string) (types.ScoreboardRow, error)
}

// ScoreboardArgs are the scoreboard tool arguments.
type ScoreboardArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Number of rows to return (default 25)"`
}

// PicksGridArgs are the picks_grid tool arguments.
type PicksGridArgs struct {
	Player string `json:"player,omitempty" jsonschema:"Only return this player's row"`
}

// GameResultsArgs are the game_results tool arguments.
type GameResultsArgs struct {
	CompleteOnly bool `json:"complete_only,omitempty" jsonschema:"Only return completed games"`
}

// PlayerRankArgs are the player_rank tool arguments.
type PlayerRankArgs struct {
	Player string `json:"player" jsonschema:"Player name (required)"`
}

type tools struct {
	deps Dependencies
}

// NewServer builds an MCP server with the scoring tools registered.
func NewServer(deps Dependencies) *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: serverName, Version: serverVersion}, nil)
	t := &tools{deps: deps}

	sdk.AddTool(server, &sdk.Tool{
		Name:        "scoreboard",
		Description: "Ranked scoreboard: total points, remaining confidence weights, max possible and efficiency per player",
	}, t.scoreboard)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "picks_grid",
		Description: "Each player's pick and effective confidence weight for every game, with grading status",
	}, t.picksGrid)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "game_results",
		Description: "Games of the round-set with spread, final score and result against the spread",
	}, t.gameResults)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "player_rank",
		Description: "Scoreboard row and rank for one player",
	}, t.playerRank)

	return server
}

// Handler serves server over streamable HTTP.
func Handler(server *sdk.Server) http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, &sdk.StreamableHTTPOptions{JSONResponse: true})
}

func (t *tools) scoreboard(ctx context.Context, _ *sdk.CallToolRequest, args ScoreboardArgs) (*sdk.CallToolResult, any, error) {
	n := args.Limit
	if n <= 0 {
		n = defaultLimit
	}
	n = min(n, maxToolResults)
	rows, err := t.deps.TopN(ctx, n)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(rows)
}

func (t *tools) picksGrid(ctx context.Context, _ *sdk.CallToolRequest, args PicksGridArgs) (*sdk.CallToolResult, any, error) {
	grid, err := t.deps.Picks(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	player := strings.TrimSpace(args.Player)
	if player == "" {
		return toolJSON(grid)
	}
	for _, row := range grid.Rows {
		if strings.EqualFold(row.Player, player) {
			return toolJSON(types.PicksGrid{Games: grid.Games, Rows: []types.PicksRow{row}})
		}
	}
	return toolError(fmt.Errorf("player %q has no picks", player)), nil, nil
}

func (t *tools) gameResults(ctx context.Context, _ *sdk.CallToolRequest, args GameResultsArgs) (*sdk.CallToolResult, any, error) {
	games, err := t.deps.Games(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	if args.CompleteOnly {
		done := make([]types.GameResult, 0, len(games))
		for _, g := range games {
			if g.Complete {
				done = append(done, g)
			}
		}
		games = done
	}
	return toolJSON(games)
}

func (t *tools) playerRank(ctx context.Context, _ *sdk.CallToolRequest, args PlayerRankArgs) (*sdk.CallToolResult, any, error) {
	player := strings.TrimSpace(args.Player)
	if player == "" {
		return toolError(ErrMissingPlayer), nil, nil
	}
	row, err := t.deps.Rank(ctx, player)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(row)
}

func toolJSON(v any) (*sdk.CallToolResult, any, error) {
	b, err := sonic.Marshal(v)
	if err != nil {
		return toolError(err), nil, nil
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(b)}},
	}, nil, nil
}

func toolError(err error) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{&sdk.TextContent{Text: fmt.Sprintf("error: %v", err)}},
	}
}
