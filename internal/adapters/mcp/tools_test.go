package mcp

import (
	"context"
	"testing"

	"github.com/bytedance/sonic"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/pickem/internal/adapters/repository"
	"github.com/okian/pickem/internal/domain/types"
)

type stubDeps struct {
	rows      []types.ScoreboardRow
	lastLimit int
}

func (s *stubDeps) Games(context.Context) ([]types.GameResult, error) {
	return []types.GameResult{
		{GameID: "g1", Away: "Packers", Home: "Eagles", Complete: true, Result: "Eagles"},
		{GameID: "g2", Away: "Vikings", Home: "Rams"},
	}, nil
}

func (s *stubDeps) Picks(context.Context) (types.PicksGrid, error) {
	return types.PicksGrid{
		Games: []string{"g1", "g2"},
		Rows: []types.PicksRow{
			{Player: "ana", Cells: []types.Cell{{GameID: "g1", Text: "Eagles (2)", Status: "correct"}, {GameID: "g2", Text: "Rams (1)", Status: "pending"}}},
			{Player: "ben", Cells: []types.Cell{{GameID: "g1", Text: "Packers (2)", Status: "incorrect"}, {GameID: "g2", Text: "Rams (1)", Status: "pending"}}},
		},
	}, nil
}

func (s *stubDeps) TopN(_ context.Context, n int) ([]types.ScoreboardRow, error) {
	s.lastLimit = n
	return s.rows, nil
}

func (s *stubDeps) Rank(_ context.Context, player string) (types.ScoreboardRow, error) {
	for _, r := range s.rows {
		if r.Player == player {
			return r, nil
		}
	}
	return types.ScoreboardRow{}, repository.ErrNotFound
}

func newStub() *stubDeps {
	return &stubDeps{rows: []types.ScoreboardRow{
		{Rank: 1, Player: "ana", Total: decimal.NewFromInt(2)},
		{Rank: 2, Player: "ben", Total: decimal.Zero},
	}}
}

func text(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*sdk.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestScoreboardTool(t *testing.T) {
	deps := newStub()
	tl := &tools{deps: deps}

	res, _, err := tl.scoreboard(context.Background(), nil, ScoreboardArgs{})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, defaultLimit, deps.lastLimit)

	var rows []map[string]any
	require.NoError(t, sonic.UnmarshalString(text(t, res), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "ana", rows[0]["player"])

	_, _, err = tl.scoreboard(context.Background(), nil, ScoreboardArgs{Limit: 10000})
	require.NoError(t, err)
	assert.Equal(t, maxToolResults, deps.lastLimit)
}

func TestPicksGridTool(t *testing.T) {
	tl := &tools{deps: newStub()}

	res, _, err := tl.picksGrid(context.Background(), nil, PicksGridArgs{Player: "BEN"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	body := text(t, res)
	assert.Contains(t, body, "Packers (2)")
	assert.NotContains(t, body, "Eagles (2)")

	res, _, err = tl.picksGrid(context.Background(), nil, PicksGridArgs{Player: "zed"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGameResultsTool(t *testing.T) {
	tl := &tools{deps: newStub()}

	res, _, err := tl.gameResults(context.Background(), nil, GameResultsArgs{CompleteOnly: true})
	require.NoError(t, err)
	var games []map[string]any
	require.NoError(t, sonic.UnmarshalString(text(t, res), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "g1", games[0]["game_id"])
}

func TestPlayerRankTool(t *testing.T) {
	tl := &tools{deps: newStub()}

	res, _, err := tl.playerRank(context.Background(), nil, PlayerRankArgs{Player: " ben "})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"rank":2`)

	res, _, err = tl.playerRank(context.Background(), nil, PlayerRankArgs{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), ErrMissingPlayer.Error())

	res, _, err = tl.playerRank(context.Background(), nil, PlayerRankArgs{Player: "zed"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServerOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	server := NewServer(newStub())

	clientTransport, serverTransport := sdk.NewInMemoryTransports()
	_, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.CallTool(ctx, &sdk.CallToolParams{
		Name:      "player_rank",
		Arguments: map[string]any{"player": "ana"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"player":"ana"`)
}

func TestHandler(t *testing.T) {
	assert.NotNil(t, Handler(NewServer(newStub())))
}
