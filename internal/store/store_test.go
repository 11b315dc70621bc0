package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/goal-planner/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "goals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleGoal() domain.Goal {
	return domain.Goal{
		Name:                  "House deposit",
		TargetAmount:          decimal.RequireFromString("120000.50"),
		Currency:              "USD",
		TargetDate:            time.Date(2036, 6, 30, 0, 0, 0, 0, time.UTC),
		ExpectedRate:          decimal.RequireFromString("6.5"),
		Compounding:           domain.Monthly,
		ContributionFrequency: domain.Monthly,
		ExistingSavings:       decimal.NewFromInt(2500),
		Members: []domain.Member{
			{UserID: "alice", Role: domain.RoleOwner, Share: domain.PercentShare(decimal.NewFromInt(60))},
			{UserID: "bob", Role: domain.RoleCollaborator, Share: domain.PercentShare(decimal.NewFromInt(40))},
			{UserID: "carol", Role: domain.RoleCollaborator, Share: domain.FixedShare(decimal.NewFromInt(50))},
		},
	}
}

func TestSaveAndGetGoal(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := sampleGoal()
	require.NoError(t, s.SaveGoal(ctx, &g))
	require.NotEmpty(t, g.ID)

	got, err := s.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "House deposit", got.Name)
	assert.True(t, got.TargetAmount.Equal(g.TargetAmount))
	assert.True(t, got.ExpectedRate.Equal(g.ExpectedRate))
	assert.True(t, got.ExistingSavings.Equal(g.ExistingSavings))
	assert.True(t, got.TargetDate.Equal(g.TargetDate))
	assert.Equal(t, domain.Monthly, got.Compounding)

	require.Len(t, got.Members, 3)
	assert.Equal(t, "alice", got.Members[0].UserID)
	assert.Equal(t, domain.RoleOwner, got.Members[0].Role)
	pct, ok := got.Members[1].Share.Percent()
	require.True(t, ok)
	assert.True(t, pct.Equal(decimal.NewFromInt(40)))
	amt, ok := got.Members[2].Share.FixedAmount()
	require.True(t, ok)
	assert.True(t, amt.Equal(decimal.NewFromInt(50)))
}

func TestGetGoal_ByNameIgnoresCase(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := sampleGoal()
	require.NoError(t, s.SaveGoal(ctx, &g))

	got, err := s.GetGoal(ctx, "house DEPOSIT")
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)
}

func TestGetGoal_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetGoal(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGoalNotFound))
}

func TestSaveGoal_UpdatesInPlace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := sampleGoal()
	require.NoError(t, s.SaveGoal(ctx, &g))
	id := g.ID

	g.TargetAmount = decimal.NewFromInt(90000)
	g.Members = g.Members[:1]
	require.NoError(t, s.SaveGoal(ctx, &g))
	assert.Equal(t, id, g.ID)

	goals, err := s.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].TargetAmount.Equal(decimal.NewFromInt(90000)))
	assert.Len(t, goals[0].Members, 1)
}

func TestListGoals_OrderedByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Wedding", "Car", "Emergency fund"} {
		g := sampleGoal()
		g.Name = name
		require.NoError(t, s.SaveGoal(ctx, &g))
	}

	goals, err := s.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 3)
	assert.Equal(t, "Car", goals[0].Name)
	assert.Equal(t, "Emergency fund", goals[1].Name)
	assert.Equal(t, "Wedding", goals[2].Name)
	for _, g := range goals {
		assert.Len(t, g.Members, 3)
	}
}

func TestDeleteGoal_CascadesMembers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := sampleGoal()
	require.NoError(t, s.SaveGoal(ctx, &g))
	require.NoError(t, s.DeleteGoal(ctx, "House deposit"))

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM goal_members").Scan(&n))
	assert.Zero(t, n)
	assert.ErrorIs(t, s.DeleteGoal(ctx, g.ID), ErrGoalNotFound)
}

func TestUpdateMembers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := sampleGoal()
	require.NoError(t, s.SaveGoal(ctx, &g))

	updated, err := s.UpdateMembers(ctx, g.ID, func(ms []domain.Member) ([]domain.Member, error) {
		ms[1].Share = domain.PercentShare(decimal.NewFromInt(25))
		return ms, nil
	})
	require.NoError(t, err)
	pct, _ := updated.Members[1].Share.Percent()
	assert.True(t, pct.Equal(decimal.NewFromInt(25)))

	got, err := s.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	pct, _ = got.Members[1].Share.Percent()
	assert.True(t, pct.Equal(decimal.NewFromInt(25)))
}

func TestUpdateMembers_ErrorRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := sampleGoal()
	require.NoError(t, s.SaveGoal(ctx, &g))

	boom := errors.New("boom")
	_, err := s.UpdateMembers(ctx, g.ID, func(ms []domain.Member) ([]domain.Member, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 3)
}

func TestImportAndLoadConfiguration(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	name := "Alice"
	cfg := &domain.Configuration{
		Goals: []domain.Goal{sampleGoal()},
		MemberDirectory: map[string]domain.MemberDetail{
			"alice": {Email: "alice@example.com", Name: &name},
			"bob":   {Email: "bob@example.com"},
		},
	}
	n, err := s.ImportConfiguration(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	firstID := cfg.Goals[0].ID
	require.NotEmpty(t, firstID)

	// importing the same goal again by name keeps its id
	again := &domain.Configuration{Goals: []domain.Goal{sampleGoal()}}
	_, err = s.ImportConfiguration(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, firstID, again.Goals[0].ID)

	loaded, err := s.LoadConfiguration(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Goals, 1)
	require.Len(t, loaded.MemberDirectory, 2)
	require.NotNil(t, loaded.MemberDirectory["alice"].Name)
	assert.Equal(t, "Alice", *loaded.MemberDirectory["alice"].Name)
	assert.Nil(t, loaded.MemberDirectory["bob"].Name)
}

func TestImportConfiguration_FailureLeavesIDsUnset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	clash := sampleGoal()
	clash.ID = "g-clash"
	clash.Name = "HOUSE DEPOSIT"
	cfg := &domain.Configuration{Goals: []domain.Goal{sampleGoal(), clash}}

	_, err := s.ImportConfiguration(ctx, cfg)
	require.Error(t, err)
	assert.Empty(t, cfg.Goals[0].ID)
	assert.Equal(t, "g-clash", cfg.Goals[1].ID)

	goals, err := s.ListGoals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestOpen_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	g := sampleGoal()
	require.NoError(t, s.SaveGoal(ctx, &g))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	got, err := s.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Name, got.Name)
}
