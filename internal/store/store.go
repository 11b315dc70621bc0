// Package store persists goals and the member directory in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rpgo/goal-planner/internal/domain"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrGoalNotFound is returned when no goal matches an id or name.
var ErrGoalNotFound = errors.New("goal not found")

// Store is a SQLite-backed goal repository.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the goal database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening goal db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the goal database.
func (s *Store) Close() error {
	return s.db.Close()
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SaveGoal inserts or replaces a goal and its members. A goal without an ID is given a new one.
func (s *Store) SaveGoal(ctx context.Context, g *domain.Goal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := s.saveGoal(ctx, tx, g)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	g.ID = id
	return nil
}

// saveGoal writes g and returns the id it was stored under. g is not modified.
func (s *Store) saveGoal(ctx context.Context, q queryer, g *domain.Goal) (string, error) {
	id := g.ID
	if id == "" {
		// re-importing a goal by name keeps its id
		var existing string
		err := q.QueryRowContext(ctx, "SELECT id FROM goals WHERE name = ?", g.Name).Scan(&existing)
		switch {
		case err == nil:
			id = existing
		case errors.Is(err, sql.ErrNoRows):
			id = uuid.NewString()
		default:
			return "", fmt.Errorf("looking up goal %q: %w", g.Name, err)
		}
	}

	now := s.now().UTC().Format(time.RFC3339)
	_, err := q.ExecContext(ctx, `INSERT INTO goals
		(id, name, target_amount, currency, target_date, expected_rate,
		 compounding, contribution_frequency, existing_savings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		 name = excluded.name,
		 target_amount = excluded.target_amount,
		 currency = excluded.currency,
		 target_date = excluded.target_date,
		 expected_rate = excluded.expected_rate,
		 compounding = excluded.compounding,
		 contribution_frequency = excluded.contribution_frequency,
		 existing_savings = excluded.existing_savings,
		 updated_at = excluded.updated_at`,
		id, g.Name, g.TargetAmount.String(), g.Currency, g.TargetDate.UTC().Format(time.RFC3339Nano),
		g.ExpectedRate.String(), string(g.Compounding), string(g.ContributionFrequency),
		g.ExistingSavings.String(), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("saving goal %q: %w", g.Name, err)
	}
	if err := replaceMembers(ctx, q, id, g.Members); err != nil {
		return "", err
	}
	return id, nil
}

func replaceMembers(ctx context.Context, q queryer, goalID string, members []domain.Member) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM goal_members WHERE goal_id = ?", goalID); err != nil {
		return err
	}
	for i, m := range members {
		var split, fixed sql.NullString
		if amt, ok := m.Share.FixedAmount(); ok {
			fixed = sql.NullString{String: amt.String(), Valid: true}
		} else {
			pct, _ := m.Share.Percent()
			split = sql.NullString{String: pct.String(), Valid: true}
		}
		_, err := q.ExecContext(ctx, `INSERT INTO goal_members
			(goal_id, position, user_id, role, split_percent, fixed_amount)
			VALUES (?, ?, ?, ?, ?, ?)`,
			goalID, i, m.UserID, string(m.Role), split, fixed,
		)
		if err != nil {
			return fmt.Errorf("saving member %q: %w", m.UserID, err)
		}
	}
	return nil
}

// GetGoal looks a goal up by id, then by case-insensitive name.
func (s *Store) GetGoal(ctx context.Context, key string) (*domain.Goal, error) {
	return getGoal(ctx, s.db, key)
}

const goalColumns = `id, name, target_amount, currency, target_date, expected_rate,
	compounding, contribution_frequency, existing_savings`

func getGoal(ctx context.Context, q queryer, key string) (*domain.Goal, error) {
	row := q.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = ? OR name = ? ORDER BY id = ? DESC LIMIT 1", key, key, key)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrGoalNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	if g.Members, err = loadMembers(ctx, q, g.ID); err != nil {
		return nil, err
	}
	return g, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(row scanner) (*domain.Goal, error) {
	var g domain.Goal
	var targetDate, compounding, contribution string
	err := row.Scan(
		&g.ID, &g.Name, &g.TargetAmount, &g.Currency, &targetDate, &g.ExpectedRate,
		&compounding, &contribution, &g.ExistingSavings,
	)
	if err != nil {
		return nil, err
	}
	g.Compounding = domain.Frequency(compounding)
	g.ContributionFrequency = domain.Frequency(contribution)
	if g.TargetDate, err = time.Parse(time.RFC3339Nano, targetDate); err != nil {
		return nil, fmt.Errorf("goal %q: target date: %w", g.Name, err)
	}
	return &g, nil
}

func loadMembers(ctx context.Context, q queryer, goalID string) ([]domain.Member, error) {
	rows, err := q.QueryContext(ctx, `SELECT user_id, role, split_percent, fixed_amount
		FROM goal_members WHERE goal_id = ? ORDER BY position`, goalID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		var role string
		var split, fixed decimal.NullDecimal
		if err := rows.Scan(&m.UserID, &role, &split, &fixed); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		switch {
		case fixed.Valid:
			m.Share = domain.FixedShare(fixed.Decimal)
		case split.Valid:
			m.Share = domain.PercentShare(split.Decimal)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListGoals returns every stored goal ordered by name.
func (s *Store) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+goalColumns+" FROM goals ORDER BY name")
	if err != nil {
		return nil, err
	}
	var goals []domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range goals {
		if goals[i].Members, err = loadMembers(ctx, s.db, goals[i].ID); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

// DeleteGoal removes a goal and its members.
func (s *Store) DeleteGoal(ctx context.Context, key string) error {
	g, err := s.GetGoal(ctx, key)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", g.ID)
	return err
}

// UpdateMembers replaces a goal's member list with the result of fn inside one transaction.
// An error from fn aborts the update.
func (s *Store) UpdateMembers(ctx context.Context, key string, fn func([]domain.Member) ([]domain.Member, error)) (*domain.Goal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	g, err := getGoal(ctx, tx, key)
	if err != nil {
		return nil, err
	}
	members, err := fn(g.Members)
	if err != nil {
		return nil, err
	}
	if err := replaceMembers(ctx, tx, g.ID, members); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE goals SET updated_at = ? WHERE id = ?",
		s.now().UTC().Format(time.RFC3339), g.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	updated := g.WithMembers(members)
	return &updated, nil
}

// SaveMemberDetail records a member's email and optional display name.
func (s *Store) SaveMemberDetail(ctx context.Context, userID string, d domain.MemberDetail) error {
	return saveMemberDetail(ctx, s.db, userID, d)
}

func saveMemberDetail(ctx context.Context, q queryer, userID string, d domain.MemberDetail) error {
	var name sql.NullString
	if d.Name != nil {
		name = sql.NullString{String: *d.Name, Valid: true}
	}
	_, err := q.ExecContext(ctx, `INSERT OR REPLACE INTO member_directory (user_id, email, name)
		VALUES (?, ?, ?)`, userID, d.Email, name)
	return err
}

// MemberDirectory returns every stored member detail keyed by user id.
func (s *Store) MemberDirectory(ctx context.Context) (map[string]domain.MemberDetail, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id, email, name FROM member_directory")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	dir := make(map[string]domain.MemberDetail)
	for rows.Next() {
		var id string
		var d domain.MemberDetail
		var name sql.NullString
		if err := rows.Scan(&id, &d.Email, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			n := name.String
			d.Name = &n
		}
		dir[id] = d
	}
	return dir, rows.Err()
}

// ImportConfiguration stores every goal and directory entry in one transaction.
// Goals already present by name are replaced and assigned ids are written back into config.
// It returns the number of goals written.
func (s *Store) ImportConfiguration(ctx context.Context, config *domain.Configuration) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]string, len(config.Goals))
	for i := range config.Goals {
		id, err := s.saveGoal(ctx, tx, &config.Goals[i])
		if err != nil {
			return 0, err
		}
		ids[i] = id
	}
	for id, d := range config.MemberDirectory {
		if err := saveMemberDetail(ctx, tx, id, d); err != nil {
			return 0, fmt.Errorf("saving member detail %q: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	for i, id := range ids {
		config.Goals[i].ID = id
	}
	return len(config.Goals), nil
}

// LoadConfiguration rebuilds a configuration from everything stored.
func (s *Store) LoadConfiguration(ctx context.Context) (*domain.Configuration, error) {
	goals, err := s.ListGoals(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := s.MemberDirectory(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Configuration{Goals: goals, MemberDirectory: dir}, nil
}
