package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/roach88/treegen/internal/tree"
)

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

// Run describes one generation.
type Run struct {
	ID          string `json:"id"`
	MaxNodes    int    `json:"max_nodes"`
	MaxChildren int    `json:"max_children"`
	Seed        uint64 `json:"seed"`
	Strategy    string `json:"strategy"`
	MaxAttempts int    `json:"max_attempts"`
	Fingerprint string `json:"fingerprint"`
}

// RunIDGenerator produces run ids.
type RunIDGenerator interface {
	NewRunID() string
}

// UUIDv7Generator generates time-ordered UUIDv7 run ids.
type UUIDv7Generator struct{}

// NewRunID returns a new UUIDv7 string.
func (UUIDv7Generator) NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WriteRun records a run and its node list in a single transaction.
// The node list must form a valid tree with len(nodes) == run.MaxNodes.
func (s *Store) WriteRun(ctx context.Context, run Run, nodes []tree.Node) error {
	if run.ID == "" {
		return fmt.Errorf("write run: empty run id")
	}
	if len(nodes) != run.MaxNodes {
		return fmt.Errorf("write run: %d nodes, run declares %d", len(nodes), run.MaxNodes)
	}
	t, err := tree.Build(nodes)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, max_nodes, max_children, seed, strategy, max_attempts, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.MaxNodes,
		run.MaxChildren,
		strconv.FormatUint(run.Seed, 10),
		run.Strategy,
		run.MaxAttempts,
		run.Fingerprint,
	)
	if err != nil {
		return fmt.Errorf("write run: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (run_id, id, parent, position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write run: prepare: %w", err)
	}
	defer stmt.Close()

	positions := make([]int, t.Len())
	for i := 0; i < t.Len(); i++ {
		for pos, c := range t.Children(i) {
			positions[c] = pos
		}
	}

	for i := 0; i < t.Len(); i++ {
		var parent sql.NullInt64
		if p := t.Parent(i); p >= 0 {
			parent = sql.NullInt64{Int64: int64(p), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, parent, positions[i]); err != nil {
			return fmt.Errorf("write run: insert node %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// GetRun returns the run with the given id, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, max_nodes, max_children, seed, strategy, max_attempts, fingerprint
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns all runs in insertion order.
// Returns an empty slice (not nil) if the store has no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, max_nodes, max_children, seed, strategy, max_attempts, fingerprint
		FROM runs
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadNodes returns the node list of a run in id order, with children in
// attachment order.
func (s *Store) ReadNodes(ctx context.Context, runID string) ([]tree.Node, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent, position
		FROM nodes
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	type edge struct{ child, parent, position int }
	var (
		nodes []tree.Node
		edges []edge
	)
	for rows.Next() {
		var (
			id, position int
			parent       sql.NullInt64
		)
		if err := rows.Scan(&id, &parent, &position); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if id != len(nodes) {
			return nil, fmt.Errorf("read nodes %s: expected node %d, found %d", runID, len(nodes), id)
		}
		if !parent.Valid {
			nodes = append(nodes, tree.NewNode(id, nil))
			continue
		}
		p := tree.NodeID(int(parent.Int64))
		nodes = append(nodes, tree.NewNode(id, &p))
		edges = append(edges, edge{child: id, parent: int(parent.Int64), position: position})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	counts := make([]int, len(nodes))
	for _, e := range edges {
		counts[e.parent]++
	}
	for i, n := range counts {
		nodes[i].Children = make([]string, n)
	}
	for _, e := range edges {
		children := nodes[e.parent].Children
		if e.position < 0 || e.position >= len(children) || children[e.position] != "" {
			return nil, fmt.Errorf("read nodes %s: bad position %d for node %d", runID, e.position, e.child)
		}
		children[e.position] = tree.NodeID(e.child)
	}

	return nodes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run  Run
		seed string
	)
	if err := row.Scan(&run.ID, &run.MaxNodes, &run.MaxChildren, &seed, &run.Strategy, &run.MaxAttempts, &run.Fingerprint); err != nil {
		return Run{}, err
	}
	v, err := strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: bad seed %q: %w", run.ID, seed, err)
	}
	run.Seed = v
	return run, nil
}
