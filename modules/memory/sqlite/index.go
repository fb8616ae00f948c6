package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/flemzord/agentmem/internal/memory"
)

// ErrIndexClosed is returned by Search after Close.
var ErrIndexClosed = errors.New("sqlite: index closed")

// Indexer builds FTS5-backed indexes in a shared database. Each Index call
// writes a new generation of rows; closing the index deletes them.
type Indexer struct {
	db *sql.DB
}

var _ memory.Indexer = (*Indexer)(nil)

// NewIndexer returns an Indexer over db, which must already be migrated.
func NewIndexer(db *sql.DB) *Indexer {
	return &Indexer{db: db}
}

// Index implements memory.Indexer.
func (x *Indexer) Index(ctx context.Context, chunks []string) (memory.Index, error) {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin index tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "INSERT INTO generations DEFAULT VALUES")
	if err != nil {
		return nil, fmt.Errorf("sqlite: new generation: %w", err)
	}
	gen, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: generation id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO chunks (generation, seq, content) VALUES (?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, gen, i, c); err != nil {
			return nil, fmt.Errorf("sqlite: insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit index: %w", err)
	}
	return &ftsIndex{db: x.db, generation: gen}, nil
}

type ftsIndex struct {
	db         *sql.DB
	generation int64

	mu     sync.Mutex
	closed bool
}

// Search ranks chunks of this generation by bm25. Chunks with equal rank
// keep their original order. When fewer than k chunks match, the rest are
// filled with unmatched chunks in sequence order.
func (x *ftsIndex) Search(ctx context.Context, query string, k int) ([]string, error) {
	x.mu.Lock()
	closed := x.closed
	x.mu.Unlock()
	if closed {
		return nil, ErrIndexClosed
	}
	if k <= 0 {
		return nil, nil
	}

	out := []string{}
	seen := make(map[int64]struct{}, k)
	if match := matchExpr(query); match != "" {
		hits, err := x.collect(ctx, seen, k, `
			SELECT c.seq, c.content
			FROM chunks_fts
			JOIN chunks c ON c.rowid = chunks_fts.rowid
			WHERE chunks_fts MATCH ? AND c.generation = ?
			ORDER BY rank, c.seq
			LIMIT ?`,
			match, x.generation, k,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, hits...)
	}
	if len(out) == k {
		return out, nil
	}

	// At most len(out) of the first k rows were already returned.
	rest, err := x.collect(ctx, seen, k-len(out), `
		SELECT seq, content
		FROM chunks
		WHERE generation = ?
		ORDER BY seq
		LIMIT ?`,
		x.generation, k,
	)
	if err != nil {
		return nil, err
	}
	return append(out, rest...), nil
}

// collect runs a (seq, content) query and returns up to limit chunks whose
// seq is not in seen, recording the ones it returns.
func (x *ftsIndex) collect(ctx context.Context, seen map[int64]struct{}, limit int, query string, args ...any) ([]string, error) {
	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: search chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() && len(out) < limit {
		var (
			seq     int64
			content string
		)
		if err := rows.Scan(&seq, &content); err != nil {
			return nil, fmt.Errorf("sqlite: scan chunk: %w", err)
		}
		if _, dup := seen[seq]; dup {
			continue
		}
		seen[seq] = struct{}{}
		out = append(out, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: search rows: %w", err)
	}
	return out, nil
}

// Close deletes the generation's rows. It is safe to call more than once.
func (x *ftsIndex) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return nil
	}
	x.closed = true

	if _, err := x.db.ExecContext(context.Background(), "DELETE FROM chunks WHERE generation = ?", x.generation); err != nil {
		return fmt.Errorf("sqlite: drop generation %d: %w", x.generation, err)
	}
	return nil
}

// matchExpr turns free text into an FTS5 expression that matches any of
// its terms. Each term is quoted so punctuation never reaches the FTS5
// query parser.
func matchExpr(query string) string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}
