package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements identity persistence over PostgreSQL.
//
// Design notes:
// - The pgx pool is owned by the caller; this store must NOT close it.
// - Schema/table identifiers are safely quoted to avoid SQL injection via identifiers.
// - Every operation is a single atomic statement; the store's own concurrency
//   control is sufficient under concurrent callers.
// - Errors are mapped to identity sentinel kinds where appropriate.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the identity store (default "parley").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with secure defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "parley",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

// Insert creates a new identity row.
func (s *PostgresStore) Insert(ctx context.Context, id Identity) error {
	const op = "identity.Insert"

	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if id.Key == "" {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty key"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	users := pgIdent(s.schema, "users")

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+users+` (key, verifier, display_name, created_at)
		 VALUES ($1, $2, $3, $4)`,
		id.Key, id.Verifier, id.DisplayName, id.CreatedAt,
	)
	if err != nil {
		if pgIsUniqueViolation(err) {
			return ConflictError{Op: op, Field: "key"}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetByKey returns the identity for key or a NotFoundError.
func (s *PostgresStore) GetByKey(ctx context.Context, key string) (Identity, error) {
	const op = "identity.GetByKey"

	if s == nil || s.pool == nil {
		return Identity{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}

	users := pgIdent(s.schema, "users")

	var id Identity
	err := s.pool.QueryRow(ctx,
		`SELECT key, verifier, display_name, created_at
		   FROM `+users+`
		  WHERE key = $1`,
		key,
	).Scan(&id.Key, &id.Verifier, &id.DisplayName, &id.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, NotFoundError{Op: op, Resource: "identity"}
		}
		return Identity{}, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetAll returns all identities in insertion order (seq is a bigserial).
func (s *PostgresStore) GetAll(ctx context.Context) ([]Identity, error) {
	const op = "identity.GetAll"

	if s == nil || s.pool == nil {
		return nil, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	users := pgIdent(s.schema, "users")

	rows, err := s.pool.Query(ctx,
		`SELECT key, verifier, display_name, created_at
		   FROM `+users+`
		  ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []Identity
	for rows.Next() {
		var id Identity
		if err := rows.Scan(&id.Key, &id.Verifier, &id.DisplayName, &id.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Update replaces verifier and display name in a single statement.
func (s *PostgresStore) Update(ctx context.Context, id Identity) (bool, error) {
	const op = "identity.Update"

	if s == nil || s.pool == nil {
		return false, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	users := pgIdent(s.schema, "users")

	tag, err := s.pool.Exec(ctx,
		`UPDATE `+users+`
		    SET verifier = $2, display_name = $3
		  WHERE key = $1`,
		id.Key, id.Verifier, id.DisplayName,
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the identity row. Messages referencing the key are kept.
func (s *PostgresStore) Delete(ctx context.Context, key string) (bool, error) {
	const op = "identity.Delete"

	if s == nil || s.pool == nil {
		return false, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	users := pgIdent(s.schema, "users")

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM `+users+` WHERE key = $1`,
		key,
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() > 0, nil
}

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgIsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}
