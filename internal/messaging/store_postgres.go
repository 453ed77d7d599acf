package messaging

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a message Store backed by PostgreSQL.
//
// Ownership model:
// - PostgresStore does NOT own the pgx pool. The caller must close the pool.
//
// Concurrency model:
// - Insert is a single atomic statement; ordering comes from the bigserial
//   seq column, so no in-process locking is needed.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures PostgresStore behavior.
type PostgresOption func(*PostgresStore) error

var msgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the DB schema used by this store (default: "parley").
// The schema name is validated and safely quoted in queries.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return errors.New("messaging: empty schema")
		}
		if !msgIdentRe.MatchString(schema) {
			return errors.New("messaging: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a Postgres-backed message Store.
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
		return nil, errors.New("messaging: nil pool")
	}
	return st, nil
}

// Insert appends a message row. The write is durable on return.
func (s *PostgresStore) Insert(ctx context.Context, msg Message) error {
	const op = "messaging.Insert"

	if s == nil || s.pool == nil {
		return fmt.Errorf("%s: nil store", op)
	}
	if msg.ID == "" || msg.Sender == "" || msg.Recipient == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	messages := s.table()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+messages+` (id, sender, recipient, body, sent_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.Sender, msg.Recipient, msg.Body, msg.SentAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// QueryBySender returns messages sent by key, in chronological order.
func (s *PostgresStore) QueryBySender(ctx context.Context, key string) ([]Message, error) {
	return s.query(ctx, "messaging.QueryBySender", `sender = $1`, key)
}

// QueryByRecipient returns messages received by key, in chronological order.
func (s *PostgresStore) QueryByRecipient(ctx context.Context, key string) ([]Message, error) {
	return s.query(ctx, "messaging.QueryByRecipient", `recipient = $1`, key)
}

// QueryByParticipant returns messages sent or received by key, in chronological order.
func (s *PostgresStore) QueryByParticipant(ctx context.Context, key string) ([]Message, error) {
	return s.query(ctx, "messaging.QueryByParticipant", `(sender = $1 OR recipient = $1)`, key)
}

func (s *PostgresStore) query(ctx context.Context, op, where, key string) ([]Message, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("%s: nil store", op)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messages := s.table()

	rows, err := s.pool.Query(ctx,
		`SELECT id, sender, recipient, body, sent_at
		   FROM `+messages+`
		  WHERE `+where+`
		  ORDER BY seq ASC`,
		key,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Sender, &m.Recipient, &m.Body, &m.SentAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *PostgresStore) table() string {
	return pgx.Identifier{s.schema, "messages"}.Sanitize()
}
