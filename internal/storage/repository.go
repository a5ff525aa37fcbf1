package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gagyebu/internal/core"
	"gagyebu/internal/groups"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores merchant groups and excluded payment methods.
type SQLiteRepository struct {
	db *sql.DB
}

var _ groups.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Run migrations
	version, err := RunMigrations(dbPath)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("SQLite group store ready", "db_path", dbPath, "schema_version", version)
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Groups implements groups.Reader
func (r *SQLiteRepository) Groups(ctx context.Context) ([]core.MerchantGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, label FROM merchant_groups ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query merchant groups: %w", err)
	}
	defer rows.Close()

	var out []core.MerchantGroup
	byID := map[int64]int{}
	for rows.Next() {
		var (
			id int64
			g  core.MerchantGroup
		)
		if err := rows.Scan(&id, &g.Name, &g.Label); err != nil {
			return nil, fmt.Errorf("scan merchant group: %w", err)
		}
		byID[id] = len(out)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate merchant groups: %w", err)
	}

	members, err := r.db.QueryContext(ctx,
		`SELECT group_id, merchant FROM merchant_group_members ORDER BY group_id, position, merchant`)
	if err != nil {
		return nil, fmt.Errorf("query group members: %w", err)
	}
	defer members.Close()
	for members.Next() {
		var (
			id       int64
			merchant string
		)
		if err := members.Scan(&id, &merchant); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		if i, ok := byID[id]; ok {
			out[i].Merchants = append(out[i].Merchants, merchant)
		}
	}
	if err := members.Err(); err != nil {
		return nil, fmt.Errorf("iterate group members: %w", err)
	}
	return out, nil
}

// ExcludedPaymentMethods implements groups.Reader
func (r *SQLiteRepository) ExcludedPaymentMethods(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT label FROM excluded_payment_methods ORDER BY position, label`)
	if err != nil {
		return nil, fmt.Errorf("query excluded payment methods: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan excluded payment method: %w", err)
		}
		out = append(out, label)
	}
	return out, rows.Err()
}

// SaveGroup inserts a group or replaces the label and members of an existing
// one. New groups are placed after the existing ones.
func (r *SQLiteRepository) SaveGroup(ctx context.Context, g core.MerchantGroup) error {
	g, err := groups.Normalize(g)
	if err != nil {
		return err
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO merchant_groups (name, label, position)
			VALUES (?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM merchant_groups))
			ON CONFLICT(name) DO UPDATE SET label = excluded.label, updated_at = CURRENT_TIMESTAMP`,
			g.Name, g.Label)
		if err != nil {
			return fmt.Errorf("upsert group %s: %w", g.Name, err)
		}

		var id int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM merchant_groups WHERE name = ?`, g.Name).Scan(&id); err != nil {
			return fmt.Errorf("lookup group %s: %w", g.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM merchant_group_members WHERE group_id = ?`, id); err != nil {
			return fmt.Errorf("clear members of %s: %w", g.Name, err)
		}
		for i, m := range g.Merchants {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO merchant_group_members (group_id, merchant, position) VALUES (?, ?, ?)`,
				id, m, i); err != nil {
				return fmt.Errorf("insert member %s of %s: %w", m, g.Name, err)
			}
		}
		return nil
	})
}

// DeleteGroup removes a group and its members.
func (r *SQLiteRepository) DeleteGroup(ctx context.Context, name string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM merchant_groups WHERE name = ?`, name).Scan(&id)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %s", groups.ErrGroupNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("lookup group %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM merchant_group_members WHERE group_id = ?`, id); err != nil {
			return fmt.Errorf("delete members of %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM merchant_groups WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete group %s: %w", name, err)
		}
		return nil
	})
}

// SetExcludedPaymentMethods replaces the exclusion list.
func (r *SQLiteRepository) SetExcludedPaymentMethods(ctx context.Context, labels []string) error {
	labels = groups.Dedupe(labels)
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM excluded_payment_methods`); err != nil {
			return fmt.Errorf("clear excluded payment methods: %w", err)
		}
		for i, l := range labels {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO excluded_payment_methods (label, position) VALUES (?, ?)`, l, i); err != nil {
				return fmt.Errorf("insert excluded payment method %s: %w", l, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
