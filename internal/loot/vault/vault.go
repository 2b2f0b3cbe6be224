// Package vault is a SQL-backed item store layered outside the core
// engine's contract boundary (spec §5's core stays I/O-free; the vault
// is where a caller persists the items that core produces). It stores
// each item's wire-format bytes as produced by internal/loot/codec
// alongside queryable metadata columns, and a msgpack-encoded metadata
// column for fields that are useful to filter on but not part of the
// pinned wire format.
package vault

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/LukeThayer/loot-generator/internal/loot/codec"
	"github.com/LukeThayer/loot-generator/internal/loot/item"
	"github.com/LukeThayer/loot-generator/internal/loot/replay"
	"github.com/LukeThayer/loot-generator/pkg/persist"
	persistcodec "github.com/LukeThayer/loot-generator/pkg/persist/codec"
)

var metaCodec = persistcodec.NewMsgPack()

//go:embed migrations/*.sql
var embedMigrations embed.FS

var stmt = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Metadata is sidecar, searchable-but-not-wire-format item data, stored
// as a msgpack blob alongside the codec-encoded item bytes.
type Metadata struct {
	Tags       []string `msgpack:"tags"`
	AffixIDs   []string `msgpack:"affix_ids"`
	ItemLevel  uint32   `msgpack:"item_level"`
}

// Record is one stored vault entry.
type Record struct {
	ID         string
	BaseTypeID string
	Seed       uint64
	Rarity     int
	Name       string
	Metadata   Metadata
	CreatedAt  time.Time
}

// Store is a SQLite-backed item vault.
type Store struct {
	db *sql.DB
}

// Config holds Store construction options.
type Config struct {
	// Path to the SQLite database file. Use ":memory:" for in-memory.
	Path string
}

// Open opens (creating if needed) a vault database and runs pending
// goose migrations.
func Open(cfg Config) (*Store, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("vault: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("vault: enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("vault: migrate: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory vault, useful for tests and the demo CLI.
func OpenMemory() (*Store, error) {
	return Open(Config{Path: ":memory:"})
}

func (s *Store) migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(s.db, "migrations")
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put encodes it via the binary item codec and stores it, generating a
// fresh vault id. meta is sidecar data; it is always msgpack-encoded and
// stored, a zero Metadata included.
func (s *Store) Put(ctx context.Context, it *item.Item, meta Metadata) (string, error) {
	var buf bytes.Buffer
	if err := codec.EncodeItem(&buf, it); err != nil {
		return "", fmt.Errorf("vault: encode item: %w", err)
	}

	metaBytes, err := metaCodec.Encode(meta)
	if err != nil {
		return "", fmt.Errorf("vault: encode metadata: %w", err)
	}

	id := persist.NewID()
	query, args, err := stmt.
		Insert("vault_items").
		Columns("id", "base_type_id", "seed", "rarity", "name", "item_data", "metadata", "created_at").
		Values(id, it.BaseTypeID, it.Seed, int(it.Rarity), it.Name, buf.Bytes(), metaBytes, time.Now().Unix()).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("vault: build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("vault: insert: %w", err)
	}
	return id, nil
}

// Get loads and decodes the item stored under id, reconstructing it via
// eng (the item's own wire bytes carry only its identity tuple, not its
// derived fields — decoding always replays, per spec §4.G).
func (s *Store) Get(ctx context.Context, id string, eng *replay.Engine) (*item.Item, error) {
	query, args, err := stmt.
		Select("item_data").
		From("vault_items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("vault: build select: %w", err)
	}

	var data []byte
	row := s.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("vault: scan: %w", err)
	}

	return codec.DecodeItem(bytes.NewReader(data), eng)
}

// List returns summary records for items matching baseTypeID (empty
// string matches any), ordered by insertion time, newest first.
func (s *Store) List(ctx context.Context, baseTypeID string, limit, offset int) ([]Record, error) {
	builder := stmt.
		Select("id", "base_type_id", "seed", "rarity", "name", "metadata", "created_at").
		From("vault_items").
		OrderBy("created_at DESC")

	if baseTypeID != "" {
		builder = builder.Where(squirrel.Eq{"base_type_id": baseTypeID})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("vault: build list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("vault: list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var rarity int
		var metaBytes []byte
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.BaseTypeID, &r.Seed, &rarity, &r.Name, &metaBytes, &createdAt); err != nil {
			return nil, fmt.Errorf("vault: scan row: %w", err)
		}
		r.Rarity = rarity
		r.CreatedAt = time.Unix(createdAt, 0)
		if len(metaBytes) > 0 {
			if err := metaCodec.Decode(metaBytes, &r.Metadata); err != nil {
				return nil, fmt.Errorf("vault: decode metadata: %w", err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes id. No error if the id does not exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	query, args, err := stmt.
		Delete("vault_items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("vault: build delete: %w", err)
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// ErrNotFound is returned by Get when id has no row.
var ErrNotFound = fmt.Errorf("vault: not found")
