// Package store 以 SQLite 保存求解历史。
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"electric/debug"

	_ "modernc.org/sqlite"
)

// Entry 一条历史记录
type Entry struct {
	ID   int64
	Pass debug.Pass
}

// History 求解历史仓库
type History struct {
	db *sql.DB
}

// Open 打开或创建历史数据库
func Open(path string) (*History, error) {
	dsn := path
	if path != ":memory:" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// 内存库每个连接各自独立
	db.SetMaxOpenConns(1)

	h := &History{db: db}
	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return h, nil
}

func (h *History) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS passes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seq INTEGER NOT NULL,
		recorded_at TEXT NOT NULL,
		residual REAL NOT NULL,
		data JSON NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_passes_recorded ON passes(recorded_at);
	`
	_, err := h.db.Exec(schema)
	return err
}

// Save 保存一轮求解，返回记录编号
func (h *History) Save(ctx context.Context, pass debug.Pass) (int64, error) {
	data, err := json.Marshal(pass)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal pass: %w", err)
	}
	res, err := h.db.ExecContext(ctx, `
		INSERT INTO passes (seq, recorded_at, residual, data)
		VALUES (?, ?, ?, ?)
	`, pass.Seq, pass.Time.UTC().Format(time.RFC3339Nano), pass.Residual, data)
	if err != nil {
		return 0, fmt.Errorf("failed to insert pass: %w", err)
	}
	return res.LastInsertId()
}

// List 按时间倒序列出最近的记录，limit<=0 表示全部
func (h *History) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, data FROM passes ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query passes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e    Entry
			data []byte
		)
		if err := rows.Scan(&e.ID, &data); err != nil {
			return nil, fmt.Errorf("failed to scan pass: %w", err)
		}
		if err := json.Unmarshal(data, &e.Pass); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pass %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating passes: %w", err)
	}
	return entries, nil
}

// Sink 返回可挂到 debug.Record 的保存函数，保存失败交给 onErr
func (h *History) Sink(ctx context.Context, onErr func(error)) func(debug.Pass) {
	return func(p debug.Pass) {
		if _, err := h.Save(ctx, p); err != nil && onErr != nil {
			onErr(err)
		}
	}
}

// Close 关闭数据库
func (h *History) Close() error { return h.db.Close() }
