package audit

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/connectrh/bff/pkg/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Recorder は認証イベントをSQLiteへ追記するストア。
// 内部のsql.DBはコネクションプールを持ち、並行利用に対して安全。
type Recorder struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// Open は指定パスのSQLiteデータベースを開き、スキーマを適用して
// Recorderを生成する。テストでは ":memory:" を指定できる。
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("監査データベース接続に失敗: %w", err)
	}
	// SQLiteは単一ライターのため、コネクションを1本に固定する。
	// ":memory:" 指定時にコネクションごとに別DBが作られる問題も防ぐ。
	db.SetMaxOpenConns(1)

	if err := migration.Run(db, migrationsFS, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("監査スキーマの適用に失敗: %w", err)
	}

	return &Recorder{db: db}, nil
}

// Close はデータベース接続を閉じる。
func (r *Recorder) Close() error {
	return r.db.Close()
}

// Record は認証イベントを1件追記する。
// IDが未設定の場合はUUIDを採番し、CreatedAtが未設定の場合は現在時刻を設定する。
func (r *Recorder) Record(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO auth_events (id, event_type, subject, detail, created_at) VALUES (?, ?, ?, ?, ?)",
		e.ID, string(e.Type), e.Subject, e.Detail, e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("認証イベントの記録に失敗: %w", err)
	}
	return nil
}

// Recent は新しい順に最大limit件の認証イベントを返す。
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, event_type, subject, detail, created_at FROM auth_events ORDER BY created_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("認証イベントの取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var e Event
		var eventType, createdAt string
		if err := rows.Scan(&e.ID, &eventType, &e.Subject, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("認証イベントの読み取りに失敗: %w", err)
		}
		e.Type = Type(eventType)
		parsed, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("記録日時のパースに失敗: %w", err)
		}
		e.CreatedAt = parsed
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByType はイベント種類ごとの件数を返す。運用時の簡易集計用。
func (r *Recorder) CountByType(ctx context.Context) (map[Type]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT event_type, COUNT(*) FROM auth_events GROUP BY event_type",
	)
	if err != nil {
		return nil, fmt.Errorf("認証イベントの集計に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[Type]int64)
	for rows.Next() {
		var eventType string
		var count int64
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("集計結果の読み取りに失敗: %w", err)
		}
		counts[Type(eventType)] = count
	}
	return counts, rows.Err()
}
