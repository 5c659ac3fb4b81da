package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// SQL 方言
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	query      TEXT NOT NULL DEFAULT '',
	brand      TEXT NOT NULL DEFAULT '',
	model      TEXT NOT NULL DEFAULT '',
	total      INTEGER NOT NULL DEFAULT 0,
	created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS predictions (
	run_id                TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	rank                  INTEGER NOT NULL,
	title                 TEXT NOT NULL,
	price                 DOUBLE PRECISION NOT NULL,
	rating                DOUBLE PRECISION NOT NULL DEFAULT 0,
	reviews               BIGINT NOT NULL DEFAULT 0,
	brand                 TEXT NOT NULL DEFAULT '',
	model                 TEXT NOT NULL DEFAULT '',
	predicted_log_reviews DOUBLE PRECISION NOT NULL,
	predicted_reviews     BIGINT NOT NULL,
	predicted_sales       BIGINT NOT NULL,
	PRIMARY KEY (run_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_predictions_brand ON predictions(brand);
`

// SQLWriter 把预测结果持久化到 SQLite（modernc.org/sqlite）或 PostgreSQL（lib/pq）。
type SQLWriter struct {
	db      *sql.DB
	dialect string
}

var _ RunWriter = (*SQLWriter)(nil)

// OpenSQL 根据 DSN 选择方言：postgres:// 或 postgresql:// 走 PostgreSQL，其余视为 SQLite 文件路径
// （":memory:" 为内存库，测试使用）。打开后自动建表。
func OpenSQL(ctx context.Context, dsn string) (*SQLWriter, error) {
	dialect := DialectSQLite
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialect = DialectPostgres
	}

	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// SQLite 只允许一个写者；内存库也依赖单连接
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, core.WrapDomainError(core.ModuleExport, core.ErrorCodeUnavailable, dialect+": ping failed", err)
	}

	w := &SQLWriter{db: db, dialect: dialect}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", dialect, err)
	}
	return w, nil
}

// Dialect 返回当前方言。
func (w *SQLWriter) Dialect() string { return w.dialect }

// ph 返回第 n 个（从 1 开始）占位符。
func (w *SQLWriter) ph(n int) string {
	if w.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (w *SQLWriter) placeholders(count int) string {
	ps := make([]string, count)
	for i := range ps {
		ps[i] = w.ph(i + 1)
	}
	return strings.Join(ps, ", ")
}

// WriteRun 在一个事务里写入 run 与全部预测行（rank 从 1 开始）。
func (w *SQLWriter) WriteRun(ctx context.Context, run *Run) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", w.dialect, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, query, brand, model, total, created_at) VALUES ("+w.placeholders(6)+")",
		run.ID, run.Query, run.Brand, run.Model, run.Total, run.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("%s: insert run: %w", w.dialect, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO predictions
		(run_id, rank, title, price, rating, reviews, brand, model,
		 predicted_log_reviews, predicted_reviews, predicted_sales)
		VALUES (`+w.placeholders(11)+")")
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", w.dialect, err)
	}
	defer stmt.Close()

	for i, p := range run.Predictions {
		if _, err := stmt.ExecContext(ctx,
			run.ID, i+1, p.Title, p.Price, p.Rating, p.Reviews, p.Brand, p.Model,
			p.PredictedLogReviews, p.PredictedReviews, p.PredictedSales,
		); err != nil {
			return fmt.Errorf("%s: insert prediction %d: %w", w.dialect, i+1, err)
		}
	}
	return tx.Commit()
}

// FetchRun 读取一次调用的完整结果，预测行按 rank 排序。
func (w *SQLWriter) FetchRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{ID: id}
	var created int64
	err := w.db.QueryRowContext(ctx,
		"SELECT query, brand, model, total, created_at FROM runs WHERE id = "+w.ph(1), id,
	).Scan(&run.Query, &run.Brand, &run.Model, &run.Total, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewDomainError(core.ModuleExport, core.ErrorCodeNotFound, "run not found: "+id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: fetch run: %w", w.dialect, err)
	}
	run.CreatedAt = time.Unix(created, 0).UTC()

	rows, err := w.db.QueryContext(ctx, `SELECT title, price, rating, reviews, brand, model,
		predicted_log_reviews, predicted_reviews, predicted_sales
		FROM predictions WHERE run_id = `+w.ph(1)+` ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch predictions: %w", w.dialect, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p core.Prediction
		if err := rows.Scan(
			&p.Title, &p.Price, &p.Rating, &p.Reviews, &p.Brand, &p.Model,
			&p.PredictedLogReviews, &p.PredictedReviews, &p.PredictedSales,
		); err != nil {
			return nil, fmt.Errorf("%s: scan prediction: %w", w.dialect, err)
		}
		run.Predictions = append(run.Predictions, p)
	}
	return run, rows.Err()
}

func (w *SQLWriter) Close() error {
	return w.db.Close()
}
