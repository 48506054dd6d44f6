package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo on Postgres, using two tables as the list and
// detail collections with the full result stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const upsertSummaryQuery = `
INSERT INTO report_documents (
	id, title, category, date, author, ts, last_evaluation,
	bullish_bearish_score, summary_headline, sentiment
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
	title = COALESCE(NULLIF(EXCLUDED.title, ''), report_documents.title),
	category = COALESCE(NULLIF(EXCLUDED.category, ''), report_documents.category),
	date = COALESCE(NULLIF(EXCLUDED.date, ''), report_documents.date),
	author = COALESCE(NULLIF(EXCLUDED.author, ''), report_documents.author),
	ts = EXCLUDED.ts,
	last_evaluation = EXCLUDED.last_evaluation,
	bullish_bearish_score = EXCLUDED.bullish_bearish_score,
	summary_headline = COALESCE(NULLIF(EXCLUDED.summary_headline, ''), report_documents.summary_headline),
	sentiment = COALESCE(NULLIF(EXCLUDED.sentiment, ''), report_documents.sentiment)`

const replaceDetailQuery = `
INSERT INTO report_analyses (doc_id, user_id, ts, payload)
VALUES ($1, $2, $3, $4)
ON CONFLICT (doc_id) DO UPDATE SET
	user_id = EXCLUDED.user_id,
	ts = EXCLUDED.ts,
	payload = EXCLUDED.payload`

// Save upserts both records inside one transaction; the transaction is
// the atomicity boundary.
func (r *PGRepo) Save(ctx context.Context, docID string, summary DocumentSummary, result AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertSummaryQuery,
		docID,
		summary.Title,
		summary.Category,
		summary.Date,
		summary.Author,
		summary.Timestamp,
		summary.LastEvaluation,
		summary.BullishBearishScore,
		summary.SummaryHeadline,
		summary.Sentiment,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, replaceDetailQuery,
		docID,
		result.UserID,
		result.Timestamp,
		payload,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// List returns the list records newest first.
func (r *PGRepo) List(ctx context.Context) ([]DocumentSummary, error) {
	const query = `
SELECT id, title, category, date, author, ts, last_evaluation,
       bullish_bearish_score, summary_headline, sentiment
FROM report_documents
ORDER BY ts DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentSummary
	for rows.Next() {
		var s DocumentSummary
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Category,
			&s.Date,
			&s.Author,
			&s.Timestamp,
			&s.LastEvaluation,
			&s.BullishBearishScore,
			&s.SummaryHeadline,
			&s.Sentiment,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// HistoryByID returns the detail records matching the top-level id.
// Ordering is left to the caller.
func (r *PGRepo) HistoryByID(ctx context.Context, id string) ([]AnalysisResult, error) {
	const query = `SELECT payload FROM report_analyses WHERE doc_id = $1`

	rows, err := r.DB.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var result AnalysisResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, rows.Err()
}

// Latest returns the most recent detail record, or ErrNotFound when
// the table is empty.
func (r *PGRepo) Latest(ctx context.Context) (*AnalysisResult, error) {
	const query = `SELECT payload FROM report_analyses ORDER BY ts DESC LIMIT 1`

	var payload []byte
	err := r.DB.QueryRowContext(ctx, query).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var result AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

var _ Repo = (*PGRepo)(nil)
