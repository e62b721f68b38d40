package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// SaveResult stores one evaluation result and returns its ID
func (db *DB) SaveResult(ctx context.Context, jdName, jdFingerprint string, result types.EvaluationResult) (uuid.UUID, error) {
	missing, err := marshalMissing(result.MissingSkills)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO evaluation_results
		 (id, resume_name, jd_name, jd_fingerprint, score, verdict, feedback, missing_elements, processing_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, result.ResumeName, jdName, jdFingerprint, result.TotalScore, string(result.Verdict),
		result.Feedback, missing, result.ProcessingTime,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save result: %w", err)
	}
	return id, nil
}

// SaveResults stores a batch of results in one transaction
func (db *DB) SaveResults(ctx context.Context, jdName, jdFingerprint string, results []types.EvaluationResult) ([]uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	ids := make([]uuid.UUID, 0, len(results))
	for _, result := range results {
		missing, err := marshalMissing(result.MissingSkills)
		if err != nil {
			return nil, err
		}
		id := uuid.New()
		ids = append(ids, id)
		batch.Queue(
			`INSERT INTO evaluation_results
			 (id, resume_name, jd_name, jd_fingerprint, score, verdict, feedback, missing_elements, processing_time)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, result.ResumeName, jdName, jdFingerprint, result.TotalScore, string(result.Verdict),
			result.Feedback, missing, result.ProcessingTime,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to save results: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit results: %w", err)
	}
	return ids, nil
}

// GetResult retrieves a stored result by ID. Returns nil if not found.
func (db *DB) GetResult(ctx context.Context, id uuid.UUID) (*StoredResult, error) {
	row := db.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id)
	result, err := scanResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return result, nil
}

// SearchResults lists stored results matching filter, highest score first
func (db *DB) SearchResults(ctx context.Context, filter SearchFilter) ([]StoredResult, error) {
	query, args := buildSearchQuery(filter)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search results: %w", err)
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return results, nil
}

// DeleteResultsForJD removes every stored result of a job description name
func (db *DB) DeleteResultsForJD(ctx context.Context, jdName string) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM evaluation_results WHERE jd_name = $1`, jdName)
	if err != nil {
		return 0, fmt.Errorf("failed to delete results: %w", err)
	}
	return tag.RowsAffected(), nil
}

const selectColumns = `SELECT id, resume_name, jd_name, jd_fingerprint, score, verdict, feedback,
	missing_elements, processing_time, created_at FROM evaluation_results`

func buildSearchQuery(filter SearchFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if filter.JDName != "" {
		args = append(args, "%"+escapeLike(filter.JDName)+"%")
		conditions = append(conditions, fmt.Sprintf("jd_name ILIKE $%d", len(args)))
	}
	if filter.Verdict != "" {
		args = append(args, string(filter.Verdict))
		conditions = append(conditions, fmt.Sprintf("verdict = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(selectColumns)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY score DESC, created_at DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	return sb.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func marshalMissing(missing []string) ([]byte, error) {
	if missing == nil {
		missing = []string{}
	}
	data, err := json.Marshal(missing)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal missing skills: %w", err)
	}
	return data, nil
}

func scanResult(row pgx.Row) (*StoredResult, error) {
	var (
		result  StoredResult
		verdict string
		missing []byte
	)
	if err := row.Scan(&result.ID, &result.ResumeName, &result.JDName, &result.JDFingerprint,
		&result.Score, &verdict, &result.Feedback, &missing, &result.ProcessingTime, &result.CreatedAt); err != nil {
		return nil, err
	}
	result.Verdict = types.Verdict(verdict)
	if len(missing) > 0 {
		if err := json.Unmarshal(missing, &result.MissingElements); err != nil {
			return nil, fmt.Errorf("failed to unmarshal missing skills: %w", err)
		}
	}
	return &result, nil
}
