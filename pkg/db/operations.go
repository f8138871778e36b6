package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FetchRecord is one row of the fetches table.
type FetchRecord struct {
	FetchID      int64
	Site         string
	PageName     string
	Fullname     string
	Status       string
	ErrorMessage sql.NullString
	ContentHash  sql.NullString
	KeyCount     int
	SizeBytes    int
	FetchedAt    time.Time
}

// RecordFetch inserts a fetch outcome and returns its fetch_id.
func (db *DB) RecordFetch(rec FetchRecord) (int64, error) {
	fetchedAt := rec.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	result, err := db.Exec(`
		INSERT INTO fetches (site, page_name, fullname, status, error_message, content_hash, key_count, size_bytes, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.Site, rec.PageName, rec.Fullname, rec.Status, rec.ErrorMessage, rec.ContentHash, rec.KeyCount, rec.SizeBytes, fetchedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to record fetch: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get fetch ID: %w", err)
	}
	return id, nil
}

// ListFetches returns the most recent fetches, newest first. limit <= 0 returns all.
func (db *DB) ListFetches(limit int) ([]FetchRecord, error) {
	query := `
		SELECT fetch_id, site, page_name, fullname, status, error_message, content_hash, key_count, size_bytes, fetched_at
		FROM fetches
		ORDER BY fetched_at DESC, fetch_id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fetches: %w", err)
	}
	defer rows.Close()

	var records []FetchRecord
	for rows.Next() {
		rec, err := scanFetch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LastSuccess returns the newest successful fetch of a page, or nil when there is none.
func (db *DB) LastSuccess(site, pageName string) (*FetchRecord, error) {
	row := db.QueryRow(`
		SELECT fetch_id, site, page_name, fullname, status, error_message, content_hash, key_count, size_bytes, fetched_at
		FROM fetches
		WHERE site = ? AND page_name = ? AND status = 'ok'
		ORDER BY fetched_at DESC, fetch_id DESC
		LIMIT 1
	`, site, pageName)

	rec, err := scanFetch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFetch(s scanner) (FetchRecord, error) {
	var rec FetchRecord
	err := s.Scan(
		&rec.FetchID,
		&rec.Site,
		&rec.PageName,
		&rec.Fullname,
		&rec.Status,
		&rec.ErrorMessage,
		&rec.ContentHash,
		&rec.KeyCount,
		&rec.SizeBytes,
		&rec.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan fetch: %w", err)
	}
	return rec, nil
}
