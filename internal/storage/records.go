package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fincomply/sarforge/internal/common"
	"github.com/fincomply/sarforge/internal/model"
	"github.com/fincomply/sarforge/internal/service"
)

// defaultPageLimit caps unbounded list queries.
const defaultPageLimit = 50

// SaveRecord inserts or replaces a record. A record without an id is
// assigned one. The searchable columns are extracted from the field map on
// every save so search stays consistent with the stored JSON.
func (s *SQLiteStorage) SaveRecord(ctx context.Context, rec *model.SARRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(rec); err != nil {
		return err
	}

	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = uuid.New().String()
	}

	fields, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode record fields: %w", err)
	}

	suspectName := strings.TrimSpace(rec.Str(model.FieldSuspectFirstName) + " " + rec.Str(model.FieldSuspectLastName))
	if suspectName == "" {
		suspectName = rec.Str(model.FieldSuspectEntityName)
	}

	var amount sql.NullFloat64
	if d, ok := rec.Amount(model.FieldTotalAmount); ok {
		amount = sql.NullFloat64{Float64: d.InexactFloat64(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sar_records (id, institution_name, suspect_name, activity_date, total_amount, description, fields)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			institution_name = excluded.institution_name,
			suspect_name = excluded.suspect_name,
			activity_date = excluded.activity_date,
			total_amount = excluded.total_amount,
			description = excluded.description,
			fields = excluded.fields,
			updated_at = CURRENT_TIMESTAMP`,
		rec.ID,
		rec.Str(model.FieldInstitutionName),
		suspectName,
		rec.Str(model.FieldActivityDate),
		amount,
		rec.Str(model.FieldActivityDescription),
		string(fields),
	)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	return nil
}

// GetRecord fetches one record by id. Returns common.ErrRecordNotFound when
// the id does not exist.
func (s *SQLiteStorage) GetRecord(ctx context.Context, id string) (*model.SARRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var fields string
	err := s.db.QueryRowContext(ctx,
		"SELECT fields FROM sar_records WHERE id = ?", id).Scan(&fields)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", common.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return decodeRecord(id, fields)
}

// SearchRecords matches the query against institution name, suspect name,
// and activity description, newest first. An empty query lists everything.
func (s *SQLiteStorage) SearchRecords(ctx context.Context, filter service.RecordFilter) (*service.RecordPage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePage(filter.Limit, filter.Offset); err != nil {
		return nil, err
	}
	if filter.Limit == 0 {
		filter.Limit = defaultPageLimit
	}

	where := ""
	args := []any{}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + q + "%"
		where = "WHERE institution_name LIKE ? OR suspect_name LIKE ? OR description LIKE ?"
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM sar_records " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	query := "SELECT id, fields FROM sar_records " + where +
		" ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to search records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	page := &service.RecordPage{
		Records: make([]model.SARRecord, 0, filter.Limit),
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}

	for rows.Next() {
		var id, fields string
		if err := rows.Scan(&id, &fields); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec, err := decodeRecord(id, fields)
		if err != nil {
			return nil, err
		}
		page.Records = append(page.Records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return page, nil
}

// CountRecords returns the total number of stored records.
func (s *SQLiteStorage) CountRecords(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sar_records").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// DeleteRecord removes one record by id.
func (s *SQLiteStorage) DeleteRecord(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM sar_records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", common.ErrRecordNotFound, id)
	}
	return nil
}

// decodeRecord rebuilds a SARRecord from its stored JSON fields. Numbers
// decode as json.Number so amounts survive the round trip without float
// drift.
func decodeRecord(id, fields string) (*model.SARRecord, error) {
	rec := &model.SARRecord{ID: id, Fields: make(map[string]any)}

	dec := json.NewDecoder(strings.NewReader(fields))
	dec.UseNumber()
	if err := dec.Decode(&rec.Fields); err != nil {
		return nil, fmt.Errorf("%w: record %s has invalid fields: %v", common.ErrDatabaseCorrupted, id, err)
	}
	return rec, nil
}
