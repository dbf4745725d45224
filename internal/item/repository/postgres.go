package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"central-lost-found/backend/internal/item/domain"
)

const selectColumns = `id::text, title, category, dominant_color, description, distinctive_marks,
	location_found, date_found, voivodeship, reporting_entity`

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresRepository struct {
	db     queryer
	tracer trace.Tracer
	newID  func() string
}

// NewPostgresRepository returns an item repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		tracer: otel.Tracer("central-lost-found/item/repository"),
		newID:  uuid.NewString,
	}
}

// Insert persists item with a freshly generated id, sets item.ID, and returns the id.
// Each call is a single statement; there is no cross-item transaction.
func (r *PostgresRepository) Insert(ctx context.Context, item *domain.FoundItem) (string, error) {
	ctx, span := r.tracer.Start(ctx, "items.Insert")
	defer span.End()

	id := r.newID()
	var out string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO found_items (id, title, category, dominant_color, description, distinctive_marks,
			location_found, date_found, voivodeship, reporting_entity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text`,
		id,
		item.Title,
		nullString(item.Category),
		item.DominantColor,
		ptrToNullString(item.Description),
		ptrToNullString(item.DistinctiveMarks),
		item.LocationFound,
		item.DateFound,
		item.Voivodeship,
		item.ReportingEntity,
	).Scan(&out)
	if err != nil {
		recordError(span, err)
		return "", fmt.Errorf("insert found item: %w", err)
	}
	item.ID = out
	span.SetAttributes(attribute.String("item.id", out))
	return out, nil
}

// GetByID returns the item for id, or nil if not found. Ids that are not UUIDs are reported as not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.FoundItem, error) {
	ctx, span := r.tracer.Start(ctx, "items.GetByID", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM found_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		recordError(span, err)
		return nil, fmt.Errorf("get found item: %w", err)
	}
	return item, nil
}

// Query returns items matching f. Zero-valued constraints are ignored.
func (r *PostgresRepository) Query(ctx context.Context, f domain.Filter) ([]*domain.FoundItem, error) {
	ctx, span := r.tracer.Start(ctx, "items.Query")
	defer span.End()

	where, args := filterClause(f)
	q := `SELECT ` + selectColumns + ` FROM found_items` + where + ` ORDER BY date_found DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	items, err := r.list(ctx, q, args...)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("query found items: %w", err)
	}
	span.SetAttributes(attribute.Int("items.count", len(items)))
	return items, nil
}

// Search matches term as a literal substring; LIKE wildcards in term are escaped.
func (r *PostgresRepository) Search(ctx context.Context, term string) ([]*domain.FoundItem, error) {
	ctx, span := r.tracer.Start(ctx, "items.Search")
	defer span.End()

	pattern := "%" + escapeLike(term) + "%"
	items, err := r.list(ctx, `SELECT `+selectColumns+` FROM found_items
		WHERE title ILIKE $1 OR description ILIKE $1 OR distinctive_marks ILIKE $1
		ORDER BY date_found DESC, id`, pattern)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("search found items: %w", err)
	}
	return items, nil
}

// ExportAll returns every row. Intended for small datasets; results are not streamed.
func (r *PostgresRepository) ExportAll(ctx context.Context) ([]*domain.FoundItem, error) {
	ctx, span := r.tracer.Start(ctx, "items.ExportAll")
	defer span.End()

	items, err := r.list(ctx, `SELECT `+selectColumns+` FROM found_items ORDER BY date_found DESC, id`)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("export found items: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) list(ctx context.Context, q string, args ...any) ([]*domain.FoundItem, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.FoundItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// filterClause builds the WHERE clause and positional args for f.
func filterClause(f domain.Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Voivodeship != "" {
		add("voivodeship = $%d", f.Voivodeship)
	}
	if f.DominantColor != "" {
		add("dominant_color = $%d", f.DominantColor)
	}
	if f.DateFrom != nil {
		add("date_found >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("date_found <= $%d", *f.DateTo)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*domain.FoundItem, error) {
	var (
		item                          domain.FoundItem
		category, description, marks sql.NullString
	)
	if err := s.Scan(
		&item.ID,
		&item.Title,
		&category,
		&item.DominantColor,
		&description,
		&marks,
		&item.LocationFound,
		&item.DateFound,
		&item.Voivodeship,
		&item.ReportingEntity,
	); err != nil {
		return nil, err
	}
	item.Category = category.String
	item.Description = nullStringToPtr(description)
	item.DistinctiveMarks = nullStringToPtr(marks)
	item.DateFound = domain.DateOf(item.DateFound)
	return &item, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func ptrToNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullStringToPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
