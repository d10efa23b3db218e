package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const promptColumns = `p.id, p.title, p.content, p.description, p.category,
	p.featured, p.version, p.author, p.saved_at, p.is_local`

// Upsert replaces the prompt row, its tags, variables and index entry in
// one transaction.
func (s *Store) Upsert(ctx context.Context, prompt *domain.Prompt) error {
	if prompt == nil {
		return &domain.StoreWriteError{Op: "upsert prompt", Err: domain.ErrInvalidInput}
	}
	return s.BulkUpsert(ctx, []domain.Prompt{*prompt})
}

// BulkUpsert writes every prompt in a single transaction.
func (s *Store) BulkUpsert(ctx context.Context, prompts []domain.Prompt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreWriteError{Op: "beginning transaction", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	for i := range prompts {
		if err := upsertPrompt(ctx, tx, &prompts[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreWriteError{Op: "committing prompts", Err: err}
	}
	return nil
}

// upsertPrompt deletes then re-inserts one prompt and everything derived from it.
func upsertPrompt(ctx context.Context, tx *sql.Tx, p *domain.Prompt) error {
	fail := func(op string, err error) error {
		return &domain.StoreWriteError{Op: op, ID: p.ID, Err: err}
	}

	if err := p.Validate(); err != nil {
		return fail("validating prompt", err)
	}

	var createdAt sql.NullString
	err := tx.QueryRowContext(ctx, "SELECT created_at FROM prompts WHERE id = ?", p.ID).Scan(&createdAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fail("reading prompt", err)
	}

	// Tags and variables go with the row through ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, "DELETE FROM prompts WHERE id = ?", p.ID); err != nil {
		return fail("deleting prompt", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM prompts_fts WHERE id = ?", p.ID); err != nil {
		return fail("deleting index entry", err)
	}

	tags := p.NormalizedTags()
	tagsText := strings.Join(tags, " ")

	_, err = tx.ExecContext(ctx, `
		INSERT INTO prompts (
			id, title, content, description, category, tags_text, featured,
			version, author, saved_at, is_local, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, datetime('now')), datetime('now'))
	`,
		p.ID, p.Title, p.Content, nullString(p.Description), nullString(p.Category), tagsText,
		boolToInt(p.Featured), nullString(p.Version), nullString(p.Author), nullString(p.SavedAt),
		boolToInt(p.IsLocal), createdAt,
	)
	if err != nil {
		return fail("inserting prompt", err)
	}

	for i, tag := range tags {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO prompt_tags (prompt_id, tag, position) VALUES (?, ?, ?)", p.ID, tag, i)
		if err != nil {
			return fail("inserting tag "+tag, err)
		}
	}

	for i, v := range p.Variables {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO prompt_variables (
				prompt_id, name, var_type, required, description, default_value, position
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			p.ID, v.Name, domain.ParseVariableType(string(v.Type)).String(), boolToInt(v.Required),
			nullString(v.Description), nullString(v.Default), i,
		)
		if err != nil {
			return fail("inserting variable "+v.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO prompts_fts (id, title, description, content, tags_text) VALUES (?, ?, ?, ?, ?)",
		p.ID, p.Title, p.Description, p.Content, tagsText,
	)
	if err != nil {
		return fail("indexing prompt", err)
	}
	return nil
}

// Get fetches a prompt with its tags and variables.
func (s *Store) Get(ctx context.Context, id string) (*domain.Prompt, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+promptColumns+" FROM prompts p WHERE p.id = ?", id)
	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting prompt %q: %w", id, err)
	}

	prompts := []domain.Prompt{*p}
	if err := attachDetails(ctx, s.db, prompts); err != nil {
		return nil, false, fmt.Errorf("getting prompt %q: %w", id, err)
	}
	return &prompts[0], true, nil
}

// List returns prompts matching every set filter field, ordered by title.
func (s *Store) List(ctx context.Context, filter domain.ListFilter) ([]domain.Prompt, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		where = append(where, "p.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Tag != "" {
		where = append(where, "p.id IN (SELECT prompt_id FROM prompt_tags WHERE tag = ?)")
		args = append(args, filter.Tag)
	}
	if filter.FeaturedOnly {
		where = append(where, "p.featured = 1")
	}

	query := "SELECT " + promptColumns + " FROM prompts p"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.title, p.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	defer rows.Close()

	prompts := make([]domain.Prompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning prompt: %w", err)
		}
		prompts = append(prompts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	rows.Close()

	if err := attachDetails(ctx, s.db, prompts); err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	return prompts, nil
}

// Delete removes one prompt and its dependent rows.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreWriteError{Op: "beginning transaction", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	res, err := tx.ExecContext(ctx, "DELETE FROM prompts WHERE id = ?", id)
	if err != nil {
		return &domain.StoreWriteError{Op: "deleting prompt", ID: id, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("prompt %q: %w", id, domain.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM prompts_fts WHERE id = ?", id); err != nil {
		return &domain.StoreWriteError{Op: "deleting index entry", ID: id, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreWriteError{Op: "committing delete", ID: id, Err: err}
	}
	return nil
}

// Reset removes every prompt and index entry. Metadata is kept.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreWriteError{Op: "beginning transaction", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	for _, stmt := range []string{
		"DELETE FROM prompt_variables",
		"DELETE FROM prompt_tags",
		"DELETE FROM prompts",
		"DELETE FROM prompts_fts",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return &domain.StoreWriteError{Op: "resetting store", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreWriteError{Op: "committing reset", Err: err}
	}
	return nil
}

// Count returns the number of stored prompts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM prompts").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting prompts: %w", err)
	}
	return n, nil
}

// CategoryCounts returns non-null categories sorted by name.
func (s *Store) CategoryCounts(ctx context.Context) ([]domain.Count, error) {
	return s.counts(ctx, `
		SELECT category, COUNT(*) FROM prompts
		WHERE category IS NOT NULL
		GROUP BY category
		ORDER BY category
	`)
}

// TagCounts returns tags by count descending, ties broken by name.
func (s *Store) TagCounts(ctx context.Context) ([]domain.Count, error) {
	return s.counts(ctx, `
		SELECT tag, COUNT(*) AS n FROM prompt_tags
		GROUP BY tag
		ORDER BY n DESC, tag
	`)
}

func (s *Store) counts(ctx context.Context, query string) ([]domain.Count, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting: %w", err)
	}
	defer rows.Close()

	counts := make([]domain.Count, 0)
	for rows.Next() {
		var c domain.Count
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row rowScanner, extra ...any) (*domain.Prompt, error) {
	var (
		p                                                domain.Prompt
		description, category, version, author, savedAt sql.NullString
		featured, isLocal                               int
	)
	dest := []any{
		&p.ID, &p.Title, &p.Content, &description, &category,
		&featured, &version, &author, &savedAt, &isLocal,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Category = category.String
	p.Version = version.String
	p.Author = author.String
	p.SavedAt = savedAt.String
	p.Featured = featured != 0
	p.IsLocal = isLocal != 0
	p.Tags = []string{}
	return &p, nil
}

// attachDetails loads tags and variables for the given prompts in two queries.
func attachDetails(ctx context.Context, q querier, prompts []domain.Prompt) error {
	if len(prompts) == 0 {
		return nil
	}

	index := make(map[string]int, len(prompts))
	placeholders := make([]string, len(prompts))
	args := make([]any, len(prompts))
	for i := range prompts {
		index[prompts[i].ID] = i
		placeholders[i] = "?"
		args[i] = prompts[i].ID
	}
	in := strings.Join(placeholders, ",")

	tagRows, err := q.QueryContext(ctx,
		"SELECT prompt_id, tag FROM prompt_tags WHERE prompt_id IN ("+in+") ORDER BY prompt_id, position, tag",
		args...)
	if err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var id, tag string
		if err := tagRows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("scanning tag: %w", err)
		}
		if i, ok := index[id]; ok {
			prompts[i].Tags = append(prompts[i].Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}
	tagRows.Close()

	varRows, err := q.QueryContext(ctx, `
		SELECT prompt_id, name, var_type, required, description, default_value
		FROM prompt_variables WHERE prompt_id IN (`+in+`)
		ORDER BY prompt_id, position, id`, args...)
	if err != nil {
		return fmt.Errorf("loading variables: %w", err)
	}
	defer varRows.Close()
	for varRows.Next() {
		var (
			id, name, varType   string
			required            int
			description, defVal sql.NullString
		)
		if err := varRows.Scan(&id, &name, &varType, &required, &description, &defVal); err != nil {
			return fmt.Errorf("scanning variable: %w", err)
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		prompts[i].Variables = append(prompts[i].Variables, domain.Variable{
			Name:        name,
			Type:        domain.ParseVariableType(varType),
			Required:    required != 0,
			Description: description.String,
			Default:     defVal.String,
		})
	}
	return varRows.Err()
}
