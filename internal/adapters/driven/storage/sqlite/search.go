package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// searchQuery ranks with FTS5 bm25 using per-column weights in index column
// order: id, title, description, content, tags_text. bm25 is lower-is-better.
const searchQuery = `
	SELECT ` + promptColumns + `, bm25(prompts_fts, 5.0, 3.0, 2.0, 1.0, 2.0) AS score
	FROM prompts_fts
	JOIN prompts p ON p.id = prompts_fts.id
	WHERE prompts_fts MATCH ?
	ORDER BY score
	LIMIT ?
`

// Search ranks prompts against an FTS5 query and returns them with the
// score negated so that higher means more relevant.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if !domain.ValidSearchLimit(limit) {
		return nil, fmt.Errorf("%w: search limit %d outside [%d, %d]",
			domain.ErrInvalidInput, limit, domain.MinSearchLimit, domain.MaxSearchLimit)
	}

	rows, err := s.db.QueryContext(ctx, searchQuery, query, limit)
	if err != nil {
		return nil, classifySearchError(query, err)
	}
	defer rows.Close()

	var (
		prompts []domain.Prompt
		scores  []float64
	)
	for rows.Next() {
		var raw float64
		p, err := scanPrompt(rows, &raw)
		if err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		prompts = append(prompts, *p)
		scores = append(scores, -raw)
	}
	if err := rows.Err(); err != nil {
		return nil, classifySearchError(query, err)
	}
	rows.Close()

	if err := attachDetails(ctx, s.db, prompts); err != nil {
		return nil, fmt.Errorf("searching prompts: %w", err)
	}

	results := make([]domain.SearchResult, len(prompts))
	for i := range prompts {
		results[i] = domain.SearchResult{Prompt: prompts[i], Score: scores[i]}
	}
	return results, nil
}

// ftsSyntaxMarkers are fragments of the errors FTS5 raises for queries it
// cannot parse.
var ftsSyntaxMarkers = []string{
	"fts5:",
	"unterminated string",
	"unknown special query",
}

// noSuchColumn prefixes the error for a column filter naming a column the
// index does not have, as in "author:jeff".
const noSuchColumn = "no such column: "

func classifySearchError(query string, err error) error {
	msg := err.Error()
	for _, marker := range ftsSyntaxMarkers {
		if strings.Contains(msg, marker) {
			return &domain.SearchSyntaxError{Query: query, Err: err}
		}
	}
	if isColumnFilterError(query, msg) {
		return &domain.SearchSyntaxError{Query: query, Err: err}
	}
	return fmt.Errorf("searching prompts: %w", err)
}

// isColumnFilterError reports whether msg names a missing column that the
// query itself used as a column filter.
func isColumnFilterError(query, msg string) bool {
	i := strings.Index(msg, noSuchColumn)
	if i < 0 {
		return false
	}
	column := strings.TrimSpace(msg[i+len(noSuchColumn):])
	if j := strings.IndexAny(column, " \t\n"); j >= 0 {
		column = column[:j]
	}
	return column != "" && strings.Contains(strings.ToLower(query), strings.ToLower(column)+":")
}
