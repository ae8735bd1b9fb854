package search

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// PgFTS implements Searcher using PostgreSQL full-text search as a fallback.
// Topic and review text are small enough that on-the-fly to_tsvector is
// acceptable here; this path only runs when Meilisearch is unavailable.
type PgFTS struct {
	db *sql.DB
}

// NewPgFTS creates a PostgreSQL FTS searcher.
func NewPgFTS(db *sql.DB) *PgFTS {
	return &PgFTS{db: db}
}

// Healthy always returns true. If Postgres is down, the whole app is down.
func (p *PgFTS) Healthy() bool {
	return true
}

// Search executes a UNION ALL query across topics and reviews using
// plainto_tsquery and ts_rank, with ts_headline for snippets.
func (p *PgFTS) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	tsQuery := "plainto_tsquery('english', $1)"
	args := []any{q.Text}
	argN := 2

	var subQueries []string

	if q.FilterType == "" || q.FilterType == ResultTopic {
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'topic'::text AS type, t.id, t.title,
				''::text AS snippet,
				''::text AS restaurant_id, t.creator_user_id AS user_id,
				ts_rank(to_tsvector('english', t.title), %s) AS rank
			FROM topics t
			WHERE to_tsvector('english', t.title) @@ %s`, tsQuery, tsQuery))
	}

	if q.FilterType == "" || q.FilterType == ResultReview {
		reviewWhere := "to_tsvector('english', r.body) @@ " + tsQuery
		if q.FilterRestaurantID != "" {
			reviewWhere += fmt.Sprintf(" AND r.restaurant_id = $%d", argN)
			args = append(args, q.FilterRestaurantID)
			argN++
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'review'::text AS type, r.review_id::text AS id, ''::text AS title,
				ts_headline('english', r.body, %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				r.restaurant_id, r.user_id,
				ts_rank(to_tsvector('english', r.body), %s) AS rank
			FROM reviews r
			WHERE %s`, tsQuery, tsQuery, reviewWhere))
	}

	if len(subQueries) == 0 {
		return nil, 0, nil
	}

	countSQL := fmt.Sprintf("SELECT count(*) FROM (%s) sub",
		strings.Join(subQueries, " UNION ALL "))

	dataSQL := fmt.Sprintf(`SELECT type, id, title, snippet, restaurant_id, user_id
		FROM (%s) sub
		ORDER BY rank DESC
		LIMIT %d OFFSET %d`,
		strings.Join(subQueries, " UNION ALL "),
		limit, offset)

	ctx := context.Background()

	var total int
	if err := p.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgfts count: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgfts query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var typ string
		if err := rows.Scan(&typ, &r.ID, &r.Title, &r.Snippet, &r.RestaurantID, &r.UserID); err != nil {
			return nil, 0, fmt.Errorf("pgfts scan: %w", err)
		}
		r.Type = ResultType(typ)
		results = append(results, r)
	}

	return results, total, rows.Err()
}

// LoadAllRecords returns all searchable records for full reindexing.
func (p *PgFTS) LoadAllRecords(ctx context.Context) ([]TopicRecord, []ReviewRecord, error) {
	topicRows, err := p.db.QueryContext(ctx, `
		SELECT id, title, creator_user_id
		FROM topics
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load topics: %w", err)
	}
	defer topicRows.Close()

	topics := make([]TopicRecord, 0)
	for topicRows.Next() {
		var t TopicRecord
		if err := topicRows.Scan(&t.ID, &t.Title, &t.UserID); err != nil {
			return nil, nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := topicRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate topics: %w", err)
	}

	reviewRows, err := p.db.QueryContext(ctx, `
		SELECT review_id, body, grade, restaurant_id, user_id
		FROM reviews
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load reviews: %w", err)
	}
	defer reviewRows.Close()

	reviews := make([]ReviewRecord, 0)
	for reviewRows.Next() {
		var r ReviewRecord
		var reviewID int64
		if err := reviewRows.Scan(&reviewID, &r.Review, &r.Grade, &r.RestaurantID, &r.UserID); err != nil {
			return nil, nil, fmt.Errorf("scan review: %w", err)
		}
		r.ID = strconv.FormatInt(reviewID, 10)
		reviews = append(reviews, r)
	}
	if err := reviewRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return topics, reviews, nil
}
