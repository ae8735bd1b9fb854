package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// isUniqueViolation reports whether err is a Postgres unique-index
// violation, the backstop for racy max-plus-one id assignment.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ---- users ----

const userColumns = `user_id, username, email, password_hash, avatar, score, created_at, updated_at`

func scanUser(row *sql.Row) (User, error) {
	var user User
	err := row.Scan(&user.UserID, &user.Username, &user.Email, &user.PasswordHash, &user.Avatar, &user.Score, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID int64) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=$1`, userID))
}

// MaxUserID returns the highest assigned user id, 0 when no users exist.
func (s *PostgresStore) MaxUserID(ctx context.Context) (int64, error) {
	var max int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(user_id), 0) FROM users`).Scan(&max); err != nil {
		return 0, fmt.Errorf("max user id: %w", err)
	}
	return max, nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, email, password_hash, avatar, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $6)
	`, user.UserID, user.Username, user.Email, user.PasswordHash, user.Avatar, time.Now())
	if isUniqueViolation(err) {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, email, passwordHash string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=$2, updated_at=NOW() WHERE email=$1`, email, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireRows(result)
}

func (s *PostgresStore) UpdateUsername(ctx context.Context, userID int64, username string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET username=$2, updated_at=NOW() WHERE user_id=$1`, userID, username)
	if err != nil {
		return fmt.Errorf("update username: %w", err)
	}
	return requireRows(result)
}

func (s *PostgresStore) UpdateUserAvatar(ctx context.Context, userID int64, avatar string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET avatar=$2, updated_at=NOW() WHERE user_id=$1`, userID, avatar)
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	return requireRows(result)
}

// IncrementUserScore adds one to the user's reputation score. Score is
// monotonic: nothing ever decrements it.
func (s *PostgresStore) IncrementUserScore(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET score=score+1, updated_at=NOW() WHERE user_id=$1`, userID)
	if err != nil {
		return fmt.Errorf("increment score: %w", err)
	}
	return nil
}

// DeleteUserByEmail removes the user document only. Topics, comments
// and reviews authored by the user are left in place, orphaned.
func (s *PostgresStore) DeleteUserByEmail(ctx context.Context, email string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE email=$1`, email)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRows(result)
}

// ---- topics ----

func (s *PostgresStore) InsertTopic(ctx context.Context, topic Topic) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topics (id, title, creator_user_id, ts, comment_count)
		VALUES ($1, $2, $3, $4, 0)
	`, topic.ID, topic.Title, topic.CreatorUserID, topic.Timestamp)
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTopic(ctx context.Context, topicID string) (Topic, error) {
	var topic Topic
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, creator_user_id, ts, comment_count FROM topics WHERE id=$1
	`, topicID).Scan(&topic.ID, &topic.Title, &topic.CreatorUserID, &topic.Timestamp, &topic.CommentCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Topic{}, ErrNotFound
	}
	if err != nil {
		return Topic{}, fmt.Errorf("get topic: %w", err)
	}
	topic.Likes, err = s.listLikes(ctx, `SELECT user_id FROM topic_likes WHERE topic_id=$1 ORDER BY user_id`, topicID)
	if err != nil {
		return Topic{}, err
	}
	return topic, nil
}

func (s *PostgresStore) UpdateTopicTitle(ctx context.Context, topicID, title string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE topics SET title=$2, ts=NOW() WHERE id=$1`, topicID, title)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	return requireRows(result)
}

func (s *PostgresStore) DeleteTopic(ctx context.Context, topicID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM topics WHERE id=$1`, topicID)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return requireRows(result)
}

func (s *PostgresStore) ListTopics(ctx context.Context, creatorUserID int64) ([]Topic, error) {
	query := `SELECT id, title, creator_user_id, ts, comment_count FROM topics ORDER BY ts DESC`
	args := []any{}
	if creatorUserID != 0 {
		query = `SELECT id, title, creator_user_id, ts, comment_count FROM topics WHERE creator_user_id=$1 ORDER BY ts DESC`
		args = append(args, creatorUserID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	topics := make([]Topic, 0)
	for rows.Next() {
		var topic Topic
		if err := rows.Scan(&topic.ID, &topic.Title, &topic.CreatorUserID, &topic.Timestamp, &topic.CommentCount); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	for i := range topics {
		topics[i].Likes, err = s.listLikes(ctx, `SELECT user_id FROM topic_likes WHERE topic_id=$1 ORDER BY user_id`, topics[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return topics, nil
}

// AddTopicLike records the like and reports whether it was new.
// The composite primary key keeps a user from appearing twice.
func (s *PostgresStore) AddTopicLike(ctx context.Context, topicID string, userID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO topic_likes (topic_id, user_id) VALUES ($1, $2)
		ON CONFLICT (topic_id, user_id) DO NOTHING
	`, topicID, userID)
	if err != nil {
		return false, fmt.Errorf("add topic like: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add topic like: %w", err)
	}
	return affected > 0, nil
}

// ---- comments ----

func (s *PostgresStore) InsertComment(ctx context.Context, comment Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, topic_id, body, commenter_user_id, ts)
		VALUES ($1, $2, $3, $4, $5)
	`, comment.ID, comment.TopicID, comment.Text, comment.CommenterUserID, comment.Timestamp)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetComment(ctx context.Context, commentID string) (Comment, error) {
	var comment Comment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, topic_id, body, commenter_user_id, ts FROM comments WHERE id=$1
	`, commentID).Scan(&comment.ID, &comment.TopicID, &comment.Text, &comment.CommenterUserID, &comment.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	if err != nil {
		return Comment{}, fmt.Errorf("get comment: %w", err)
	}
	comment.Likes, err = s.listLikes(ctx, `SELECT user_id FROM comment_likes WHERE comment_id=$1 ORDER BY user_id`, commentID)
	if err != nil {
		return Comment{}, err
	}
	return comment, nil
}

func (s *PostgresStore) UpdateCommentText(ctx context.Context, commentID, text string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE comments SET body=$2, ts=NOW() WHERE id=$1`, commentID, text)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return requireRows(result)
}

func (s *PostgresStore) DeleteComment(ctx context.Context, commentID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return requireRows(result)
}

// DeleteCommentsByTopic removes every comment of a topic as part of
// the topic-delete cascade.
func (s *PostgresStore) DeleteCommentsByTopic(ctx context.Context, topicID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE topic_id=$1`, topicID); err != nil {
		return fmt.Errorf("delete comments by topic: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCommentsByTopic(ctx context.Context, topicID string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic_id, body, commenter_user_id, ts FROM comments WHERE topic_id=$1 ORDER BY ts
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		var comment Comment
		if err := rows.Scan(&comment.ID, &comment.TopicID, &comment.Text, &comment.CommenterUserID, &comment.Timestamp); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	for i := range comments {
		comments[i].Likes, err = s.listLikes(ctx, `SELECT user_id FROM comment_likes WHERE comment_id=$1 ORDER BY user_id`, comments[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return comments, nil
}

// CountComments is the source of truth for a topic's comment count.
func (s *PostgresStore) CountComments(ctx context.Context, topicID string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE topic_id=$1`, topicID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) SetTopicCommentCount(ctx context.Context, topicID string, count int) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE topics SET comment_count=$2 WHERE id=$1`, topicID, count); err != nil {
		return fmt.Errorf("set comment count: %w", err)
	}
	return nil
}

func (s *PostgresStore) AddCommentLike(ctx context.Context, commentID string, userID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)
		ON CONFLICT (comment_id, user_id) DO NOTHING
	`, commentID, userID)
	if err != nil {
		return false, fmt.Errorf("add comment like: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add comment like: %w", err)
	}
	return affected > 0, nil
}

// ---- reviews ----

func (s *PostgresStore) MaxReviewID(ctx context.Context) (int64, error) {
	var max int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(review_id), 0) FROM reviews`).Scan(&max); err != nil {
		return 0, fmt.Errorf("max review id: %w", err)
	}
	return max, nil
}

func (s *PostgresStore) InsertReview(ctx context.Context, review Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (review_id, user_id, restaurant_id, body, grade, likes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $6)
	`, review.ReviewID, review.UserID, review.RestaurantID, review.Review, review.Grade, time.Now())
	if isUniqueViolation(err) {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetReview(ctx context.Context, reviewID int64) (Review, error) {
	var review Review
	err := s.db.QueryRowContext(ctx, `
		SELECT review_id, user_id, restaurant_id, body, grade, likes, created_at, updated_at
		FROM reviews WHERE review_id=$1
	`, reviewID).Scan(&review.ReviewID, &review.UserID, &review.RestaurantID, &review.Review, &review.Grade, &review.Likes, &review.CreatedAt, &review.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Review{}, ErrNotFound
	}
	if err != nil {
		return Review{}, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

func (s *PostgresStore) UpdateReview(ctx context.Context, reviewID int64, body string, grade int) error {
	result, err := s.db.ExecContext(ctx, `UPDATE reviews SET body=$2, grade=$3, updated_at=NOW() WHERE review_id=$1`, reviewID, body, grade)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return requireRows(result)
}

func (s *PostgresStore) ListReviews(ctx context.Context, restaurantID string) ([]Review, error) {
	query := `SELECT review_id, user_id, restaurant_id, body, grade, likes, created_at, updated_at FROM reviews ORDER BY created_at DESC`
	args := []any{}
	if restaurantID != "" {
		query = `SELECT review_id, user_id, restaurant_id, body, grade, likes, created_at, updated_at FROM reviews WHERE restaurant_id=$1 ORDER BY created_at DESC`
		args = append(args, restaurantID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		var review Review
		if err := rows.Scan(&review.ReviewID, &review.UserID, &review.RestaurantID, &review.Review, &review.Grade, &review.Likes, &review.CreatedAt, &review.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// ---- helpers ----

func (s *PostgresStore) listLikes(ctx context.Context, query, id string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer rows.Close()

	likes := make([]int64, 0)
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		likes = append(likes, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return likes, nil
}

func requireRows(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
