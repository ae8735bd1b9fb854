package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tastyoulu/api/internal/account"
	"tastyoulu/api/internal/auth"
	"tastyoulu/api/internal/search"
	"tastyoulu/api/internal/store"
	"tastyoulu/api/internal/util"
)

const reviewIDAttempts = 3

// Session is the authenticated caller derived from a bearer token.
type Session struct {
	UserID int64
}

type dataStore interface {
	Ping(ctx context.Context) error

	GetUserByID(ctx context.Context, userID int64) (store.User, error)
	UpdateUsername(ctx context.Context, userID int64, username string) error
	UpdateUserAvatar(ctx context.Context, userID int64, avatar string) error
	IncrementUserScore(ctx context.Context, userID int64) error

	InsertTopic(ctx context.Context, topic store.Topic) error
	GetTopic(ctx context.Context, topicID string) (store.Topic, error)
	UpdateTopicTitle(ctx context.Context, topicID, title string) error
	DeleteTopic(ctx context.Context, topicID string) error
	ListTopics(ctx context.Context, creatorUserID int64) ([]store.Topic, error)
	AddTopicLike(ctx context.Context, topicID string, userID int64) (bool, error)

	InsertComment(ctx context.Context, comment store.Comment) error
	GetComment(ctx context.Context, commentID string) (store.Comment, error)
	UpdateCommentText(ctx context.Context, commentID, text string) error
	DeleteComment(ctx context.Context, commentID string) error
	DeleteCommentsByTopic(ctx context.Context, topicID string) error
	ListCommentsByTopic(ctx context.Context, topicID string) ([]store.Comment, error)
	CountComments(ctx context.Context, topicID string) (int, error)
	SetTopicCommentCount(ctx context.Context, topicID string, count int) error
	AddCommentLike(ctx context.Context, commentID string, userID int64) (bool, error)

	MaxReviewID(ctx context.Context) (int64, error)
	InsertReview(ctx context.Context, review store.Review) error
	GetReview(ctx context.Context, reviewID int64) (store.Review, error)
	UpdateReview(ctx context.Context, reviewID int64, body string, grade int) error
	ListReviews(ctx context.Context, restaurantID string) ([]store.Review, error)
}

type searchService interface {
	Search(q search.Query) search.Response
	IndexTopic(t search.TopicRecord)
	IndexReview(r search.ReviewRecord)
	DeleteTopic(id string)
}

type assistantService interface {
	Ask(ctx context.Context, userID int64, question string) string
}

type avatarStore interface {
	PutAvatar(ctx context.Context, userID int64, r io.Reader, size int64, contentType string) (string, error)
}

type Service struct {
	store     dataStore
	accounts  *account.Service
	search    searchService
	assistant assistantService
	avatars   avatarStore // nil when no object store is configured
	secret    []byte
	tokenTTL  time.Duration
	log       *logrus.Logger
}

func NewService(
	store dataStore,
	accounts *account.Service,
	searchSvc searchService,
	assistantSvc assistantService,
	avatars avatarStore,
	secret []byte,
	tokenTTL time.Duration,
	log *logrus.Logger,
) *Service {
	return &Service{
		store:     store,
		accounts:  accounts,
		search:    searchSvc,
		assistant: assistantSvc,
		avatars:   avatars,
		secret:    secret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) Accounts() *account.Service {
	return s.accounts
}

// ---- sessions ----

// IssueToken mints a signed bearer token for the user.
func (s *Service) IssueToken(userID int64) (string, error) {
	return auth.Issue(s.secret, userID, s.tokenTTL)
}

// SessionFromToken verifies a bearer token. Tokens are stateless; there
// is no server-side session to look up, and logout is a client-side
// token discard.
func (s *Service) SessionFromToken(token string) (Session, error) {
	userID, err := auth.Verify(s.secret, token)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: userID}, nil
}

// ---- topics ----

func (s *Service) CreateTopic(ctx context.Context, userID int64, title string) (store.Topic, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return store.Topic{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}

	topic := store.Topic{
		ID:            util.NewID("topic"),
		Title:         title,
		CreatorUserID: userID,
		Timestamp:     time.Now(),
	}
	if err := s.store.InsertTopic(ctx, topic); err != nil {
		return store.Topic{}, err
	}
	s.search.IndexTopic(search.TopicRecord{ID: topic.ID, Title: topic.Title, UserID: userID})
	return s.store.GetTopic(ctx, topic.ID)
}

func (s *Service) EditTopic(ctx context.Context, userID int64, topicID, title string) (store.Topic, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return store.Topic{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}

	topic, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return store.Topic{}, err
	}
	if topic.CreatorUserID != userID {
		return store.Topic{}, domainError(http.StatusForbidden, "FORBIDDEN", "Only the topic creator can edit it", nil)
	}
	if err := s.store.UpdateTopicTitle(ctx, topicID, title); err != nil {
		return store.Topic{}, err
	}
	s.search.IndexTopic(search.TopicRecord{ID: topicID, Title: title, UserID: topic.CreatorUserID})
	return s.store.GetTopic(ctx, topicID)
}

// DeleteTopic removes a topic and all of its comments. The two deletes
// are separate statements: when the topic delete succeeds but the
// comment cleanup fails, the operation reports ErrCascadeIncomplete
// rather than success, and retrying the delete finishes the cleanup.
func (s *Service) DeleteTopic(ctx context.Context, userID int64, topicID string) error {
	topic, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return err
	}
	if topic.CreatorUserID != userID {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Only the topic creator can delete it", nil)
	}

	if err := s.store.DeleteTopic(ctx, topicID); err != nil {
		return err
	}
	s.search.DeleteTopic(topicID)

	if err := s.store.DeleteCommentsByTopic(ctx, topicID); err != nil {
		s.log.WithError(err).WithField("topic_id", topicID).Error("comment cleanup failed after topic delete")
		return fmt.Errorf("%w: %v", ErrCascadeIncomplete, err)
	}
	return nil
}

func (s *Service) ListTopics(ctx context.Context, creatorUserID int64) ([]store.Topic, error) {
	return s.store.ListTopics(ctx, creatorUserID)
}

func (s *Service) GetTopic(ctx context.Context, topicID string) (store.Topic, error) {
	return s.store.GetTopic(ctx, topicID)
}

// LikeTopic records a like and credits the topic creator with a point.
// A repeat like from the same user is rejected before any score change.
// Liking your own topic is allowed and credits yourself.
func (s *Service) LikeTopic(ctx context.Context, userID int64, topicID string) (store.Topic, error) {
	topic, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return store.Topic{}, err
	}

	added, err := s.store.AddTopicLike(ctx, topicID, userID)
	if err != nil {
		return store.Topic{}, err
	}
	if !added {
		return store.Topic{}, ErrAlreadyLiked
	}

	// Separate commit from the like itself. A crash in between leaves
	// the like recorded without the point; accepted.
	if err := s.store.IncrementUserScore(ctx, topic.CreatorUserID); err != nil {
		s.log.WithError(err).WithField("user_id", topic.CreatorUserID).Warn("score increment failed")
	}

	return s.store.GetTopic(ctx, topicID)
}

// ---- comments ----

func (s *Service) CreateComment(ctx context.Context, userID int64, topicID, text string) (store.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return store.Comment{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "text is required", nil)
	}

	if _, err := s.store.GetTopic(ctx, topicID); err != nil {
		return store.Comment{}, err
	}

	comment := store.Comment{
		ID:              util.NewID("comment"),
		TopicID:         topicID,
		Text:            text,
		CommenterUserID: userID,
		Timestamp:       time.Now(),
	}
	if err := s.store.InsertComment(ctx, comment); err != nil {
		return store.Comment{}, err
	}

	s.recountComments(ctx, topicID)
	return s.store.GetComment(ctx, comment.ID)
}

func (s *Service) EditComment(ctx context.Context, userID int64, commentID, text string) (store.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return store.Comment{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "text is required", nil)
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return store.Comment{}, err
	}
	if comment.CommenterUserID != userID {
		return store.Comment{}, domainError(http.StatusForbidden, "FORBIDDEN", "Only the commenter can edit it", nil)
	}
	if err := s.store.UpdateCommentText(ctx, commentID, text); err != nil {
		return store.Comment{}, err
	}
	return s.store.GetComment(ctx, commentID)
}

func (s *Service) DeleteComment(ctx context.Context, userID int64, commentID string) error {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.CommenterUserID != userID {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Only the commenter can delete it", nil)
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	s.recountComments(ctx, comment.TopicID)
	return nil
}

func (s *Service) ListComments(ctx context.Context, topicID string) ([]store.Comment, error) {
	if _, err := s.store.GetTopic(ctx, topicID); err != nil {
		return nil, err
	}
	return s.store.ListCommentsByTopic(ctx, topicID)
}

// LikeComment mirrors LikeTopic for comments; the point goes to the
// commenter.
func (s *Service) LikeComment(ctx context.Context, userID int64, commentID string) (store.Comment, error) {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return store.Comment{}, err
	}

	added, err := s.store.AddCommentLike(ctx, commentID, userID)
	if err != nil {
		return store.Comment{}, err
	}
	if !added {
		return store.Comment{}, ErrAlreadyLiked
	}

	if err := s.store.IncrementUserScore(ctx, comment.CommenterUserID); err != nil {
		s.log.WithError(err).WithField("user_id", comment.CommenterUserID).Warn("score increment failed")
	}

	return s.store.GetComment(ctx, commentID)
}

// recountComments recomputes the topic's stored comment count from the
// comments table. The count and the write are separate commits; a
// failure here leaves a stale count that the next comment mutation
// repairs, so it is logged and swallowed rather than failing the
// operation that triggered it.
func (s *Service) recountComments(ctx context.Context, topicID string) {
	count, err := s.store.CountComments(ctx, topicID)
	if err != nil {
		s.log.WithError(err).WithField("topic_id", topicID).Warn("comment recount failed")
		return
	}
	if err := s.store.SetTopicCommentCount(ctx, topicID, count); err != nil {
		s.log.WithError(err).WithField("topic_id", topicID).Warn("comment count persist failed")
	}
}

// ---- reviews ----

// CreateReview assigns the next dense review id. The max-plus-one read
// races with concurrent creates; the unique index catches the loser,
// which retries with a fresh read.
func (s *Service) CreateReview(ctx context.Context, userID int64, restaurantID, body string, grade int) (store.Review, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	body = strings.TrimSpace(body)
	if restaurantID == "" || body == "" {
		return store.Review{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "restaurantId and review are required", nil)
	}
	if grade < 1 || grade > 5 {
		return store.Review{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "grade must be between 1 and 5", nil)
	}

	var review store.Review
	var err error
	for attempt := 0; attempt < reviewIDAttempts; attempt++ {
		var maxID int64
		maxID, err = s.store.MaxReviewID(ctx)
		if err != nil {
			return store.Review{}, err
		}
		review = store.Review{
			ReviewID:     maxID + 1,
			UserID:       userID,
			RestaurantID: restaurantID,
			Review:       body,
			Grade:        grade,
		}
		err = s.store.InsertReview(ctx, review)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicateID) {
			return store.Review{}, err
		}
	}
	if err != nil {
		return store.Review{}, err
	}

	s.search.IndexReview(search.ReviewRecord{
		ID:           fmt.Sprintf("%d", review.ReviewID),
		Review:       body,
		Grade:        grade,
		RestaurantID: restaurantID,
		UserID:       userID,
	})
	return s.store.GetReview(ctx, review.ReviewID)
}

func (s *Service) EditReview(ctx context.Context, userID, reviewID int64, body string, grade int) (store.Review, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return store.Review{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "review is required", nil)
	}
	if grade < 1 || grade > 5 {
		return store.Review{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "grade must be between 1 and 5", nil)
	}

	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return store.Review{}, err
	}
	if review.UserID != userID {
		return store.Review{}, domainError(http.StatusForbidden, "FORBIDDEN", "Only the author can edit a review", nil)
	}
	if err := s.store.UpdateReview(ctx, reviewID, body, grade); err != nil {
		return store.Review{}, err
	}

	s.search.IndexReview(search.ReviewRecord{
		ID:           fmt.Sprintf("%d", reviewID),
		Review:       body,
		Grade:        grade,
		RestaurantID: review.RestaurantID,
		UserID:       review.UserID,
	})
	return s.store.GetReview(ctx, reviewID)
}

func (s *Service) ListReviews(ctx context.Context, restaurantID string) ([]store.Review, error) {
	return s.store.ListReviews(ctx, restaurantID)
}

// ---- profile ----

func (s *Service) GetUser(ctx context.Context, userID int64) (store.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

func (s *Service) ChangeUsername(ctx context.Context, userID int64, username string) (store.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return store.User{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "username is required", nil)
	}
	if err := s.store.UpdateUsername(ctx, userID, username); err != nil {
		return store.User{}, err
	}
	return s.store.GetUserByID(ctx, userID)
}

// UploadAvatar stores the image in the object store and records its URL
// on the user.
func (s *Service) UploadAvatar(ctx context.Context, userID int64, r io.Reader, size int64, contentType string) (store.User, error) {
	if s.avatars == nil {
		return store.User{}, domainError(http.StatusServiceUnavailable, "AVATAR_STORAGE_UNAVAILABLE", "Avatar storage is not configured", nil)
	}
	url, err := s.avatars.PutAvatar(ctx, userID, r, size, contentType)
	if err != nil {
		return store.User{}, err
	}
	if err := s.store.UpdateUserAvatar(ctx, userID, url); err != nil {
		return store.User{}, err
	}
	return s.store.GetUserByID(ctx, userID)
}

// ---- search & assistant ----

func (s *Service) Search(q search.Query) search.Response {
	return s.search.Search(q)
}

func (s *Service) Ask(ctx context.Context, userID int64, question string) string {
	return s.assistant.Ask(ctx, userID, question)
}
