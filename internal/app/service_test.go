package app

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"tastyoulu/api/internal/account"
	"tastyoulu/api/internal/search"
	"tastyoulu/api/internal/store"
)

// fakeStore is an in-memory stand-in for the Postgres store. Failure
// hooks let tests break individual statements to exercise the partial
// failure paths.
type fakeStore struct {
	mu sync.Mutex

	users    map[int64]*store.User
	topicMap map[string]*store.Topic
	comments map[string]*store.Comment
	reviews  map[int64]*store.Review

	topicLikes   map[string]map[int64]struct{}
	commentLikes map[string]map[int64]struct{}

	failSetCommentCount bool
	failDeleteComments  bool
	failCountComments   bool
	insertReviewErrs    []error
	insertUserErrs      []error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[int64]*store.User),
		topicMap:     make(map[string]*store.Topic),
		comments:     make(map[string]*store.Comment),
		reviews:      make(map[int64]*store.Review),
		topicLikes:   make(map[string]map[int64]struct{}),
		commentLikes: make(map[string]map[int64]struct{}),
	}
}

func (f *fakeStore) Ping(context.Context) error { return nil }

// ---- users ----

func (f *fakeStore) GetUserByID(_ context.Context, userID int64) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return *user, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return *user, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (f *fakeStore) MaxUserID(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var max int64
	for id := range f.users {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (f *fakeStore) InsertUser(_ context.Context, user store.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.insertUserErrs) > 0 {
		err := f.insertUserErrs[0]
		f.insertUserErrs = f.insertUserErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := f.users[user.UserID]; exists {
		return store.ErrDuplicateID
	}
	u := user
	f.users[user.UserID] = &u
	return nil
}

func (f *fakeStore) UpdateUserPassword(_ context.Context, email, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) DeleteUserByEmail(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, user := range f.users {
		if user.Email == email {
			delete(f.users, id)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) UpdateUsername(_ context.Context, userID int64, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.Username = username
	return nil
}

func (f *fakeStore) UpdateUserAvatar(_ context.Context, userID int64, avatar string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.Avatar = avatar
	return nil
}

func (f *fakeStore) IncrementUserScore(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.Score++
	return nil
}

// ---- topics ----

func (f *fakeStore) InsertTopic(_ context.Context, topic store.Topic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := topic
	t.Timestamp = time.Now()
	f.topicMap[topic.ID] = &t
	return nil
}

func (f *fakeStore) GetTopic(_ context.Context, topicID string) (store.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	topic, ok := f.topicMap[topicID]
	if !ok {
		return store.Topic{}, store.ErrNotFound
	}
	out := *topic
	out.Likes = likeList(f.topicLikes[topicID])
	return out, nil
}

func (f *fakeStore) UpdateTopicTitle(_ context.Context, topicID, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	topic, ok := f.topicMap[topicID]
	if !ok {
		return store.ErrNotFound
	}
	topic.Title = title
	topic.Timestamp = time.Now()
	return nil
}

func (f *fakeStore) DeleteTopic(_ context.Context, topicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.topicMap[topicID]; !ok {
		return store.ErrNotFound
	}
	delete(f.topicMap, topicID)
	return nil
}

func (f *fakeStore) ListTopics(_ context.Context, creatorUserID int64) ([]store.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	topics := make([]store.Topic, 0)
	for id, topic := range f.topicMap {
		if creatorUserID != 0 && topic.CreatorUserID != creatorUserID {
			continue
		}
		out := *topic
		out.Likes = likeList(f.topicLikes[id])
		topics = append(topics, out)
	}
	return topics, nil
}

func (f *fakeStore) AddTopicLike(_ context.Context, topicID string, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	likes := f.topicLikes[topicID]
	if likes == nil {
		likes = make(map[int64]struct{})
		f.topicLikes[topicID] = likes
	}
	if _, liked := likes[userID]; liked {
		return false, nil
	}
	likes[userID] = struct{}{}
	return true, nil
}

// ---- comments ----

func (f *fakeStore) InsertComment(_ context.Context, comment store.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := comment
	c.Timestamp = time.Now()
	f.comments[comment.ID] = &c
	return nil
}

func (f *fakeStore) GetComment(_ context.Context, commentID string) (store.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[commentID]
	if !ok {
		return store.Comment{}, store.ErrNotFound
	}
	out := *comment
	out.Likes = likeList(f.commentLikes[commentID])
	return out, nil
}

func (f *fakeStore) UpdateCommentText(_ context.Context, commentID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[commentID]
	if !ok {
		return store.ErrNotFound
	}
	comment.Text = text
	return nil
}

func (f *fakeStore) DeleteComment(_ context.Context, commentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[commentID]; !ok {
		return store.ErrNotFound
	}
	delete(f.comments, commentID)
	return nil
}

func (f *fakeStore) DeleteCommentsByTopic(_ context.Context, topicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeleteComments {
		return errors.New("delete comments failed")
	}
	for id, comment := range f.comments {
		if comment.TopicID == topicID {
			delete(f.comments, id)
		}
	}
	return nil
}

func (f *fakeStore) ListCommentsByTopic(_ context.Context, topicID string) ([]store.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comments := make([]store.Comment, 0)
	for id, comment := range f.comments {
		if comment.TopicID != topicID {
			continue
		}
		out := *comment
		out.Likes = likeList(f.commentLikes[id])
		comments = append(comments, out)
	}
	return comments, nil
}

func (f *fakeStore) CountComments(_ context.Context, topicID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCountComments {
		return 0, errors.New("count failed")
	}
	count := 0
	for _, comment := range f.comments {
		if comment.TopicID == topicID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) SetTopicCommentCount(_ context.Context, topicID string, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSetCommentCount {
		return errors.New("persist failed")
	}
	topic, ok := f.topicMap[topicID]
	if !ok {
		return store.ErrNotFound
	}
	topic.CommentCount = count
	return nil
}

func (f *fakeStore) AddCommentLike(_ context.Context, commentID string, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	likes := f.commentLikes[commentID]
	if likes == nil {
		likes = make(map[int64]struct{})
		f.commentLikes[commentID] = likes
	}
	if _, liked := likes[userID]; liked {
		return false, nil
	}
	likes[userID] = struct{}{}
	return true, nil
}

// ---- reviews ----

func (f *fakeStore) MaxReviewID(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var max int64
	for id := range f.reviews {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (f *fakeStore) InsertReview(_ context.Context, review store.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.insertReviewErrs) > 0 {
		err := f.insertReviewErrs[0]
		f.insertReviewErrs = f.insertReviewErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := f.reviews[review.ReviewID]; exists {
		return store.ErrDuplicateID
	}
	r := review
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.reviews[review.ReviewID] = &r
	return nil
}

func (f *fakeStore) GetReview(_ context.Context, reviewID int64) (store.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	review, ok := f.reviews[reviewID]
	if !ok {
		return store.Review{}, store.ErrNotFound
	}
	return *review, nil
}

func (f *fakeStore) UpdateReview(_ context.Context, reviewID int64, body string, grade int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	review, ok := f.reviews[reviewID]
	if !ok {
		return store.ErrNotFound
	}
	review.Review = body
	review.Grade = grade
	review.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) ListReviews(_ context.Context, restaurantID string) ([]store.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reviews := make([]store.Review, 0)
	for _, review := range f.reviews {
		if restaurantID != "" && review.RestaurantID != restaurantID {
			continue
		}
		reviews = append(reviews, *review)
	}
	return reviews, nil
}

func likeList(likes map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(likes))
	for userID := range likes {
		out = append(out, userID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ---- test wiring ----

type noopSearch struct{}

func (noopSearch) Search(q search.Query) search.Response {
	return search.Response{Results: []search.Result{}, Query: q.Text}
}
func (noopSearch) IndexTopic(search.TopicRecord)   {}
func (noopSearch) IndexReview(search.ReviewRecord) {}
func (noopSearch) DeleteTopic(string)              {}

type stubAssistant struct {
	reply string
}

func (a stubAssistant) Ask(context.Context, int64, string) string { return a.reply }

type noopMailer struct{}

func (noopMailer) IsConfigured() bool { return true }

func (noopMailer) Send([]string, string, string) error { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(fs *fakeStore) *Service {
	log := testLogger()
	accounts := account.NewService(fs, noopMailer{}, log)
	return NewService(fs, accounts, noopSearch{}, stubAssistant{reply: "ok"}, nil, []byte("test-secret"), time.Hour, log)
}

func addUser(fs *fakeStore, userID int64, username, email string) {
	fs.users[userID] = &store.User{UserID: userID, Username: username, Email: email}
}

// ---- counter engine ----

func TestCommentCountTracksComments(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	topic, err := svc.CreateTopic(ctx, 1, "Best pizza in Oulu?")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	var commentIDs []string
	for i := 0; i < 3; i++ {
		comment, err := svc.CreateComment(ctx, 1, topic.ID, "try Uleåborg")
		if err != nil {
			t.Fatalf("CreateComment failed: %v", err)
		}
		commentIDs = append(commentIDs, comment.ID)
	}

	got, err := svc.GetTopic(ctx, topic.ID)
	if err != nil {
		t.Fatalf("GetTopic failed: %v", err)
	}
	if got.CommentCount != 3 {
		t.Fatalf("expected comment count 3, got %d", got.CommentCount)
	}

	if err := svc.DeleteComment(ctx, 1, commentIDs[0]); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	got, _ = svc.GetTopic(ctx, topic.ID)
	if got.CommentCount != 2 {
		t.Fatalf("expected comment count 2 after delete, got %d", got.CommentCount)
	}
}

func TestCommentCountPersistFailureDoesNotFailCreate(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	topic, err := svc.CreateTopic(ctx, 1, "Lunch spots")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	fs.failSetCommentCount = true
	if _, err := svc.CreateComment(ctx, 1, topic.ID, "first"); err != nil {
		t.Fatalf("expected comment create to succeed despite count persist failure, got %v", err)
	}

	got, _ := svc.GetTopic(ctx, topic.ID)
	if got.CommentCount != 0 {
		t.Fatalf("expected stale count 0, got %d", got.CommentCount)
	}

	// Next mutation self-heals the counter.
	fs.failSetCommentCount = false
	if _, err := svc.CreateComment(ctx, 1, topic.ID, "second"); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	got, _ = svc.GetTopic(ctx, topic.ID)
	if got.CommentCount != 2 {
		t.Fatalf("expected converged count 2, got %d", got.CommentCount)
	}
}

// ---- like/score engine ----

func TestLikeTopicOnceOnly(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	addUser(fs, 2, "pekka", "pekka@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	topic, err := svc.CreateTopic(ctx, 1, "Kebab recommendations")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	liked, err := svc.LikeTopic(ctx, 2, topic.ID)
	if err != nil {
		t.Fatalf("LikeTopic failed: %v", err)
	}
	if len(liked.Likes) != 1 || liked.Likes[0] != 2 {
		t.Fatalf("expected likes [2], got %v", liked.Likes)
	}

	owner, _ := svc.GetUser(ctx, 1)
	if owner.Score != 1 {
		t.Fatalf("expected owner score 1, got %d", owner.Score)
	}

	if _, err := svc.LikeTopic(ctx, 2, topic.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked on repeat like, got %v", err)
	}

	// The rejected repeat must not award a second point.
	owner, _ = svc.GetUser(ctx, 1)
	if owner.Score != 1 {
		t.Fatalf("expected owner score still 1, got %d", owner.Score)
	}
}

func TestSelfLikeAllowedAndCreditsSelf(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	topic, err := svc.CreateTopic(ctx, 1, "My own great topic")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	if _, err := svc.LikeTopic(ctx, 1, topic.ID); err != nil {
		t.Fatalf("self-like failed: %v", err)
	}
	owner, _ := svc.GetUser(ctx, 1)
	if owner.Score != 1 {
		t.Fatalf("expected score 1 after self-like, got %d", owner.Score)
	}
}

func TestLikeCommentCreditsCommenter(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	addUser(fs, 2, "pekka", "pekka@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	topic, _ := svc.CreateTopic(ctx, 1, "Sushi")
	comment, err := svc.CreateComment(ctx, 2, topic.ID, "Arita is great")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	if _, err := svc.LikeComment(ctx, 1, comment.ID); err != nil {
		t.Fatalf("LikeComment failed: %v", err)
	}
	commenter, _ := svc.GetUser(ctx, 2)
	if commenter.Score != 1 {
		t.Fatalf("expected commenter score 1, got %d", commenter.Score)
	}
	topicOwner, _ := svc.GetUser(ctx, 1)
	if topicOwner.Score != 0 {
		t.Fatalf("expected topic owner score 0, got %d", topicOwner.Score)
	}

	if _, err := svc.LikeComment(ctx, 1, comment.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
}

// ---- cascade delete ----

func TestDeleteTopicRemovesComments(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	topic, _ := svc.CreateTopic(ctx, 1, "To be deleted")
	comment, _ := svc.CreateComment(ctx, 1, topic.ID, "soon gone")

	if err := svc.DeleteTopic(ctx, 1, topic.ID); err != nil {
		t.Fatalf("DeleteTopic failed: %v", err)
	}
	if _, err := svc.GetTopic(ctx, topic.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected topic gone, got %v", err)
	}
	if _, err := fs.GetComment(ctx, comment.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected comment gone, got %v", err)
	}
}

func TestDeleteTopicReportsIncompleteCascade(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	topic, _ := svc.CreateTopic(ctx, 1, "Doomed")
	comment, _ := svc.CreateComment(ctx, 1, topic.ID, "orphan to be")

	fs.failDeleteComments = true
	err := svc.DeleteTopic(ctx, 1, topic.ID)
	if !errors.Is(err, ErrCascadeIncomplete) {
		t.Fatalf("expected ErrCascadeIncomplete, got %v", err)
	}

	// Topic is gone, the orphaned comment remains until a retry.
	if _, err := svc.GetTopic(ctx, topic.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected topic gone, got %v", err)
	}
	if _, err := fs.GetComment(ctx, comment.ID); err != nil {
		t.Fatalf("expected orphaned comment to remain, got %v", err)
	}
}

func TestDeleteTopicRequiresOwner(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	addUser(fs, 2, "pekka", "pekka@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	topic, _ := svc.CreateTopic(ctx, 1, "Mine")
	err := svc.DeleteTopic(ctx, 2, topic.ID)
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 403 {
		t.Fatalf("expected 403 domain error, got %v", err)
	}
}

// ---- reviews ----

func TestCreateReviewAssignsSequentialIDs(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	first, err := svc.CreateReview(ctx, 1, "rest-1", "Great food", 5)
	if err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}
	second, err := svc.CreateReview(ctx, 1, "rest-1", "Still great", 4)
	if err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}
	if first.ReviewID != 1 || second.ReviewID != 2 {
		t.Fatalf("expected review ids 1 and 2, got %d and %d", first.ReviewID, second.ReviewID)
	}
}

func TestCreateReviewRetriesOnIDCollision(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	fs.insertReviewErrs = []error{store.ErrDuplicateID}
	svc := newTestService(fs)

	review, err := svc.CreateReview(context.Background(), 1, "rest-1", "Race survivor", 3)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if review.ReviewID == 0 {
		t.Fatalf("expected assigned review id")
	}
}

func TestCreateReviewGivesUpAfterRepeatedCollisions(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	fs.insertReviewErrs = []error{store.ErrDuplicateID, store.ErrDuplicateID, store.ErrDuplicateID}
	svc := newTestService(fs)

	_, err := svc.CreateReview(context.Background(), 1, "rest-1", "Unlucky", 3)
	if !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID after exhausted retries, got %v", err)
	}
}

func TestEditReviewRequiresAuthor(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	addUser(fs, 2, "pekka", "pekka@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	review, _ := svc.CreateReview(ctx, 1, "rest-1", "Original", 4)
	_, err := svc.EditReview(ctx, 2, review.ReviewID, "Hijacked", 1)
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 403 {
		t.Fatalf("expected 403 domain error, got %v", err)
	}

	updated, err := svc.EditReview(ctx, 1, review.ReviewID, "Revised", 5)
	if err != nil {
		t.Fatalf("EditReview failed: %v", err)
	}
	if updated.Review != "Revised" || updated.Grade != 5 {
		t.Fatalf("unexpected review after edit: %+v", updated)
	}
}

// ---- end to end over the service ----

func TestTopicLifecycleScenario(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	addUser(fs, 2, "pekka", "pekka@example.com")
	svc := newTestService(fs)
	ctx := context.Background()

	topic, err := svc.CreateTopic(ctx, 1, "Weekend brunch")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	if _, err := svc.CreateComment(ctx, 2, topic.ID, "45 Special has a good one"); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if _, err := svc.LikeTopic(ctx, 2, topic.ID); err != nil {
		t.Fatalf("LikeTopic failed: %v", err)
	}

	got, _ := svc.GetTopic(ctx, topic.ID)
	if got.CommentCount != 1 {
		t.Fatalf("expected comment count 1, got %d", got.CommentCount)
	}
	if len(got.Likes) != 1 {
		t.Fatalf("expected one like, got %v", got.Likes)
	}
	owner, _ := svc.GetUser(ctx, 1)
	if owner.Score != 1 {
		t.Fatalf("expected owner score 1, got %d", owner.Score)
	}

	if err := svc.DeleteTopic(ctx, 1, topic.ID); err != nil {
		t.Fatalf("DeleteTopic failed: %v", err)
	}
	comments, err := fs.ListCommentsByTopic(ctx, topic.ID)
	if err != nil {
		t.Fatalf("ListCommentsByTopic failed: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected no comments after cascade, got %d", len(comments))
	}
	// Score earned from the deleted topic is kept.
	owner, _ = svc.GetUser(ctx, 1)
	if owner.Score != 1 {
		t.Fatalf("expected score retained after topic delete, got %d", owner.Score)
	}
}
