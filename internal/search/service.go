package search

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Service is the facade that tries Meilisearch first and falls back to PG FTS.
type Service struct {
	meili *Meili
	pgfts *PgFTS
	log   *logrus.Logger
}

// NewService creates a search service. meili may be nil if Meilisearch is not configured.
func NewService(meili *Meili, pgfts *PgFTS, log *logrus.Logger) *Service {
	return &Service{meili: meili, pgfts: pgfts, log: log}
}

// Search tries Meilisearch if healthy, otherwise falls back to PG FTS.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		s.log.WithError(err).Warn("meilisearch error, falling back to pgfts")
	}

	results, total, err := s.pgfts.Search(q)
	if err != nil {
		s.log.WithError(err).Error("pgfts search failed")
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexTopic indexes a topic (fire-and-forget to Meilisearch).
func (s *Service) IndexTopic(t TopicRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexTopic(t); err != nil {
			s.log.WithError(err).WithField("topic_id", t.ID).Warn("index topic failed")
		}
	}()
}

// IndexReview indexes a review (fire-and-forget to Meilisearch).
func (s *Service) IndexReview(r ReviewRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexReview(r); err != nil {
			s.log.WithError(err).WithField("review_id", r.ID).Warn("index review failed")
		}
	}()
}

// DeleteTopic removes a topic from the search index (fire-and-forget).
func (s *Service) DeleteTopic(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteTopic(id); err != nil {
			s.log.WithError(err).WithField("topic_id", id).Warn("delete topic from index failed")
		}
	}()
}

// ReindexAllFromPG reads all topics and reviews from PostgreSQL and pushes
// them to Meilisearch. Called at boot when Meilisearch is healthy.
func (s *Service) ReindexAllFromPG(ctx context.Context) {
	if s.meili == nil || !s.meili.Healthy() || s.pgfts == nil {
		return
	}
	topics, reviews, err := s.pgfts.LoadAllRecords(ctx)
	if err != nil {
		s.log.WithError(err).Warn("reindex load failed")
		return
	}
	if err := s.meili.IndexTopics(topics); err != nil {
		s.log.WithError(err).Warn("reindex topics failed")
	}
	if err := s.meili.IndexReviews(reviews); err != nil {
		s.log.WithError(err).Warn("reindex reviews failed")
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
