package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tastyoulu/api/internal/account"
	"tastyoulu/api/internal/auth"
	"tastyoulu/api/internal/search"
	"tastyoulu/api/internal/store"
)

const maxAvatarBytes = 5 << 20

type HTTPServer struct {
	service    *Service
	corsOrigin string
	log        *logrus.Logger
}

func NewHTTPServer(service *Service, corsOrigin string, log *logrus.Logger) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin, log: log}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}
		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}
		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	// Auth routes (no session required)
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/register" {
		s.handleRegister(w, r)
		return
	}
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/login" {
		s.handleLogin(w, r)
		return
	}
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/reset-password" {
		s.handleResetPassword(w, r)
		return
	}

	// Logout verifies the token but has nothing to revoke; the token
	// simply ages out and the client discards its copy.
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/logout" {
		if _, ok := s.requireSession(w, r); !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/change-password" {
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		s.handleChangePassword(w, r, session)
		return
	}

	if r.Method == http.MethodDelete && r.URL.Path == "/api/auth/account" {
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		s.handleDeleteAccount(w, r, session)
		return
	}

	parts := splitPath(r.URL.Path)

	// /api/users/me, /api/users/me/username, /api/users/me/avatar, /api/users/{id}
	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "users" {
		if parts[2] == "me" {
			session, ok := s.requireSession(w, r)
			if !ok {
				return
			}
			switch {
			case len(parts) == 3 && r.Method == http.MethodGet:
				user, err := s.service.GetUser(r.Context(), session.UserID)
				if err != nil {
					s.writeMappedError(w, r, err)
					return
				}
				writeJSON(w, http.StatusOK, userJSON(user))
				return
			case len(parts) == 4 && parts[3] == "username" && r.Method == http.MethodPut:
				var body struct {
					Username string `json:"username"`
				}
				if err := decodeBody(r, &body); err != nil {
					writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
					return
				}
				user, err := s.service.ChangeUsername(r.Context(), session.UserID, body.Username)
				if err != nil {
					s.writeMappedError(w, r, err)
					return
				}
				writeJSON(w, http.StatusOK, userJSON(user))
				return
			case len(parts) == 4 && parts[3] == "avatar" && r.Method == http.MethodPost:
				body := http.MaxBytesReader(w, r.Body, maxAvatarBytes)
				user, err := s.service.UploadAvatar(r.Context(), session.UserID, body, r.ContentLength, r.Header.Get("Content-Type"))
				if err != nil {
					s.writeMappedError(w, r, err)
					return
				}
				writeJSON(w, http.StatusOK, userJSON(user))
				return
			}
		}
		if len(parts) == 3 && r.Method == http.MethodGet {
			userID, err := strconv.ParseInt(parts[2], 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid user id", nil)
				return
			}
			user, err := s.service.GetUser(r.Context(), userID)
			if err != nil {
				s.writeMappedError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, publicUserJSON(user))
			return
		}
	}

	// /api/topics, /api/topics/{id}, /api/topics/{id}/likes, /api/topics/{id}/comments
	if len(parts) >= 2 && parts[0] == "api" && parts[1] == "topics" {
		s.handleTopics(w, r, parts)
		return
	}

	// /api/comments/{id}, /api/comments/{id}/likes
	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "comments" {
		s.handleComments(w, r, parts)
		return
	}

	// /api/reviews, /api/reviews/{id}
	if len(parts) >= 2 && parts[0] == "api" && parts[1] == "reviews" {
		s.handleReviews(w, r, parts)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/search" {
		s.handleSearch(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/assistant" {
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var body struct {
			Question string `json:"question"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if strings.TrimSpace(body.Question) == "" {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "question is required", nil)
			return
		}
		reply := s.service.Ask(r.Context(), session.UserID, body.Question)
		writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleTopics(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 2 && r.Method == http.MethodGet:
		var creatorUserID int64
		if raw := r.URL.Query().Get("creator"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid creator id", nil)
				return
			}
			creatorUserID = parsed
		}
		topics, err := s.service.ListTopics(r.Context(), creatorUserID)
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		payload := make([]map[string]any, 0, len(topics))
		for _, topic := range topics {
			payload = append(payload, topicJSON(topic))
		}
		writeJSON(w, http.StatusOK, map[string]any{"topics": payload})
		return

	case len(parts) == 2 && r.Method == http.MethodPost:
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var body struct {
			Title string `json:"title"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		topic, err := s.service.CreateTopic(r.Context(), session.UserID, body.Title)
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, topicJSON(topic))
		return

	case len(parts) == 3 && r.Method == http.MethodGet:
		topic, err := s.service.GetTopic(r.Context(), parts[2])
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, topicJSON(topic))
		return

	case len(parts) == 3 && r.Method == http.MethodPut:
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var body struct {
			Title string `json:"title"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		topic, err := s.service.EditTopic(r.Context(), session.UserID, parts[2], body.Title)
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, topicJSON(topic))
		return

	case len(parts) == 3 && r.Method == http.MethodDelete:
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		if err := s.service.DeleteTopic(r.Context(), session.UserID, parts[2]); err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return

	case len(parts) == 4 && parts[3] == "likes" && r.Method == http.MethodPost:
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		topic, err := s.service.LikeTopic(r.Context(), session.UserID, parts[2])
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, topicJSON(topic))
		return

	case len(parts) == 4 && parts[3] == "comments" && r.Method == http.MethodGet:
		comments, err := s.service.ListComments(r.Context(), parts[2])
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		payload := make([]map[string]any, 0, len(comments))
		for _, comment := range comments {
			payload = append(payload, commentJSON(comment))
		}
		writeJSON(w, http.StatusOK, map[string]any{"comments": payload})
		return

	case len(parts) == 4 && parts[3] == "comments" && r.Method == http.MethodPost:
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var body struct {
			Text string `json:"text"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		comment, err := s.service.CreateComment(r.Context(), session.UserID, parts[2], body.Text)
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, commentJSON(comment))
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleComments(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 3 && r.Method == http.MethodPut:
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var body struct {
			Text string `json:"text"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		comment, err := s.service.EditComment(r.Context(), session.UserID, parts[2], body.Text)
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, commentJSON(comment))
		return

	case len(parts) == 3 && r.Method == http.MethodDelete:
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		if err := s.service.DeleteComment(r.Context(), session.UserID, parts[2]); err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return

	case len(parts) == 4 && parts[3] == "likes" && r.Method == http.MethodPost:
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		comment, err := s.service.LikeComment(r.Context(), session.UserID, parts[2])
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, commentJSON(comment))
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleReviews(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 2 && r.Method == http.MethodGet:
		reviews, err := s.service.ListReviews(r.Context(), r.URL.Query().Get("restaurantId"))
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		payload := make([]map[string]any, 0, len(reviews))
		for _, review := range reviews {
			payload = append(payload, reviewJSON(review))
		}
		writeJSON(w, http.StatusOK, map[string]any{"reviews": payload})
		return

	case len(parts) == 2 && r.Method == http.MethodPost:
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var body struct {
			RestaurantID string `json:"restaurantId"`
			Review       string `json:"review"`
			Grade        int    `json:"grade"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		review, err := s.service.CreateReview(r.Context(), session.UserID, body.RestaurantID, body.Review, body.Grade)
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, reviewJSON(review))
		return

	case len(parts) == 3 && r.Method == http.MethodPut:
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		reviewID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid review id", nil)
			return
		}
		var body struct {
			Review string `json:"review"`
			Grade  int    `json:"grade"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		review, err := s.service.EditReview(r.Context(), session.UserID, reviewID, body.Review, body.Grade)
		if err != nil {
			s.writeMappedError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, reviewJSON(review))
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := search.Query{
		Text:               query.Get("q"),
		FilterType:         search.ResultType(query.Get("type")),
		FilterRestaurantID: query.Get("restaurantId"),
	}
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			q.Limit = parsed
		}
	}
	if raw := query.Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			q.Offset = parsed
		}
	}
	writeJSON(w, http.StatusOK, s.service.Search(q))
}

// ---- auth handlers ----

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	user, err := s.service.Accounts().Register(r.Context(), account.RegisterRequest{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	token, err := s.service.IssueToken(user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Token issue failed", nil)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  userJSON(user),
	})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	user, err := s.service.Accounts().Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	token, err := s.service.IssueToken(user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Token issue failed", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  userJSON(user),
	})
}

func (s *HTTPServer) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if err := s.service.Accounts().ResetPassword(r.Context(), body.Email); err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "A new password has been sent to your email"})
}

func (s *HTTPServer) handleChangePassword(w http.ResponseWriter, r *http.Request, session Session) {
	var body struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	user, err := s.service.GetUser(r.Context(), session.UserID)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	if err := s.service.Accounts().ChangePassword(r.Context(), user.Email, body.OldPassword, body.NewPassword); err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Password changed"})
}

func (s *HTTPServer) handleDeleteAccount(w http.ResponseWriter, r *http.Request, session Session) {
	user, err := s.service.GetUser(r.Context(), session.UserID)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	if err := s.service.Accounts().DeleteAccount(r.Context(), user.Email); err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ---- plumbing ----

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	session, err := s.service.SessionFromToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	return session, true
}

func (s *HTTPServer) writeMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message, details := mapError(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
	}
	writeError(w, status, code, message, details)
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      writer.status,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("request")
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	case errors.Is(err, ErrAlreadyLiked):
		return http.StatusBadRequest, "ALREADY_LIKED", "Already liked", nil
	case errors.Is(err, ErrCascadeIncomplete):
		return http.StatusInternalServerError, "CASCADE_INCOMPLETE", "Topic deleted but comment cleanup failed", nil
	case errors.Is(err, store.ErrDuplicateID):
		return http.StatusConflict, "DUPLICATE_ID", "ID assignment conflict, please retry", nil
	case errors.Is(err, account.ErrEmailTaken):
		return http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}

// ---- response shapes ----

func userJSON(user store.User) map[string]any {
	return map[string]any{
		"userId":   user.UserID,
		"username": user.Username,
		"email":    user.Email,
		"avatar":   user.Avatar,
		"score":    user.Score,
	}
}

func publicUserJSON(user store.User) map[string]any {
	return map[string]any{
		"userId":   user.UserID,
		"username": user.Username,
		"avatar":   user.Avatar,
		"score":    user.Score,
	}
}

func topicJSON(topic store.Topic) map[string]any {
	return map[string]any{
		"id":           topic.ID,
		"title":        topic.Title,
		"userId":       topic.CreatorUserID,
		"timestamp":    topic.Timestamp,
		"commentCount": topic.CommentCount,
		"likes":        topic.Likes,
	}
}

func commentJSON(comment store.Comment) map[string]any {
	return map[string]any{
		"id":        comment.ID,
		"topicId":   comment.TopicID,
		"text":      comment.Text,
		"userId":    comment.CommenterUserID,
		"timestamp": comment.Timestamp,
		"likes":     comment.Likes,
	}
}

func reviewJSON(review store.Review) map[string]any {
	return map[string]any{
		"reviewId":     review.ReviewID,
		"userId":       review.UserID,
		"restaurantId": review.RestaurantID,
		"review":       review.Review,
		"grade":        review.Grade,
		"likes":        review.Likes,
		"createdAt":    review.CreatedAt,
		"updatedAt":    review.UpdatedAt,
	}
}
