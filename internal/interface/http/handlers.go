package http

import (
	"net/http"

	"github.com/coursecompass/course-discovery-hub/internal/application/command"
	"github.com/coursecompass/course-discovery-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Course Discovery Hub API",
		"version":     "v1",
		"description": "Semantic course search with community reviews, discussions and learning journeys",
		"endpoints": map[string]string{
			"health":            "/health",
			"course_search":     "/api/v1/courses/search",
			"courses":           "/api/v1/courses",
			"discussion_search": "/api/v1/discussions/search",
			"journeys":          "/api/v1/journeys",
			"likes":             "/api/v1/likes",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": s.Uptime().String(),
	})
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// USER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRegisterUser handles POST /api/v1/users
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.RegisterUser.Handle(r.Context(), command.RegisterUserCommand{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleSearchCourses handles GET /api/v1/courses/search
func (s *Server) handleSearchCourses(w http.ResponseWriter, r *http.Request) {
	q := query.SearchCoursesQuery{
		Text:             r.URL.Query().Get("q"),
		Limit:            getQueryParamInt(r, "limit", 0),
		Threshold:        getQueryParamFloat(r, "threshold", 0),
		SimilarityWeight: getQueryParamFloat(r, "weight", 0),
	}

	result, err := s.deps.SearchCourses.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListCourses handles GET /api/v1/courses
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	q := query.ListCoursesQuery{
		Limit:  getQueryParamInt(r, "limit", 20),
		Offset: getQueryParamInt(r, "offset", 0),
	}

	result, err := s.deps.ListCourses.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleUpsertCourse handles POST /api/v1/courses
func (s *Server) handleUpsertCourse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Platform    string   `json:"platform"`
		URL         string   `json:"url"`
		Authors     []string `json:"authors"`
		Skills      []string `json:"skills"`
		Rating      float64  `json:"rating"`
		RatingCount int      `json:"rating_count"`
		ImageURL    string   `json:"image_url"`
		IsFree      bool     `json:"is_free"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.UpsertCourse.Handle(r.Context(), command.UpsertCourseCommand{
		Title:         req.Title,
		Description:   req.Description,
		Platform:      req.Platform,
		URL:           req.URL,
		Authors:       req.Authors,
		Skills:        req.Skills,
		RatingValue:   req.Rating,
		RatingCount:   req.RatingCount,
		ImageURL:      req.ImageURL,
		IsFree:        req.IsFree,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// handleGetCourse handles GET /api/v1/courses/{id}
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetCourse.Handle(r.Context(), query.GetCourseQuery{
		CourseID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetCourseReviews handles GET /api/v1/courses/{id}/reviews
func (s *Server) handleGetCourseReviews(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetCourseReviews.Handle(r.Context(), query.GetCourseReviewsQuery{
		CourseID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSubmitReview handles POST /api/v1/courses/{id}/reviews
func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"user_id"`
		Rating      int    `json:"rating"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.SubmitReview.Handle(r.Context(), command.SubmitReviewCommand{
		UserID:        req.UserID,
		CourseID:      r.PathValue("id"),
		Rating:        req.Rating,
		Description:   req.Description,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Updated {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// handleDeleteReview handles DELETE /api/v1/reviews/{id}
func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.DeleteReview.Handle(r.Context(), command.DeleteReviewCommand{
		ReviewID:      r.PathValue("id"),
		UserID:        req.UserID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// DISCUSSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleSearchDiscussions handles GET /api/v1/discussions/search
func (s *Server) handleSearchDiscussions(w http.ResponseWriter, r *http.Request) {
	q := query.SearchDiscussionsQuery{
		Text:      r.URL.Query().Get("q"),
		Limit:     getQueryParamInt(r, "limit", 0),
		Threshold: getQueryParamFloat(r, "threshold", 0),
	}

	result, err := s.deps.SearchDiscussions.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handlePostDiscussion handles POST /api/v1/discussions
func (s *Server) handlePostDiscussion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string   `json:"user_id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		CourseIDs   []string `json:"course_ids"`
		JourneyID   string   `json:"journey_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.PostDiscussion.Handle(r.Context(), command.PostDiscussionCommand{
		UserID:        req.UserID,
		Title:         req.Title,
		Description:   req.Description,
		CourseIDs:     req.CourseIDs,
		JourneyID:     req.JourneyID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleEditDiscussion handles PUT /api/v1/discussions/{id}
func (s *Server) handleEditDiscussion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"user_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.EditDiscussion.Handle(r.Context(), command.EditDiscussionCommand{
		DiscussionID:  r.PathValue("id"),
		UserID:        req.UserID,
		Title:         req.Title,
		Description:   req.Description,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDeleteDiscussion handles DELETE /api/v1/discussions/{id}
func (s *Server) handleDeleteDiscussion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.DeleteDiscussion.Handle(r.Context(), command.DeleteDiscussionCommand{
		DiscussionID:  r.PathValue("id"),
		UserID:        req.UserID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListDiscussions handles GET /api/v1/courses/{id}/discussions
func (s *Server) handleListDiscussions(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListDiscussions.Handle(r.Context(), query.ListDiscussionsQuery{
		CourseID: r.PathValue("id"),
		Limit:    getQueryParamInt(r, "limit", 20),
		Offset:   getQueryParamInt(r, "offset", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// REPLY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListReplies handles GET /api/v1/discussions/{id}/replies
func (s *Server) handleListReplies(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListReplies.Handle(r.Context(), query.ListRepliesQuery{
		DiscussionID: r.PathValue("id"),
		Limit:        getQueryParamInt(r, "limit", 50),
		Offset:       getQueryParamInt(r, "offset", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handlePostReply handles POST /api/v1/discussions/{id}/replies
func (s *Server) handlePostReply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID        string `json:"user_id"`
		ParentReplyID string `json:"parent_reply_id"`
		Text          string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.PostReply.Handle(r.Context(), command.PostReplyCommand{
		UserID:        req.UserID,
		DiscussionID:  r.PathValue("id"),
		ParentReplyID: req.ParentReplyID,
		Text:          req.Text,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleTombstoneReply handles DELETE /api/v1/replies/{id}
func (s *Server) handleTombstoneReply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.TombstoneReply.Handle(r.Context(), command.TombstoneReplyCommand{
		ReplyID:       r.PathValue("id"),
		UserID:        req.UserID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// LIKE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type likeRequest struct {
	UserID     string `json:"user_id"`
	ObjectID   string `json:"object_id"`
	ObjectType string `json:"object_type"`
}

// handleAddLike handles POST /api/v1/likes
func (s *Server) handleAddLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.AddLike.Handle(r.Context(), command.AddLikeCommand{
		UserID:        req.UserID,
		ObjectID:      req.ObjectID,
		ObjectType:    req.ObjectType,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	// A repeated like is idempotent, 200 instead of 201.
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// handleRemoveLike handles DELETE /api/v1/likes
func (s *Server) handleRemoveLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.RemoveLike.Handle(r.Context(), command.RemoveLikeCommand{
		UserID:        req.UserID,
		ObjectID:      req.ObjectID,
		ObjectType:    req.ObjectType,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCountLikes handles GET /api/v1/likes/count
func (s *Server) handleCountLikes(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.CountLikes.Handle(r.Context(), query.CountLikesQuery{
		ObjectID:   r.URL.Query().Get("object_id"),
		ObjectType: r.URL.Query().Get("object_type"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// JOURNEY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleCreateJourney handles POST /api/v1/journeys
func (s *Server) handleCreateJourney(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"user_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.CreateJourney.Handle(r.Context(), command.CreateJourneyCommand{
		UserID:        req.UserID,
		Title:         req.Title,
		Description:   req.Description,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleGetJourney handles GET /api/v1/journeys/{id}
func (s *Server) handleGetJourney(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetJourney.Handle(r.Context(), query.GetJourneyQuery{
		JourneyID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDeleteJourney handles DELETE /api/v1/journeys/{id}
func (s *Server) handleDeleteJourney(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.DeleteJourney.Handle(r.Context(), command.DeleteJourneyCommand{
		JourneyID: r.PathValue("id"),
		UserID:    req.UserID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleAppendJourneyCourse handles POST /api/v1/journeys/{id}/courses
func (s *Server) handleAppendJourneyCourse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		CourseID string `json:"course_id"`
		Position int    `json:"position"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.AppendJourneyCourse.Handle(r.Context(), command.AppendJourneyCourseCommand{
		JourneyID:     r.PathValue("id"),
		UserID:        req.UserID,
		CourseID:      req.CourseID,
		Position:      req.Position,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
