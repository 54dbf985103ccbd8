package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"blog_publisher/internal/domain"
	"blog_publisher/internal/service"
)

type articleResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	PublishedDate time.Time `json:"published_date"`
	Author        int64     `json:"author"`
}

func toArticleResponse(a *domain.Article) articleResponse {
	return articleResponse{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		PublishedDate: a.PublishedAt,
		Author:        a.AuthorID,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}

// writeArticleError maps domain sentinels onto the API's status codes.
func (s *Server) writeArticleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "article not found")
	case errors.Is(err, domain.ErrForbidden):
		s.writeError(w, http.StatusForbidden, "you do not have permission to perform this action")
	default:
		s.logger.Error("article request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrUsernameTaken) {
		s.writeError(w, http.StatusConflict, "username already taken")
		return
	}
	if err != nil {
		s.logger.Error("registration failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"token":    token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		s.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		s.logger.Error("login failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type articleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request, _ *domain.User) {
	articles, err := s.articles.List(r.Context())
	if err != nil {
		s.writeArticleError(w, err)
		return
	}

	out := make([]articleResponse, 0, len(articles))
	for i := range articles {
		out = append(out, toArticleResponse(&articles[i]))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleCreateArticle creates an article authored by the requester. The
// author always comes from the token, never from the request body.
func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request, user *domain.User) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Content == "" {
		s.writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	article, err := s.articles.Create(r.Context(), user.ID, service.ArticleInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		s.writeArticleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toArticleResponse(article))
}

func articleID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request, _ *domain.User) {
	article, err := s.articles.Get(r.Context(), articleID(r))
	if err != nil {
		s.writeArticleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toArticleResponse(article))
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request, user *domain.User) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Content == "" {
		s.writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	article, err := s.articles.Update(r.Context(), user, articleID(r), service.ArticleInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		s.writeArticleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toArticleResponse(article))
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request, user *domain.User) {
	if err := s.articles.Delete(r.Context(), user, articleID(r)); err != nil {
		s.writeArticleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLatestArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.articles.Latest(r.Context())
	if errors.Is(err, domain.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "no articles yet")
		return
	}
	if err != nil {
		s.writeArticleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toArticleResponse(article))
}

type subscribeRequest struct {
	ChatID   int64  `json:"chat_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChatID == 0 {
		s.writeError(w, http.StatusBadRequest, "chat_id is required")
		return
	}

	// The shared-credential gate runs before any store access.
	if s.subscription.Enabled() {
		if req.Username != s.subscription.Username || req.Password != s.subscription.Password {
			s.writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
	}

	created, err := s.subscribers.Subscribe(r.Context(), req.ChatID)
	if err != nil {
		s.logger.Error("subscription failed", "chat_id", req.ChatID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if created {
		s.writeJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "already subscribed"})
}

type newsRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	items, err := s.news.List(r.Context())
	if err != nil {
		s.logger.Error("news listing failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	type newsResponse struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	out := make([]newsResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newsResponse{Title: item.Title, URL: item.URL})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateNews(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "title and url are required")
		return
	}

	item := &domain.NewsItem{Title: req.Title, URL: req.URL}
	err := s.news.Create(r.Context(), item)
	if errors.Is(err, domain.ErrDuplicateURL) {
		s.writeError(w, http.StatusBadRequest, "news item with this url already exists")
		return
	}
	if err != nil {
		s.logger.Error("news creation failed", "url", req.URL, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusCreated, newsRequest{Title: item.Title, URL: item.URL})
}
