// Package fakegithub is an in-memory stand-in for the parts of the GitHub REST
// API that ghprobe exercises. It reproduces the status codes and error bodies
// GitHub returns so scenarios can run without network access.
package fakegithub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Server is a stateful fake GitHub API.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	token  string
	user   User
	repos  map[string]*repository
	nextID int64
	now    func() time.Time

	// deleteStatus overrides the status of DELETE /repos/{owner}/{repo}.
	deleteStatus int
	// unauthorized is the message of every 401 body.
	unauthorized string
}

// User is the account the fake authenticates as.
type User struct {
	Login string
	ID    int64
	Name  string
}

type repository struct {
	ID          int64
	Name        string
	Description string
	Private     bool
	Created     time.Time
	issues      []map[string]interface{}
}

// New starts a fake that accepts token as the only valid credential and owns
// repositories on behalf of user. Close it when done.
func New(token string, user User) *Server {
	s := &Server{
		token:  token,
		user:   user,
		repos:  make(map[string]*repository),
		nextID: 1,
		now:    time.Now,

		unauthorized: "Bad credentials",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", s.auth(s.getUser))
	mux.HandleFunc("GET /user/repos", s.auth(s.listRepos))
	mux.HandleFunc("POST /user/repos", s.auth(s.createRepo))
	mux.HandleFunc("DELETE /repos/{owner}/{repo}", s.auth(s.deleteRepo))
	mux.HandleFunc("POST /repos/{owner}/{repo}/issues", s.auth(s.createIssue))
	mux.HandleFunc("PATCH /repos/{owner}/{repo}/issues/{number}", s.auth(s.editIssue))

	s.Server = httptest.NewServer(mux)
	return s
}

// SetDeleteStatus makes repository deletion answer with status without
// deleting anything. Zero restores normal behaviour.
func (s *Server) SetDeleteStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteStatus = status
}

// SetUnauthorizedMessage replaces the message GitHub puts in 401 bodies.
func (s *Server) SetUnauthorizedMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unauthorized = msg
}

// AddRepository creates a repository directly, bypassing the API.
func (s *Server) AddRepository(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addRepo(name, "", false)
}

// Repositories returns the names of all repositories, sorted.
func (s *Server) Repositories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.repos))
	for name := range s.repos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.token && auth != "token "+s.token {
			s.mu.Lock()
			msg := s.unauthorized
			s.mu.Unlock()
			writeJSON(w, http.StatusUnauthorized, message(msg))
			return
		}
		next(w, r)
	}
}

func (s *Server) getUser(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"login": s.user.Login,
		"id":    s.user.ID,
		"url":   s.URL + "/users/" + s.user.Login,
		"name":  s.user.Name,
	})
}

func (s *Server) listRepos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	perPage := intParam(q.Get("per_page"), 30)
	if perPage > 100 {
		perPage = 100
	}
	page := intParam(q.Get("page"), 1)

	s.mu.Lock()
	repos := make([]*repository, 0, len(s.repos))
	for _, repo := range s.repos {
		repos = append(repos, repo)
	}
	s.mu.Unlock()

	switch q.Get("sort") {
	case "created":
		sort.Slice(repos, func(i, j int) bool { return repos[i].ID < repos[j].ID })
	default:
		sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })
	}
	if q.Get("direction") == "desc" {
		for i, j := 0, len(repos)-1; i < j; i, j = i+1, j-1 {
			repos[i], repos[j] = repos[j], repos[i]
		}
	}

	start := (page - 1) * perPage
	if start > len(repos) {
		start = len(repos)
	}
	end := start + perPage
	if end > len(repos) {
		end = len(repos)
	}

	out := make([]map[string]interface{}, 0, end-start)
	for _, repo := range repos[start:end] {
		out = append(out, s.repoJSON(repo))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createRepo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Private     bool   `json:"private"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, message("Problems parsing JSON"))
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, validationFailed("Repository creation failed.", map[string]interface{}{
			"resource": "Repository",
			"code":     "missing_field",
			"field":    "name",
		}))
		return
	}

	s.mu.Lock()
	if _, exists := s.repos[req.Name]; exists {
		s.mu.Unlock()
		writeJSON(w, http.StatusUnprocessableEntity, validationFailed("Repository creation failed.", map[string]interface{}{
			"resource": "Repository",
			"code":     "custom",
			"field":    "name",
			"message":  "name already exists on this account",
		}))
		return
	}
	repo := s.addRepo(req.Name, req.Description, req.Private)
	body := s.repoJSON(repo)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) deleteRepo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleteStatus != 0 {
		writeJSON(w, s.deleteStatus, message(http.StatusText(s.deleteStatus)))
		return
	}

	repo, ok := s.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, notFound())
		return
	}

	delete(s.repos, repo.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createIssue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, message("Problems parsing JSON"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	repo, ok := s.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, notFound())
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, validationFailed("Validation Failed", map[string]interface{}{
			"resource": "Issue",
			"code":     "missing_field",
			"field":    "title",
		}))
		return
	}

	number := len(repo.issues) + 1
	issue := map[string]interface{}{
		"number":   number,
		"title":    req.Title,
		"body":     req.Body,
		"state":    "open",
		"html_url": fmt.Sprintf("https://github.com/%s/%s/issues/%d", s.user.Login, repo.Name, number),
	}
	repo.issues = append(repo.issues, issue)

	writeJSON(w, http.StatusCreated, issue)
}

func (s *Server) editIssue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, message("Problems parsing JSON"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	repo, ok := s.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, notFound())
		return
	}

	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 1 || number > len(repo.issues) {
		writeJSON(w, http.StatusNotFound, notFound())
		return
	}

	issue := repo.issues[number-1]
	if req.State == "open" || req.State == "closed" {
		issue["state"] = req.State
	}
	writeJSON(w, http.StatusOK, issue)
}

// lookup finds the repository addressed by the request path. Callers hold mu.
func (s *Server) lookup(r *http.Request) (*repository, bool) {
	if r.PathValue("owner") != s.user.Login {
		return nil, false
	}
	repo, ok := s.repos[r.PathValue("repo")]
	return repo, ok
}

// addRepo creates a repository. Callers hold mu.
func (s *Server) addRepo(name, description string, private bool) *repository {
	repo := &repository{
		ID:          s.nextID,
		Name:        name,
		Description: description,
		Private:     private,
		Created:     s.now(),
	}
	s.nextID++
	s.repos[name] = repo
	return repo
}

func (s *Server) repoJSON(repo *repository) map[string]interface{} {
	return map[string]interface{}{
		"id":          repo.ID,
		"name":        repo.Name,
		"full_name":   s.user.Login + "/" + repo.Name,
		"description": repo.Description,
		"private":     repo.Private,
		"html_url":    "https://github.com/" + s.user.Login + "/" + repo.Name,
		"created_at":  repo.Created.UTC().Format(time.RFC3339),
		"owner":       map[string]interface{}{"login": s.user.Login, "id": s.user.ID},
	}
}

func message(msg string) map[string]interface{} {
	return map[string]interface{}{
		"message":           msg,
		"documentation_url": "https://docs.github.com/rest",
	}
}

func notFound() map[string]interface{} {
	return message("Not Found")
}

func validationFailed(msg string, detail map[string]interface{}) map[string]interface{} {
	body := message(msg)
	body["errors"] = []map[string]interface{}{detail}
	return body
}

func intParam(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
