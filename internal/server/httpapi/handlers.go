package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
)

func token(r *http.Request) string {
	return r.Header.Get(common.TokenHeaderName)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status.Status(r.Context()))
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.status.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) postUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgBadJSON})
		return
	}

	u, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userView{ID: u.ID, Email: u.Email})
}

func (s *Server) getConnect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	tok, err := s.users.Login(r.Context(), email, password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) getDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), token(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	userID := caller(r)
	u, err := s.users.Me(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userView{ID: u.ID, Email: u.Email})
}

type createFileRequest struct {
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	ParentID models.ParentRef `json:"parentId"`
	IsPublic bool             `json:"isPublic"`
	Data     string           `json:"data"`
}

func (s *Server) postFile(w http.ResponseWriter, r *http.Request) {
	userID := caller(r)

	var req createFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgBadJSON})
		return
	}

	// Undecodable content counts as missing.
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		data = nil
	}

	created, err := s.files.Create(r.Context(), userID, services.CreateRequest{
		Name:     req.Name,
		Type:     req.Type,
		Parent:   req.ParentID,
		IsPublic: req.IsPublic,
		Data:     data,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNodeView(created.Node))
}

func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	userID := caller(r)

	n, err := s.files.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNodeView(n))
}

func (s *Server) getFiles(w http.ResponseWriter, r *http.Request) {
	userID := caller(r)

	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 0
	}

	nodes, err := s.files.List(r.Context(), userID, q.Get("parentId"), page)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]nodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toNodeView(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) putPublish(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, true)
}

func (s *Server) putUnpublish(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, false)
}

func (s *Server) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	userID := caller(r)

	n, err := s.files.SetVisibility(r.Context(), r.PathValue("id"), userID, isPublic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNodeView(n))
}

func (s *Server) getFileData(w http.ResponseWriter, r *http.Request) {
	userID := caller(r)

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		var err error
		// An unparseable size is never a known width and reads as not found.
		if size, err = strconv.Atoi(raw); err != nil {
			size = -1
		}
	}

	c, err := s.files.ReadContent(r.Context(), r.PathValue("id"), userID, size)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", c.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(c.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.Data)
}
