package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

const (
	msgUnauthorized = "Unauthorized"
	msgNotFound     = "Not found"
	msgServerError  = "Server error"
	msgBadJSON      = "Invalid JSON"
)

type errorBody struct {
	Error string `json:"error"`
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type nodeView struct {
	ID       string           `json:"id"`
	UserID   string           `json:"userId"`
	Name     string           `json:"name"`
	Type     models.NodeKind  `json:"type"`
	IsPublic bool             `json:"isPublic"`
	ParentID models.ParentRef `json:"parentId"`
}

func toNodeView(n *models.FileNode) nodeView {
	return nodeView{
		ID:       n.ID,
		UserID:   n.OwnerID,
		Name:     n.Name,
		Type:     n.Kind,
		IsPublic: n.IsPublic,
		ParentID: n.Parent,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the service error taxonomy onto status codes.
func writeError(w http.ResponseWriter, err error) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: capitalize(ve.Reason)})
	case errors.Is(err, common.ErrorAlreadyExists):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: capitalize(common.ErrorAlreadyExists.Error())})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: msgUnauthorized})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: msgNotFound})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgServerError})
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
