package handler

import (
	"fmt"
	"net/http"
	"strings"

	accountdomain "safety-survey-go/internal/domain/account"
)

type signInRequest struct {
	Username string `json:"username"`
	ID       string `json:"id"`
	Guest    bool   `json:"guest"`
}

type signInResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// SignIn gets or creates an account and hands back a bearer token. A guest
// flag, or the absence of a client-supplied id, makes the server mint a
// fresh identity.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	acc, created, err := h.Accounts.SignIn(r.Context(), accountdomain.SignInInput{
		Username: req.Username,
		UserID:   req.ID,
		Guest:    req.Guest,
	})
	if err != nil {
		h.log.InternalError("signin: get or create account failed", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := h.tokens.Issue(acc.Username, acc.UserID)
	if err != nil {
		h.log.InternalError("signin: issue token failed", err, "username", acc.Username)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	message := fmt.Sprintf("User '%s' signed in successfully", acc.Username)
	status := http.StatusOK
	if created {
		message = fmt.Sprintf("User '%s' created and signed in successfully", acc.Username)
		status = http.StatusCreated
	}

	writeJSON(w, status, signInResponse{Message: message, AccessToken: token})
}

// ListAccounts is the account directory.
func (h *Handlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.ListAccounts(r.Context())
	if err != nil {
		h.log.InternalError("accounts.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]accountResponse, 0, len(accounts))
	for _, acc := range accounts {
		response = append(response, toAccountResponse(acc))
	}
	writeJSON(w, http.StatusOK, response)
}
