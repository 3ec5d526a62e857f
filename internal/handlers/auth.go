package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues JWTs for the single configured operator account.
type AuthHandler struct {
	User     string
	Pass     string
	PassHash string // bcrypt; takes precedence over Pass when set
	Secret   []byte
	Expire   time.Duration
}

// Login verifies the operator credentials and returns a signed token.
// Body: {"username": "...", "password": "..."}.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if subtle.ConstantTimeCompare([]byte(input.Username), []byte(h.User)) != 1 {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if h.PassHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(h.PassHash), []byte(input.Password)); err != nil {
			JSONError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
	} else if subtle.ConstantTimeCompare([]byte(input.Password), []byte(h.Pass)) != 1 {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	claims := jwt.MapClaims{
		"sub": h.User,
		"exp": time.Now().Add(h.Expire).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": signed})
}
