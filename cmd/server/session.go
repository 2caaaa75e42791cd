package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"

	"github.com/Simplici0/roastcalc/internal/logger"
	"github.com/Simplici0/roastcalc/internal/session"
)

const (
	sessionCookieName = "roastcalc_session"
	sessionMaxAge     = 86400 * 30
)

type sessionKey struct{}

// sessionManager keeps the session ID in a signed (and optionally encrypted)
// cookie. Workspace data never leaves the server.
type sessionManager struct {
	store  *session.Store
	codecs []securecookie.Codec
	secure bool
}

func newSessionManager(store *session.Store, hashKey, blockKey string, secure bool) (*sessionManager, error) {
	hash := []byte(hashKey)
	if len(hash) == 0 {
		hash = securecookie.GenerateRandomKey(32)
		if hash == nil {
			return nil, fmt.Errorf("generate session hash key")
		}
	}

	var block []byte
	if blockKey != "" {
		block = []byte(blockKey)
		switch len(block) {
		case 16, 24, 32:
		default:
			return nil, fmt.Errorf("session block key must be 16, 24 or 32 bytes, got %d", len(block))
		}
	}

	codecs := securecookie.CodecsFromPairs(hash, block)
	for _, c := range codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(sessionMaxAge)
		}
	}

	return &sessionManager{store: store, codecs: codecs, secure: secure}, nil
}

func (m *sessionManager) createSessionValue(id string) (string, error) {
	return securecookie.EncodeMulti(sessionCookieName, id, m.codecs...)
}

func (m *sessionManager) verifySessionValue(value string) (string, bool) {
	var id string
	if err := securecookie.DecodeMulti(sessionCookieName, value, &id, m.codecs...); err != nil {
		return "", false
	}
	if id == "" {
		return "", false
	}
	return id, true
}

func (m *sessionManager) setSessionCookie(w http.ResponseWriter, id string) error {
	value, err := m.createSessionValue(id)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *sessionManager) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// middleware resolves the caller's session, creating and seeding a new one
// when the cookie is missing, invalid or names an expired session.
func (m *sessionManager) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var current string
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			current, _ = m.verifySessionValue(cookie.Value)
		}

		id, err := m.store.Ensure(r.Context(), current)
		if err != nil {
			logger.Log.Error().Err(err).Msg("failed to resolve session")
			writeError(w, http.StatusInternalServerError, "session unavailable")
			return
		}
		if id != current {
			if err := m.setSessionCookie(w, id); err != nil {
				logger.Log.Error().Err(err).Msg("failed to set session cookie")
				writeError(w, http.StatusInternalServerError, "session unavailable")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}
