// Copyright 2025 Reelscope, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package services contains the business logic sitting between the HTTP
// layer and the pipeline. This file, `sessions.go`, defines the
// SessionService: bearer-token sessions for authenticated users. Sessions
// live in process memory only; a restart logs everyone out, which is the
// intended behavior for this tool.
package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

// ErrSessionNotFound indicates an unknown or expired session token.
var ErrSessionNotFound = errors.New("services: session not found")

// session pairs a user with the token's expiry.
type session struct {
	user      *model.User
	expiresAt time.Time
}

// SessionService issues and resolves opaque bearer tokens.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
}

// NewSessionService creates a SessionService whose tokens expire after ttl.
func NewSessionService(ttl time.Duration) *SessionService {
	return &SessionService{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

// Create issues a new token for an authenticated user.
func (s *SessionService) Create(user *model.User) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = &session{
		user:      user,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token
}

// Resolve returns the user behind a token, dropping expired sessions on
// the way.
func (s *SessionService) Resolve(token string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return nil, ErrSessionNotFound
	}
	return sess.user, nil
}

// Invalidate removes a session. Resolving the token afterward fails.
func (s *SessionService) Invalidate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
