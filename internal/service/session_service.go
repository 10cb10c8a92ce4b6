package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusworks/teacher-portal-api/internal/models"
)

// ErrSessionNotFound is returned for tokens that are invalid, expired, or
// whose session record has been destroyed.
var ErrSessionNotFound = errors.New("session not found")

// Session is one resolved teacher session.
type Session struct {
	ID      string
	Teacher models.Teacher
}

// SessionService owns the explicit session lifecycle: the only client-side
// state that outlives a request is the one teacher record created at login
// and destroyed at logout.
type SessionService interface {
	Create(ctx context.Context, teacher models.Teacher) (string, error)
	Resolve(ctx context.Context, token string) (Session, error)
	Destroy(ctx context.Context, token string) error
}

type sessionService struct {
	store  *redis.Client
	secret []byte
	ttl    time.Duration
	logger zerolog.Logger
}

// NewSessionService builds the redis-backed session store.
func NewSessionService(store *redis.Client, secret string, ttl time.Duration, logger zerolog.Logger) SessionService {
	return &sessionService{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger.With().Str("component", "session_service").Logger(),
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create stores the teacher record under a fresh session id and returns the
// signed token identifying it.
func (s *sessionService) Create(ctx context.Context, teacher models.Teacher) (string, error) {
	sessionID := uuid.NewString()

	payload, err := json.Marshal(teacher)
	if err != nil {
		return "", fmt.Errorf("encode session record: %w", err)
	}

	if err := s.store.Set(ctx, sessionKey(sessionID), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session record: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   teacher.Name,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	s.logger.Info().Str("session_id", sessionID).Str("teacher", teacher.Name).Msg("session created")
	return token, nil
}

// Resolve validates the token and loads the session record it names.
func (s *sessionService) Resolve(ctx context.Context, token string) (Session, error) {
	sessionID, err := s.sessionIDFromToken(token)
	if err != nil {
		return Session{}, ErrSessionNotFound
	}

	payload, err := s.store.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read session record")
		}
		return Session{}, ErrSessionNotFound
	}

	var teacher models.Teacher
	if err := json.Unmarshal([]byte(payload), &teacher); err != nil {
		return Session{}, ErrSessionNotFound
	}

	return Session{ID: sessionID, Teacher: teacher}, nil
}

// Destroy deletes the session record; the token is dead afterwards.
func (s *sessionService) Destroy(ctx context.Context, token string) error {
	sessionID, err := s.sessionIDFromToken(token)
	if err != nil {
		return ErrSessionNotFound
	}

	if err := s.store.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}

	s.logger.Info().Str("session_id", sessionID).Msg("session destroyed")
	return nil
}

func (s *sessionService) sessionIDFromToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrSessionNotFound
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return "", ErrSessionNotFound
	}

	return claims.ID, nil
}
