package services

import (
	"context"
	"time"

	"geoportal/config"
	"geoportal/internal/database"
	"geoportal/internal/logger"

	"github.com/google/uuid"
)

const SessionCookieName = "session_token"

type Session struct {
	Token     string    `json:"token"`
	UserID    int       `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionService manages session tokens in the Session cache database.
// Sessions carry only the user id; the user row is loaded per request.
type SessionService struct {
	db  database.DB
	ttl time.Duration
	log logger.Logger
}

func NewSessionService(db database.DB, config config.Config) *SessionService {
	ttl := time.Duration(config.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &SessionService{
		db:  db,
		ttl: ttl,
		log: logger.New("SessionService"),
	}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func (s *SessionService) Create(ctx context.Context, userID int) (Session, error) {
	log := s.log.Function("Create")

	session := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := database.NewCacheBuilder(s.db.Cache.Session, session.Token).
		WithStruct(session).
		WithTTL(s.ttl).
		WithContext(ctx).
		Set(); err != nil {
		return Session{}, log.Err("failed to store session", err, "userID", userID)
	}

	return session, nil
}

// Get returns the session for token; the second return reports existence.
func (s *SessionService) Get(ctx context.Context, token string) (Session, bool, error) {
	log := s.log.Function("Get")

	if token == "" {
		return Session{}, false, nil
	}

	var session Session
	found, err := database.NewCacheBuilder(s.db.Cache.Session, token).
		WithContext(ctx).
		Get(&session)
	if err != nil {
		return Session{}, false, log.Err("failed to look up session", err)
	}

	return session, found, nil
}

func (s *SessionService) Destroy(ctx context.Context, token string) error {
	log := s.log.Function("Destroy")

	if token == "" {
		return nil
	}

	if err := database.NewCacheBuilder(s.db.Cache.Session, token).
		WithContext(ctx).
		Delete(); err != nil {
		return log.Err("failed to destroy session", err)
	}

	return nil
}
