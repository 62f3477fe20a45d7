package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/metrics"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var usernameStrip = regexp.MustCompile(`[^\w.@+-]+`)

// FirebaseIdentity is the verified subject of a Firebase ID token.
type FirebaseIdentity struct {
	UID   string
	Email string
	Name  string
}

// UserService registers, authenticates and removes accounts.
type UserService struct {
	users  repositories.UserRepository
	cache  *cache.FeedCache
	logger *zap.Logger
}

func NewUserService(users repositories.UserRepository, feedCache *cache.FeedCache, logger *zap.Logger) *UserService {
	return &UserService{users: users, cache: feedCache, logger: logger.Named("users")}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("user %d", id), err)
	}
	return user, nil
}

func (s *UserService) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.users.GetUserByFirebaseUID(ctx, uid)
	if err != nil {
		return nil, lookupErr("firebase user", err)
	}
	return user, nil
}

// Register creates a local account from a validated signup request.
func (s *UserService) Register(ctx context.Context, req models.CreateLocalUserRequest) (*models.User, error) {
	if _, err := s.users.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, NewValidationError("username", "A user with that username already exists.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: req.Username, Password: string(hashed)}
	if req.Email != "" {
		email := req.Email
		user.Email = &email
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			if _, lookup := s.users.GetUserByUsername(ctx, req.Username); lookup == nil || user.Email == nil {
				return nil, NewValidationError("username", "A user with that username already exists.")
			}
			return nil, NewValidationError("email", "A user with that email already exists.")
		}
		return nil, err
	}
	metrics.Mutation("register", "ok")
	return user, nil
}

// Authenticate checks a username and password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FirebaseLogin finds the account linked to a Firebase identity, links an
// account with the same email, or creates a new one.
func (s *UserService) FirebaseLogin(ctx context.Context, id FirebaseIdentity) (*models.User, error) {
	user, err := s.users.GetUserByFirebaseUID(ctx, id.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	uid := id.UID
	if id.Email != "" {
		user, err = s.users.GetUserByEmail(ctx, id.Email)
		switch {
		case err == nil:
			user.FirebaseUID = &uid
			if err := s.users.UpdateUser(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to link firebase account: %w", err)
			}
			return user, nil
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, err
		}
	}

	username, err := s.freeUsername(ctx, suggestUsername(id))
	if err != nil {
		return nil, err
	}
	user = &models.User{Username: username, FirebaseUID: &uid}
	if id.Email != "" {
		email := id.Email
		user.Email = &email
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create firebase user: %w", err)
	}
	s.logger.Info("firebase user created", zap.String("username", username))
	return user, nil
}

// DeleteAccount removes the actor. Their posts remain without an author;
// their comments and follow edges are removed.
func (s *UserService) DeleteAccount(ctx context.Context, actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if err := s.users.DeleteUser(ctx, actor.ID); err != nil {
		metrics.Mutation("delete_user", outcome(err))
		return lookupErr(fmt.Sprintf("user %d", actor.ID), err)
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	metrics.Mutation("delete_user", "ok")
	s.logger.Info("user deleted", zap.Uint("user_id", actor.ID))
	return nil
}

func suggestUsername(id FirebaseIdentity) string {
	base := id.Name
	if base == "" && id.Email != "" {
		base = strings.SplitN(id.Email, "@", 2)[0]
	}
	base = usernameStrip.ReplaceAllString(strings.ReplaceAll(base, " ", "_"), "")
	if base == "" {
		base = "user"
	}
	if len(base) > 140 {
		base = base[:140]
	}
	return base
}

func (s *UserService) freeUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		_, err := s.users.GetUserByUsername(ctx, candidate)
		if errors.Is(err, repositories.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}
