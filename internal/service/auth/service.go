// Package auth implements signup and token issuance. Signup is
// all-or-nothing: a valid photo plus a valid profile, or nothing is
// persisted at all.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/app"
	authn "github.com/oggyb/matchmaker/internal/auth"
	"github.com/oggyb/matchmaker/internal/db"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/repository"
	"github.com/oggyb/matchmaker/internal/storage"
	"github.com/oggyb/matchmaker/internal/validate"
)

// SignupInput carries the profile fields plus the raw photo upload.
// Tags are optional free-form labels attached to the new profile.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Sex       string
	BirthDate string
	Tags      []string

	PhotoName string
	PhotoData []byte
}

// UserCreated is the response body for a successful signup.
type UserCreated struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Sex       db.Sex `json:"sex"`
	BirthDate string `json:"birth_date"`
	Photo     string `json:"photo"`
}

// Token is the login response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Service implements signup and login on top of the user repository
// and the photo store.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	photos *storage.PhotoStore
}

// NewService creates the auth service.
func NewService(appCtx *app.AppContext, photos *storage.PhotoStore) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		photos: photos,
	}
}

// Signup validates the profile and the photo, stores the watermarked
// photo, and creates the user with its (0,0) location in one
// transaction. A row failure after the photo was written removes the
// file again, so no artifact survives a failed signup.
func (s *Service) Signup(ctx context.Context, in SignupInput) (UserCreated, error) {
	now := time.Now().UTC()

	if err := validate.Email(in.Email); err != nil {
		return UserCreated{}, err
	}
	if err := validate.FirstName(in.FirstName); err != nil {
		return UserCreated{}, err
	}
	if err := validate.LastName(in.LastName); err != nil {
		return UserCreated{}, err
	}
	if err := validate.Password(in.Password); err != nil {
		return UserCreated{}, err
	}

	birthDate, err := time.Parse("2006-01-02", in.BirthDate)
	if err != nil {
		return UserCreated{}, svcErr.Validation("birth_date must be YYYY-MM-DD")
	}
	if err := validate.BirthDate(birthDate, now); err != nil {
		return UserCreated{}, err
	}

	var sex db.Sex
	switch db.Sex(in.Sex) {
	case db.SexMale, db.SexFemale:
		sex = db.Sex(in.Sex)
	default:
		return UserCreated{}, svcErr.Validation("sex must be male or female")
	}

	tags := make([]db.Tag, 0, len(in.Tags))
	for _, raw := range in.Tags {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if len(name) > 50 {
			return UserCreated{}, svcErr.Validation("Tag must be at most 50 characters")
		}
		tags = append(tags, db.Tag{Name: name, Slug: tagSlug(name)})
	}

	// The photo gate runs before any row is written.
	if err := s.photos.Check(in.PhotoData); err != nil {
		return UserCreated{}, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return UserCreated{}, svcErr.Duplicate("Email already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserCreated{}, svcErr.Map(err)
	}

	id := uuid.NewString()

	photoPath, err := s.photos.Save(in.PhotoData, in.PhotoName, id)
	if err != nil {
		return UserCreated{}, err
	}

	hash, err := authn.HashPassword(in.Password)
	if err != nil {
		_ = s.photos.Remove(photoPath)
		return UserCreated{}, svcErr.UpstreamIO("could not hash password")
	}

	user := db.User{
		ID:           id,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Sex:          sex,
		BirthDate:    birthDate,
		Photo:        photoPath,
		Active:       true,
		LastOnline:   now,
	}
	loc := db.Location{}

	if err := s.users.Create(ctx, &user, &loc); err != nil {
		if removeErr := s.photos.Remove(photoPath); removeErr != nil {
			s.appCtx.Logger.Warn("orphan photo cleanup failed", "path", photoPath, "err", removeErr)
		}
		// Duplicate key covers the email race that slipped past the
		// pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return UserCreated{}, svcErr.Duplicate("Email already taken")
		}
		return UserCreated{}, svcErr.Map(err)
	}

	// Tags decorate the profile; a failed attach is logged, not fatal,
	// so it cannot strand a half-created account.
	if len(tags) > 0 {
		if err := s.users.AttachTags(ctx, user.ID, tags); err != nil {
			s.appCtx.Logger.Warn("tag attach failed", "user", user.ID, "err", err)
		}
	}

	s.appCtx.Logger.Info("user registered", "user", user.ID)

	return UserCreated{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Sex:       user.Sex,
		BirthDate: user.BirthDate.Format("2006-01-02"),
		Photo:     user.Photo,
	}, nil
}

func tagSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}

// Login verifies credentials and issues a bearer token. Unknown email
// and wrong password answer identically.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || !authn.VerifyPassword(user.PasswordHash, password) {
		return Token{}, svcErr.Unauthorized("Invalid credentials")
	}

	token, err := authn.CreateAccessToken(user.ID, s.appCtx.Config.JWT.Secret, s.appCtx.Config.JWT.TTL)
	if err != nil {
		return Token{}, svcErr.UpstreamIO("could not issue token")
	}
	return Token{AccessToken: token, TokenType: "Bearer"}, nil
}
