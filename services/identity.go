package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL   = 7 * 24 * time.Hour
	MinPasswordLength = 8
)

// Claims is the session token payload. The subject is the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Session is the result of a successful login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Identity verifies admin credentials and issues HS256 session tokens.
type Identity struct {
	users  *database.UserRepo
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIdentity(db database.Database, secret string, ttl time.Duration) (*Identity, error) {
	if secret == "" {
		return nil, errs.NewConfigMissingError("JWT_SECRET")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Identity{users: db.UserRepo(), secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// VerifyCredentials returns the user when email and password match. Unknown email and
// wrong password fail the same way.
func (i *Identity) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := i.users.FindByEmailWithPassword(ctx, email)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NewInvalidCredentialsError()
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errs.NewInvalidCredentialsError()
	}
	user.Password = ""
	return user, nil
}

// Login verifies credentials, records the login time and issues a token.
func (i *Identity) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := i.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	now := i.now()
	if err := i.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, err := i.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// IssueToken signs a token for user valid for the configured TTL.
func (i *Identity) IssueToken(user *models.User) (string, error) {
	now := i.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errs.NewInternalError("failed to sign token")
	}
	return token, nil
}

// ValidateToken returns the subject of a valid token, or an expired or invalid token error.
func (i *Identity) ValidateToken(token string) (uuid.UUID, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, errs.NewExpiredTokenError()
		}
		return uuid.Nil, errs.NewInvalidTokenError()
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.NewInvalidTokenError()
	}
	return id, nil
}

// CurrentUser resolves a token subject to the stored user.
func (i *Identity) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := i.users.FindByID(ctx, id)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NewUnauthorizedError("User not found")
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one and returns a new token.
func (i *Identity) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) (string, error) {
	user, err := i.users.FindByIDWithPassword(ctx, userID)
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return "", errs.NewUnauthorizedError("Current password is incorrect")
	}
	if current == next {
		return "", errs.NewValidationError(map[string]string{"newPassword": "must differ from the current password"})
	}
	if msg := PasswordStrengthProblem(next); msg != "" {
		return "", errs.NewValidationError(map[string]string{"newPassword": msg})
	}

	hash, err := HashPassword(next)
	if err != nil {
		return "", err
	}
	if err := i.users.UpdatePassword(ctx, userID, hash); err != nil {
		return "", err
	}
	user.Password = ""
	return i.IssueToken(user)
}

// SeedAdmin creates the admin account when no user has email. It reports whether one was created.
func (i *Identity) SeedAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		log.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return false, nil
	}

	exists, err := i.users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if exists {
		log.Info().Str("email", email).Msg("Admin user already exists")
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if name == "" {
		name = "Admin"
	}
	if err := i.users.Add(ctx, &models.User{Email: email, Password: hash, Name: name, Role: models.RoleAdmin}); err != nil {
		// another instance seeded the same email between the check and the insert
		if errs.IsConflict(err) {
			log.Info().Str("email", email).Msg("Admin user already exists")
			return false, nil
		}
		return false, err
	}
	log.Info().Str("email", email).Msg("Admin user created")
	return true, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.NewInternalError("failed to hash password")
	}
	return string(hash), nil
}

// PasswordStrengthProblem describes why password is too weak, or returns "" when it is acceptable.
func PasswordStrengthProblem(password string) string {
	if len(password) < MinPasswordLength {
		return fmt.Sprintf("must be at least %d characters", MinPasswordLength)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "must contain an uppercase letter, a lowercase letter and a number"
	}
	return ""
}
