package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/anonto42/chirp/backend/pkg/firebase"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup, login and token checks.
type AuthService struct {
	users     repositories.UserRepository
	firebase  firebase.TokenVerifier
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewAuthService creates a new AuthService. verifier may be nil, which disables firebase login.
func NewAuthService(users repositories.UserRepository, verifier firebase.TokenVerifier, secret string, expiresIn time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		firebase:  verifier,
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResult, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: req.Username,
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: string(hashedPassword),
		Active:   true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.result(user)
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error) {
	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.New("Incorrect username or password", http.StatusUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.New("Incorrect username or password", http.StatusUnauthorized)
	}
	return s.result(user)
}

// FirebaseLogin exchanges a Firebase ID token for a local token, linking or
// creating the user on first sight.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*models.AuthResult, error) {
	if s.firebase == nil {
		return nil, apperror.New("Firebase login is not enabled", http.StatusNotFound)
	}
	token, err := s.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		log.Debug().Err(err).Msg("firebase token rejected")
		return nil, apperror.New("Invalid Firebase ID token", http.StatusUnauthorized)
	}
	email, name := firebase.Claims(token)

	user, err := s.users.GetUserByFirebaseUID(ctx, token.UID)
	if err == nil {
		return s.result(user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if email != "" {
		user, err = s.users.GetUserByEmail(ctx, email)
		if err == nil {
			if err := s.users.SetFirebaseUID(ctx, user.ID, token.UID); err != nil {
				return nil, err
			}
			return s.result(user)
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	// The account can only be reached through firebase, so the password is random.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	uid := token.UID
	user = &models.User{
		Username:    generatedUsername(email),
		Fullname:    lo.Ternary(name != "", name, "user"),
		Email:       lo.Ternary(email != "", email, token.UID+"@firebase.local"),
		Password:    string(hashedPassword),
		FirebaseUID: &uid,
		Active:      true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.result(user)
}

// generatedUsername keeps the alphanumeric start of the email and adds a random suffix.
func generatedUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")
	base := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, local)
	if len(base) > 12 {
		base = base[:12]
	}
	if base == "" {
		base = "user"
	}
	return base + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// IssueToken signs a token for the user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := &models.JwtCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a token and returns its claims. jwt errors are returned
// as is so the error handler can tell expired from invalid tokens.
func (s *AuthService) ParseToken(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("token is invalid", jwt.ValidationErrorMalformed)
	}
	return claims, nil
}

// Authenticate resolves a token to its still-valid user.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, jwt.NewValidationError("invalid subject", jwt.ValidationErrorClaimsInvalid)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.New("The user belonging to this token does not exist.", http.StatusUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	if user.ChangedPasswordAfter(issuedAt) {
		return nil, apperror.New("User recently changed password! Please log in again.", http.StatusUnauthorized)
	}
	return user, nil
}

func (s *AuthService) result(user *models.User) (*models.AuthResult, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{User: user, Token: token}, nil
}
