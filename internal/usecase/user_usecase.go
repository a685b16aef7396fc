package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"orbit-hr-backend/internal/model"
	"orbit-hr-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Claims is the JWT payload of both token types.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RegisterInput struct {
	Username   string `json:"username" validate:"required,min=3,max=100"`
	Password   string `json:"password" validate:"required"`
	Fullname   string `json:"fullname" validate:"required,max=255"`
	EmployeeID string `json:"employee_id" validate:"required,max=50"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,max=50"`
	Positions  string `json:"positions" validate:"omitempty,max=255"`
	Role       string `json:"role" validate:"omitempty,oneof=employee hr_admin team_lead"`
	TeamLeadID string `json:"team_lead_id" validate:"omitempty,uuid"`
}

type UserUsecase struct {
	repo       repository.UserRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

func NewUserUsecase(repo repository.UserRepository, secret string, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *UserUsecase {
	return &UserUsecase{
		repo:       repo,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		log:        log.With().Str("component", "UserUsecase").Logger(),
	}
}

// Register creates an account. The first account is bootstrapped as hr_admin;
// after that only an hr_admin may register users.
func (u *UserUsecase) Register(ctx context.Context, actorRole string, in RegisterInput) (*model.User, error) {
	// 1. Who may register
	count, err := u.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = model.RoleEmployee
	}
	if count == 0 {
		role = model.RoleHRAdmin
	} else if actorRole != model.RoleHRAdmin {
		return nil, ErrForbidden
	}

	// 2. Password rules and hashing
	if err := CheckPasswordStrength(in.Password); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. Save
	user := &model.User{
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: string(hashed),
		Fullname:     in.Fullname,
		EmployeeID:   in.EmployeeID,
		Email:        in.Email,
		Phone:        in.Phone,
		Positions:    in.Positions,
		Role:         role,
		IsActive:     true,
	}
	if _, err := u.repo.GetByUsername(ctx, user.Username); err == nil {
		return nil, invalid("username", "Username already registered")
	}
	if err := u.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("employee_id", "Username or employee id already registered")
		}
		return nil, err
	}

	// 4. Team link
	if in.TeamLeadID != "" {
		if err := u.repo.AddTeamMember(ctx, in.TeamLeadID, user.ID); err != nil {
			return nil, fmt.Errorf("link team lead: %w", err)
		}
	}

	u.log.Info().Str("user_id", user.ID).Str("role", role).Msg("user registered")
	return user, nil
}

func (u *UserUsecase) Login(ctx context.Context, username, password string) (*TokenPair, *model.User, error) {
	// 1. Find the user
	user, err := u.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if isRecordNotFound(err) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}

	// 2. Compare password against the stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		u.log.Debug().Str("username", username).Msg("password mismatch")
		return nil, nil, ErrUnauthorized
	}
	if !user.IsActive {
		return nil, nil, ErrForbidden
	}

	// 3. Issue tokens
	pair, err := u.issue(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (u *UserUsecase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := ParseToken(u.secret, refreshToken, TokenRefresh)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := u.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrForbidden
	}
	return u.issue(user)
}

func (u *UserUsecase) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.repo.GetByID(ctx, userID)
	if isRecordNotFound(err) {
		return nil, notFound("User not found")
	}
	return user, err
}

func (u *UserUsecase) issue(user *model.User) (*TokenPair, error) {
	access, err := u.sign(user, TokenAccess, u.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := u.sign(user, TokenRefresh, u.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(u.accessTTL.Seconds()),
	}, nil
}

func (u *UserUsecase) sign(user *model.User, kind string, ttl time.Duration) (string, error) {
	now := u.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		Type:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(u.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return s, nil
}

// ParseToken verifies an HS256 token and checks its type.
func ParseToken(secret []byte, raw, kind string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	if claims.Type != kind {
		return nil, fmt.Errorf("expected %s token, got %q", kind, claims.Type)
	}
	return claims, nil
}

// CheckPasswordStrength requires at least 8 characters with an upper case
// letter, a lower case letter and a digit.
func CheckPasswordStrength(password string) error {
	if len(password) < 8 {
		return invalid("password", "Password must be at least 8 characters long")
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
	if !upper {
		return invalid("password", "Password must contain at least one uppercase letter")
	}
	if !lower {
		return invalid("password", "Password must contain at least one lowercase letter")
	}
	if !digit {
		return invalid("password", "Password must contain at least one digit")
	}
	return nil
}
