package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/repos"
	"github.com/tadrees-app/tadrees-backend/internal/requestdata"
	"github.com/tadrees-app/tadrees-backend/internal/types"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type RegisterTeacherInput struct {
	TeacherName string
	Subject     string
	Phone       string
	Name        string
	Email       string
	Password    string
}

type AddAssistantInput struct {
	Name     string
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type tokenClaims struct {
	TeacherID string `json:"teacher_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies assistant credentials. Authorize is the
// gate every protected operation passes through: it turns a bearer token
// into the acting principal or fails.
type AuthService interface {
	RegisterTeacher(ctx context.Context, input RegisterTeacherInput) (*types.Assistant, error)
	AddAssistant(ctx context.Context, p *requestdata.Principal, input AddAssistantInput) (*types.Assistant, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, p *requestdata.Principal) error
	Authorize(ctx context.Context, tokenString string) (*requestdata.Principal, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	teacherRepo   repos.TeacherRepo
	assistantRepo repos.AssistantRepo
	tokenStore    TokenStore
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	teacherRepo repos.TeacherRepo,
	assistantRepo repos.AssistantRepo,
	tokenStore TokenStore,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		teacherRepo:   teacherRepo,
		assistantRepo: assistantRepo,
		tokenStore:    tokenStore,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RegisterTeacher creates the teacher aggregate together with its first
// assistant credential, which gets the admin role.
func (as *authService) RegisterTeacher(ctx context.Context, input RegisterTeacherInput) (*types.Assistant, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, apierr.Validation("email and password are required")
	}
	if strings.TrimSpace(input.TeacherName) == "" {
		return nil, apierr.Validation("teacher name is required")
	}

	taken, err := as.assistantRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("check email: %w", err))
	}
	if taken {
		return nil, apierr.Validation("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("hash password: %w", err))
	}

	assistantName := strings.TrimSpace(input.Name)
	if assistantName == "" {
		assistantName = strings.TrimSpace(input.TeacherName)
	}

	var assistant *types.Assistant
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		teacher := &types.Teacher{
			ID:      uuid.New(),
			Name:    strings.TrimSpace(input.TeacherName),
			Phone:   strings.TrimSpace(input.Phone),
			Subject: strings.TrimSpace(input.Subject),
		}
		assistant = &types.Assistant{
			ID:           uuid.New(),
			TeacherID:    teacher.ID,
			Name:         assistantName,
			Email:        email,
			PasswordHash: string(hash),
			Role:         types.RoleAdmin,
		}
		teacher.Assistants = append(teacher.Assistants, types.RosterEntry{ID: assistant.ID, Name: assistant.Name})

		if err := as.teacherRepo.Create(ctx, tx, teacher); err != nil {
			return apierr.Persistence(fmt.Errorf("create teacher: %w", err))
		}
		if err := as.assistantRepo.Create(ctx, tx, assistant); err != nil {
			return apierr.Persistence(fmt.Errorf("create assistant: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("Registered teacher", "teacher_id", assistant.TeacherID)
	return assistant, nil
}

// AddAssistant creates a further assistant credential for the acting
// teacher. Admin role required.
func (as *authService) AddAssistant(ctx context.Context, p *requestdata.Principal, input AddAssistantInput) (*types.Assistant, error) {
	if p.Role != types.RoleAdmin {
		return nil, apierr.Forbidden("only the admin assistant can add assistants")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation("name, email and password are required")
	}

	taken, err := as.assistantRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("check email: %w", err))
	}
	if taken {
		return nil, apierr.Validation("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("hash password: %w", err))
	}

	var assistant *types.Assistant
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		teacher, err := as.teacherRepo.GetByIDForUpdate(ctx, tx, p.TeacherID)
		if err != nil {
			return notFoundOr(err, "teacher")
		}
		assistant = &types.Assistant{
			ID:           uuid.New(),
			TeacherID:    teacher.ID,
			Name:         strings.TrimSpace(input.Name),
			Email:        email,
			PasswordHash: string(hash),
			Role:         types.RoleAssistant,
		}
		if err := as.assistantRepo.Create(ctx, tx, assistant); err != nil {
			return apierr.Persistence(fmt.Errorf("create assistant: %w", err))
		}
		teacher.Assistants = append(teacher.Assistants, types.RosterEntry{ID: assistant.ID, Name: assistant.Name})
		if err := as.teacherRepo.Save(ctx, tx, teacher); err != nil {
			return apierr.Persistence(fmt.Errorf("save teacher: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assistant, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	assistant, err := as.assistantRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, apierr.Unauthorized("invalid email or password")
		}
		return TokenPair{}, apierr.Persistence(fmt.Errorf("load assistant: %w", err))
	}
	if bcrypt.CompareHashAndPassword([]byte(assistant.PasswordHash), []byte(password)) != nil {
		return TokenPair{}, apierr.Unauthorized("invalid email or password")
	}

	return as.issueTokens(ctx, assistant)
}

// Refresh rotates the token pair. The presented refresh token must verify
// and match the one on record for the assistant; rotation invalidates it.
func (as *authService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := as.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	assistantID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return TokenPair{}, apierr.Unauthorized("malformed token subject")
	}

	stored, err := as.tokenStore.GetRefresh(ctx, assistantID)
	if err != nil {
		return TokenPair{}, apierr.Persistence(fmt.Errorf("load refresh token: %w", err))
	}
	if stored == "" || stored != refreshToken {
		return TokenPair{}, apierr.Unauthorized("refresh token is no longer valid")
	}

	assistant, err := as.assistantRepo.GetByID(ctx, nil, assistantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, apierr.Unauthorized("unknown assistant")
		}
		return TokenPair{}, apierr.Persistence(fmt.Errorf("load assistant: %w", err))
	}

	return as.issueTokens(ctx, assistant)
}

func (as *authService) Logout(ctx context.Context, p *requestdata.Principal) error {
	if err := as.tokenStore.DeleteRefresh(ctx, p.AssistantID); err != nil {
		return apierr.Persistence(fmt.Errorf("delete refresh token: %w", err))
	}
	return nil
}

func (as *authService) Authorize(ctx context.Context, tokenString string) (*requestdata.Principal, error) {
	claims, err := as.parseToken(tokenString, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	assistantID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apierr.Unauthorized("malformed token subject")
	}
	teacherID, err := uuid.Parse(claims.TeacherID)
	if err != nil {
		return nil, apierr.Unauthorized("malformed token teacher id")
	}

	// The assistant may have been removed since the token was issued.
	assistant, err := as.assistantRepo.GetByID(ctx, nil, assistantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized("unknown assistant")
		}
		return nil, apierr.Persistence(fmt.Errorf("load assistant: %w", err))
	}
	if assistant.TeacherID != teacherID {
		return nil, apierr.Forbidden("token does not match the assistant's teacher")
	}

	return &requestdata.Principal{
		AssistantID: assistant.ID,
		TeacherID:   assistant.TeacherID,
		Role:        assistant.Role,
	}, nil
}

func (as *authService) issueTokens(ctx context.Context, assistant *types.Assistant) (TokenPair, error) {
	access, err := as.signToken(assistant, tokenTypeAccess, as.accessTTL)
	if err != nil {
		return TokenPair{}, apierr.Persistence(fmt.Errorf("sign access token: %w", err))
	}
	refresh, err := as.signToken(assistant, tokenTypeRefresh, as.refreshTTL)
	if err != nil {
		return TokenPair{}, apierr.Persistence(fmt.Errorf("sign refresh token: %w", err))
	}
	if err := as.tokenStore.SaveRefresh(ctx, assistant.ID, refresh, as.refreshTTL); err != nil {
		return TokenPair{}, apierr.Persistence(fmt.Errorf("store refresh token: %w", err))
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (as *authService) signToken(assistant *types.Assistant, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		TeacherID: assistant.TeacherID.String(),
		Role:      assistant.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   assistant.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) parseToken(tokenString, wantType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, apierr.Unauthorized("invalid or expired token")
	}
	if claims.TokenType != wantType {
		return nil, apierr.Unauthorized("wrong token type")
	}
	return claims, nil
}
