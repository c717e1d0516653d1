package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/realtime"
	"github.com/lecturelab/lectura-backend/internal/repos"
	"github.com/lecturelab/lectura-backend/internal/requestdata"
	"github.com/lecturelab/lectura-backend/internal/types"
	"github.com/lecturelab/lectura-backend/internal/utils"
)

type AuthService interface {
	RegisterUser(ctx context.Context, email, password, displayName string) (*types.User, *EmailOutcome, error)
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	emailService  EmailService
	bus           realtime.Bus
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	emailService EmailService,
	bus realtime.Bus,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		emailService:  emailService,
		bus:           bus,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, email, password, displayName string) (*types.User, *EmailOutcome, error) {
	email = utils.NormalizeEmail(email)
	if vErr := utils.ValidateCredentials(email, password); vErr != nil {
		return nil, nil, vErr
	}
	exists, exErr := as.userRepo.EmailExists(ctx, nil, email)
	if exErr != nil {
		return nil, nil, fmt.Errorf("failed to check existing email: %w", exErr)
	}
	if exists {
		return nil, nil, fmt.Errorf("email already registered")
	}
	hashed, hErr := utils.HashPassword(password)
	if hErr != nil {
		return nil, nil, hErr
	}
	user := &types.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    hashed,
		DisplayName: displayName,
	}
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := as.userRepo.Create(ctx, tx, []*types.User{user}); cErr != nil {
			return fmt.Errorf("failed to create user: %w", cErr)
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	// Welcome email never blocks registration. The outcome is returned so
	// callers can tell a real send from a simulated one.
	outcome := as.emailService.SendWelcome(ctx, user.Email, user.DisplayName)
	as.log.Info("welcome email dispatched", "user_id", user.ID, "simulated", outcome.Simulated)
	return user, outcome, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = utils.NormalizeEmail(email)
	users, usErr := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if usErr != nil {
		return "", "", fmt.Errorf("failed to retrieve user by email: %w", usErr)
	}
	if len(users) == 0 {
		return "", "", fmt.Errorf("invalid email")
	}
	user := users[0]
	if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
		return "", "", fmt.Errorf("invalid password")
	}

	var accessToken string
	var refreshToken string
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A fresh login invalidates any prior session for the user.
		if dErr := as.userTokenRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{user.ID}); dErr != nil {
			return fmt.Errorf("failed to clear prior tokens: %w", dErr)
		}
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("failed to generate access token: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, ctErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); ctErr != nil {
			return fmt.Errorf("failed to create user token: %w", ctErr)
		}
		return nil
	}); err != nil {
		return "", "", err
	}

	if pErr := as.bus.Publish(ctx, realtime.SessionEvent{
		UserID: user.ID,
		Kind:   realtime.SessionSignedIn,
		At:     time.Now(),
	}); pErr != nil {
		as.log.Warn("failed to publish signed_in event", "user_id", user.ID, "error", pErr)
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", fmt.Errorf("refresh token required")
	}
	var accessToken string
	var newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foundTokens, ftErr := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{refreshToken})
		if ftErr != nil {
			return fmt.Errorf("failed to fetch refresh token: %w", ftErr)
		}
		if len(foundTokens) == 0 {
			return fmt.Errorf("unknown refresh token")
		}
		existing := foundTokens[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if dErr := as.userTokenRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{existing.UserID}); dErr != nil {
				as.log.Warn("failed to delete expired token", "error", dErr)
			}
			return fmt.Errorf("refresh token expired")
		}
		users, uErr := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if uErr != nil {
			return fmt.Errorf("failed to load user for refresh: %w", uErr)
		}
		if len(users) == 0 {
			return fmt.Errorf("no user found for refresh token")
		}
		user := users[0]
		if dErr := as.userTokenRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{user.ID}); dErr != nil {
			return fmt.Errorf("failed to rotate old token: %w", dErr)
		}
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("failed to generate access token: %w", genErr)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); cErr != nil {
			return fmt.Errorf("failed to create rotated token: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data found in context")
	}
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := as.userTokenRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{rd.UserID}); dErr != nil {
			return fmt.Errorf("failed to delete user tokens: %w", dErr)
		}
		return nil
	}); err != nil {
		return err
	}
	if pErr := as.bus.Publish(ctx, realtime.SessionEvent{
		UserID: rd.UserID,
		Kind:   realtime.SessionSignedOut,
		At:     time.Now(),
	}); pErr != nil {
		as.log.Warn("failed to publish signed_out event", "user_id", rd.UserID, "error", pErr)
	}
	return nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates the JWT and checks the token row still
// exists, so a logout revokes access immediately.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("token required")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if ftErr != nil {
		return ctx, fmt.Errorf("failed to fetch token record: %w", ftErr)
	}
	if len(foundTokens) == 0 {
		return ctx, fmt.Errorf("session revoked")
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID:      userID,
		TokenString: tokenString,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
