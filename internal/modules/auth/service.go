package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"aiplus/internal/domain"
	"aiplus/internal/pkg/secrets"
	"aiplus/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

// Service contains the session lifecycle logic: registration, login with
// lockout and step-up SMS, refresh rotation and logout.
type Service struct {
	users         UserRepositoryInterface
	refreshTokens RefreshTokenRepositoryInterface
	history       PasswordHistoryInterface
	tokens        tokenService
	email         EmailSender
	sms           SMSSender
	verifyTTL     time.Duration
	loginSMSTTL   time.Duration
	refreshTTL    time.Duration
	prod          bool
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

func NewService(
	users UserRepositoryInterface,
	refreshTokens RefreshTokenRepositoryInterface,
	history PasswordHistoryInterface,
	tokens tokenService,
	email EmailSender,
	sms SMSSender,
	verifyTTL time.Duration,
	loginSMSTTL time.Duration,
	refreshTTL time.Duration,
	prod bool,
) *Service {
	return &Service{
		users:         users,
		refreshTokens: refreshTokens,
		history:       history,
		tokens:        tokens,
		email:         email,
		sms:           sms,
		verifyTTL:     verifyTTL,
		loginSMSTTL:   loginSMSTTL,
		refreshTTL:    refreshTTL,
		prod:          prod,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest, baseURL string) (*domain.User, error) {
	handle := strings.TrimSpace(req.Handle)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.PhoneNumber)

	if !validation.IsValidHandle(handle) {
		return nil, fmt.Errorf("%w: handle must be 3-20 characters", ErrInvalidInput)
	}
	if !validation.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}
	if !validation.IsValidPhone(phone) {
		return nil, fmt.Errorf("%w: phone number must be 10-15 digits", ErrInvalidInput)
	}
	if !validation.IsAtLeast13(req.BirthDate) {
		return nil, fmt.Errorf("%w: must be at least 13 years old", ErrInvalidInput)
	}
	if !validation.ValidPassword(req.Password) {
		return nil, fmt.Errorf("%w: password needs 8+ characters with upper, lower and digit", ErrInvalidInput)
	}

	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.users.ExistsByHandle(ctx, handle); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrHandleTaken
	}
	if taken, err := s.users.ExistsByPhone(ctx, phone); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrPhoneTaken
	}

	passwordHash, err := secrets.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	emailToken, err := secrets.Token(16)
	if err != nil {
		return nil, err
	}
	smsCode, err := secrets.NumericCode(6)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expires := now.Add(s.verifyTTL)
	emailHash := secrets.Digest(emailToken)
	smsHash := secrets.Digest(smsCode)

	user := &domain.User{
		ID:                 uuid.NewString(),
		Handle:             handle,
		Email:              email,
		PhoneNumber:        phone,
		BirthDate:          strings.TrimSpace(req.BirthDate),
		PasswordHash:       passwordHash,
		EmailVerifyHash:    &emailHash,
		EmailVerifyExpires: &expires,
		SMSVerifyHash:      &smsHash,
		SMSVerifyExpires:   &expires,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Concurrent registration can slip past the Exists checks; the
		// unique indexes are the real guard.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "idx_users_handle":
				return nil, ErrHandleTaken
			case "idx_users_phone_number":
				return nil, ErrPhoneTaken
			default:
				return nil, ErrEmailTaken
			}
		}
		return nil, err
	}
	if err := s.history.Append(ctx, user.ID, passwordHash); err != nil {
		return nil, err
	}

	verifyURL := fmt.Sprintf("%s/verify?token=%s&handle=%s",
		baseURL, url.QueryEscape(emailToken), url.QueryEscape(handle))

	// Dispatch failures at registration are logged, not fatal: the account
	// exists and the secrets simply expire unused.
	if err := s.email.Send(ctx, email,
		"[AIPLUS] Verify your email address",
		fmt.Sprintf("<p>Complete email verification within 30 minutes:</p><p><a href=%q>%s</a></p><p>Or enter this token: <b>%s</b></p>", verifyURL, verifyURL, emailToken),
		fmt.Sprintf("Verification link: %s\nToken: %s", verifyURL, emailToken),
	); err != nil {
		log.Printf("register: verification email to %s failed: %v", email, err)
	}
	if err := s.sms.Send(ctx, phone, fmt.Sprintf("[AIPLUS] Verification code: %s (valid 30 minutes)", smsCode)); err != nil {
		log.Printf("register: verification sms to %s failed: %v", phone, err)
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*LoginResult, error) {
	identifier := strings.TrimSpace(req.Identifier)

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(ctx, identifier)
	} else {
		user, err = s.users.GetByHandle(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now()
	if user.IsDeleted(now) {
		return nil, ErrAccountDeleted
	}
	if user.IsPendingDeletion(now) {
		return nil, ErrAccountPendingDeletion
	}
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	if !secrets.CheckPassword(req.Password, user.PasswordHash) {
		failed := user.FailedLoginAttempts + 1
		updates := map[string]any{"failed_login_attempts": failed}
		if failed >= maxFailedLoginAttempts {
			updates["failed_login_attempts"] = 0
			updates["locked_until"] = now.Add(lockoutDuration)
		}
		if updateErr := s.users.UpdateFields(ctx, user.ID, updates); updateErr != nil {
			return nil, updateErr
		}
		return nil, ErrInvalidPassword
	}

	if s.prod && (!user.EmailVerified || !user.PhoneVerified) {
		return nil, ErrNotVerified
	}

	// New IP in production triggers a step-up SMS before any token leaves
	// the building.
	if s.prod && user.LastLoginIP != "" && ip != "" && user.LastLoginIP != ip {
		code, err := secrets.NumericCode(6)
		if err != nil {
			return nil, err
		}
		codeHash := secrets.Digest(code)
		expires := now.Add(s.loginSMSTTL)
		if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
			"login_sms_hash":    codeHash,
			"login_sms_expires": expires,
		}); err != nil {
			return nil, err
		}
		if err := s.sms.Send(ctx, user.PhoneNumber, fmt.Sprintf("[AIPLUS] Additional login code: %s (valid 15 minutes)", code)); err != nil {
			log.Printf("login: step-up sms to %s failed: %v", user.PhoneNumber, err)
		}
		return nil, ErrSMSRequired
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}); err != nil {
			return nil, err
		}
	}

	result, err := s.issueSession(ctx, user, ip, userAgent)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
		"last_login_ip": ip,
		"last_login_at": now,
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) VerifyLoginSMS(ctx context.Context, req VerifyLoginSMSRequest, ip, userAgent string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !secrets.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidPassword
	}

	if user.LoginSMSHash == nil || user.LoginSMSExpires == nil {
		return nil, ErrSMSRequired
	}

	now := time.Now()
	if now.After(*user.LoginSMSExpires) {
		return nil, ErrSecretExpired
	}
	if secrets.Digest(req.Code) != *user.LoginSMSHash {
		return nil, ErrInvalidSecret
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
		"login_sms_hash":    nil,
		"login_sms_expires": nil,
		"last_login_ip":     ip,
		"last_login_at":     now,
	}); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user, ip, userAgent)
}

// Refresh implements rotation. The presented token must carry a valid
// signature and embedded expiry AND match an active stored record; the old
// record is revoked with a conditional update before the replacement is
// inserted, so a crash mid-rotation or a concurrent rotation both fail
// closed instead of leaving two live tokens.
func (s *Service) Refresh(ctx context.Context, refreshRaw, ip, userAgent string) (*RefreshResult, error) {
	claims, err := s.tokens.Verify(refreshRaw)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	record, err := s.refreshTokens.GetByHash(ctx, secrets.Digest(refreshRaw))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	now := time.Now()
	if !record.IsActive(now) {
		return nil, ErrUnauthenticated
	}

	accessToken, err := s.tokens.IssueAccessToken(claims.Subject, claims.Email, claims.Handle)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.tokens.IssueRefreshToken(claims.Subject, claims.Email, claims.Handle)
	if err != nil {
		return nil, err
	}

	rows, err := s.refreshTokens.RevokeIfActive(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// A concurrent rotation already consumed this token.
		return nil, ErrUnauthenticated
	}

	if err := s.refreshTokens.Create(ctx, &domain.RefreshToken{
		UserID:    record.UserID,
		TokenHash: secrets.Digest(newRefresh),
		ExpiresAt: now.Add(s.refreshTTL),
		IPAddress: ip,
		UserAgent: userAgent,
	}); err != nil {
		return nil, err
	}

	return &RefreshResult{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

// Logout revokes the single record matching the presented cookie. A token
// without a record is not an error; the cookies get cleared regardless.
func (s *Service) Logout(ctx context.Context, refreshRaw string) error {
	if refreshRaw == "" {
		return nil
	}
	return s.refreshTokens.RevokeByHash(ctx, secrets.Digest(refreshRaw))
}

// LogoutAll revokes every record owned by the subject. Authorization by
// access token happens at the handler.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	return s.refreshTokens.RevokeAllForUser(ctx, userID)
}

func (s *Service) issueSession(ctx context.Context, user *domain.User, ip, userAgent string) (*LoginResult, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email, user.Handle)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID, user.Email, user.Handle)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokens.Create(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: secrets.Digest(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshTTL),
		IPAddress: ip,
		UserAgent: userAgent,
	}); err != nil {
		return nil, err
	}

	return &LoginResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
