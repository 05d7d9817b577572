package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"aiplus/internal/domain"
	"aiplus/internal/pkg/jwt"
	"aiplus/internal/pkg/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock user repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	args := m.Called(ctx, handle)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdateFields(ctx context.Context, id string, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

type mockHistoryRepo struct {
	mock.Mock
}

func (m *mockHistoryRepo) Append(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, to, subject, html, text string) error {
	args := m.Called(ctx, to, subject, html, text)
	return args.Error(0)
}

type mockSMSSender struct {
	mock.Mock
}

func (m *mockSMSSender) Send(ctx context.Context, to, body string) error {
	args := m.Called(ctx, to, body)
	return args.Error(0)
}

// fakeRefreshStore is an in-memory RefreshTokenRepositoryInterface so the
// rotation scenarios can run against real revocation semantics.
type fakeRefreshStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.RefreshToken
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{rows: map[int64]*domain.RefreshToken{}}
}

func (f *fakeRefreshStore) Create(_ context.Context, t *domain.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	cp := *t
	f.rows[t.ID] = &cp
	return nil
}

func (f *fakeRefreshStore) GetByHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.rows {
		if t.TokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRefreshStore) RevokeIfActive(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok || t.RevokedAt != nil {
		return 0, nil
	}
	now := time.Now()
	t.RevokedAt = &now
	return 1, nil
}

func (f *fakeRefreshStore) RevokeByHash(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, t := range f.rows {
		if t.TokenHash == hash && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeRefreshStore) RevokeAllForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, t := range f.rows {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func newTestService(users UserRepositoryInterface, refresh RefreshTokenRepositoryInterface, history PasswordHistoryInterface, email EmailSender, sms SMSSender, prod bool) *Service {
	tokens := jwt.New("test-secret-123", 15*time.Minute, 30*24*time.Hour)
	return NewService(users, refresh, history, tokens, email, sms,
		30*time.Minute, 15*time.Minute, 30*24*time.Hour, prod)
}

func TestService_Register_Success(t *testing.T) {
	users := new(mockUserRepo)
	history := new(mockHistoryRepo)
	email := new(mockSender)
	sms := new(mockSMSSender)

	users.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, nil)
	users.On("ExistsByHandle", mock.Anything, "testuser").Return(false, nil)
	users.On("ExistsByPhone", mock.Anything, "08012345678").Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	email.On("Send", mock.Anything, "test@example.com", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sms.On("Send", mock.Anything, "08012345678", mock.Anything).Return(nil)

	service := newTestService(users, newFakeRefreshStore(), history, email, sms, false)

	user, err := service.Register(context.Background(), RegisterRequest{
		Handle:      "testuser",
		Email:       "test@example.com",
		Password:    "Secret123",
		PhoneNumber: "08012345678",
		BirthDate:   "2000-01-01",
	}, "http://localhost:3000")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)
	assert.NotNil(t, user.EmailVerifyHash)
	assert.NotNil(t, user.SMSVerifyHash)
	assert.False(t, user.EmailVerified)

	users.AssertExpectations(t)
	email.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestService_Register_EmailExists(t *testing.T) {
	users := new(mockUserRepo)
	users.On("ExistsByEmail", mock.Anything, "exists@example.com").Return(true, nil)

	service := newTestService(users, newFakeRefreshStore(), new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	_, err := service.Register(context.Background(), RegisterRequest{
		Handle:      "testuser",
		Email:       "exists@example.com",
		Password:    "Secret123",
		PhoneNumber: "08012345678",
		BirthDate:   "2000-01-01",
	}, "http://localhost:3000")

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Register_RejectsWeakPassword(t *testing.T) {
	service := newTestService(new(mockUserRepo), newFakeRefreshStore(), new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	_, err := service.Register(context.Background(), RegisterRequest{
		Handle:      "testuser",
		Email:       "test@example.com",
		Password:    "short",
		PhoneNumber: "08012345678",
		BirthDate:   "2000-01-01",
	}, "http://localhost:3000")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func loginUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := secrets.HashPassword(password)
	require.NoError(t, err)
	return &domain.User{
		ID:           "user-10",
		Handle:       "abuser",
		Email:        "user@example.com",
		PhoneNumber:  "08012345678",
		PasswordHash: hash,
	}
}

func TestService_Login_Success(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeRefreshStore()
	user := loginUser(t, "Secret123")

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	users.On("UpdateFields", mock.Anything, "user-10", mock.Anything).Return(nil)

	service := newTestService(users, store, new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	result, err := service.Login(context.Background(), LoginRequest{
		Identifier: "user@example.com",
		Password:   "Secret123",
	}, "203.0.113.1", "test-agent")

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// The refresh hash was persisted so rotation/revocation can find it.
	record, err := store.GetByHash(context.Background(), secrets.Digest(result.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, "user-10", record.UserID)
}

func TestService_Login_ByHandle(t *testing.T) {
	users := new(mockUserRepo)
	user := loginUser(t, "Secret123")

	users.On("GetByHandle", mock.Anything, "abuser").Return(user, nil)
	users.On("UpdateFields", mock.Anything, "user-10", mock.Anything).Return(nil)

	service := newTestService(users, newFakeRefreshStore(), new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	_, err := service.Login(context.Background(), LoginRequest{
		Identifier: "abuser",
		Password:   "Secret123",
	}, "", "")

	assert.NoError(t, err)
}

func TestService_Login_WrongPasswordCountsAndLocks(t *testing.T) {
	users := new(mockUserRepo)
	user := loginUser(t, "Secret123")
	user.FailedLoginAttempts = 4

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	users.On("UpdateFields", mock.Anything, "user-10", mock.MatchedBy(func(updates map[string]any) bool {
		_, locked := updates["locked_until"]
		return locked && updates["failed_login_attempts"] == 0
	})).Return(nil)

	service := newTestService(users, newFakeRefreshStore(), new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	_, err := service.Login(context.Background(), LoginRequest{
		Identifier: "user@example.com",
		Password:   "Wrong1234",
	}, "", "")

	assert.ErrorIs(t, err, ErrInvalidPassword)
	users.AssertExpectations(t)
}

func TestService_Login_LockedAccount(t *testing.T) {
	users := new(mockUserRepo)
	user := loginUser(t, "Secret123")
	lockedUntil := time.Now().Add(10 * time.Minute)
	user.LockedUntil = &lockedUntil

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)

	service := newTestService(users, newFakeRefreshStore(), new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	_, err := service.Login(context.Background(), LoginRequest{
		Identifier: "user@example.com",
		Password:   "Secret123",
	}, "", "")

	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestService_Login_DeletedAndPendingDeletion(t *testing.T) {
	users := new(mockUserRepo)
	user := loginUser(t, "Secret123")
	past := time.Now().Add(-time.Hour)
	user.DeleteRequestedAt = &past
	user.DeletedAt = &past

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil).Once()

	service := newTestService(users, newFakeRefreshStore(), new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	_, err := service.Login(context.Background(), LoginRequest{Identifier: "user@example.com", Password: "Secret123"}, "", "")
	assert.ErrorIs(t, err, ErrAccountDeleted)

	future := time.Now().Add(20 * 24 * time.Hour)
	user.DeletedAt = &future
	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil).Once()

	_, err = service.Login(context.Background(), LoginRequest{Identifier: "user@example.com", Password: "Secret123"}, "", "")
	assert.ErrorIs(t, err, ErrAccountPendingDeletion)
}

func TestService_Login_StepUpSMSOnNewIP(t *testing.T) {
	users := new(mockUserRepo)
	sms := new(mockSMSSender)
	user := loginUser(t, "Secret123")
	user.EmailVerified = true
	user.PhoneVerified = true
	user.LastLoginIP = "198.51.100.7"

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	users.On("UpdateFields", mock.Anything, "user-10", mock.MatchedBy(func(updates map[string]any) bool {
		_, hasHash := updates["login_sms_hash"]
		return hasHash
	})).Return(nil)
	sms.On("Send", mock.Anything, "08012345678", mock.Anything).Return(nil)

	service := newTestService(users, newFakeRefreshStore(), new(mockHistoryRepo), new(mockSender), sms, true)

	_, err := service.Login(context.Background(), LoginRequest{
		Identifier: "user@example.com",
		Password:   "Secret123",
	}, "203.0.113.1", "")

	assert.ErrorIs(t, err, ErrSMSRequired)
	sms.AssertExpectations(t)
}

func TestService_VerifyLoginSMS(t *testing.T) {
	users := new(mockUserRepo)
	user := loginUser(t, "Secret123")
	code := "123456"
	codeHash := secrets.Digest(code)
	expires := time.Now().Add(10 * time.Minute)
	user.LoginSMSHash = &codeHash
	user.LoginSMSExpires = &expires

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	users.On("UpdateFields", mock.Anything, "user-10", mock.Anything).Return(nil)

	service := newTestService(users, newFakeRefreshStore(), new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	_, err := service.VerifyLoginSMS(context.Background(), VerifyLoginSMSRequest{
		Email: "user@example.com", Password: "Secret123", Code: "999999",
	}, "", "")
	assert.ErrorIs(t, err, ErrInvalidSecret)

	result, err := service.VerifyLoginSMS(context.Background(), VerifyLoginSMSRequest{
		Email: "user@example.com", Password: "Secret123", Code: code,
	}, "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestService_VerifyLoginSMS_Expired(t *testing.T) {
	users := new(mockUserRepo)
	user := loginUser(t, "Secret123")
	code := "123456"
	codeHash := secrets.Digest(code)
	expired := time.Now().Add(-time.Minute)
	user.LoginSMSHash = &codeHash
	user.LoginSMSExpires = &expired

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)

	service := newTestService(users, newFakeRefreshStore(), new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	_, err := service.VerifyLoginSMS(context.Background(), VerifyLoginSMSRequest{
		Email: "user@example.com", Password: "Secret123", Code: code,
	}, "", "")
	assert.ErrorIs(t, err, ErrSecretExpired)
}

func issueRecordedRefresh(t *testing.T, service *Service, store *fakeRefreshStore, userID string) string {
	t.Helper()
	raw, err := service.tokens.IssueRefreshToken(userID, "user@example.com", "abuser")
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), &domain.RefreshToken{
		UserID:    userID,
		TokenHash: secrets.Digest(raw),
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}))
	return raw
}

func TestService_Refresh_RotationChain(t *testing.T) {
	store := newFakeRefreshStore()
	service := newTestService(new(mockUserRepo), store, new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)
	ctx := context.Background()

	t1 := issueRecordedRefresh(t, service, store, "user-10")

	// rotate(T1) -> T2
	res, err := service.Refresh(ctx, t1, "", "")
	require.NoError(t, err)
	t2 := res.RefreshToken
	assert.NotEqual(t, t1, t2)

	// presenting T1 again fails: the record is revoked
	_, err = service.Refresh(ctx, t1, "", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// rotate(T2) -> T3 still works
	res, err = service.Refresh(ctx, t2, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, t2, res.RefreshToken)
}

func TestService_Refresh_UnknownToken(t *testing.T) {
	store := newFakeRefreshStore()
	service := newTestService(new(mockUserRepo), store, new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	// Validly signed but never recorded.
	raw, err := service.tokens.IssueRefreshToken("user-10", "user@example.com", "abuser")
	require.NoError(t, err)

	_, err = service.Refresh(context.Background(), raw, "", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestService_Refresh_TamperedToken(t *testing.T) {
	store := newFakeRefreshStore()
	service := newTestService(new(mockUserRepo), store, new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)

	_, err := service.Refresh(context.Background(), "garbage.token.value", "", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestService_Refresh_StoreExpiredRecord(t *testing.T) {
	store := newFakeRefreshStore()
	service := newTestService(new(mockUserRepo), store, new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)
	ctx := context.Background()

	raw, err := service.tokens.IssueRefreshToken("user-10", "user@example.com", "abuser")
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, &domain.RefreshToken{
		UserID:    "user-10",
		TokenHash: secrets.Digest(raw),
		ExpiresAt: time.Now().Add(-time.Minute), // store expiry independent of signature
	}))

	_, err = service.Refresh(ctx, raw, "", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestService_LogoutAll_RevokesEveryDevice(t *testing.T) {
	store := newFakeRefreshStore()
	service := newTestService(new(mockUserRepo), store, new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)
	ctx := context.Background()

	t1 := issueRecordedRefresh(t, service, store, "user-10")
	t2 := issueRecordedRefresh(t, service, store, "user-10")

	require.NoError(t, service.LogoutAll(ctx, "user-10"))

	_, err := service.Refresh(ctx, t1, "", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = service.Refresh(ctx, t2, "", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestService_Logout_SingleDevice(t *testing.T) {
	store := newFakeRefreshStore()
	service := newTestService(new(mockUserRepo), store, new(mockHistoryRepo), new(mockSender), new(mockSMSSender), false)
	ctx := context.Background()

	t1 := issueRecordedRefresh(t, service, store, "user-10")
	t2 := issueRecordedRefresh(t, service, store, "user-10")

	require.NoError(t, service.Logout(ctx, t1))

	_, err := service.Refresh(ctx, t1, "", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// the other device keeps its session
	_, err = service.Refresh(ctx, t2, "", "")
	assert.NoError(t, err)
}
