package service

import (
	"context"
	"crypto/ed25519"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pattarapk/storefront/internal/auth"
	"github.com/pattarapk/storefront/internal/config"
	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/repository/mocks"
	trxmocks "github.com/pattarapk/storefront/pkg/db/transactor/mocks"
)

const (
	jwtAlgoEd25519 = "EdDSA"
	jwtIssuerClaim = "test-issuer"
	jwtTimeToLive  = 3 * time.Minute
)

const (
	refreshTokenMaxCount   = 2
	refreshTokenTimeToLive = 168 * time.Hour
)

var testAuthCtx = context.Background()
var testNow = time.Now().UTC()
var testPassword = "secret_password"
var testPrivateKey = ed25519.PrivateKey("rCN5DqbjUVmcBnIsFPxWmtg0xOqeRk3IdTMDWutJZytQIEMOPe3kKrLAsmPDqYfi")

var jwtIssuer = auth.NewJwtIssuer(jwtIssuerClaim, jwt.GetSigningMethod(jwtAlgoEd25519), jwtTimeToLive, testPrivateKey)
var rfrTokenCfg = &config.RefreshTokenCfg{MaxCount: refreshTokenMaxCount, TimeToLive: refreshTokenTimeToLive}

var testUser = &model.User{
	ID:           "bdf2f837-75f6-462a-b9ec-5dfb2e8f8792",
	Email:        "test@email.com",
	PasswordHash: "$2y$10$iKrALz6vQTs8KcAOElIdHeO0ZKWZkyfFnxPsJYU.Dys/2Rz177p32",
	Role:         string(auth.RoleUser),
	Active:       true,
}

var testRfrToken = &model.RefreshToken{
	Token:     "1165dfc0-2dd0-4bea-ac69-4462f1cacacf",
	UserID:    testUser.ID,
	ExpiresAt: testNow.Add(refreshTokenTimeToLive),
	CreatedAt: testNow,
}

type authServiceTestSuite struct {
	suite.Suite
	authSvc         AuthService
	transactorMock  *trxmocks.Transactor
	userRpsMock     *mocks.UserRepository
	rfrTokenRpsMock *mocks.RefreshTokenRepository
	activityRpsMock *mocks.ActivityLogRepository
}

func (s *authServiceTestSuite) SetupSuite() {
	s.transactorMock = trxmocks.NewTransactor(s.T())
	s.transactorMock.On(
		"WithinTransaction",
		context.Background(),
		mock.AnythingOfType("func(context.Context) error"),
	).Return(func(ctx context.Context, txFunc func(ctx context.Context) error) error {
		return txFunc(ctx)
	})
}

func (s *authServiceTestSuite) SetupTest() {
	t := s.T()
	s.userRpsMock = mocks.NewUserRepository(t)
	s.rfrTokenRpsMock = mocks.NewRefreshTokenRepository(t)
	s.activityRpsMock = mocks.NewActivityLogRepository(t)
	s.authSvc = NewAuthService(jwtIssuer, rfrTokenCfg, s.transactorMock, s.userRpsMock, s.rfrTokenRpsMock, s.activityRpsMock)
}

func (s *authServiceTestSuite) TestSignupEmailReserved() {
	email := testUser.Email

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(testUser, nil).Once()

	s.T().Logf("signup user %s, but email already reserved", email)
	{
		_, err := s.authSvc.Signup(testAuthCtx, email, testPassword)
		s.Assert().Error(err, "user with email %s already exist but no error raised", email)
		s.Assert().IsType(&echo.HTTPError{}, err, "error must be echo error")
	}
}

func (s *authServiceTestSuite) TestSuccessfulSignup() {
	email := testUser.Email

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(nil, nil).Once()
	s.userRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.User")).Return(nil).Once()

	s.T().Logf("signup user %s and it must be signed up successfully", email)
	{
		_, err := s.authSvc.Signup(context.Background(), email, testPassword)
		s.Assert().NoError(err, "user with email %s must be signed up successfully", email)
	}
}

func (s *authServiceTestSuite) TestLoginBadEmail() {
	email := testUser.Email

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(nil, nil).Once()
	s.activityRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.ActivityLog")).Return(nil).Once()

	s.T().Logf("login user %s but email is not registered", email)
	{
		_, _, _, err := s.authSvc.Login(testAuthCtx, LoginInput{Email: email, Password: testPassword, At: testNow})
		s.Assert().Error(err, "user with email %s is not registered, but no error raised", email)
		s.Assert().ErrorIs(err, echo.ErrUnauthorized, "it must be unauthorized error")
	}
}

func (s *authServiceTestSuite) TestLoginBadPassword() {
	email := testUser.Email
	invalidPassword := "invalid_password"

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(testUser, nil).Once()
	s.activityRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.ActivityLog")).Return(nil).Once()

	s.T().Logf("login user %s but password is incorrect", email)
	{
		_, _, _, err := s.authSvc.Login(testAuthCtx, LoginInput{Email: email, Password: invalidPassword, At: testNow})
		s.Assert().Error(err, "wrong password is provided but no error raised")
		s.Assert().ErrorIs(err, echo.ErrUnauthorized, "it must be unauthorized error")
	}
}

func (s *authServiceTestSuite) TestLoginDeactivatedUser() {
	email := testUser.Email
	inactive := *testUser
	inactive.Active = false

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(&inactive, nil).Once()
	s.activityRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.ActivityLog")).Return(nil).Once()

	s.T().Logf("login user %s but account is deactivated", email)
	{
		_, _, _, err := s.authSvc.Login(testAuthCtx, LoginInput{Email: email, Password: testPassword, At: testNow})
		s.Assert().Error(err, "account is deactivated but no error raised")
		s.Assert().ErrorIs(err, echo.ErrUnauthorized, "it must be the same unauthorized error as for bad credentials")
	}
}

func (s *authServiceTestSuite) TestLoginSuccessAndOverflowTrimmed() {
	email := testUser.Email

	dbTokens := []*model.RefreshToken{
		{Token: "af1adce5-51a4-4d2e-a6ba-da0e7009a1bf", UserID: testUser.ID, ExpiresAt: testNow.Add(time.Hour), CreatedAt: testNow},
		{Token: "88a6a8ac-1104-41ae-b13c-c33deb5af5c2", UserID: testUser.ID, ExpiresAt: testNow.Add(time.Hour), CreatedAt: testNow.Add(-time.Minute)},
		{Token: "86d36dcb-512b-402d-bec4-ae8922677cd7", UserID: testUser.ID, ExpiresAt: testNow.Add(time.Hour), CreatedAt: testNow.Add(-2 * time.Minute)},
	}

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(testUser, nil).Once()
	s.rfrTokenRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.RefreshToken")).Return(nil).Once()
	s.rfrTokenRpsMock.On("FindByUserID", testAuthCtx, testUser.ID).Return(dbTokens, nil).Once()
	s.rfrTokenRpsMock.On("DeleteTokens", testAuthCtx, []string{"86d36dcb-512b-402d-bec4-ae8922677cd7"}).Return(nil).Once()
	s.activityRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.ActivityLog")).Return(nil).Once()

	s.T().Logf("login user %s successfully, oldest token beyond quota is removed", email)
	{
		jwToken, rfrToken, user, err := s.authSvc.Login(testAuthCtx, LoginInput{Email: email, Password: testPassword, At: testNow})
		s.Assert().NoError(err, "user login is correct but error was raised")
		s.Assert().Equal(testNow.Add(jwtTimeToLive).Unix(), jwToken.ExpiresAt, "incorrect time to live was set for jwt")
		s.Assert().True(rfrToken.ExpiresAt.Equal(testNow.Add(refreshTokenTimeToLive)), "expires at is set incorrectly")
		s.Assert().Equal(testUser.ID, user.ID, "wrong user returned")
		s.rfrTokenRpsMock.AssertCalled(s.T(), "DeleteTokens", testAuthCtx, []string{"86d36dcb-512b-402d-bec4-ae8922677cd7"})
	}
}

func (s *authServiceTestSuite) TestLoginTrimFailureNotFatal() {
	email := testUser.Email

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(testUser, nil).Once()
	s.rfrTokenRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.RefreshToken")).Return(nil).Once()
	s.rfrTokenRpsMock.On("FindByUserID", testAuthCtx, testUser.ID).Return(nil, errors.New("connection reset")).Once()
	s.activityRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.ActivityLog")).Return(nil).Once()

	s.T().Log("login succeeds even though session trimming fails")
	{
		_, _, _, err := s.authSvc.Login(testAuthCtx, LoginInput{Email: email, Password: testPassword, At: testNow})
		s.Assert().NoError(err, "trimming is housekeeping, its failure must not fail login")
	}
}

func (s *authServiceTestSuite) TestLoginRevokesPresentedToken() {
	email := testUser.Email
	staleToken := "461b07b5-3373-495d-b26b-d689a0c8a557"

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(testUser, nil).Once()
	s.rfrTokenRpsMock.On("Revoke", testAuthCtx, staleToken).Return(true, nil).Once()
	s.rfrTokenRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.RefreshToken")).Return(nil).Once()
	s.rfrTokenRpsMock.On("FindByUserID", testAuthCtx, testUser.ID).Return([]*model.RefreshToken{testRfrToken}, nil).Once()
	s.activityRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.ActivityLog")).Return(nil).Once()

	s.T().Log("login with a stale cookie token revokes it")
	{
		_, _, _, err := s.authSvc.Login(testAuthCtx, LoginInput{Email: email, Password: testPassword, PresentedToken: staleToken, At: testNow})
		s.Assert().NoError(err, "user login is correct but error was raised")
		s.rfrTokenRpsMock.AssertCalled(s.T(), "Revoke", testAuthCtx, staleToken)
	}
}

func (s *authServiceTestSuite) TestRefreshUnknownToken() {
	s.rfrTokenRpsMock.On("FindValid", testAuthCtx, testRfrToken.Token).Return(nil, nil).Once()

	s.T().Log("refresh with unknown or expired token")
	{
		_, _, err := s.authSvc.Refresh(testAuthCtx, testRfrToken.Token, testNow)
		s.Assert().Error(err, "unknown refresh token was provided but no error raised")
		s.Assert().ErrorIs(err, echo.ErrUnauthorized, "it must be unauthorized error")
	}
}

func (s *authServiceTestSuite) TestRefreshReuseDetected() {
	s.rfrTokenRpsMock.On("FindValid", testAuthCtx, testRfrToken.Token).Return(testRfrToken, nil).Once()
	s.rfrTokenRpsMock.On("Revoke", testAuthCtx, testRfrToken.Token).Return(false, nil).Once()

	s.T().Log("refresh with a token consumed by a concurrent request")
	{
		_, _, err := s.authSvc.Refresh(testAuthCtx, testRfrToken.Token, testNow)
		s.Assert().Error(err, "token was already consumed but no error raised")
		s.Assert().ErrorIs(err, echo.ErrForbidden, "replay of a consumed token must be forbidden, not unauthorized")
	}
}

func (s *authServiceTestSuite) TestRefreshDeactivatedUser() {
	inactive := *testUser
	inactive.Active = false

	s.rfrTokenRpsMock.On("FindValid", testAuthCtx, testRfrToken.Token).Return(testRfrToken, nil).Once()
	s.rfrTokenRpsMock.On("Revoke", testAuthCtx, testRfrToken.Token).Return(true, nil).Once()
	s.userRpsMock.On("FindByID", testAuthCtx, testRfrToken.UserID).Return(&inactive, nil).Once()

	s.T().Log("refresh for deactivated user")
	{
		_, _, err := s.authSvc.Refresh(testAuthCtx, testRfrToken.Token, testNow)
		s.Assert().Error(err, "user is deactivated but no error raised")
		s.Assert().ErrorIs(err, echo.ErrUnauthorized, "it must be unauthorized error")
	}
}

func (s *authServiceTestSuite) TestRefreshSuccessful() {
	s.rfrTokenRpsMock.On("FindValid", testAuthCtx, testRfrToken.Token).Return(testRfrToken, nil).Once()
	s.rfrTokenRpsMock.On("Revoke", testAuthCtx, testRfrToken.Token).Return(true, nil).Once()
	s.userRpsMock.On("FindByID", testAuthCtx, testRfrToken.UserID).Return(testUser, nil).Once()
	s.rfrTokenRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.RefreshToken")).Return(nil).Once()
	s.rfrTokenRpsMock.On("FindByUserID", testAuthCtx, testUser.ID).Return([]*model.RefreshToken{testRfrToken}, nil).Once()

	s.T().Log("successful refresh rotates the credential")
	{
		jwToken, rfrToken, err := s.authSvc.Refresh(testAuthCtx, testRfrToken.Token, testNow)
		s.Assert().NoError(err, "refresh request is correct but error was raised")
		s.Assert().Equal(testNow.Add(jwtTimeToLive).Unix(), jwToken.ExpiresAt, "incorrect time to live was set for jwt")
		s.Assert().NotEqual(testRfrToken.Token, rfrToken.Token, "rotation must mint a fresh token value")
		s.Assert().True(rfrToken.ExpiresAt.Equal(testNow.Add(refreshTokenTimeToLive)), "expires at is set incorrectly")
	}
}

func (s *authServiceTestSuite) TestLogout() {
	s.rfrTokenRpsMock.On("Revoke", testAuthCtx, testRfrToken.Token).Return(true, nil).Once()

	s.T().Log("logout revokes the presented token")
	{
		err := s.authSvc.Logout(testAuthCtx, testRfrToken.Token)
		s.Assert().NoError(err, "logout request is correct but error was raised")
	}
}

func (s *authServiceTestSuite) TestLogoutUnknownToken() {
	s.rfrTokenRpsMock.On("Revoke", testAuthCtx, testRfrToken.Token).Return(false, nil).Once()

	s.T().Log("logout with a token which is already gone")
	{
		err := s.authSvc.Logout(testAuthCtx, testRfrToken.Token)
		s.Assert().NoError(err, "logout must be idempotent")
	}
}

func (s *authServiceTestSuite) TestLogoutEmptyToken() {
	s.T().Log("logout without any token")
	{
		err := s.authSvc.Logout(testAuthCtx, "")
		s.Assert().NoError(err, "logout without token must succeed")
	}
}

func (s *authServiceTestSuite) TestLogoutAll() {
	s.rfrTokenRpsMock.On("RevokeAllByUserID", testAuthCtx, testUser.ID).Return(nil).Once()
	s.activityRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.ActivityLog")).Return(nil).Once()

	s.T().Log("logout everywhere revokes all tokens of the user")
	{
		err := s.authSvc.LogoutAll(testAuthCtx, testUser.ID, ClientMeta{})
		s.Assert().NoError(err, "logout all request is correct but error was raised")
	}
}

// start auth service test suite
func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(authServiceTestSuite))
}

// in-memory refresh token store with the same atomic consume semantics as
// the postgres implementation, used to exercise the rotation race
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*model.RefreshToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]*model.RefreshToken)}
}

func (m *memTokenStore) Create(_ context.Context, tkn *model.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tkn.Token] = tkn
	return nil
}

func (m *memTokenStore) FindValid(_ context.Context, token string) (*model.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tkn, ok := m.tokens[token]
	if !ok || !tkn.ExpiresAt.After(time.Now().UTC()) {
		return nil, nil
	}
	return tkn, nil
}

func (m *memTokenStore) Revoke(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; !ok {
		return false, nil
	}
	delete(m.tokens, token)
	return true, nil
}

func (m *memTokenStore) RevokeAllByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, tkn := range m.tokens {
		if tkn.UserID == userID {
			delete(m.tokens, token)
		}
	}
	return nil
}

func (m *memTokenStore) FindByUserID(_ context.Context, userID string) ([]*model.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tokens := make([]*model.RefreshToken, 0)
	for _, tkn := range m.tokens {
		if tkn.UserID == userID {
			tokens = append(tokens, tkn)
		}
	}
	return tokens, nil
}

func (m *memTokenStore) DeleteTokens(_ context.Context, tokens []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, token := range tokens {
		delete(m.tokens, token)
	}
	return nil
}

func (m *memTokenStore) SweepExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var swept int64
	for token, tkn := range m.tokens {
		if tkn.ExpiresAt.Before(time.Now().UTC()) {
			delete(m.tokens, token)
			swept++
		}
	}
	return swept, nil
}

type passthroughTransactor struct{}

func (passthroughTransactor) WithinTransaction(ctx context.Context, txFunc func(context.Context) error) error {
	return txFunc(ctx)
}

func TestRefreshRaceSingleWinner(t *testing.T) {
	store := newMemTokenStore()

	userRpsMock := &mocks.UserRepository{}
	userRpsMock.On("FindByID", mock.Anything, testUser.ID).Return(testUser, nil)
	activityRpsMock := &mocks.ActivityLogRepository{}
	activityRpsMock.On("Create", mock.Anything, mock.Anything).Return(nil)

	authSvc := NewAuthService(jwtIssuer, rfrTokenCfg, passthroughTransactor{}, userRpsMock, store, activityRpsMock)

	token := uuid.NewString()
	err := store.Create(context.Background(), &model.RefreshToken{
		Token:     token,
		UserID:    testUser.ID,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	})
	assert.NoError(t, err)

	const attempts = 2
	errCh := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := authSvc.Refresh(context.Background(), token, time.Now().UTC())
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var succeeded, rejected int
	for err := range errCh {
		if err == nil {
			succeeded++
			continue
		}
		rejected++
		if !errors.Is(err, echo.ErrForbidden) && !errors.Is(err, echo.ErrUnauthorized) {
			t.Errorf("losing request must be rejected with 401 or 403, got %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one request must win the rotation race")
	assert.Equal(t, attempts-1, rejected, "every other request must be rejected")
}
