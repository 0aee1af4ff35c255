package verification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/backoffice/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- fakes ---

type fakeStore struct {
	mu    sync.Mutex
	users map[string]*entities.User
}

func newFakeStore(users ...*entities.User) *fakeStore {
	f := &fakeStore{users: make(map[string]*entities.User)}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeStore) FindUserByEmail(ctx context.Context, email string) (entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return entities.User{}, gorm.ErrRecordNotFound
	}
	return *u, nil
}

func (f *fakeStore) SetVerificationCode(ctx context.Context, email string, code string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c, e := code, expires
	u.VerificationCode = &c
	u.VerificationCodeExpiration = &e
	return nil
}

func (f *fakeStore) ConsumeVerificationCode(ctx context.Context, email string, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok || u.VerificationCode == nil || *u.VerificationCode != code {
		return false, nil
	}
	u.Verified = true
	u.VerificationCode = nil
	u.VerificationCodeExpiration = nil
	return true, nil
}

func (f *fakeStore) SetResetCode(ctx context.Context, email string, code string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c, e := code, expires
	u.ResetCode = &c
	u.ResetCodeExpiration = &e
	u.ResetCodeVerified = false
	return nil
}

func (f *fakeStore) MarkResetCodeVerified(ctx context.Context, email string, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok || u.ResetCode == nil || *u.ResetCode != code {
		return false, nil
	}
	u.ResetCodeVerified = true
	return true, nil
}

func (f *fakeStore) CompletePasswordReset(ctx context.Context, email string, passwordHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok || !u.ResetCodeVerified {
		return false, nil
	}
	u.Password = passwordHash
	u.ResetCode = nil
	u.ResetCodeExpiration = nil
	u.ResetCodeVerified = false
	return true, nil
}

func (f *fakeStore) get(t *testing.T, email string) entities.User {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		t.Fatalf("user %s not in fake store", email)
	}
	return *u
}

// setExpired backdates a pending code so it reads as expired while still
// matching on content.
func (f *fakeStore) setExpired(email string, past time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[email]
	if u.VerificationCodeExpiration != nil {
		u.VerificationCodeExpiration = &past
	}
	if u.ResetCodeExpiration != nil {
		u.ResetCodeExpiration = &past
	}
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	bodys []string
}

func (f *fakeSender) Send(to string, subject string, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, to)
	f.bodys = append(f.bodys, body)
	return nil
}

func fixedCode(code string) func() string {
	return func() string { return code }
}

func newTestService(store Store, sender *fakeSender, code string) Service {
	return NewService(store, sender, fixedCode(code))
}

// --- verification code lifecycle ---

func TestIssueVerificationCode_SetsCodeAndWindow(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com"})
	sender := &fakeSender{}
	s := newTestService(store, sender, "000427")

	before := time.Now()
	require.NoError(t, s.IssueVerificationCode(context.Background(), "a@b.com"))

	u := store.get(t, "a@b.com")
	require.NotNil(t, u.VerificationCode)
	assert.Equal(t, "000427", *u.VerificationCode)
	require.NotNil(t, u.VerificationCodeExpiration)
	assert.WithinDuration(t, before.Add(CodeTTL), *u.VerificationCodeExpiration, 2*time.Second)
	assert.False(t, u.Verified)
	assert.Equal(t, []string{"a@b.com"}, sender.sent)
	require.Len(t, sender.bodys, 1)
	assert.Contains(t, sender.bodys[0], "000427")
}

func TestIssueVerificationCode_OverwritesPendingCode(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com"})
	sender := &fakeSender{}

	require.NoError(t, newTestService(store, sender, "111111").IssueVerificationCode(context.Background(), "a@b.com"))
	first := store.get(t, "a@b.com")

	require.NoError(t, newTestService(store, sender, "222222").IssueVerificationCode(context.Background(), "a@b.com"))
	second := store.get(t, "a@b.com")

	assert.Equal(t, "222222", *second.VerificationCode)
	assert.NotEqual(t, *first.VerificationCode, *second.VerificationCode)

	// The old code no longer verifies.
	err := newTestService(store, sender, "222222").ConfirmVerification(context.Background(), "a@b.com", "111111")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestIssueVerificationCode_UnknownUser(t *testing.T) {
	s := newTestService(newFakeStore(), &fakeSender{}, "123456")
	err := s.IssueVerificationCode(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueVerificationCode_DeliveryFailureKeepsCode(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com"})
	sender := &fakeSender{fail: true}
	s := newTestService(store, sender, "123456")

	err := s.IssueVerificationCode(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, ErrDelivery)

	// Persist-then-notify: the code survived the failed send and still works.
	u := store.get(t, "a@b.com")
	require.NotNil(t, u.VerificationCode)
	require.NoError(t, s.ConfirmVerification(context.Background(), "a@b.com", "123456"))
}

func TestConfirmVerification_Success(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com"})
	s := newTestService(store, &fakeSender{}, "123456")
	require.NoError(t, s.IssueVerificationCode(context.Background(), "a@b.com"))

	require.NoError(t, s.ConfirmVerification(context.Background(), "a@b.com", "123456"))

	u := store.get(t, "a@b.com")
	assert.True(t, u.Verified)
	assert.Nil(t, u.VerificationCode)
	assert.Nil(t, u.VerificationCodeExpiration)
}

func TestConfirmVerification_ReplayFailsAfterConsume(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com"})
	s := newTestService(store, &fakeSender{}, "123456")
	require.NoError(t, s.IssueVerificationCode(context.Background(), "a@b.com"))

	require.NoError(t, s.ConfirmVerification(context.Background(), "a@b.com", "123456"))
	err := s.ConfirmVerification(context.Background(), "a@b.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestConfirmVerification_WrongCode(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com"})
	s := newTestService(store, &fakeSender{}, "123456")
	require.NoError(t, s.IssueVerificationCode(context.Background(), "a@b.com"))

	err := s.ConfirmVerification(context.Background(), "a@b.com", "654321")
	assert.ErrorIs(t, err, ErrInvalidCode)

	// State untouched: the pending code still works.
	require.NoError(t, s.ConfirmVerification(context.Background(), "a@b.com", "123456"))
}

func TestConfirmVerification_ExpiredEvenThoughCodeMatches(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com"})
	s := newTestService(store, &fakeSender{}, "123456")
	require.NoError(t, s.IssueVerificationCode(context.Background(), "a@b.com"))

	store.setExpired("a@b.com", time.Now().Add(-time.Second))

	err := s.ConfirmVerification(context.Background(), "a@b.com", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)

	u := store.get(t, "a@b.com")
	assert.False(t, u.Verified)
}

func TestConfirmVerification_ExpiryBoundaryIsExclusive(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com"})
	s := newTestService(store, &fakeSender{}, "123456")
	require.NoError(t, s.IssueVerificationCode(context.Background(), "a@b.com"))

	// A code expiring exactly now is already expired.
	store.setExpired("a@b.com", time.Now())

	err := s.ConfirmVerification(context.Background(), "a@b.com", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestConfirmVerification_UnknownUser(t *testing.T) {
	s := newTestService(newFakeStore(), &fakeSender{}, "123456")
	err := s.ConfirmVerification(context.Background(), "nobody@b.com", "123456")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmVerification_AlreadyVerifiedHasNoPendingCode(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com", Verified: true})
	s := newTestService(store, &fakeSender{}, "123456")

	err := s.ConfirmVerification(context.Background(), "a@b.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestResendVerificationCode(t *testing.T) {
	store := newFakeStore(
		&entities.User{Email: "pending@b.com"},
		&entities.User{Email: "done@b.com", Verified: true},
	)
	sender := &fakeSender{}
	s := newTestService(store, sender, "123456")

	require.NoError(t, s.ResendVerificationCode(context.Background(), "pending@b.com"))
	assert.Equal(t, []string{"pending@b.com"}, sender.sent)

	assert.ErrorIs(t, s.ResendVerificationCode(context.Background(), "done@b.com"), ErrAlreadyVerified)
	assert.ErrorIs(t, s.ResendVerificationCode(context.Background(), "nobody@b.com"), ErrNotFound)
}

// --- password reset lifecycle ---

func TestIssueResetCode(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com", Verified: true})
	sender := &fakeSender{}
	s := newTestService(store, sender, "314159")

	before := time.Now()
	require.NoError(t, s.IssueResetCode(context.Background(), "a@b.com"))

	u := store.get(t, "a@b.com")
	require.NotNil(t, u.ResetCode)
	assert.Equal(t, "314159", *u.ResetCode)
	require.NotNil(t, u.ResetCodeExpiration)
	assert.WithinDuration(t, before.Add(CodeTTL), *u.ResetCodeExpiration, 2*time.Second)
	assert.False(t, u.ResetCodeVerified)
	assert.Equal(t, []string{"a@b.com"}, sender.sent)

	assert.ErrorIs(t, s.IssueResetCode(context.Background(), "nobody@b.com"), ErrNotFound)
}

func TestIssueResetCode_ReissueResetsVerifiedFlag(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com", Verified: true})
	s := newTestService(store, &fakeSender{}, "111111")

	require.NoError(t, s.IssueResetCode(context.Background(), "a@b.com"))
	require.NoError(t, s.ConfirmResetCode(context.Background(), "a@b.com", "111111"))
	require.True(t, store.get(t, "a@b.com").ResetCodeVerified)

	// A fresh forgot-password request drops the earlier confirmation.
	require.NoError(t, s.IssueResetCode(context.Background(), "a@b.com"))
	assert.False(t, store.get(t, "a@b.com").ResetCodeVerified)
}

func TestConfirmResetCode_KeepsCodeUntilResetCompletes(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com", Verified: true})
	s := newTestService(store, &fakeSender{}, "123456")
	require.NoError(t, s.IssueResetCode(context.Background(), "a@b.com"))

	require.NoError(t, s.ConfirmResetCode(context.Background(), "a@b.com", "123456"))

	u := store.get(t, "a@b.com")
	assert.True(t, u.ResetCodeVerified)
	// Unlike email verification, the reset code stays until the password
	// change consumes it, so a repeat check still passes.
	require.NotNil(t, u.ResetCode)
	require.NoError(t, s.ConfirmResetCode(context.Background(), "a@b.com", "123456"))
}

func TestConfirmResetCode_Failures(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com", Verified: true})
	s := newTestService(store, &fakeSender{}, "123456")
	require.NoError(t, s.IssueResetCode(context.Background(), "a@b.com"))

	assert.ErrorIs(t, s.ConfirmResetCode(context.Background(), "nobody@b.com", "123456"), ErrNotFound)
	assert.ErrorIs(t, s.ConfirmResetCode(context.Background(), "a@b.com", "000000"), ErrInvalidCode)

	store.setExpired("a@b.com", time.Now().Add(-time.Second))
	assert.ErrorIs(t, s.ConfirmResetCode(context.Background(), "a@b.com", "123456"), ErrCodeExpired)
}

func TestCompletePasswordReset_RequiresVerifiedCode(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com", Verified: true})
	s := newTestService(store, &fakeSender{}, "123456")
	require.NoError(t, s.IssueResetCode(context.Background(), "a@b.com"))

	err := s.CompletePasswordReset(context.Background(), "a@b.com", "NewSecret@123")
	assert.ErrorIs(t, err, ErrResetNotVerified)

	assert.ErrorIs(t, s.CompletePasswordReset(context.Background(), "nobody@b.com", "NewSecret@123"), ErrNotFound)
}

func TestCompletePasswordReset_SucceedsOnceThenGatesAgain(t *testing.T) {
	store := newFakeStore(&entities.User{Email: "a@b.com", Verified: true})
	s := newTestService(store, &fakeSender{}, "123456")
	require.NoError(t, s.IssueResetCode(context.Background(), "a@b.com"))
	require.NoError(t, s.ConfirmResetCode(context.Background(), "a@b.com", "123456"))

	require.NoError(t, s.CompletePasswordReset(context.Background(), "a@b.com", "NewSecret@123"))

	u := store.get(t, "a@b.com")
	assert.Nil(t, u.ResetCode)
	assert.Nil(t, u.ResetCodeExpiration)
	assert.False(t, u.ResetCodeVerified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("NewSecret@123")))

	// The verified flag was consumed; a second reset needs the full flow.
	err := s.CompletePasswordReset(context.Background(), "a@b.com", "Another@Secret1")
	assert.ErrorIs(t, err, ErrResetNotVerified)
}
