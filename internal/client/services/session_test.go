package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/client/records"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
	"github.com/dmitrijs2005/gymkeeper/internal/cryptox"
	"github.com/dmitrijs2005/gymkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riya() models.User {
	return models.User{ID: "mem_00000001", Name: "Riya Sen", Email: "riya@example.com", Phone: "9876543210", Password: "s3cret"}
}

func sampleMembership(start time.Time) (models.Membership, models.Transaction) {
	m := models.Membership{PlanID: "quarterly", Start: start, End: start.AddDate(0, 3, 0), BranchID: "2"}
	txn := models.Transaction{
		ID: "TXN00042", Date: start, Description: "Quarterly Membership",
		Amount: "₹6,999", Status: models.TransactionPaid, Method: "UPI",
	}
	return m, txn
}

func TestInitialize_NoSessionEndsLoading(t *testing.T) {
	st := newTestStore(t)
	m := NewSessionManager(st, newCodec(), logging.NewNopLogger())

	assert.True(t, m.IsLoading())
	require.NoError(t, m.Initialize(context.Background()))
	assert.False(t, m.IsLoading())
	assert.Nil(t, m.CurrentUser())
}

func TestInitialize_RestoresSessionWithDates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := riya().WithoutPassword()
	start := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	ms, txn := sampleMembership(start)
	u.Membership = &ms
	u.Transactions = []models.Transaction{txn}

	raw, err := newCodec().Encode(u)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, records.KeySession, raw))

	m := newManager(t, st, nil)
	got := m.CurrentUser()
	require.NotNil(t, got)
	assert.Equal(t, u, *got)
	assert.IsType(t, time.Time{}, got.Membership.End)
}

func TestInitialize_CorruptSessionIsDiscarded(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.Set(ctx, records.KeySession, []byte("{not-a-token")))

	log := newRecordingLogger()
	m := newManager(t, st, log)

	assert.Nil(t, m.CurrentUser())
	assert.False(t, m.IsLoading())
	raw, err := st.Get(ctx, records.KeySession)
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.Contains(t, log.messages("warn"), "discarding unreadable session record")
}

func TestInitialize_StoreErrorStillEndsLoading(t *testing.T) {
	st := &faultyStore{Store: newTestStore(t), failGet: true}
	m := NewSessionManager(st, newCodec(), logging.NewNopLogger())

	err := m.Initialize(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.False(t, m.IsLoading())
	assert.Nil(t, m.CurrentUser())
}

func TestInitialize_RunsOnce(t *testing.T) {
	st := newTestStore(t)
	m := newManager(t, st, nil)

	raw, err := newCodec().Encode(riya())
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), records.KeySession, raw))

	require.NoError(t, m.Initialize(context.Background()))
	assert.Nil(t, m.CurrentUser(), "second Initialize must not re-read the store")
}

func TestLogin_Success(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, riya())
	m := newManager(t, st, nil)

	require.NoError(t, m.Login(context.Background(), "riya@example.com", "s3cret"))

	u := m.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "mem_00000001", u.ID)
	assert.Empty(t, u.Password)

	persisted := readSession(t, st)
	require.NotNil(t, persisted)
	assert.Equal(t, *u, *persisted)
}

func TestLogin_Failures(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, riya())
	m := newManager(t, st, nil)
	ctx := context.Background()

	for _, tc := range []struct{ email, password string }{
		{"riya@example.com", "wrong"},
		{"RIYA@example.com", "s3cret"},
		{"riya@example.com ", "s3cret"},
		{"nobody@example.com", "s3cret"},
		{"riya@example.com", ""},
	} {
		err := m.Login(ctx, tc.email, tc.password)
		require.ErrorIs(t, err, common.ErrInvalidCredentials, "%q/%q", tc.email, tc.password)
	}
	assert.Nil(t, m.CurrentUser())
	assert.Nil(t, readSession(t, st))
}

func TestLogin_FailureKeepsExistingSession(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, riya())
	m := newManager(t, st, nil)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, "riya@example.com", "s3cret"))
	require.ErrorIs(t, m.Login(ctx, "riya@example.com", "nope"), common.ErrInvalidCredentials)

	require.NotNil(t, m.CurrentUser())
	assert.Equal(t, "mem_00000001", m.CurrentUser().ID)
}

func TestLogin_DuplicateEmailsFirstMatchWins(t *testing.T) {
	st := newTestStore(t)
	first := riya()
	second := riya()
	second.ID = "mem_00000002"
	third := riya()
	third.ID = "mem_00000003"
	third.Password = "other"
	seedUsers(t, st, first, second, third)
	m := newManager(t, st, nil)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, first.Email, "s3cret"))
	assert.Equal(t, "mem_00000001", m.CurrentUser().ID)

	require.NoError(t, m.Login(ctx, first.Email, "other"))
	assert.Equal(t, "mem_00000003", m.CurrentUser().ID)
}

func TestLogin_AcceptsHashedPasswords(t *testing.T) {
	st := newTestStore(t)
	u := riya()
	u.Password = cryptox.HashPassword("s3cret")
	u.PasswordScheme = string(cryptox.SchemeArgon2id)
	seedUsers(t, st, u)
	m := newManager(t, st, nil)

	require.NoError(t, m.Login(context.Background(), u.Email, "s3cret"))
	assert.Empty(t, m.CurrentUser().PasswordScheme)
	require.ErrorIs(t, m.Login(context.Background(), u.Email, u.Password), common.ErrInvalidCredentials)
}

func TestLogin_VerbatimPasswordShapedLikeHash(t *testing.T) {
	st := newTestStore(t)
	m := newManager(t, st, nil)
	ctx := context.Background()

	_, err := m.Signup(ctx, SignupRequest{Name: "A", Email: "a@x.io", Password: "argon2id$hunter2"})
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	require.NoError(t, m.Login(ctx, "a@x.io", "argon2id$hunter2"))
	require.NotNil(t, m.CurrentUser())
}

func TestLogin_LegacyEntryWithoutScheme(t *testing.T) {
	st := newTestStore(t)
	u := riya()
	u.Password = "argon2id$AAAA$BBBB"
	seedUsers(t, st, u)
	m := newManager(t, st, nil)

	require.NoError(t, m.Login(context.Background(), u.Email, "argon2id$AAAA$BBBB"))
}

func TestLogin_CorruptTable(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Set(context.Background(), records.KeyUsers, []byte(`{"schema":9,"kind":"users","data":[]}`)))
	m := newManager(t, st, nil)

	err := m.Login(context.Background(), "riya@example.com", "s3cret")
	require.ErrorIs(t, err, common.ErrUnsupportedSchema)
}

func TestSignup_CreatesMemberAndSession(t *testing.T) {
	st := newTestStore(t)
	m := newManager(t, st, nil)

	u, err := m.Signup(context.Background(), SignupRequest{
		Name: "Arjun", Email: "arjun@example.com", Phone: "9000000000", Password: "pw",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^mem_[0-9a-f]{8}$`, u.ID)
	assert.Empty(t, u.Password)

	users := readUsers(t, st)
	require.Len(t, users, 1)
	assert.Equal(t, u.ID, users[0].ID)
	assert.Equal(t, "pw", users[0].Password)
	assert.Equal(t, string(cryptox.SchemePlain), users[0].PasswordScheme)

	session := readSession(t, st)
	require.NotNil(t, session)
	assert.Empty(t, session.Password)
	assert.Equal(t, *u, *m.CurrentUser())
}

func TestSignup_DuplicateEmailsCoexist(t *testing.T) {
	st := newTestStore(t)
	m := newManager(t, st, nil)
	ctx := context.Background()
	req := SignupRequest{Name: "Twin", Email: "twin@example.com", Password: "pw"}

	a, err := m.Signup(ctx, req)
	require.NoError(t, err)
	b, err := m.Signup(ctx, req)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	users := readUsers(t, st)
	require.Len(t, users, 2)
	assert.Equal(t, users[0].Email, users[1].Email)
}

func TestSignup_Validation(t *testing.T) {
	m := newManager(t, newTestStore(t), nil)

	_, err := m.Signup(context.Background(), SignupRequest{Email: "  ", Password: "pw"})
	require.ErrorIs(t, err, common.ErrorValidation)
	_, err = m.Signup(context.Background(), SignupRequest{Email: "a@b.c"})
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Nil(t, m.CurrentUser())
}

func TestSignup_HashedPasswordsOption(t *testing.T) {
	st := newTestStore(t)
	m := newManager(t, st, nil, WithPasswordHashing(true))
	ctx := context.Background()

	_, err := m.Signup(ctx, SignupRequest{Name: "H", Email: "h@example.com", Password: "pw"})
	require.NoError(t, err)

	users := readUsers(t, st)
	require.Len(t, users, 1)
	assert.Equal(t, string(cryptox.SchemeArgon2id), users[0].PasswordScheme)
	assert.NotEqual(t, "pw", users[0].Password)

	require.NoError(t, m.Logout(ctx))
	require.NoError(t, m.Login(ctx, "h@example.com", "pw"))
}

func TestSignup_AtomicOnWriteFailure(t *testing.T) {
	base := newTestStore(t)
	st := &faultyStore{Store: base, failSetKey: records.KeySession}
	m := newManager(t, st, nil)

	_, err := m.Signup(context.Background(), SignupRequest{Email: "a@b.c", Password: "pw"})
	require.ErrorIs(t, err, errBoom)

	assert.Empty(t, readUsers(t, base), "table write must roll back with the session write")
	assert.Nil(t, m.CurrentUser())
}

func TestLogout_ClearsSessionKeepsTable(t *testing.T) {
	st := newTestStore(t)
	m := newManager(t, st, nil)
	ctx := context.Background()

	u, err := m.Signup(ctx, SignupRequest{Name: "Arjun", Email: "arjun@example.com", Password: "pw"})
	require.NoError(t, err)
	ms, txn := sampleMembership(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, m.UpdateMembership(ctx, ms, txn))
	require.NoError(t, st.Set(ctx, records.KeyLegacyUser, []byte("true")))

	require.NoError(t, m.Logout(ctx))

	assert.Nil(t, m.CurrentUser())
	assert.Nil(t, readSession(t, st))
	legacy, err := st.Get(ctx, records.KeyLegacyUser)
	require.NoError(t, err)
	assert.Nil(t, legacy)

	users := readUsers(t, st)
	require.Len(t, users, 1)
	assert.Equal(t, u.ID, users[0].ID)
	require.NotNil(t, users[0].Membership)
	assert.Equal(t, "quarterly", users[0].Membership.PlanID)
}

func TestUpdateMembership_SignedOutIsNoop(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, riya())
	m := newManager(t, st, nil)

	ms, txn := sampleMembership(time.Now().UTC())
	require.NoError(t, m.UpdateMembership(context.Background(), ms, txn))

	assert.Nil(t, readSession(t, st))
	assert.Nil(t, readUsers(t, st)[0].Membership)
}

func TestUpdateMembership_ReplacesAndAppends(t *testing.T) {
	st := newTestStore(t)
	other := models.User{ID: "mem_0000000f", Email: "other@example.com", Password: "x"}
	seedUsers(t, st, other, riya())
	m := newManager(t, st, nil)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "riya@example.com", "s3cret"))

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	ms1, txn1 := sampleMembership(start)
	require.NoError(t, m.UpdateMembership(ctx, ms1, txn1))

	ms2 := models.Membership{PlanID: "annual", Start: start.AddDate(0, 1, 0), End: start.AddDate(1, 1, 0), BranchID: "5"}
	txn2 := txn1
	txn2.ID = "TXN00043"
	require.NoError(t, m.UpdateMembership(ctx, ms2, txn2))

	u := m.CurrentUser()
	require.NotNil(t, u.Membership)
	assert.Equal(t, ms2, *u.Membership)
	require.Len(t, u.Transactions, 2)
	assert.Equal(t, []string{"TXN00042", "TXN00043"}, []string{u.Transactions[0].ID, u.Transactions[1].ID})

	assert.Equal(t, *u, *readSession(t, st))

	users := readUsers(t, st)
	require.Len(t, users, 2)
	assert.Nil(t, users[0].Membership, "other members untouched")
	assert.Equal(t, ms2, *users[1].Membership)
	assert.Len(t, users[1].Transactions, 2)
	assert.Equal(t, "s3cret", users[1].Password, "table keeps the credential")
	assert.Equal(t, "Riya Sen", users[1].Name)
}

func TestUpdateMembership_TableMissUpdatesSessionOnly(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, riya())
	log := newRecordingLogger()
	m := newManager(t, st, log)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "riya@example.com", "s3cret"))

	// the table loses the member behind the session's back
	seedUsers(t, st, models.User{ID: "mem_0000000f", Email: "other@example.com"})

	ms, txn := sampleMembership(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, m.UpdateMembership(ctx, ms, txn))

	assert.Equal(t, "quarterly", m.CurrentUser().Membership.PlanID)
	assert.Equal(t, "quarterly", readSession(t, st).Membership.PlanID)
	assert.Nil(t, readUsers(t, st)[0].Membership)
	assert.Len(t, log.messages("warn"), 1)
}

func TestUpdateMembership_RollsBackOnTableWriteFailure(t *testing.T) {
	base := newTestStore(t)
	seedUsers(t, base, riya())
	st := &faultyStore{Store: base}
	m := newManager(t, st, nil)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "riya@example.com", "s3cret"))

	st.failSetKey = records.KeyUsers
	ms, txn := sampleMembership(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	err := m.UpdateMembership(ctx, ms, txn)
	require.ErrorIs(t, err, errBoom)

	assert.Nil(t, m.CurrentUser().Membership, "in-memory user unchanged")
	assert.Nil(t, readSession(t, base).Membership, "session write rolled back")
	assert.Nil(t, readUsers(t, base)[0].Membership)
}

func TestUpdateProfile(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, riya())
	m := newManager(t, st, nil)
	ctx := context.Background()

	err := m.UpdateProfile(ctx, ProfileUpdate{Name: "Riya"})
	require.ErrorIs(t, err, common.ErrLoginRequired)

	require.NoError(t, m.Login(ctx, "riya@example.com", "s3cret"))
	require.ErrorIs(t, m.UpdateProfile(ctx, ProfileUpdate{Name: " "}), common.ErrorValidation)

	upd := ProfileUpdate{Name: "Riya S.", Phone: "9123456780", EmergencyContact: "Mom 9000000001", PreferredBranch: "salt-lake"}
	require.NoError(t, m.UpdateProfile(ctx, upd))

	u := m.CurrentUser()
	assert.Equal(t, "Riya S.", u.Name)
	assert.Equal(t, "riya@example.com", u.Email)
	assert.Equal(t, "salt-lake", readSession(t, st).PreferredBranch)

	entry := readUsers(t, st)[0]
	assert.Equal(t, "Mom 9000000001", entry.EmergencyContact)
	assert.Equal(t, "s3cret", entry.Password)
}

func TestCurrentUser_ReturnsCopy(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, riya())
	m := newManager(t, st, nil)
	require.NoError(t, m.Login(context.Background(), "riya@example.com", "s3cret"))

	u := m.CurrentUser()
	u.Name = "mutated"
	assert.Equal(t, "Riya Sen", m.CurrentUser().Name)
}
