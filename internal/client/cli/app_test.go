package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/client/config"
	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/client/services"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "mia@example.org"
	testPassword = "pw-123456"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.StoreDSN = ":memory:"
	c.PaymentDelay = 0
	c.ExpiryCheckInterval = 0
	c.ReceiptsDir = t.TempDir()
	c.LogLevel = "error"
	return c
}

// newTestApp builds a real App on an in-memory store and feeds it input.
func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()
	a, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.store.Close() })

	var out bytes.Buffer
	a.out = &out
	a.reader = bufio.NewReader(strings.NewReader(input))
	return a, &out
}

func feed(a *App, input string) {
	a.reader = bufio.NewReader(strings.NewReader(input))
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(io.Writer) ([]byte, error) {
		if i >= len(pws) {
			return nil, io.EOF
		}
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func signUp(t *testing.T, a *App) *models.User {
	t.Helper()
	u, err := a.session.Signup(context.Background(), services.SignupRequest{
		Name:     "Mia",
		Email:    testEmail,
		Phone:    "9876543210",
		Password: testPassword,
	})
	require.NoError(t, err)
	return u
}

func TestNewApp_UnknownDriver(t *testing.T) {
	c := testConfig(t)
	c.StoreDriver = "mongo"

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
}

func TestNewApp_SessionSurvivesRestart(t *testing.T) {
	c := testConfig(t)
	c.StoreDSN = filepath.Join(t.TempDir(), "gym.db")
	ctx := context.Background()

	a, err := NewApp(ctx, c)
	require.NoError(t, err)
	signUp(t, a)
	require.NoError(t, a.store.Close())

	b, err := NewApp(ctx, c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.store.Close() })

	require.True(t, b.isLoggedIn())
	assert.Equal(t, "Mia", b.getStatus())
}

func TestSignup(t *testing.T) {
	a, out := newTestApp(t, "Mia\n"+testEmail+"\n9876543210\n3\nMom 9000000000\n")
	stubPasswords(t, testPassword)

	require.NoError(t, a.Signup(context.Background()))

	u := a.session.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "3", u.PreferredBranch)
	assert.Equal(t, "Mom 9000000000", u.EmergencyContact)
	assert.Contains(t, out.String(), "Welcome to GymKeeper, Mia!")
}

func TestSignup_UnknownBranch(t *testing.T) {
	a, _ := newTestApp(t, "Mia\n"+testEmail+"\n9876543210\n42\n")
	stubPasswords(t, testPassword)

	err := a.Signup(context.Background())
	require.ErrorIs(t, err, common.ErrUnknownBranch)
	assert.False(t, a.isLoggedIn())
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")
	signUp(t, a)
	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "guest", a.getStatus())

	feed(a, testEmail+"\n")
	stubPasswords(t, "wrong")
	require.ErrorIs(t, a.Login(ctx), common.ErrInvalidCredentials)

	feed(a, testEmail+"\n")
	stubPasswords(t, testPassword)
	require.NoError(t, a.Login(ctx))
	assert.True(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Welcome back, Mia!")
}

func TestEnroll_GuestLogsInAndBuys(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")
	signUp(t, a)
	require.NoError(t, a.Logout(ctx))

	feed(a, strings.Join([]string{
		"quarterly", // preselected plan
		testEmail,   // login
		"",          // keep plan
		"9",         // unknown branch, asked again
		"2",         // branch
		"wallet",    // unknown method
		"card",      // method
		"pay",
	}, "\n")+"\n")
	stubPasswords(t, testPassword)

	require.NoError(t, a.Enroll(ctx))

	u := a.session.CurrentUser()
	require.NotNil(t, u)
	require.NotNil(t, u.Membership)
	assert.Equal(t, "quarterly", u.Membership.PlanID)
	assert.Equal(t, "2", u.Membership.BranchID)
	require.Len(t, u.Transactions, 1)
	assert.Equal(t, "CARD", u.Transactions[0].Method)
	assert.Equal(t, "₹6,999", u.Transactions[0].Amount)

	s := out.String()
	assert.Contains(t, s, "Please log in to continue.")
	assert.Contains(t, s, common.ErrUnknownBranch.Error())
	assert.Contains(t, s, common.ErrUnknownMethod.Error())
	assert.Contains(t, s, "Total:    ₹8259")
	assert.Contains(t, s, "Payment successful!")
	assert.Contains(t, s, u.Transactions[0].ID)

	// the confirmation is shown once, then the dashboard takes over
	out.Reset()
	require.NoError(t, a.Confirmation(ctx))
	assert.NotContains(t, out.String(), "Payment successful!")
	assert.Contains(t, out.String(), "Status:    active")
}

func TestEnroll_BackAndCancel(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "\n\n1\nback\ncancel\n")
	signUp(t, a)

	require.NoError(t, a.Enroll(ctx))

	assert.Contains(t, out.String(), "Enrollment cancelled.")
	assert.Nil(t, a.session.CurrentUser().Membership)
}

func TestEnroll_BranchRequired(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "\n\n\n")
	signUp(t, a)

	require.ErrorIs(t, a.Enroll(ctx), io.EOF)
	assert.Contains(t, out.String(), common.ErrBranchRequired.Error())
}

func TestDashboard_NoMembership(t *testing.T) {
	a, out := newTestApp(t, "")
	signUp(t, a)

	require.NoError(t, a.Dashboard(context.Background()))
	assert.Contains(t, out.String(), "No active membership.")
}

func TestDashboard_GuestWithoutInput(t *testing.T) {
	a, out := newTestApp(t, "")

	err := a.Dashboard(context.Background())
	require.ErrorIs(t, err, io.EOF)
	assert.Contains(t, out.String(), "Please log in to continue.")
}

func TestDashboard_ExpiringMembership(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")
	signUp(t, a)

	now := time.Now().UTC()
	m := models.Membership{PlanID: "monthly", Start: now.AddDate(0, 0, -20), End: now.AddDate(0, 0, 10), BranchID: "1"}
	txn := models.Transaction{ID: "TXN00001", Date: m.Start, Description: "Monthly Membership", Amount: "₹2,499", Status: models.TransactionPaid, Method: "UPI"}
	require.NoError(t, a.session.UpdateMembership(ctx, m, txn))

	require.NoError(t, a.Dashboard(ctx))
	s := out.String()
	assert.Contains(t, s, "Status:    expiring")
	assert.Contains(t, s, "Renew now")
}

func TestBillingAndReceipt(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")
	signUp(t, a)

	require.NoError(t, a.Billing(ctx))
	assert.Contains(t, out.String(), "No transactions yet.")

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	m := models.Membership{PlanID: "monthly", Start: start, End: start.AddDate(0, 1, 0), BranchID: "1"}
	txn := models.Transaction{ID: "TXN00042", Date: start, Description: "Monthly Membership", Amount: "₹2,499", Status: models.TransactionPaid, Method: "UPI"}
	require.NoError(t, a.session.UpdateMembership(ctx, m, txn))

	out.Reset()
	require.NoError(t, a.Billing(ctx))
	s := out.String()
	assert.Contains(t, s, "Total paid: ₹2499")
	assert.Contains(t, s, "Next due: Feb 15, 2024")
	assert.Contains(t, s, "TXN00042")

	feed(a, "NOPE\n")
	require.ErrorIs(t, a.Receipt(ctx), common.ErrorNotFound)

	feed(a, "\n")
	require.NoError(t, a.Receipt(ctx))
	path := filepath.Join(a.config.ReceiptsDir, "receipt-TXN00042.txt")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TXN00042")
	assert.Contains(t, out.String(), "Receipt saved to "+path)
}

func TestProfileEdit(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "Mia Rao\n\nDad 9111111111\n4\n")
	signUp(t, a)

	require.NoError(t, a.EditProfile(ctx))
	u := a.session.CurrentUser()
	assert.Equal(t, "Mia Rao", u.Name)
	assert.Equal(t, "9876543210", u.Phone)
	assert.Equal(t, "Dad 9111111111", u.EmergencyContact)
	assert.Equal(t, "4", u.PreferredBranch)

	out.Reset()
	require.NoError(t, a.Profile(ctx))
	assert.Contains(t, out.String(), "Name:      Mia Rao")
	assert.Contains(t, out.String(), "Email:     "+testEmail)
}

func TestProfileEdit_UnknownBranch(t *testing.T) {
	a, _ := newTestApp(t, "\n\n\n77\n")
	signUp(t, a)

	require.ErrorIs(t, a.EditProfile(context.Background()), common.ErrUnknownBranch)
}

func TestPlansBranchesSearch(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")

	require.NoError(t, a.Plans(ctx))
	assert.Contains(t, out.String(), "(most popular)")
	assert.Contains(t, out.String(), "₹14,999")

	out.Reset()
	require.NoError(t, a.Branches(ctx))
	assert.Contains(t, out.String(), "salt-lake")

	out.Reset()
	feed(a, "zzzz\n\n")
	require.NoError(t, a.Search(ctx))
	assert.Contains(t, out.String(), "No branches match.")
}

func TestBranchDetails(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")

	require.NoError(t, a.BranchDetails(ctx, "gariahat"))
	assert.Contains(t, out.String(), "Gariahat (gariahat)")
	assert.Contains(t, out.String(), "Rahul Sharma, Strength & Conditioning")
	assert.Contains(t, out.String(), "Ananya Ghosh, Yoga & Flexibility")
	assert.Contains(t, out.String(), "22.518, 88.364")

	out.Reset()
	feed(a, "3\n")
	require.NoError(t, a.BranchDetails(ctx, ""))
	assert.Contains(t, out.String(), "Salt Lake (salt-lake)")
	assert.Contains(t, out.String(), "Amit Roy, Swimming Coach")

	out.Reset()
	require.NoError(t, a.BranchDetails(ctx, "howrah"))
	assert.Contains(t, out.String(), `No branch "howrah", showing all locations.`)
	assert.Contains(t, out.String(), "new-town")
	assert.NotContains(t, out.String(), "Trainers:")
}

func TestRecordsAndReset(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")

	require.NoError(t, a.Records(ctx))
	assert.Contains(t, out.String(), "The record store is empty.")

	signUp(t, a)
	out.Reset()
	require.NoError(t, a.Records(ctx))
	assert.Contains(t, out.String(), "gym_session")
	assert.Contains(t, out.String(), "gym_users")

	feed(a, "no\n")
	require.NoError(t, a.Reset(ctx))
	assert.Contains(t, out.String(), "Reset cancelled.")
	assert.True(t, a.isLoggedIn())

	out.Reset()
	feed(a, "yes\n")
	require.NoError(t, a.Reset(ctx))
	assert.Contains(t, out.String(), "All records deleted.")
	assert.False(t, a.isLoggedIn())

	all, err := a.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	feed(a, testEmail+"\n")
	stubPasswords(t, testPassword)
	require.ErrorIs(t, a.Login(ctx), common.ErrInvalidCredentials)
}

func TestBMIAndCalories(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "170\n65\n")

	require.NoError(t, a.BMI(ctx))
	assert.Contains(t, out.String(), "BMI 22.5: Normal Weight")

	feed(a, "abc\n")
	require.ErrorIs(t, a.BMI(ctx), common.ErrorValidation)

	out.Reset()
	feed(a, "male\n30\n180\n80\n3\n")
	require.NoError(t, a.Calories(ctx))
	assert.Contains(t, out.String(), "Maintenance: 2759 kcal")
	assert.Contains(t, out.String(), "Weight loss: 2259 kcal")
	assert.Contains(t, out.String(), "Muscle gain: 3059 kcal")

	feed(a, "male\n30\n180\n80\n9\n")
	require.ErrorIs(t, a.Calories(ctx), common.ErrorValidation)
}

func TestVisit(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "salt-lake\n1\n2\nGuest\n9876543210\n")

	require.NoError(t, a.Visit(ctx))
	assert.Contains(t, out.String(), "Visit booked at")
	assert.Contains(t, out.String(), "7:00 AM")

	feed(a, "salt-lake\n1\n2\nGuest\n12345\n")
	require.ErrorIs(t, a.Visit(ctx), common.ErrorValidation)
}

func TestVisit_SignedInMemberSkipsContactPrompts(t *testing.T) {
	a, out := newTestApp(t, "1\n1\n1\n")
	signUp(t, a)

	require.NoError(t, a.Visit(context.Background()))
	assert.Contains(t, out.String(), "6:00 AM")
	assert.NotContains(t, out.String(), "Your name")
}

func TestPick(t *testing.T) {
	opts := []string{"a", "b"}
	assert.Equal(t, "b", pick("2", opts))
	assert.Equal(t, "3", pick("3", opts))
	assert.Equal(t, "x", pick("x", opts))
}

func TestNotifyExpiry(t *testing.T) {
	a, out := newTestApp(t, "")
	a.notifyExpiry(services.ExpiryNotice{
		MemberID: "mem_1",
		Status:   models.StatusExpired,
		Overview: services.MembershipOverview{RenewalHint: "Your Monthly plan has expired. Renew to get back in."},
	})
	assert.Contains(t, out.String(), "[membership expired] Your Monthly plan has expired.")
}

func TestRun_ExitsAndClosesStore(t *testing.T) {
	capturePrintln(t)
	a, out := newTestApp(t, "help\nexit\n")
	a.config.ExpiryCheckInterval = time.Hour

	a.Run(context.Background())

	assert.Contains(t, out.String(), "Welcome to GymKeeper")
	_, err := a.store.Get(context.Background(), "gym_users")
	require.Error(t, err, "store is closed after Run")
}
