// Package services contains the member-side application services: the
// session manager (login, signup, logout and write-through of membership
// and profile changes), the enrollment state machine, the route guard and
// the read models behind the dashboard.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/client/records"
	"github.com/dmitrijs2005/gymkeeper/internal/client/store"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
	"github.com/dmitrijs2005/gymkeeper/internal/cryptox"
	"github.com/dmitrijs2005/gymkeeper/internal/logging"
)

// SessionManager owns the signed-in member.
//
// Contract:
//   - Initialize: rehydrate the session record once; IsLoading is true until it returns.
//   - Login: first table entry matching email and password wins; otherwise ErrInvalidCredentials.
//   - Signup: always creates a new entry (duplicate emails are allowed) and signs in.
//   - Logout: drops the session record; the registered-user table is kept.
//   - UpdateMembership / UpdateProfile: write the session and the member's
//     table entry together, then swap the in-memory user.
//
// CurrentUser returns a copy, never the manager's own value, and the session
// copy never carries a password.
type SessionManager interface {
	Initialize(ctx context.Context) error
	IsLoading() bool
	CurrentUser() *models.User
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, req SignupRequest) (*models.User, error)
	Logout(ctx context.Context) error
	UpdateMembership(ctx context.Context, membership models.Membership, txn models.Transaction) error
	UpdateProfile(ctx context.Context, upd ProfileUpdate) error
}

type SignupRequest struct {
	Name             string
	Email            string
	Phone            string
	Password         string
	PreferredBranch  string
	EmergencyContact string
}

// ProfileUpdate replaces the editable profile fields. Email is the login key
// and cannot be changed here.
type ProfileUpdate struct {
	Name             string
	Phone            string
	EmergencyContact string
	PreferredBranch  string
}

type SessionOption func(*sessionManager)

// WithPasswordHashing stores new signups as argon2id hashes instead of the
// verbatim password. Login accepts both forms either way.
func WithPasswordHashing(enabled bool) SessionOption {
	return func(s *sessionManager) { s.hashPasswords = enabled }
}

type sessionManager struct {
	store  store.Store
	codec  *records.SessionCodec
	logger logging.Logger

	hashPasswords bool

	mu          sync.RWMutex
	current     *models.User
	loading     bool
	initialized bool
}

func NewSessionManager(st store.Store, codec *records.SessionCodec, logger logging.Logger, opts ...SessionOption) SessionManager {
	s := &sessionManager{
		store:   st,
		codec:   codec,
		logger:  logger.With("component", "session"),
		loading: true,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *sessionManager) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	defer func() { s.loading = false }()

	raw, err := s.store.Get(ctx, records.KeySession)
	if err != nil {
		return fmt.Errorf("session rehydration error: %w", err)
	}
	if raw == nil {
		return nil
	}

	u, err := s.codec.Decode(raw)
	if err != nil {
		s.logger.Warn(ctx, "discarding unreadable session record", "error", err)
		if rmErr := s.store.Remove(ctx, records.KeySession); rmErr != nil {
			s.logger.Error(ctx, "failed to remove corrupt session record", "error", rmErr)
		}
		return nil
	}

	s.current = u
	s.logger.Debug(ctx, "session restored", "member_id", u.ID)
	return nil
}

func (s *sessionManager) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *sessionManager) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := s.current.Clone()
	return &u
}

func (s *sessionManager) loadUsers(ctx context.Context, r store.Repository) ([]models.User, error) {
	raw, err := r.Get(ctx, records.KeyUsers)
	if err != nil {
		return nil, err
	}
	return records.DecodeUsers(raw)
}

func (s *sessionManager) saveUsers(ctx context.Context, r store.Repository, users []models.User) error {
	raw, err := records.EncodeUsers(users)
	if err != nil {
		return err
	}
	return r.Set(ctx, records.KeyUsers, raw)
}

func (s *sessionManager) saveSession(ctx context.Context, r store.Repository, u models.User) error {
	raw, err := s.codec.Encode(u)
	if err != nil {
		return err
	}
	return r.Set(ctx, records.KeySession, raw)
}

func (s *sessionManager) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx, s.store)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	var match *models.User
	for i := range users {
		if users[i].Email != email {
			continue
		}
		ok, err := cryptox.CheckPassword(cryptox.Scheme(users[i].PasswordScheme), users[i].Password, password)
		if err != nil {
			s.logger.Warn(ctx, "unreadable stored password", "member_id", users[i].ID, "error", err)
			continue
		}
		if ok {
			match = &users[i]
			break
		}
	}
	if match == nil {
		return common.ErrInvalidCredentials
	}

	sessionUser := match.WithoutPassword()
	if err := s.saveSession(ctx, s.store, sessionUser); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	s.current = &sessionUser
	s.logger.Info(ctx, "member signed in", "member_id", sessionUser.ID)
	return nil
}

func (s *sessionManager) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return nil, fmt.Errorf("signup error: %w", err)
	}

	stored, scheme := req.Password, cryptox.SchemePlain
	if s.hashPasswords {
		stored, scheme = cryptox.HashPassword(req.Password), cryptox.SchemeArgon2id
	}

	user := models.User{
		ID:               "mem_" + suffix,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Password:         stored,
		PasswordScheme:   string(scheme),
		PreferredBranch:  req.PreferredBranch,
		EmergencyContact: req.EmergencyContact,
	}
	sessionUser := user.WithoutPassword()

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.store.WithTx(ctx, func(ctx context.Context, r store.Repository) error {
		users, err := s.loadUsers(ctx, r)
		if err != nil {
			return err
		}
		if err := s.saveUsers(ctx, r, append(users, user)); err != nil {
			return err
		}
		return s.saveSession(ctx, r, sessionUser)
	})
	if err != nil {
		return nil, fmt.Errorf("signup error: %w", err)
	}

	s.current = &sessionUser
	s.logger.Info(ctx, "member signed up", "member_id", user.ID)

	out := sessionUser.Clone()
	return &out, nil
}

func (s *sessionManager) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	err := s.store.WithTx(ctx, func(ctx context.Context, r store.Repository) error {
		if err := r.Remove(ctx, records.KeySession); err != nil {
			return err
		}
		return r.Remove(ctx, records.KeyLegacyUser)
	})
	if err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	return nil
}

// writeThrough persists updated as the session and lets patch rewrite the
// first table entry with the same email, all in one transaction. The
// in-memory user is only replaced after commit. Callers hold s.mu.
func (s *sessionManager) writeThrough(ctx context.Context, updated models.User, patch func(entry *models.User)) error {
	var missing bool

	err := s.store.WithTx(ctx, func(ctx context.Context, r store.Repository) error {
		if err := s.saveSession(ctx, r, updated); err != nil {
			return err
		}

		users, err := s.loadUsers(ctx, r)
		if err != nil {
			return err
		}
		idx := -1
		for i := range users {
			if users[i].Email == updated.Email {
				idx = i
				break
			}
		}
		if idx < 0 {
			missing = true
			return nil
		}
		patch(&users[idx])
		return s.saveUsers(ctx, r, users)
	})
	if err != nil {
		return err
	}

	if missing {
		s.logger.Warn(ctx, "member not found in registered-user table, session updated only",
			"member_id", updated.ID)
	}
	s.current = &updated
	return nil
}

func (s *sessionManager) UpdateMembership(ctx context.Context, membership models.Membership, txn models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}

	updated := s.current.Clone()
	m := membership
	updated.Membership = &m
	updated.Transactions = append(updated.Transactions, txn)

	err := s.writeThrough(ctx, updated, func(entry *models.User) {
		em := membership
		entry.Membership = &em
		entry.Transactions = append([]models.Transaction(nil), updated.Transactions...)
	})
	if err != nil {
		return fmt.Errorf("membership update error: %w", err)
	}

	s.logger.Info(ctx, "membership granted",
		"member_id", updated.ID, "plan", membership.PlanID, "txn", txn.ID)
	return nil
}

func (s *sessionManager) UpdateProfile(ctx context.Context, upd ProfileUpdate) error {
	if strings.TrimSpace(upd.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return common.ErrLoginRequired
	}

	apply := func(u *models.User) {
		u.Name = upd.Name
		u.Phone = upd.Phone
		u.EmergencyContact = upd.EmergencyContact
		u.PreferredBranch = upd.PreferredBranch
	}

	updated := s.current.Clone()
	apply(&updated)

	if err := s.writeThrough(ctx, updated, apply); err != nil {
		return fmt.Errorf("profile update error: %w", err)
	}
	return nil
}
