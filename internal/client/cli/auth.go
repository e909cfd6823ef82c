package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gymkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/client/services"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for the member's details and creates an account. The new
// member is signed in straight away.
func (a *App) Signup(ctx context.Context) error {
	name, err := a.ask("Full name")
	if err != nil {
		return err
	}
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	phone, err := a.ask("Phone (10 digits)")
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	a.println("Branches:")
	for _, b := range catalog.Branches() {
		a.printf("  %-12s %s\n", b.ID, b.Name)
	}
	branch, err := a.ask("Preferred branch id (optional)")
	if err != nil {
		return err
	}
	if branch != "" {
		if _, err := catalog.Branch(branch); err != nil {
			return err
		}
	}
	emergency, err := a.ask("Emergency contact (optional)")
	if err != nil {
		return err
	}

	u, err := a.session.Signup(ctx, services.SignupRequest{
		Name:             name,
		Email:            email,
		Phone:            phone,
		Password:         string(password),
		PreferredBranch:  branch,
		EmergencyContact: emergency,
	})
	if err != nil {
		return err
	}

	a.printf("Welcome to GymKeeper, %s! Your member id is %s.\n", u.Name, u.ID)
	return nil
}

// Login prompts for credentials and signs the member in.
func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			a.logger.Debug(ctx, "login rejected", "email", email)
		}
		return err
	}

	a.printf("Welcome back, %s!\n", a.session.CurrentUser().Name)
	return nil
}

// Logout ends the session and removes the persisted session record.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.println("Signed out.")
	return nil
}

// guarded runs fn at location if the route guard lets the request through.
// A guest is asked to log in first and is then taken to location.
func (a *App) guarded(ctx context.Context, location string, fn func(ctx context.Context) error) error {
	outcome := a.guard.Check(ctx, location)

	switch outcome.Decision {
	case services.RenderLoading:
		a.println("Loading your session, try again in a moment.")
		return nil

	case services.RedirectToLogin:
		a.println("Please log in to continue.")
		if err := a.Login(ctx); err != nil {
			return err
		}
		a.logger.Debug(ctx, "resuming after login", "location", outcome.ReturnTo)
	}

	return fn(ctx)
}

// member returns the signed-in member. The guard may let a request through
// on the legacy marker alone, so callers still have to handle nil.
func (a *App) member() (*models.User, error) {
	u := a.session.CurrentUser()
	if u == nil {
		return nil, common.ErrLoginRequired
	}
	return u, nil
}
