package cli

import (
	"context"
	"maps"
	"slices"
	"strings"
)

// Records prints every key in the record store with the size of its value.
func (a *App) Records(ctx context.Context) error {
	all, err := a.store.List(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		a.println("The record store is empty.")
		return nil
	}
	for _, key := range slices.Sorted(maps.Keys(all)) {
		a.printf("%-16s %d bytes\n", key, len(all[key]))
	}
	return nil
}

// Reset signs the member out and wipes every record after the user types
// "yes". Anything else leaves the store untouched.
func (a *App) Reset(ctx context.Context) error {
	answer, err := a.ask("This deletes all accounts and the session. Type yes to continue")
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(answer), "yes") {
		a.println("Reset cancelled.")
		return nil
	}

	if a.isLoggedIn() {
		if err := a.session.Logout(ctx); err != nil {
			return err
		}
	}
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	a.handoff.Take()
	a.logger.Info(ctx, "record store cleared")
	a.println("All records deleted.")
	return nil
}
