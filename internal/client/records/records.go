// Package records defines the typed, versioned layout of the values kept in
// the local record store and validates them on read.
//
// The registered-user table is a JSON envelope:
//
//	{"schema":1,"kind":"users","data":[{...user...}, ...]}
//
// A bare JSON array, the layout written by older builds, is accepted and
// upgraded to schema 1. The session is a signed token, see SessionCodec.
package records

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
)

// Record store keys.
const (
	KeySession = "gym_session"
	KeyUsers   = "gym_users"
	// KeyLegacyUser is only ever read (by the route guard) and removed on
	// logout. Nothing writes it.
	KeyLegacyUser = "gym_user"
)

const (
	SchemaVersion = 1
	kindUsers     = "users"
)

type envelope struct {
	Schema int             `json:"schema"`
	Kind   string          `json:"kind"`
	Data   json.RawMessage `json:"data"`
}

// EncodeUsers serializes the registered-user table at the current schema.
func EncodeUsers(users []models.User) ([]byte, error) {
	if users == nil {
		users = []models.User{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return nil, fmt.Errorf("failed to encode users: %w", err)
	}
	return json.Marshal(envelope{Schema: SchemaVersion, Kind: kindUsers, Data: data})
}

// DecodeUsers parses the registered-user table. A missing (nil or blank)
// value is an empty table.
func DecodeUsers(raw []byte) ([]models.User, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []models.User{}, nil
	}

	var data []byte
	switch raw[0] {
	case '[':
		data = raw
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: users: %v", common.ErrCorruptRecord, err)
		}
		if env.Schema < 1 || env.Schema > SchemaVersion {
			return nil, fmt.Errorf("%w: users schema %d", common.ErrUnsupportedSchema, env.Schema)
		}
		if env.Kind != kindUsers {
			return nil, fmt.Errorf("%w: expected kind %q, got %q", common.ErrCorruptRecord, kindUsers, env.Kind)
		}
		data = env.Data
	default:
		return nil, fmt.Errorf("%w: users: not a JSON table", common.ErrCorruptRecord)
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: users: %v", common.ErrCorruptRecord, err)
	}
	if users == nil {
		users = []models.User{}
	}

	for i, u := range users {
		if err := validateUser(u); err != nil {
			return nil, fmt.Errorf("%w: users[%d]: %v", common.ErrCorruptRecord, i, err)
		}
	}
	return users, nil
}

func validateUser(u models.User) error {
	if u.ID == "" {
		return fmt.Errorf("missing id")
	}
	if u.Email == "" {
		return fmt.Errorf("missing email")
	}
	return nil
}
