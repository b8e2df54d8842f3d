package permission

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Capability is one named boolean permission flag. The vocabulary is closed:
// adding a flag means adding it here and to Capabilities.
type Capability string

const (
	CalculateCash         Capability = "calculateCash"
	AccessSettings        Capability = "accessSettings"
	AddUser               Capability = "addUser"
	AddCategories         Capability = "addCategories"
	AddBankAccount        Capability = "addBankAccount"
	MakeExpense           Capability = "makeExpense"
	CreateAccountDownward Capability = "createAccountDownward"
	CreateAccountUpward   Capability = "createAccountUpward"
	ManageSchedule        Capability = "manageSchedule"
)

// Capabilities lists every known flag.
var Capabilities = []Capability{
	CalculateCash,
	AccessSettings,
	AddUser,
	AddCategories,
	AddBankAccount,
	MakeExpense,
	CreateAccountDownward,
	CreateAccountUpward,
	ManageSchedule,
}

func (c Capability) Valid() bool {
	for _, known := range Capabilities {
		if c == known {
			return true
		}
	}
	return false
}

// Set maps each capability to a granted flag. Keys outside the closed
// vocabulary are never stored. Persisted as jsonb.
type Set map[Capability]bool

// All grants every capability.
func All() Set {
	s := make(Set, len(Capabilities))
	for _, c := range Capabilities {
		s[c] = true
	}
	return s
}

// None denies every capability.
func None() Set {
	s := make(Set, len(Capabilities))
	for _, c := range Capabilities {
		s[c] = false
	}
	return s
}

// Default is the grant applied when an inviter supplies no permissions:
// everything denied except makeExpense, the historical opt-out default.
func Default() Set {
	s := None()
	s[MakeExpense] = true
	return s
}

// Has reports the explicit flag only; it does not apply the owner bypass.
func (s Set) Has(c Capability) bool {
	return s[c]
}

// Clone returns an independent copy over the full vocabulary.
func (s Set) Clone() Set {
	out := None()
	for _, c := range Capabilities {
		if s[c] {
			out[c] = true
		}
	}
	return out
}

// CascadeGrant applies the anti-escalation rule: a requested grant is honored
// only when the caller is the owner or itself holds that capability. Explicit
// revocations (false) are always honored. Unknown keys in the request are
// dropped. A nil request yields Default().
func CascadeGrant(callerIsOwner bool, callerSet Set, requested Set) Set {
	if requested == nil {
		return Default()
	}

	granted := None()
	for key, want := range requested {
		if !key.Valid() || !want {
			continue
		}
		if callerIsOwner || callerSet.Has(key) {
			granted[key] = true
		}
	}
	return granted
}

func (s Set) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal(None())
	}
	return json.Marshal(s)
}

func (s *Set) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*s = None()
		return nil
	default:
		return fmt.Errorf("unsupported permission set type %T", value)
	}

	decoded := make(map[Capability]bool)
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode permission set: %w", err)
	}

	// Flags added after a row was written default to denied, except
	// makeExpense, whose historical default is granted.
	out := None()
	for _, c := range Capabilities {
		if granted, present := decoded[c]; present {
			out[c] = granted
		} else if c == MakeExpense {
			out[c] = true
		}
	}
	*s = out
	return nil
}

func (Set) GormDataType() string {
	return "jsonb"
}
