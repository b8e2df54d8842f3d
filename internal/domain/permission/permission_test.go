package permission

import (
	"encoding/json"
	"testing"
)

func TestDefaultGrantsOnlyMakeExpense(t *testing.T) {
	s := Default()
	for _, c := range Capabilities {
		want := c == MakeExpense
		if s.Has(c) != want {
			t.Errorf("capability %s: expected %v, got %v", c, want, s.Has(c))
		}
	}
}

func TestCascadeGrantNonOwnerCannotEscalate(t *testing.T) {
	caller := None()
	caller[MakeExpense] = true

	requested := Set{MakeExpense: true, AddUser: true, CalculateCash: true}
	granted := CascadeGrant(false, caller, requested)

	if !granted.Has(MakeExpense) {
		t.Error("expected makeExpense granted")
	}
	if granted.Has(AddUser) {
		t.Error("addUser must be coerced to false: caller does not hold it")
	}
	if granted.Has(CalculateCash) {
		t.Error("calculateCash must be coerced to false: caller does not hold it")
	}
}

func TestCascadeGrantOwnerGrantsAnything(t *testing.T) {
	requested := Set{AddUser: true, CreateAccountDownward: true}
	granted := CascadeGrant(true, None(), requested)

	if !granted.Has(AddUser) || !granted.Has(CreateAccountDownward) {
		t.Errorf("owner must be able to grant any capability, got %v", granted)
	}
}

func TestCascadeGrantMonotonicity(t *testing.T) {
	// Whatever a non-owner requests, the granted set stays a subset of the
	// caller's own set.
	caller := Set{MakeExpense: true, AddCategories: true}
	granted := CascadeGrant(false, caller, All())

	for _, c := range Capabilities {
		if granted.Has(c) && !caller.Has(c) {
			t.Errorf("capability %s granted but caller does not hold it", c)
		}
	}
}

func TestCascadeGrantNilRequestedIsDefault(t *testing.T) {
	granted := CascadeGrant(false, None(), nil)
	if !granted.Has(MakeExpense) {
		t.Error("nil request must yield the default grant (makeExpense)")
	}
	if granted.Has(AddUser) {
		t.Error("nil request must not grant addUser")
	}
}

func TestCascadeGrantDropsUnknownKeys(t *testing.T) {
	requested := Set{"superAdmin": true}
	granted := CascadeGrant(true, nil, requested)

	if granted["superAdmin"] {
		t.Error("unknown capability must never be stored")
	}
}

func TestCascadeGrantExplicitFalseHonored(t *testing.T) {
	requested := Set{MakeExpense: false, AddUser: true}
	granted := CascadeGrant(true, nil, requested)

	if granted.Has(MakeExpense) {
		t.Error("explicit false must be honored even for the owner")
	}
	if !granted.Has(AddUser) {
		t.Error("expected addUser granted")
	}
}

func TestScanDefaultsNewFlagsToDenied(t *testing.T) {
	// A row written before manageSchedule existed.
	raw, _ := json.Marshal(map[string]bool{"calculateCash": true})

	var s Set
	if err := s.Scan(raw); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !s.Has(CalculateCash) {
		t.Error("expected calculateCash granted")
	}
	if s.Has(ManageSchedule) {
		t.Error("flags absent from stored data must default to denied")
	}
	if !s.Has(MakeExpense) {
		t.Error("makeExpense absent from stored data keeps its historical granted default")
	}
}

func TestScanExplicitFalseMakeExpense(t *testing.T) {
	raw, _ := json.Marshal(map[string]bool{"makeExpense": false})

	var s Set
	if err := s.Scan(raw); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if s.Has(MakeExpense) {
		t.Error("explicitly revoked makeExpense must stay revoked")
	}
}

func TestValueRoundTrip(t *testing.T) {
	s := Default()
	value, err := s.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var decoded Set
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, c := range Capabilities {
		if decoded.Has(c) != s.Has(c) {
			t.Errorf("capability %s changed across round trip", c)
		}
	}
}
