package types

import "testing"

func TestRoleOpposite(t *testing.T) {
	if RoleAlice.Opposite() != RoleBob {
		t.Error("expected alice's opposite to be bob")
	}
	if RoleBob.Opposite() != RoleAlice {
		t.Error("expected bob's opposite to be alice")
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAlice.Valid() || !RoleBob.Valid() {
		t.Error("endpoint roles must be valid")
	}
	if Role(7).Valid() {
		t.Error("expected role 7 to be invalid")
	}
}

func TestRoleString(t *testing.T) {
	if RoleAlice.String() != "alice" {
		t.Errorf("expected alice, got %s", RoleAlice.String())
	}
	if RoleBob.String() != "bob" {
		t.Errorf("expected bob, got %s", RoleBob.String())
	}
}

func TestSeedHex(t *testing.T) {
	var s Seed
	s[0] = 0xab
	s[15] = 0x01
	got := s.Hex()
	if len(got) != SeedSize*2 {
		t.Fatalf("expected %d hex chars, got %d", SeedSize*2, len(got))
	}
	if got != "ab000000000000000000000000000001" {
		t.Errorf("unexpected hex encoding: %s", got)
	}
}
