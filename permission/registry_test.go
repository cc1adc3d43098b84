package permission

import "testing"

func TestRegistryRegisterAssignsSequentialBits(t *testing.T) {
	r, err := NewRegistry(64)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	names := []string{"jobs:post", "jobs:apply", "wallet:withdraw"}
	for i, name := range names {
		bit, err := r.Register(name)
		if err != nil {
			t.Fatalf("register %q: %v", name, err)
		}
		if bit != i {
			t.Fatalf("expected bit %d for %q, got %d", i, name, bit)
		}
	}

	if r.Count() != len(names) {
		t.Fatalf("expected count %d, got %d", len(names), r.Count())
	}

	bit, ok := r.Bit("wallet:withdraw")
	if !ok || bit != 2 {
		t.Fatalf("expected wallet:withdraw at bit 2, got %d (%v)", bit, ok)
	}

	name, ok := r.Name(1)
	if !ok || name != "jobs:apply" {
		t.Fatalf("expected jobs:apply at bit 1, got %q (%v)", name, ok)
	}
}

func TestRegistryRejectsDuplicateAndMalformedNames(t *testing.T) {
	r, _ := NewRegistry(64)

	if _, err := r.Register("chat:send"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := r.Register("chat:send"); err == nil {
		t.Fatal("expected duplicate rejection")
	}
	if _, err := r.Register(""); err == nil {
		t.Fatal("expected empty name rejection")
	}
	if _, err := r.Register("no-colon"); err == nil {
		t.Fatal("expected resource:action format rejection")
	}
}

func TestRegistryFreezeBlocksRegistration(t *testing.T) {
	r, _ := NewRegistry(64)
	r.Freeze()

	if _, err := r.RegisterPair("listings", "create"); err == nil {
		t.Fatal("expected frozen registry to reject registration")
	}
}

func TestRegistryEnforcesWidthLimit(t *testing.T) {
	if _, err := NewRegistry(256); err == nil {
		t.Fatal("expected invalid width rejection")
	}

	r, _ := NewRegistry(64)
	for i := 0; i < 64; i++ {
		if _, err := r.RegisterPair("res", string(rune('a'+i%26))+string(rune('0'+i/26))); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}
	if _, err := r.RegisterPair("res", "overflow"); err == nil {
		t.Fatal("expected limit exceeded")
	}
}
