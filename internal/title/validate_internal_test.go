package title

import "testing"

func TestValidatorRegistersCustomTags(t *testing.T) {
	v, err := validatorInstance()
	if err != nil || v == nil {
		t.Fatalf("validatorInstance() = %v, %v", v, err)
	}
	if err := v.Var(GenreDrama, "genre"); err != nil {
		t.Fatalf("known genre rejected: %v", err)
	}
	if err := v.Var(Genre("telenovela-noir"), "genre"); err == nil {
		t.Fatal("expected unknown genre to fail")
	}
	if err := v.Var(SourceCSFD, "source"); err != nil {
		t.Fatalf("known source rejected: %v", err)
	}
	if err := v.Var(Source("letterboxd"), "source"); err == nil {
		t.Fatal("expected unknown source to fail")
	}
}
