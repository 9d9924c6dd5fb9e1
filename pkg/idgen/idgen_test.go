package idgen

import (
	"regexp"
	"testing"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestGenerate_Format(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate() returned error: %v", err)
	}

	if !uuidPattern.MatchString(id) {
		t.Errorf("Generate() = %v, want lower-case UUIDv4", id)
	}
}

func TestGenerate_Unique(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate() returned error: %v", err)
		}
		if ids[id] {
			t.Errorf("Generate() returned duplicate ID: %v", id)
		}
		ids[id] = true
	}
}
