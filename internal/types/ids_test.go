package types

import (
	"encoding/json"
	"testing"
)

func TestNewID_GeneratesValidUnique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if err := id.Validate(); err != nil {
			t.Fatalf("NewID() produced invalid ID %q: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("NewID() produced duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", "550e8400-e29b-41d4-a716-446655440000", false},
		{"valid uppercase", "550E8400-E29B-41D4-A716-446655440000", false},
		{"empty string", "", true},
		{"not a uuid", "not-a-uuid", true},
		{"truncated", "550e8400-e29b-41d4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseID(%q) expected error, got %q", tt.input, id)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseID(%q) unexpected error: %v", tt.input, err)
			}
			if id.IsZero() {
				t.Errorf("ParseID(%q) returned zero ID", tt.input)
			}
		})
	}
}

func TestParseID_NormalizesCase(t *testing.T) {
	id, err := ParseID("550E8400-E29B-41D4-A716-446655440000")
	if err != nil {
		t.Fatalf("ParseID unexpected error: %v", err)
	}
	if id.String() != "550e8400-e29b-41d4-a716-446655440000" {
		t.Errorf("ParseID should normalize to lowercase, got %q", id)
	}
}

func TestID_IsZero(t *testing.T) {
	if !ID("").IsZero() {
		t.Error("empty ID should be zero")
	}
	if NewID().IsZero() {
		t.Error("generated ID should not be zero")
	}
}

func TestID_JSONRoundTrip(t *testing.T) {
	original := NewID()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var decoded ID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip changed ID: got %q, want %q", decoded, original)
	}
}

func TestID_MarshalJSON_ZeroIsNull(t *testing.T) {
	data, err := json.Marshal(ID(""))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("zero ID should marshal to null, got %s", data)
	}
}

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"valid", `"550e8400-e29b-41d4-a716-446655440000"`, ID("550e8400-e29b-41d4-a716-446655440000"), false},
		{"null", `null`, ID(""), false},
		{"empty string", `""`, ID(""), false},
		{"invalid uuid", `"garbage"`, ID(""), true},
		{"wrong type", `42`, ID(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Unmarshal(%s) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) unexpected error: %v", tt.input, err)
			}
			if id != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, id, tt.want)
			}
		})
	}
}

func BenchmarkNewID(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = NewID()
	}
}

func BenchmarkID_JSONRoundTrip(b *testing.B) {
	type envelope struct {
		CampaignID ID `json:"campaign_id"`
	}
	original := envelope{CampaignID: NewID()}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		data, _ := json.Marshal(original)
		var decoded envelope
		_ = json.Unmarshal(data, &decoded)
	}
}
