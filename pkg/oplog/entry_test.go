package oplog

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEntry_Matches(t *testing.T) {
	entry := Entry{
		Staff:         "Alice Martin",
		OperationType: "update",
		Description:   "Changed contact phone",
		Resource:      "customer/42",
	}

	tests := []struct {
		name     string
		term     string
		expected bool
	}{
		{"empty term", "", true},
		{"staff match", "alice", true},
		{"case insensitive", "ALICE", true},
		{"operation type", "updat", true},
		{"description", "phone", true},
		{"resource", "customer/42", true},
		{"no match", "supplier", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entry.Matches(tt.term); got != tt.expected {
				t.Errorf("Matches(%q) = %v, want %v", tt.term, got, tt.expected)
			}
		})
	}
}

func TestEntry_JSONFieldNames(t *testing.T) {
	raw := `{"staff":"bob","operation_type":"delete","time":"2024-03-01T10:00:00Z","description":"Removed lead","resource":"opportunity/7"}`

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if entry.Staff != "bob" || entry.OperationType != "delete" || entry.Resource != "opportunity/7" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if !entry.Time.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Time = %v, want 2024-03-01T10:00:00Z", entry.Time)
	}
}
