package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"calendar date", `"2026-03-01"`, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", `"2026-03-01T15:04:05Z"`, time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC), false},
		{"empty string", `""`, time.Time{}, false},
		{"unparsable", `"01/03/2026"`, time.Time{}, true},
		{"not a string", `42`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !d.Equal(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, d.Time)
			}
		})
	}
}
