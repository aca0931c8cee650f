package cmd

import (
	"reflect"
	"testing"
)

func TestLoadContext(t *testing.T) {
	tests := []struct {
		name    string
		sets    []string
		want    map[string]any
		wantErr bool
	}{
		{
			name: "no overrides",
			sets: nil,
			want: map[string]any{},
		},
		{
			name: "numeric value",
			sets: []string{"age=21"},
			want: map[string]any{"age": int64(21)},
		},
		{
			name: "bare string value",
			sets: []string{"name=Ada"},
			want: map[string]any{"name": "Ada"},
		},
		{
			name: "bool and null",
			sets: []string{"active=true", "nickname=null"},
			want: map[string]any{"active": true, "nickname": nil},
		},
		{
			name: "nested path",
			sets: []string{"user.name=Ada"},
			want: map[string]any{"user": map[string]any{"name": "Ada"}},
		},
		{
			name:    "malformed set",
			sets:    []string{"no-equals-sign"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := loadContext("", tc.sets)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("loadContext: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("loadContext() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestNormalizeNumbersKeepsFractions(t *testing.T) {
	got := normalizeNumbers(map[string]any{"whole": 3.0, "fraction": 3.5})
	m := got.(map[string]any)
	if _, ok := m["whole"].(int64); !ok {
		t.Errorf("whole = %#v, want int64", m["whole"])
	}
	if _, ok := m["fraction"].(float64); !ok {
		t.Errorf("fraction = %#v, want float64", m["fraction"])
	}
}
