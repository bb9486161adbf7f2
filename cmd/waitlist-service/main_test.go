package main

import "testing"

func TestSubscribeTenant(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		session   string
		want      string
		ok        bool
	}{
		{"no tenant declared", "", "t1", "t1", true},
		{"matching tenant", "t1", "t1", "t1", true},
		{"mismatched tenant", "t2", "t1", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := subscribeTenant(tc.requested, tc.session)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("subscribeTenant(%q, %q) = (%q, %v), want (%q, %v)", tc.requested, tc.session, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"Bearer a b", ""},
	}
	for _, tc := range tests {
		if got := bearerToken(tc.header); got != tc.want {
			t.Fatalf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
