package model

import "testing"

func TestOptionalString(t *testing.T) {
	if OptionalString("") != nil {
		t.Error("OptionalString(\"\") should be nil so the column stays NULL")
	}

	ptr := OptionalString("alice")
	if ptr == nil || *ptr != "alice" {
		t.Errorf("OptionalString(\"alice\") = %v", ptr)
	}
}

func TestHasIdentity(t *testing.T) {
	tests := []struct {
		name string
		user User
		want bool
	}{
		{"no identity", User{}, false},
		{"email only", User{Email: OptionalString("a@b.com")}, true},
		{"username only", User{Username: OptionalString("alice")}, true},
		{"phone only", User{PhoneNumber: OptionalString("+14155550101")}, true},
		{"empty pointers", User{Email: OptionalString(""), Username: OptionalString("")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasIdentity(); got != tt.want {
				t.Errorf("HasIdentity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBeforeCreateAssignsID(t *testing.T) {
	u := &User{}
	if err := u.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate() error = %v", err)
	}
	if u.ID == "" {
		t.Fatal("BeforeCreate() did not assign an id")
	}

	keep := &User{ID: "fixed-id"}
	if err := keep.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate() error = %v", err)
	}
	if keep.ID != "fixed-id" {
		t.Error("BeforeCreate() overwrote an existing id")
	}
}
