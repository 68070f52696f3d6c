package main

import (
	"testing"
	"time"
)

func TestValidateCookieShape(t *testing.T) {
	cases := []struct {
		name    string
		cookie  string
		wantErr bool
	}{
		{"valid", "csrftoken=abc; LEETCODE_SESSION=xyz", false},
		{"valid reversed", "LEETCODE_SESSION=xyz; csrftoken=abc", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"missing session", "csrftoken=abc", true},
		{"missing csrf", "LEETCODE_SESSION=xyz", true},
		{"neither", "sessionid=whatever", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateCookieShape(tc.cookie)
			if tc.wantErr && err == nil {
				t.Errorf("expected rejection for %q", tc.cookie)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected rejection for %q: %v", tc.cookie, err)
			}
		})
	}
}

func TestCredentialStoreRoundtrip(t *testing.T) {
	dir := t.TempDir()
	store, err := openCredentialStoreAt(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if store.IsLoggedIn() {
		t.Error("fresh store should not be logged in")
	}
	if err := store.SetCookie(testCookie); err != nil {
		t.Fatalf("SetCookie: %v", err)
	}
	if got := store.Cookie(); got != testCookie {
		t.Errorf("Cookie = %q, want %q", got, testCookie)
	}
	if !store.IsLoggedIn() {
		t.Error("store with cookie should be logged in")
	}

	// a second handle over the same file sees the persisted value
	other, err := openCredentialStoreAt(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer other.Close()
	if got := other.Cookie(); got != testCookie {
		t.Errorf("reopened Cookie = %q, want %q", got, testCookie)
	}

	if err := store.DeleteCookie(); err != nil {
		t.Fatalf("DeleteCookie: %v", err)
	}
	if store.IsLoggedIn() {
		t.Error("store should be logged out after delete")
	}
	if err := other.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if other.IsLoggedIn() {
		t.Error("reloaded handle should observe the deletion")
	}
}

func TestSessionStalenessHeuristic(t *testing.T) {
	store, err := openCredentialStoreAt(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	if err := store.SetCookie(testCookie); err != nil {
		t.Fatalf("SetCookie: %v", err)
	}

	if !store.IsSessionPossiblyExpired() {
		t.Error("never-verified session should count as possibly expired")
	}

	if err := store.MarkVerified(time.Now()); err != nil {
		t.Fatalf("MarkVerified: %v", err)
	}
	if store.IsSessionPossiblyExpired() {
		t.Error("just-verified session should not be stale")
	}
	if age, ok := store.SessionAge(); !ok || age > time.Minute {
		t.Errorf("SessionAge = (%v, %v)", age, ok)
	}

	if err := store.MarkVerified(time.Now().Add(-6 * 24 * time.Hour)); err != nil {
		t.Fatalf("MarkVerified: %v", err)
	}
	if store.IsSessionPossiblyExpired() {
		t.Error("six-day-old verification is inside the window")
	}

	if err := store.MarkVerified(time.Now().Add(-8 * 24 * time.Hour)); err != nil {
		t.Fatalf("MarkVerified: %v", err)
	}
	if !store.IsSessionPossiblyExpired() {
		t.Error("eight-day-old verification should be stale")
	}
}
