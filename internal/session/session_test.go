package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSession_Lifecycle(t *testing.T) {
	s := New(nil)

	var seen []Transition
	s.OnTransition(func(tr Transition) { seen = append(seen, tr) })

	if s.Authenticated() {
		t.Fatalf("fresh session should be anonymous")
	}

	s.Login("tok-1")
	if !s.Authenticated() || s.Token() != "tok-1" {
		t.Fatalf("login state not applied")
	}

	s.Logout()
	if s.Authenticated() || s.Token() != "" {
		t.Fatalf("logout state not applied")
	}

	s.Hydrate("tok-2")
	if !s.Authenticated() || s.Token() != "tok-2" {
		t.Fatalf("hydrate state not applied")
	}

	want := []Transition{LoginSuccess, LoggedOut, Hydrated}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("transition sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_StateAppliedBeforeObserversRun(t *testing.T) {
	s := New(nil)

	var tokenDuringCallback string
	s.OnTransition(func(Transition) { tokenDuringCallback = s.Token() })

	s.Login("tok-1")

	if tokenDuringCallback != "tok-1" {
		t.Fatalf("observer saw token %q, want tok-1", tokenDuringCallback)
	}
}
