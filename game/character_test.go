package game

import (
	"sort"
	"testing"
)

func TestLookupCharacter(t *testing.T) {
	if _, ok := LookupCharacter("Frodo"); !ok {
		t.Errorf("error")
	}
	if _, ok := LookupCharacter("Saruman"); ok {
		t.Errorf("error")
	}
}

func TestBaseName(t *testing.T) {
	if BaseName("Frodo (Burdened)") != "Frodo" {
		t.Errorf("error")
	}
	if BaseName("Sam (Burdened)") != "Sam" {
		t.Errorf("error")
	}
	if BaseName("Gandalf") != "Gandalf" {
		t.Errorf("error")
	}
	if BaseName("Saruman") != "Saruman" {
		t.Errorf("error")
	}
}

func TestCharacterNames(t *testing.T) {
	names := CharacterNames()
	if !sort.StringsAreSorted(names) {
		t.Errorf("error")
	}
	found := false
	for _, n := range names {
		if n == "Frodo" {
			found = true
		}
	}
	if !found {
		t.Errorf("error")
	}
}

func TestDefaultPool(t *testing.T) {
	for _, name := range DefaultPool {
		if _, ok := LookupCharacter(name); !ok {
			t.Errorf("unknown %s", name)
		}
		if name == "Frodo" {
			t.Errorf("error")
		}
	}
}

func TestLookupRider(t *testing.T) {
	if _, ok := LookupRider("Swift Passage"); !ok {
		t.Errorf("error")
	}
	if _, ok := LookupRider("Shortcut"); ok {
		t.Errorf("error")
	}
}
