package campaign

import (
	"testing"

	"github.com/medreach/medreach/internal/domain/patient"
)

func TestSelect_StableOrder(t *testing.T) {
	snapshot := []*patient.Patient{
		testPatient("Carlos", bornIn(1950)),
		testPatient("Ana", bornIn(1960)),
		testPatient("Bo", bornIn(1990)),
		testPatient("Dana", bornIn(1955)),
	}
	rule := Criteria{
		Label:   "seniors",
		Message: "checkup due",
		Query:   SearchQuery{MinAge: intPtr(60)},
	}

	selected := Select(snapshot, rule, asOf)

	want := []string{"Carlos", "Ana", "Dana"}
	if len(selected) != len(want) {
		t.Fatalf("selected %d patients, want %d", len(selected), len(want))
	}
	for i, name := range want {
		if selected[i].Patient.Name != name {
			t.Errorf("position %d: got %q, want %q", i, selected[i].Patient.Name, name)
		}
		if selected[i].MatchedLabel != "seniors" {
			t.Errorf("position %d: label %q", i, selected[i].MatchedLabel)
		}
		if selected[i].Message != "checkup due" {
			t.Errorf("position %d: message %q", i, selected[i].Message)
		}
	}
}

func TestSelect_AndCombinesQueryAndText(t *testing.T) {
	snapshot := []*patient.Patient{
		testPatient("Ana Silva", bornIn(1950)),
		testPatient("Ana Souza", bornIn(1990)),
		testPatient("Bo Silva", bornIn(1950)),
	}
	rule := Criteria{
		Label:   "silva seniors",
		Message: "m",
		Query:   SearchQuery{MinAge: intPtr(60)},
		Text:    "silva",
	}

	selected := Select(snapshot, rule, asOf)

	// "Ana Souza" fails the text predicate, "Ana Silva" and "Bo Silva" pass
	// both. The label itself contains "silva" but the query still gates.
	want := []string{"Ana Silva", "Bo Silva"}
	if len(selected) != len(want) {
		t.Fatalf("selected %d, want %d", len(selected), len(want))
	}
	for i, name := range want {
		if selected[i].Patient.Name != name {
			t.Errorf("position %d: got %q", i, selected[i].Patient.Name)
		}
	}
}

func TestSelect_EmptyResult(t *testing.T) {
	snapshot := []*patient.Patient{testPatient("Ana", bornIn(1990))}
	rule := Criteria{Label: "none", Message: "m", Query: SearchQuery{MinAge: intPtr(99)}}

	selected := Select(snapshot, rule, asOf)
	if selected == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(selected) != 0 {
		t.Fatalf("expected no selections, got %d", len(selected))
	}
}

func TestSelect_EmptySnapshot(t *testing.T) {
	selected := Select(nil, Criteria{Label: "l", Message: "m"}, asOf)
	if len(selected) != 0 {
		t.Fatalf("expected no selections, got %d", len(selected))
	}
}
