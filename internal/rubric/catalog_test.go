package rubric

import "testing"

func TestAssignmentsFor(t *testing.T) {
	got := AssignmentsFor("lit205")
	if len(got) != 2 {
		t.Fatalf("assignments = %d, want 2", len(got))
	}
	for _, a := range got {
		if a.CourseID != "lit205" {
			t.Errorf("assignment %s belongs to %s", a.ID, a.CourseID)
		}
	}
	if extra := AssignmentsFor("nope"); len(extra) != 0 {
		t.Errorf("unknown course returned %d assignments", len(extra))
	}
}

func TestRubricFor(t *testing.T) {
	criteria := RubricFor("lit205-e1")
	if len(criteria) != 5 {
		t.Fatalf("criteria = %d, want 5", len(criteria))
	}
	// hist301-p1 is in the catalog but has no rubric.
	if RubricFor("hist301-p1") != nil {
		t.Error("rubric returned for assignment without one")
	}
}

func TestSubmissionsForReturnsCopies(t *testing.T) {
	first := SubmissionsFor("lit205-e1")
	if len(first) == 0 {
		t.Fatal("no submissions")
	}
	first[0].Graded = true
	first[0].StudentName = "Mutated"

	second := SubmissionsFor("lit205-e1")
	if second[0].Graded || second[0].StudentName == "Mutated" {
		t.Error("catalog state leaked through returned slice")
	}
}
