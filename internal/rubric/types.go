package rubric

// #region course

// Course is one course a grader can select during session setup.
type Course struct {
	ID   string
	Name string
}

// #endregion

// #region assignment

// Assignment belongs to a course and may or may not carry a rubric.
type Assignment struct {
	ID        string
	Name      string
	CourseID  string
	HasRubric bool
}

// #endregion

// #region criterion

// Criterion is one gradable dimension of an assignment.
// The set is immutable once a session's rubric is chosen.
type Criterion struct {
	ID          string
	Name        string
	Description string
	MaxScore    int // always > 0
}

// #endregion

// #region submission

// Submission is one student artifact to be graded.
type Submission struct {
	ID           string
	AssignmentID string
	StudentName  string
	Content      string
	Graded       bool
}

// #endregion
