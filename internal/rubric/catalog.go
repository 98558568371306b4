package rubric

// Built-in catalog used by cmd/grader and the replay harness. Stands in for a
// real course/assignment data source, which is outside the session core.

// #region courses

var Courses = []Course{
	{ID: "cs101", Name: "CS101 - Introduction to Computer Science"},
	{ID: "lit205", Name: "LIT205 - American Literature Since 1900"},
	{ID: "hist301", Name: "HIST301 - World History: Modern Era"},
}

var Assignments = []Assignment{
	{ID: "cs101-a1", Name: "Lab Report 1: Data Structures", CourseID: "cs101", HasRubric: true},
	{ID: "lit205-e1", Name: "Essay 1: Modernism in Fiction", CourseID: "lit205", HasRubric: true},
	{ID: "lit205-e2", Name: "Essay 2: Post-War American Poetry Analysis", CourseID: "lit205", HasRubric: true},
	{ID: "hist301-p1", Name: "Research Project Proposal", CourseID: "hist301", HasRubric: false},
}

// #endregion

// #region rubrics

var Rubrics = map[string][]Criterion{
	"lit205-e1": {
		{ID: "crit1", Name: "Thesis Clarity & Development", Description: "Clarity and originality of the thesis statement, and its sustained development.", MaxScore: 5},
		{ID: "crit2", Name: "Argumentation & Evidence", Description: "Strength of arguments, logical flow, and effective use of textual evidence.", MaxScore: 5},
		{ID: "crit3", Name: "Analysis & Interpretation", Description: "Depth of literary analysis and insightfulness of interpretations.", MaxScore: 5},
		{ID: "crit4", Name: "Organization & Structure", Description: "Coherence, paragraph structure, transitions, and framing.", MaxScore: 4},
		{ID: "crit5", Name: "Language & Style", Description: "Clarity, precision of language, grammar, and academic conventions.", MaxScore: 3},
	},
	"lit205-e2": {
		{ID: "crit1", Name: "Interpretive Depth", Description: "How deeply the student explores the poem's themes and techniques.", MaxScore: 10},
		{ID: "crit2", Name: "Contextual Awareness", Description: "Understanding of the historical and literary context of the chosen poem.", MaxScore: 8},
		{ID: "crit3", Name: "Textual Support", Description: "Effective integration and analysis of specific lines and stanzas.", MaxScore: 7},
	},
	"cs101-a1": {
		{ID: "cs-crit1", Name: "Code Correctness", Description: "Accuracy and functionality of the implemented code.", MaxScore: 10},
		{ID: "cs-crit2", Name: "Algorithm Efficiency", Description: "Optimization and efficiency of chosen algorithms.", MaxScore: 8},
		{ID: "cs-crit3", Name: "Documentation & Comments", Description: "Clarity and thoroughness of comments and documentation.", MaxScore: 7},
	},
}

// #endregion

// #region submissions

var Submissions = map[string][]Submission{
	"lit205-e1": {
		{ID: "sub1", AssignmentID: "lit205-e1", StudentName: "Alice Smith",
			Content: "The Great Gatsby is a profound exploration of the American Dream's corruption. Gatsby's relentless pursuit of wealth, driven by his desire to win back Daisy, exemplifies this decline. The green light at the end of Daisy's dock becomes a powerful symbol of his longing and the elusive nature of his dream."},
		{ID: "sub2", AssignmentID: "lit205-e1", StudentName: "Bob Johnson",
			Content: "Fitzgerald critiques the superficiality of the Jazz Age and the illusion of the American Dream. Gatsby's wealth accumulation is solely for Daisy, but his methods link him to the criminal underworld. The Valley of Ashes starkly contrasts with the opulence of the Eggs."},
		{ID: "sub3", AssignmentID: "lit205-e1", StudentName: "Charlie Brown",
			Content: "The Great Gatsby explores themes of wealth, class, and the elusive American Dream. The symbolism, especially the green light and the eyes of Doctor T.J. Eckleburg, adds layers of meaning. The tragic conclusion underscores Fitzgerald's critique of the era's excesses."},
		{ID: "sub4", AssignmentID: "lit205-e1", StudentName: "Diana Prince",
			Content: "Fitzgerald masterfully dissects the perversion of the American Dream, using Gatsby's doomed obsession with Daisy as its tragic centerpiece. His monumental efforts to amass wealth are solely a beacon for a woman he idealizes beyond reality. The prose is evocative, drawing the reader deeply into the Jazz Age."},
		{ID: "sub5", AssignmentID: "lit205-e1", StudentName: "Eve Taylor",
			Content: "The Great Gatsby is a novel by F. Scott Fitzgerald. It tells the story of Jay Gatsby, a rich man who loves Daisy. The book talks about the American Dream and how it changed. The green light is a symbol of Gatsby's hope. The story ends sadly."},
		{ID: "sub6", AssignmentID: "lit205-e1", StudentName: "Frank White",
			Content: "Gatsby's transformation from impoverished idealist to wealthy bootlegger highlights the era's conflation of success with material accumulation. His mansion and parties are elaborate traps, meticulously constructed to lure Daisy, exposing his profound loneliness."},
	},
}

// #endregion

// #region lookups

// AssignmentsFor returns the assignments belonging to a course.
func AssignmentsFor(courseID string) []Assignment {
	var out []Assignment
	for _, a := range Assignments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out
}

// RubricFor returns the rubric for an assignment, or nil if it has none.
func RubricFor(assignmentID string) []Criterion {
	return Rubrics[assignmentID]
}

// SubmissionsFor returns fresh copies of an assignment's submissions,
// so a session reset never leaks graded flags back into the catalog.
func SubmissionsFor(assignmentID string) []Submission {
	src := Submissions[assignmentID]
	out := make([]Submission, len(src))
	copy(out, src)
	return out
}

// #endregion
