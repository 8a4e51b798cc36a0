package model

// Semester is one entry of the fixed semester table
type Semester struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	ExamID string `json:"exam_id"`
}

// semesters is never handed out directly; callers receive copies.
var semesters = [...]Semester{
	{ID: "sem1", Label: "Semester 1", ExamID: "E20A39"},
	{ID: "sem2", Label: "Semester 2", ExamID: "F21A41"},
	{ID: "sem3", Label: "Semester 3", ExamID: "H21A02"},
	{ID: "sem4", Label: "Semester 4", ExamID: "I22A02"},
	{ID: "sem5", Label: "Semester 5", ExamID: "K22A02"},
	{ID: "sem6", Label: "Semester 6", ExamID: "M23A03"},
}

// DefaultSemesterID is the semester selected when the viewer starts
const DefaultSemesterID = "sem1"

// Semesters returns a copy of the semester table in display order
func Semesters() []Semester {
	out := make([]Semester, len(semesters))
	copy(out, semesters[:])
	return out
}

// SemesterByID looks up a semester by its id (e.g. "sem3")
func SemesterByID(id string) (Semester, bool) {
	for _, s := range semesters {
		if s.ID == id {
			return s, true
		}
	}
	return Semester{}, false
}

// SemesterByExamID looks up a semester by its exam schedule id
func SemesterByExamID(examID string) (Semester, bool) {
	for _, s := range semesters {
		if s.ExamID == examID {
			return s, true
		}
	}
	return Semester{}, false
}

// SemesterIndex returns the position of id in the table, or -1
func SemesterIndex(id string) int {
	for i, s := range semesters {
		if s.ID == id {
			return i
		}
	}
	return -1
}
