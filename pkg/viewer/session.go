package viewer

import (
	"github.com/m-mizutani/examresult/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Request is a fetch the session asks its owner to perform. The response must
// be handed back to Complete with the same Generation.
type Request struct {
	Generation uint64
	Query      model.ResultQuery
}

// Session holds the viewer state independent of any UI toolkit.
//
// Every fetch gets a new generation number. Only the response carrying the
// latest generation is applied; earlier responses are dropped no matter in
// which order they arrive.
type Session struct {
	rollNumber string
	semesterID string
	state      FetchState
	generation uint64
}

// NewSession returns a session with the first semester selected
func NewSession() *Session {
	return &Session{
		semesterID: model.DefaultSemesterID,
		state:      Idle{},
	}
}

func (s *Session) RollNumber() string {
	return s.rollNumber
}

// SetRollNumber updates the roll number without fetching
func (s *Session) SetRollNumber(v string) {
	s.rollNumber = v
}

// Semester returns the active semester
func (s *Session) Semester() model.Semester {
	sem, _ := model.SemesterByID(s.semesterID)
	return sem
}

func (s *Session) State() FetchState {
	return s.state
}

// Loading reports whether a fetch is in flight
func (s *Session) Loading() bool {
	_, ok := s.state.(Loading)
	return ok
}

// Artifact returns the current document, or nil. During Loading and after a
// failure this is the document that was shown before the fetch started.
func (s *Session) Artifact() *model.PdfArtifact {
	switch st := s.state.(type) {
	case Loaded:
		return st.Artifact
	case Loading:
		return st.Previous
	case Failed:
		return st.Previous
	default:
		return nil
	}
}

// SelectSemester activates semester id. With a roll number present it
// returns the fetch for that semester, otherwise nil.
func (s *Session) SelectSemester(id string) (*Request, error) {
	sem, ok := model.SemesterByID(id)
	if !ok {
		return nil, goerr.New("unknown semester", goerr.V("id", id))
	}
	s.semesterID = sem.ID

	if s.rollNumber == "" {
		return nil, nil
	}
	return s.fetch(sem.ExamID), nil
}

// Submit fetches the active semester again even if nothing changed. It
// returns nil without a roll number since the proxy would reject the query.
func (s *Session) Submit() *Request {
	if s.rollNumber == "" {
		return nil
	}
	return s.fetch(s.Semester().ExamID)
}

func (s *Session) fetch(examID string) *Request {
	s.generation++
	query := model.ResultQuery{RollNumber: s.rollNumber, ExamID: examID}
	s.state = Loading{
		Generation: s.generation,
		Query:      query,
		Previous:   s.Artifact(),
	}
	return &Request{Generation: s.generation, Query: query}
}

// Complete applies the outcome of request generation. It returns false and
// changes nothing when generation is not the latest request.
func (s *Session) Complete(generation uint64, artifact *model.PdfArtifact, err error) bool {
	loading, ok := s.state.(Loading)
	if !ok || loading.Generation != generation {
		return false
	}

	if err == nil && artifact == nil {
		err = goerr.New("empty response", goerr.V("exam_id", loading.Query.ExamID))
	}
	if err != nil {
		s.state = Failed{Err: err, Previous: loading.Previous}
		return true
	}

	s.state = Loaded{Artifact: artifact}
	return true
}
