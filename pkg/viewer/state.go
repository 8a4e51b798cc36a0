package viewer

import "github.com/m-mizutani/examresult/pkg/domain/model"

// FetchState is one of Idle, Loading, Loaded or Failed
type FetchState interface {
	isFetchState()
}

// Idle is the initial state: nothing fetched yet
type Idle struct{}

// Loading waits for the response of request Generation. Previous is the
// artifact that was on screen before and is restored if the fetch fails.
type Loading struct {
	Generation uint64
	Query      model.ResultQuery
	Previous   *model.PdfArtifact
}

// Loaded holds the artifact of the latest successful fetch
type Loaded struct {
	Artifact *model.PdfArtifact
}

// Failed keeps the error of the latest fetch and the artifact shown before it
type Failed struct {
	Err      error
	Previous *model.PdfArtifact
}

func (Idle) isFetchState()    {}
func (Loading) isFetchState() {}
func (Loaded) isFetchState()  {}
func (Failed) isFetchState()  {}
