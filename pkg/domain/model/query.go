package model

import (
	"github.com/m-mizutani/examresult/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ResultQuery identifies one requested result document
type ResultQuery struct {
	RollNumber string `json:"roll_number" masq:"secret"`
	ExamID     string `json:"exam_id"`
}

// Validate checks that both identifiers are present. Content is not
// inspected beyond presence.
func (q ResultQuery) Validate() error {
	if q.RollNumber == "" || q.ExamID == "" {
		return goerr.New("missing rollNumber or examId",
			goerr.T(types.ErrTagMissingParameter),
			goerr.V("has_roll_number", q.RollNumber != ""),
			goerr.V("exam_id", q.ExamID),
		)
	}
	return nil
}
