package model

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

// ContentTypePDF is the content type of every artifact served by the proxy
const ContentTypePDF = "application/pdf"

// PdfArtifact is a result document as returned by the report server.
// Data is passed through untouched.
type PdfArtifact struct {
	ExamID      string
	ContentType string
	Data        []byte
}

// NewPdfArtifact creates an artifact for examID holding data
func NewPdfArtifact(examID string, data []byte) *PdfArtifact {
	return &PdfArtifact{
		ExamID:      examID,
		ContentType: ContentTypePDF,
		Data:        data,
	}
}

// Size returns the body length in bytes
func (a *PdfArtifact) Size() int {
	return len(a.Data)
}

// Filename returns the attachment name, exam_result_<examId>.pdf. Characters
// outside [A-Za-z0-9._-] are replaced so the name is safe in a header.
func (a *PdfArtifact) Filename() string {
	return ResultFilename(a.ExamID)
}

// PDFVersion returns the version from the "%PDF-x.y" header line, or "" when
// the data does not start with one.
func (a *PdfArtifact) PDFVersion() string {
	const magic = "%PDF-"
	if !bytes.HasPrefix(a.Data, []byte(magic)) {
		return ""
	}
	rest := a.Data[len(magic):]
	end := bytes.IndexAny(rest, "\r\n \t%")
	if end < 0 {
		end = len(rest)
	}
	if end > 8 {
		end = 8
	}
	return string(rest[:end])
}

var pageCountPattern = regexp.MustCompile(`/Type\s*/Pages\b[^>]*?/Count\s+(\d+)|/Count\s+(\d+)[^>]*?/Type\s*/Pages\b`)

// PageCount estimates the number of pages from the uncompressed page tree.
// It returns 0 when no page tree node is readable, e.g. when object streams
// are compressed.
func (a *PdfArtifact) PageCount() int {
	count := 0
	for _, m := range pageCountPattern.FindAllSubmatch(a.Data, -1) {
		raw := m[1]
		if len(raw) == 0 {
			raw = m[2]
		}
		if n, err := strconv.Atoi(string(raw)); err == nil && n > count {
			count = n
		}
	}
	return count
}

// ResultFilename builds the download filename for examID
func ResultFilename(examID string) string {
	return "exam_result_" + sanitizeFilename(examID) + ".pdf"
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
