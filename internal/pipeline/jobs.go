package pipeline

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
)

// Per-document status values reported in multi-document results.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusTimeout   = "timeout"
)

// job tracks one document of a multi-document batch.
type job struct {
	upload Upload
	hash   string
	pages  int

	// dupOf is the index of an earlier job with identical bytes, or -1.
	dupOf int

	analysis *Analysis
	err      error
}

// newJobs builds one job per upload. Uploads with identical content are
// linked to the first occurrence so they are extracted once.
func newJobs(uploads []Upload) []*job {
	jobs := make([]*job, len(uploads))
	first := make(map[string]int, len(uploads))
	for i, up := range uploads {
		h := ContentHashHex(up.Data)
		j := &job{upload: up, hash: h, dupOf: -1}
		if idx, ok := first[h]; ok {
			j.dupOf = idx
		} else {
			first[h] = i
		}
		jobs[i] = j
	}
	return jobs
}

// resolveDuplicates copies the outcome of each original onto its duplicates.
func resolveDuplicates(jobs []*job) {
	for _, j := range jobs {
		if j.dupOf < 0 {
			continue
		}
		src := jobs[j.dupOf]
		if src.err != nil {
			var de *DocumentError
			if errors.As(src.err, &de) {
				j.err = &DocumentError{Document: j.upload.Name, Err: de.Err}
			} else {
				j.err = &DocumentError{Document: j.upload.Name, Err: src.err}
			}
			continue
		}
		j.analysis = src.analysis.renamed(j.upload.Name)
	}
}

// status reports the job outcome for the response.
func (j *job) status() doctree.DocumentStatus {
	st := doctree.DocumentStatus{
		DocumentName: j.upload.Name,
		Status:       StatusCompleted,
		TotalPages:   j.pages,
	}
	switch {
	case j.err != nil && errors.Is(j.err, ErrExtractionTimeout):
		st.Status = StatusTimeout
		st.Error = rootMessage(j.err)
	case j.err != nil:
		st.Status = StatusFailed
		st.Error = rootMessage(j.err)
	default:
		st.Sections = len(j.analysis.Sections)
		if j.analysis.Outline.TotalPages > 0 {
			st.TotalPages = j.analysis.Outline.TotalPages
		}
	}
	return st
}

// rootMessage drops the document name prefix already present in the status.
func rootMessage(err error) string {
	var de *DocumentError
	if errors.As(err, &de) {
		return de.Err.Error()
	}
	return err.Error()
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
