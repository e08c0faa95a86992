package khiopsdriver

import (
	"fmt"
	"strings"
)

// multiErr accumulates independent failures from a batch of otherwise
// unrelated operations (one AbortMultipartUpload per live Writer at
// disconnect time) into a single error, so a partial failure in one abort
// doesn't swallow failures in the others.
type multiErr struct {
	errs []error
}

func newMultiErr() *multiErr {
	return &multiErr{}
}

// append records err if it is non-nil and returns the multiErr for chaining.
func (m *multiErr) append(err error) *multiErr {
	if err != nil {
		m.errs = append(m.errs, err)
	}
	return m
}

// orNil returns nil if nothing was appended, otherwise an error describing
// every accumulated failure.
func (m *multiErr) orNil() error {
	if len(m.errs) == 0 {
		return nil
	}
	return m
}

func (m *multiErr) Error() string {
	parts := make([]string, len(m.errs))
	for i, e := range m.errs {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%d error(s): %s", len(m.errs), strings.Join(parts, "; "))
}

func (m *multiErr) Unwrap() []error { return m.errs }
