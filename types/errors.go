package types

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable means no scoring source could be initialized; nothing is tagged.
var ErrModelUnavailable = errors.New("tagging model is not available")

// OracleContractViolation is returned when a source yields a distribution
// sequence that is not aligned with the sentence it scored.
type OracleContractViolation struct {
	Source   string
	Expected int
	Got      int
}

func (e *OracleContractViolation) Error() string {
	return fmt.Sprintf("source %q returned %d distributions for a sentence of %d tokens",
		e.Source, e.Got, e.Expected)
}
