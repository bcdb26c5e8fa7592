package rtree

import (
	"fmt"

	"github.com/flier/goutil/pkg/xerrors"
)

// ConfigError reports that New/NewWithOptions were called with a
// capacity/minFill pair that violates 1 <= minFill and
// 2*minFill <= capacity+1. It's exported as a concrete type (rather than
// just a sentinel error) so callers that need to distinguish this from
// other constructor failures can recover it with IsConfigError.
type ConfigError struct {
	Capacity uint32
	MinFill  uint32
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rtree: invalid configuration: capacity=%d minFill=%d (need 1<=minFill and 2*minFill<=capacity+1)",
		e.Capacity, e.MinFill)
}

// IsConfigError reports whether err is (or wraps) a *ConfigError.
func IsConfigError(err error) (*ConfigError, bool) {
	return xerrors.AsA[*ConfigError](err)
}
