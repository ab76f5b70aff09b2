package service

import (
	"errors"
	"math"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"gorm.io/gorm"
)

// weightEpsilon is the tolerance for the floating-point weight-sum comparison.
const weightEpsilon = 1e-9

func weightsSumToTotal(sum, total float64) bool {
	return math.Abs(sum-total) <= weightEpsilon
}

// wrapFind maps a gorm lookup failure to a not-found error with context, and
// anything else to a storage error.
func wrapFind(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return apperr.Storage(err)
}

// asAppErr passes typed errors through and wraps anything else as storage.
func asAppErr(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Storage(err)
}

func asAppErrOrNil(err error) error {
	if err == nil {
		return nil
	}
	return asAppErr(err)
}
