package bitap

import (
	"errors"
	"fmt"
)

var (
	// ErrNeedleTooLong is returned when a needle does not fit in a state word.
	ErrNeedleTooLong = errors.New("bitap: needle too long")
	// ErrUndefinedSymbol is returned when a symbol has no mask in the table.
	ErrUndefinedSymbol = errors.New("bitap: undefined symbol")
	// ErrInvalidDistance is returned for a negative or oversized edit budget.
	ErrInvalidDistance = errors.New("bitap: invalid distance")
)

// NeedleTooLongError reports the offending needle length.
type NeedleTooLongError struct {
	Len int
}

func (e *NeedleTooLongError) Error() string {
	return fmt.Sprintf("bitap: needle length %d exceeds %d symbols", e.Len, MaxNeedleLen)
}

func (e *NeedleTooLongError) Unwrap() error { return ErrNeedleTooLong }

// UndefinedSymbolError reports a symbol outside the declared alphabet.
//
// Pos is the 0-based index into the haystack, or into the needle when
// InNeedle is set.
type UndefinedSymbolError struct {
	Symbol   byte
	Pos      int
	InNeedle bool
}

func (e *UndefinedSymbolError) Error() string {
	where := "haystack"
	if e.InNeedle {
		where = "needle"
	}
	return fmt.Sprintf("bitap: undefined symbol %q at %s position %d", e.Symbol, where, e.Pos)
}

func (e *UndefinedSymbolError) Unwrap() error { return ErrUndefinedSymbol }

// InvalidDistanceError reports a rejected edit budget.
type InvalidDistanceError struct {
	K int
}

func (e *InvalidDistanceError) Error() string {
	if e.K < 0 {
		return fmt.Sprintf("bitap: distance %d is negative", e.K)
	}
	return fmt.Sprintf("bitap: distance %d exceeds %d", e.K, MaxDistance)
}

func (e *InvalidDistanceError) Unwrap() error { return ErrInvalidDistance }
