package units

import "fmt"

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Error types for unit catalogs and conversions.
// These are sentinel errors that can be compared with errors.Is().
var (
	// ErrUnknownUnit indicates a unit id that is absent from the catalog.
	ErrUnknownUnit = constError("unknown unit")

	// ErrConfiguration indicates a catalog authoring defect: a missing or duplicated
	// base unit, or a nonlinear unit used where an inverse function is required.
	ErrConfiguration = constError("unit catalog configuration error")

	// ErrCalculationOverflow indicates a non-finite input or result.
	ErrCalculationOverflow = constError("calculation overflow")
)

// UnknownUnitError reports which unit id was missing from which catalog.
type UnknownUnitError struct {
	Catalog string
	UnitID  string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("%s %q in catalog %q", ErrUnknownUnit, e.UnitID, e.Catalog)
}

// Is makes errors.Is(err, ErrUnknownUnit) hold.
func (e *UnknownUnitError) Is(target error) bool {
	return target == ErrUnknownUnit
}

func unknownUnit(c *Catalog, id string) error {
	return &UnknownUnitError{Catalog: c.Name(), UnitID: id}
}

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
