// Package validate checks ordering constraints between values expressed in
// possibly different units of the same catalog. Both sides are normalized
// to the catalog's base unit before comparison.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rshade/unitfield/internal/quantity"
	"github.com/rshade/unitfield/internal/units"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrRangeViolation indicates a failed comparison. The concrete error is a
// *RangeViolation carrying both operands.
const ErrRangeViolation = constError("range violation")

// Op is a comparison operator.
type Op int

const (
	// OpLT requires value < limit.
	OpLT Op = iota
	// OpLTE requires value <= limit.
	OpLTE
	// OpGT requires value > limit.
	OpGT
	// OpGTE requires value >= limit.
	OpGTE
)

// String returns the operator name used on the command line and in config.
func (o Op) String() string {
	switch o {
	case OpLT:
		return "lt"
	case OpLTE:
		return "lte"
	case OpGT:
		return "gt"
	case OpGTE:
		return "gte"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Symbol returns the mathematical symbol of the operator.
func (o Op) Symbol() string {
	switch o {
	case OpLT:
		return "<"
	case OpLTE:
		return "<="
	case OpGT:
		return ">"
	case OpGTE:
		return ">="
	default:
		return "?"
	}
}

// ParseOp accepts an operator name ("lte") or symbol ("<=").
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lt", "<":
		return OpLT, nil
	case "lte", "le", "<=":
		return OpLTE, nil
	case "gt", ">":
		return OpGT, nil
	case "gte", "ge", ">=":
		return OpGTE, nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", s)
	}
}

func (o Op) holds(value, limit float64) bool {
	switch o {
	case OpLT:
		return value < limit
	case OpLTE:
		return value <= limit
	case OpGT:
		return value > limit
	case OpGTE:
		return value >= limit
	default:
		return false
	}
}

func (o Op) phrase() string {
	switch o {
	case OpLT:
		return "has to be lower than"
	case OpLTE:
		return "has to be lower than or equal"
	case OpGT:
		return "has to be greater than"
	case OpGTE:
		return "has to be greater than or equal"
	default:
		return "has to compare " + o.String() + " to"
	}
}

// RangeViolation reports a comparison that did not hold. Value, Unit, Limit
// and LimitUnit are the operands as given, before normalization.
type RangeViolation struct {
	Op        Op
	Value     float64
	Unit      string
	Limit     float64
	LimitUnit string
}

func (e *RangeViolation) Error() string {
	return fmt.Sprintf("%s %s %s %s %s",
		formatOperand(e.Value), e.Unit, e.Op.phrase(), formatOperand(e.Limit), e.LimitUnit)
}

// Is makes errors.Is(err, ErrRangeViolation) hold.
func (e *RangeViolation) Is(target error) bool {
	return target == ErrRangeViolation
}

func formatOperand(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Check normalizes both operands and verifies value op limit.
//
// It returns a *RangeViolation when the comparison does not hold and
// units.ErrUnknownUnit when either unit is not in c.
func Check(op Op, c *units.Catalog, value float64, unit string, limit float64, limitUnit string) error {
	if op < OpLT || op > OpGTE {
		return fmt.Errorf("unknown comparison operator %s", op)
	}

	normalizedValue, err := units.Normalize(value, c, unit)
	if err != nil {
		return err
	}
	normalizedLimit, err := units.Normalize(limit, c, limitUnit)
	if err != nil {
		return err
	}

	if op.holds(normalizedValue, normalizedLimit) {
		return nil
	}
	return &RangeViolation{Op: op, Value: value, Unit: unit, Limit: limit, LimitUnit: limitUnit}
}

// LessThan verifies value < limit.
func LessThan(c *units.Catalog, value float64, unit string, limit float64, limitUnit string) error {
	return Check(OpLT, c, value, unit, limit, limitUnit)
}

// LessOrEqual verifies value <= limit.
func LessOrEqual(c *units.Catalog, value float64, unit string, limit float64, limitUnit string) error {
	return Check(OpLTE, c, value, unit, limit, limitUnit)
}

// GreaterThan verifies value > limit.
func GreaterThan(c *units.Catalog, value float64, unit string, limit float64, limitUnit string) error {
	return Check(OpGT, c, value, unit, limit, limitUnit)
}

// GreaterOrEqual verifies value >= limit.
func GreaterOrEqual(c *units.Catalog, value float64, unit string, limit float64, limitUnit string) error {
	return Check(OpGTE, c, value, unit, limit, limitUnit)
}

// Compare verifies a op b for two quantity values of the same catalog.
// A value without input compares as 0.
func Compare(op Op, a, b *quantity.Value) error {
	if a.Catalog() != b.Catalog() {
		return fmt.Errorf("%w: cannot compare %s with %s values",
			units.ErrConfiguration, catalogName(a.Catalog()), catalogName(b.Catalog()))
	}
	av, _ := a.Input()
	bv, _ := b.Input()
	return Check(op, a.Catalog(), av, a.UnitID(), bv, b.UnitID())
}

// Rule is a reusable constraint against a fixed limit.
type Rule struct {
	Op        Op      `yaml:"op" json:"op"`
	Limit     float64 `yaml:"limit" json:"limit"`
	LimitUnit string  `yaml:"unit" json:"unit"`
}

// Apply checks v against the rule's limit in v's catalog.
func (r Rule) Apply(v *quantity.Value) error {
	input, _ := v.Input()
	return Check(r.Op, v.Catalog(), input, v.UnitID(), r.Limit, r.LimitUnit)
}

// String formats the rule as "<= 10 cm".
func (r Rule) String() string {
	return fmt.Sprintf("%s %s %s", r.Op.Symbol(), formatOperand(r.Limit), r.LimitUnit)
}

func catalogName(c *units.Catalog) string {
	if c == nil {
		return "<nil>"
	}
	return c.Name()
}
