package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/unitfield/internal/validate"
)

// defaultCheckExitCode is the exit code of a failed check.
const defaultCheckExitCode = 1

// CheckExitError carries the exit code of a failed range check to main.
type CheckExitError struct {
	ExitCode  int
	Violation *validate.RangeViolation
}

func (e *CheckExitError) Error() string {
	return e.Violation.Error()
}

// Unwrap exposes the violation to errors.Is and errors.As.
func (e *CheckExitError) Unwrap() error {
	return e.Violation
}

// checkResult is the JSON form of a check.
type checkResult struct {
	OK      bool   `json:"ok"`
	Catalog string `json:"catalog"`
	Rule    string `json:"rule"`
	Message string `json:"message,omitempty"`
}

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var (
		catalogName string
		exitCode    int
	)

	cmd := &cobra.Command{
		Use:   "check <value> <unit> <op> <limit> <limit-unit>",
		Short: "Check a value against a limit in possibly another unit",
		Long: `Normalizes the value and the limit to the catalog's base unit and checks
that "value op limit" holds. op is one of lt, lte, gt, gte (or <, <=, >, >=).

A violated check prints the violation and exits with --exit-code.`,
		Example: `  unitfield check 11 cm lte 10 cm
  unitfield check 90 min lt 2 h
  unitfield check 50 F gte 0 C --exit-code 3`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			if exitCode < 1 || exitCode > 255 {
				return fmt.Errorf("exit-code must be between 1 and 255, got %d", exitCode)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			value, err := s.parseNumber(args[0])
			if err != nil {
				return err
			}
			op, err := validate.ParseOp(args[2])
			if err != nil {
				return err
			}
			limit, err := s.parseNumber(args[3])
			if err != nil {
				return err
			}
			unit, limitUnit := args[1], args[4]
			c, err := s.catalog(catalogName, unit, limitUnit)
			if err != nil {
				return err
			}

			rule := validate.Rule{Op: op, Limit: limit, LimitUnit: limitUnit}
			checkErr := validate.Check(op, c, value, unit, limit, limitUnit)

			var violation *validate.RangeViolation
			if checkErr != nil && !errors.As(checkErr, &violation) {
				return checkErr
			}

			result := checkResult{OK: violation == nil, Catalog: c.Name(), Rule: rule.String()}
			if violation != nil {
				result.Message = violation.Error()
			}
			if err := s.writeCheck(cmd, result, value, unit); err != nil {
				return err
			}

			if violation != nil {
				cmd.SilenceUsage = true
				return &CheckExitError{ExitCode: exitCode, Violation: violation}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogName, "catalog", "c", "", "catalog name (inferred from the units when omitted)")
	cmd.Flags().IntVar(&exitCode, "exit-code", defaultCheckExitCode, "exit code when the check fails (1-255)")
	return cmd
}

func (s *session) writeCheck(cmd *cobra.Command, result checkResult, value float64, unit string) error {
	w := cmd.OutOrStdout()
	if s.json() {
		return writeJSON(w, result)
	}
	if !result.OK {
		_, err := fmt.Fprintf(w, "FAIL: %s\n", result.Message)
		return err
	}
	_, err := fmt.Fprintf(w, "OK: %s %s %s\n", s.formatter.Number(value), unit, result.Rule)
	return err
}
