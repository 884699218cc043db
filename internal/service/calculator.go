package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var ErrNotNumeric = errors.New("expression did not evaluate to a number")

// mathEnv is the only namespace visible to evaluated expressions.
var mathEnv = map[string]any{
	"pi":    math.Pi,
	"e":     math.E,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"pow":   math.Pow,
	"exp":   math.Exp,
	"log":   math.Log,
	"log10": math.Log10,
	"log2":  math.Log2,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"hypot": math.Hypot,
}

// Evaluator compiles and runs arithmetic expressions
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Compile parses expression against the math environment.
func (e *Evaluator) Compile(expression string) (*vm.Program, error) {
	expression = normalizeExpression(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty expression")
	}
	return expr.Compile(expression, expr.Env(mathEnv))
}

// Evaluate runs expression and formats the numeric result.
func (e *Evaluator) Evaluate(expression string) (string, error) {
	program, err := e.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("compile %q: %w", expression, err)
	}
	out, err := expr.Run(program, mathEnv)
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", expression, err)
	}
	return formatNumber(out)
}

func normalizeExpression(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`\"'")
	s = strings.TrimSuffix(s, "=")
	s = strings.NewReplacer("×", "*", "÷", "/", "−", "-").Replace(s)
	return strings.TrimSpace(s)
}

func formatNumber(v any) (string, error) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", fmt.Errorf("%w: %v", ErrNotNumeric, n)
		}
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}
