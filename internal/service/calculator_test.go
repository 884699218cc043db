package service_test

import (
	"testing"

	"github.com/askagent/askagent/internal/service"
)

func TestEvaluator(t *testing.T) {
	e := service.NewEvaluator()

	tests := []struct {
		expr string
		want string
	}{
		{"2+2", "4"},
		{"10*5/2", "25"},
		{"(3 + 4) * 2", "14"},
		{"2 ** 10", "1024"},
		{"7 % 3", "1"},
		{"1/4", "0.25"},
		{" `6 × 7` ", "42"},
		{"9 - 12 =", "-3"},
		{"pi > 3 ? 1 : 0", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluatorRejects(t *testing.T) {
	e := service.NewEvaluator()

	bad := []string{
		"",
		"What is 2+2?",
		"unknownVar * 2",
		"1/0",
		`"text"`,
		"2 > 1",
	}
	for _, in := range bad {
		if got, err := e.Evaluate(in); err == nil {
			t.Errorf("Evaluate(%q) = %q, expected error", in, got)
		}
	}
}
