package promotion

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestApplyOperatorComparisons(t *testing.T) {
	cases := []struct {
		name  string
		op    Operator
		left  int64
		right int64
		want  bool
	}{
		{"equal", OperatorEqual, 100, 100, true},
		{"equal mismatch", OperatorEqual, 100, 101, false},
		{"not equal", OperatorNotEqual, 100, 101, true},
		{"greater than", OperatorGreaterThan, 101, 100, true},
		{"greater than equal boundary", OperatorGreaterThan, 100, 100, false},
		{"greater than or equal boundary", OperatorGreaterThanOrEqual, 100, 100, true},
		{"less than", OperatorLessThan, 99, 100, true},
		{"less than or equal boundary", OperatorLessThanOrEqual, 100, 100, true},
	}
	for _, tc := range cases {
		got, err := ApplyOperator(tc.op, decimal.NewFromInt(tc.left), decimal.NewFromInt(tc.right), nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestApplyOperatorBetweenInclusive(t *testing.T) {
	low := decimal.NewFromInt(100)
	high := decimal.NewFromInt(200)

	cases := []struct {
		name string
		left int64
		want bool
	}{
		{"below range", 99, false},
		{"lower boundary", 100, true},
		{"inside range", 150, true},
		{"upper boundary", 200, true},
		{"above range", 201, false},
	}
	for _, tc := range cases {
		got, err := ApplyOperator(OperatorBetween, decimal.NewFromInt(tc.left), low, &high)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: BETWEEN expected %v, got %v", tc.name, tc.want, got)
		}

		negated, err := ApplyOperator(OperatorNotBetween, decimal.NewFromInt(tc.left), low, &high)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if negated == got {
			t.Fatalf("%s: NOT_BETWEEN should negate BETWEEN", tc.name)
		}
	}
}

func TestApplyOperatorBetweenMissingBound(t *testing.T) {
	if _, err := ApplyOperator(OperatorBetween, decimal.NewFromInt(1), decimal.NewFromInt(0), nil); err == nil {
		t.Fatalf("expected error for BETWEEN without second bound")
	}
	if _, err := ApplyOperator(OperatorNotBetween, decimal.NewFromInt(1), decimal.NewFromInt(0), nil); err == nil {
		t.Fatalf("expected error for NOT_BETWEEN without second bound")
	}
}

func TestApplyOperatorUnsupported(t *testing.T) {
	if _, err := ApplyOperator(OperatorIn, decimal.NewFromInt(1), decimal.NewFromInt(1), nil); err == nil {
		t.Fatalf("expected error for set operator on numeric comparison")
	}
	if _, err := ApplyOperator(Operator("SOMETHING"), decimal.NewFromInt(1), decimal.NewFromInt(1), nil); err == nil {
		t.Fatalf("expected error for unknown operator")
	}
}
