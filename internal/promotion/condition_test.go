package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeSpend struct {
	byUser   map[string]decimal.Decimal
	byStore  map[string]decimal.Decimal
	byTenant map[string]decimal.Decimal
}

func (f *fakeSpend) SumPaidByUser(userID string) (decimal.Decimal, error) {
	return f.byUser[userID], nil
}

func (f *fakeSpend) SumPaidByStore(storeID string) (decimal.Decimal, error) {
	return f.byStore[storeID], nil
}

func (f *fakeSpend) SumPaidByTenant(tenantID string) (decimal.Decimal, error) {
	return f.byTenant[tenantID], nil
}

func testOrderContext() *OrderContext {
	return &OrderContext{
		SubTotal:    decimal.NewFromInt(500000),
		StoreID:     "store-1",
		TenantID:    "tenant-1",
		UserID:      "user-1",
		TotalWasher: 1,
		OrderTime:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Location:    time.UTC,
	}
}

func TestCheckAllEmptyConditions(t *testing.T) {
	checker := NewConditionChecker(nil)
	ok, err := checker.CheckAll(nil, testOrderContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("empty condition set should always hold")
	}
}

func TestCheckAllStopsOnFirstMiss(t *testing.T) {
	checker := NewConditionChecker(nil)
	conditions := []Condition{
		{Type: ConditionStores, Operator: OperatorIn, Value: []interface{}{"store-other"}},
		{Type: ConditionTotalAmount, Operator: OperatorGreaterThan, Value: 1},
	}
	ok, err := checker.CheckAll(conditions, testOrderContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("AND chain should fail when any condition misses")
	}
}

func TestCheckTenantsMembership(t *testing.T) {
	checker := NewConditionChecker(nil)
	ctx := testOrderContext()

	cond := Condition{Type: ConditionTenants, Operator: OperatorIn, Value: []interface{}{"tenant-1", "tenant-2"}}
	ok, err := checker.Check(cond, ctx)
	if err != nil || !ok {
		t.Fatalf("expected tenant IN hit, got ok=%v err=%v", ok, err)
	}

	cond.Operator = OperatorNotIn
	ok, err = checker.Check(cond, ctx)
	if err != nil || ok {
		t.Fatalf("expected tenant NOT_IN miss, got ok=%v err=%v", ok, err)
	}
}

func TestCheckTenantsWithoutTenant(t *testing.T) {
	checker := NewConditionChecker(nil)
	ctx := testOrderContext()
	ctx.TenantID = ""

	cond := Condition{Type: ConditionTenants, Operator: OperatorIn, Value: []interface{}{"tenant-1"}}
	ok, err := checker.Check(cond, ctx)
	if err != nil || ok {
		t.Fatalf("order without tenant should miss IN, got ok=%v err=%v", ok, err)
	}

	cond.Operator = OperatorNotIn
	ok, err = checker.Check(cond, ctx)
	if err != nil || !ok {
		t.Fatalf("order without tenant should satisfy NOT_IN, got ok=%v err=%v", ok, err)
	}
}

func TestCheckTotalAmountThreshold(t *testing.T) {
	checker := NewConditionChecker(nil)
	ctx := testOrderContext()

	cond := Condition{Type: ConditionTotalAmount, Operator: OperatorGreaterThanOrEqual, Value: 500000}
	ok, err := checker.Check(cond, ctx)
	if err != nil || !ok {
		t.Fatalf("subtotal at threshold should satisfy >=, got ok=%v err=%v", ok, err)
	}

	cond.Value = 500001
	ok, err = checker.Check(cond, ctx)
	if err != nil || ok {
		t.Fatalf("subtotal below threshold should miss, got ok=%v err=%v", ok, err)
	}
}

func TestCheckTotalAmountBetween(t *testing.T) {
	checker := NewConditionChecker(nil)
	ctx := testOrderContext()

	cond := Condition{
		Type:     ConditionTotalAmount,
		Operator: OperatorBetween,
		Value:    []interface{}{400000, 600000},
	}
	ok, err := checker.Check(cond, ctx)
	if err != nil || !ok {
		t.Fatalf("subtotal inside range should satisfy BETWEEN, got ok=%v err=%v", ok, err)
	}

	cond.Value = []interface{}{400000}
	if _, err := checker.Check(cond, ctx); err == nil {
		t.Fatalf("expected error for BETWEEN without a value pair")
	}
}

func TestCheckMachineTypes(t *testing.T) {
	checker := NewConditionChecker(nil)
	ctx := testOrderContext()
	ctx.TotalWasher = 2
	ctx.TotalDryer = 0

	cond := Condition{Type: ConditionMachineTypes, Operator: OperatorIn, Value: []interface{}{"WASHER"}}
	ok, err := checker.Check(cond, ctx)
	if err != nil || !ok {
		t.Fatalf("washer order should hit WASHER IN, got ok=%v err=%v", ok, err)
	}

	cond.Value = []interface{}{"DRYER"}
	ok, err = checker.Check(cond, ctx)
	if err != nil || ok {
		t.Fatalf("washer-only order should miss DRYER IN, got ok=%v err=%v", ok, err)
	}

	cond.Operator = OperatorNotIn
	ok, err = checker.Check(cond, ctx)
	if err != nil || !ok {
		t.Fatalf("washer-only order should satisfy DRYER NOT_IN, got ok=%v err=%v", ok, err)
	}

	ctx.TotalDryer = 1
	ok, err = checker.Check(cond, ctx)
	if err != nil || ok {
		t.Fatalf("mixed order uses a dryer, should miss DRYER NOT_IN, got ok=%v err=%v", ok, err)
	}
}

func TestCheckTimeInDay(t *testing.T) {
	checker := NewConditionChecker(nil)
	ctx := testOrderContext()

	cond := Condition{
		Type:     ConditionTimeInDay,
		Operator: OperatorBetween,
		Value:    []interface{}{"2024-01-01T08:00:00Z", "2024-01-01T18:00:00Z"},
	}
	ok, err := checker.Check(cond, ctx)
	if err != nil || !ok {
		t.Fatalf("noon order should hit 08:00-18:00 window, got ok=%v err=%v", ok, err)
	}

	ctx.OrderTime = time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	ok, err = checker.Check(cond, ctx)
	if err != nil || ok {
		t.Fatalf("evening order should miss the window, got ok=%v err=%v", ok, err)
	}

	cond.Operator = OperatorNotBetween
	ok, err = checker.Check(cond, ctx)
	if err != nil || !ok {
		t.Fatalf("evening order should satisfy NOT_BETWEEN, got ok=%v err=%v", ok, err)
	}
}

func TestCheckTimeInDayUsesLocation(t *testing.T) {
	checker := NewConditionChecker(nil)
	loc := time.FixedZone("ICT", 7*3600)

	ctx := testOrderContext()
	ctx.Location = loc
	// 03:00 UTC 对应当地 10:00
	ctx.OrderTime = time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)

	cond := Condition{
		Type:     ConditionTimeInDay,
		Operator: OperatorBetween,
		Value:    []interface{}{"2024-01-01T08:00:00+07:00", "2024-01-01T12:00:00+07:00"},
	}
	ok, err := checker.Check(cond, ctx)
	if err != nil || !ok {
		t.Fatalf("local clock should decide the window, got ok=%v err=%v", ok, err)
	}
}

func TestCheckAmountPerUser(t *testing.T) {
	spend := &fakeSpend{byUser: map[string]decimal.Decimal{"user-1": decimal.NewFromInt(2000000)}}
	checker := NewConditionChecker(spend)
	ctx := testOrderContext()

	cond := Condition{Type: ConditionAmountPerUser, Operator: OperatorGreaterThanOrEqual, Value: 1000000}
	ok, err := checker.Check(cond, ctx)
	if err != nil || !ok {
		t.Fatalf("spend above threshold should satisfy, got ok=%v err=%v", ok, err)
	}

	cond.Value = 3000000
	ok, err = checker.Check(cond, ctx)
	if err != nil || ok {
		t.Fatalf("spend below threshold should miss, got ok=%v err=%v", ok, err)
	}

	ctx.UserID = ""
	ok, err = checker.Check(cond, ctx)
	if err != nil || ok {
		t.Fatalf("anonymous order should miss AMOUNT_PER_USER, got ok=%v err=%v", ok, err)
	}
}

func TestCheckAmountConditionsRequireSpendHistory(t *testing.T) {
	checker := NewConditionChecker(nil)
	ctx := testOrderContext()

	for _, condType := range []ConditionType{ConditionAmountPerUser, ConditionAmountPerStore, ConditionAmountPerTenant} {
		cond := Condition{Type: condType, Operator: OperatorGreaterThan, Value: 1}
		if _, err := checker.Check(cond, ctx); err == nil {
			t.Fatalf("%s without spend history should return error", condType)
		}
	}
}

func TestCheckUnknownConditionType(t *testing.T) {
	checker := NewConditionChecker(nil)
	ok, err := checker.Check(Condition{Type: ConditionType("MYSTERY"), Operator: OperatorIn, Value: "x"}, testOrderContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("unknown condition type should not be satisfied")
	}
}

func TestValidateCondition(t *testing.T) {
	valid := Condition{Type: ConditionTotalAmount, Operator: OperatorGreaterThan, Value: 100}
	if err := ValidateCondition(valid); err != nil {
		t.Fatalf("valid condition rejected: %v", err)
	}

	if err := ValidateCondition(Condition{Type: ConditionTenants, Operator: OperatorGreaterThan, Value: "t"}); err == nil {
		t.Fatalf("comparison operator on set condition should be rejected")
	}
	if err := ValidateCondition(Condition{Type: ConditionType("MYSTERY"), Operator: OperatorIn, Value: "x"}); err == nil {
		t.Fatalf("unknown condition type should be rejected")
	}
	if err := ValidateCondition(Condition{Type: ConditionTotalAmount, Operator: OperatorBetween, Value: []interface{}{100}}); err == nil {
		t.Fatalf("BETWEEN without a pair should be rejected")
	}
}
