package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OrderStatus
		wantErr bool
	}{
		{"точное имя", "Pendente", StatusPendente, false},
		{"нижний регистр", "pendente", StatusPendente, false},
		{"верхний регистр", "ENTREGUE", StatusEntregue, false},
		{"смешанный регистр", "emlavagem", StatusEmLavagem, false},
		{"ProntoParaEntrega", "prontoparaentrega", StatusProntoParaEntrega, false},
		{"Cancelado", "Cancelado", StatusCancelado, false},
		{"неизвестный статус", "Perdido", "", true},
		{"пустая строка", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOrderStatus(%q) не вернул ошибку", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOrderStatus(%q) вернул ошибку: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseOrderStatus(%q) = %q, ожидается %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOrderStatus_CanCancel(t *testing.T) {
	if !StatusPendente.CanCancel() {
		t.Error("Pendente.CanCancel() = false, ожидается true")
	}

	for _, st := range []OrderStatus{
		StatusRecolhido, StatusEmLavagem, StatusProntoParaEntrega,
		StatusEntregue, StatusCancelado,
	} {
		if st.CanCancel() {
			t.Errorf("%s.CanCancel() = true, ожидается false", st)
		}
	}
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := &OrderItem{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("2.50"),
	}

	want := decimal.RequireFromString("7.50")
	if !item.Subtotal().Equal(want) {
		t.Errorf("Subtotal() = %s, ожидается %s", item.Subtotal(), want)
	}
}

func TestComputeTotal(t *testing.T) {
	items := []*OrderItem{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("3.50")},
	}

	want := decimal.RequireFromString("13.50")
	got := ComputeTotal(items)
	if !got.Equal(want) {
		t.Errorf("ComputeTotal() = %s, ожидается %s", got, want)
	}
}

func TestComputeTotal_Empty(t *testing.T) {
	if !ComputeTotal(nil).IsZero() {
		t.Error("ComputeTotal(nil) не равен нулю")
	}
}

// TestComputeTotal_DecimalExactness проверяет отсутствие ошибок округления,
// характерных для float64 (0.1 + 0.2).
func TestComputeTotal_DecimalExactness(t *testing.T) {
	items := []*OrderItem{
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.10")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.20")},
	}

	want := decimal.RequireFromString("0.30")
	got := ComputeTotal(items)
	if !got.Equal(want) {
		t.Errorf("ComputeTotal() = %s, ожидается ровно %s", got, want)
	}
}
