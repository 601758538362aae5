package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/debty-app/debty/internal/models"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestContribution(t *testing.T) {
	tests := []struct {
		txnType models.TxnType
		amount  string
		want    string
	}{
		{models.TxnCredit, "100", "100"},
		{models.TxnDebit, "100", "-100"},
		{models.TxnCredit, "0.01", "0.01"},
		{models.TxnDebit, "12.34", "-12.34"},
	}

	for _, tt := range tests {
		t.Run(string(tt.txnType)+" "+tt.amount, func(t *testing.T) {
			got := Contribution(tt.txnType, d(tt.amount))
			if !got.Equal(d(tt.want)) {
				t.Errorf("Contribution(%s, %s) = %s, want %s", tt.txnType, tt.amount, got, tt.want)
			}
		})
	}
}

func TestDirectionAndStatus(t *testing.T) {
	tests := []struct {
		balance   string
		direction Direction
		status    models.Status
	}{
		{"750", OwesMe, models.StatusPending},
		{"-200", IOwe, models.StatusPending},
		{"0", Settled, models.StatusPaid},
		{"0.00", Settled, models.StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.balance, func(t *testing.T) {
			if got := DirectionOf(d(tt.balance)); got != tt.direction {
				t.Errorf("DirectionOf(%s) = %s, want %s", tt.balance, got, tt.direction)
			}
			if got := StatusFor(d(tt.balance)); got != tt.status {
				t.Errorf("StatusFor(%s) = %s, want %s", tt.balance, got, tt.status)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		balances []string
		owedToMe string
		iOwe     string
		net      string
	}{
		{
			name:     "no people",
			balances: nil,
			owedToMe: "0",
			iOwe:     "0",
			net:      "0",
		},
		{
			name:     "sample dashboard",
			balances: []string{"750", "-200", "1200"},
			owedToMe: "1950",
			iOwe:     "200",
			net:      "1750",
		},
		{
			name:     "only debts",
			balances: []string{"-10.50", "-0.25"},
			owedToMe: "0",
			iOwe:     "10.75",
			net:      "-10.75",
		},
		{
			name:     "settled people are ignored",
			balances: []string{"0", "40", "0"},
			owedToMe: "40",
			iOwe:     "0",
			net:      "40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			people := make([]models.Person, len(tt.balances))
			sum := decimal.Zero
			for i, b := range tt.balances {
				people[i] = models.Person{Balance: d(b)}
				sum = sum.Add(d(b))
			}

			got := Summarize(people)
			if !got.TotalOwedToMe.Equal(d(tt.owedToMe)) {
				t.Errorf("TotalOwedToMe = %s, want %s", got.TotalOwedToMe, tt.owedToMe)
			}
			if !got.TotalIOwe.Equal(d(tt.iOwe)) {
				t.Errorf("TotalIOwe = %s, want %s", got.TotalIOwe, tt.iOwe)
			}
			if !got.NetBalance.Equal(d(tt.net)) {
				t.Errorf("NetBalance = %s, want %s", got.NetBalance, tt.net)
			}
			if got.PeopleCount != len(tt.balances) {
				t.Errorf("PeopleCount = %d, want %d", got.PeopleCount, len(tt.balances))
			}
			if got.TotalIOwe.IsNegative() || got.TotalOwedToMe.IsNegative() {
				t.Errorf("totals must be magnitudes: %+v", got)
			}
			if !got.NetBalance.Equal(sum) {
				t.Errorf("NetBalance %s does not match sum of balances %s", got.NetBalance, sum)
			}
		})
	}
}

func TestBalanceOf(t *testing.T) {
	txns := []models.Transaction{
		{PersonID: "p1", Type: models.TxnCredit, Amount: d("100")},
		{PersonID: "p1", Type: models.TxnDebit, Amount: d("30")},
		{PersonID: "p2", Type: models.TxnDebit, Amount: d("500")},
		{PersonID: "p1", Type: models.TxnCredit, Amount: d("0.5")},
	}

	if got := BalanceOf("p1", txns); !got.Equal(d("70.5")) {
		t.Errorf("BalanceOf(p1) = %s, want 70.5", got)
	}
	if got := BalanceOf("p2", txns); !got.Equal(d("-500")) {
		t.Errorf("BalanceOf(p2) = %s, want -500", got)
	}
	if got := BalanceOf("p3", txns); !got.IsZero() {
		t.Errorf("BalanceOf(p3) = %s, want 0", got)
	}
}
