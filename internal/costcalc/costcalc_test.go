package costcalc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

func TestStaffingCost(t *testing.T) {
	assert.Equal(t, 10_000_000.0, StaffingCost(2, 500))
	assert.Equal(t, 0.0, StaffingCost(0, 700))
	assert.Equal(t, 3_500_000.0, StaffingCost(0.5, 700))
}

func TestCalculate_ReferenceProject(t *testing.T) {
	res := Calculate(Input{
		ContractAmount: 100_000_000,
		Staffing:       []StaffingLine{{ManMonth: 2, MonthlyRate: 500}},
	})

	assert.Equal(t, 10_000_000.0, res.TotalLabor)
	assert.Equal(t, 0.0, res.TotalExpense)
	assert.Equal(t, 10_000_000.0, res.TotalCost)
	assert.Equal(t, 90_000_000.0, res.OperatingProfit)
	assert.Equal(t, 90.0, res.ProfitRate)
	assert.Equal(t, 2.0, res.TotalManMonth)
}

func TestCalculate_ZeroContract(t *testing.T) {
	res := Calculate(Input{
		Staffing: []StaffingLine{{ManMonth: 1, MonthlyRate: 300}},
		Expenses: []ExpenseLine{{Category: domain.ExpenseTravel, Amount: 50_000}},
	})
	assert.Equal(t, 0.0, res.ProfitRate)
	assert.Equal(t, -3_050_000.0, res.OperatingProfit)
}

func TestCalculate_ExpenseBreakdown(t *testing.T) {
	res := Calculate(Input{
		ContractAmount: 30_000_000,
		Expenses: []ExpenseLine{
			{Category: domain.ExpenseTravel, Amount: 100_000},
			{Category: domain.ExpenseTravel, Amount: 200_000},
			{Category: domain.ExpenseLicense, Amount: 1_000_000},
			{Amount: 5_000},
		},
	})
	assert.Equal(t, 300_000.0, res.ExpenseByCategory[domain.ExpenseTravel])
	assert.Equal(t, 1_000_000.0, res.ExpenseByCategory[domain.ExpenseLicense])
	assert.Equal(t, 5_000.0, res.ExpenseByCategory[domain.ExpenseOther])
	assert.Equal(t, 1_305_000.0, res.TotalExpense)
}

func TestProfitRate_Rounding(t *testing.T) {
	assert.Equal(t, 33.3, ProfitRate(1, 3))
	assert.Equal(t, 66.7, ProfitRate(2, 3))
	assert.Equal(t, -12.5, ProfitRate(-1, 8))
	assert.Equal(t, 0.0, ProfitRate(100, 0))
}

func TestCalculate_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(20240301))
	for i := 0; i < 500; i++ {
		in := Input{ContractAmount: float64(rng.Intn(5_000_000_000))}
		if i%10 == 0 {
			in.ContractAmount = 0
		}
		for n := rng.Intn(6); n > 0; n-- {
			in.Staffing = append(in.Staffing, StaffingLine{
				ManMonth:    float64(rng.Intn(40)) / 4,
				MonthlyRate: float64(rng.Intn(1500)),
			})
		}
		for n := rng.Intn(6); n > 0; n-- {
			in.Expenses = append(in.Expenses, ExpenseLine{Category: domain.ExpenseMeal, Amount: float64(rng.Intn(10_000_000))})
		}

		res := Calculate(in)
		require.Equal(t, res.TotalLabor+res.TotalExpense, res.TotalCost)
		require.Equal(t, in.ContractAmount-res.TotalCost, res.OperatingProfit)
		if in.ContractAmount == 0 {
			require.Equal(t, 0.0, res.ProfitRate)
		} else {
			exact := res.OperatingProfit / in.ContractAmount * 100
			require.LessOrEqual(t, math.Abs(exact-res.ProfitRate), 0.05+1e-9)
		}
	}
}

func TestFromProject(t *testing.T) {
	project := &domain.Project{ContractAmount: 100_000_000}
	in := FromProject(project,
		[]domain.Staffing{{ManMonth: 2, MonthlyRate: 500}},
		[]domain.Expense{{Category: domain.ExpenseMeal, Amount: 1_000_000}},
	)
	res := Calculate(in)
	assert.Equal(t, 89.0, res.ProfitRate)
	assert.Equal(t, 89_000_000.0, res.OperatingProfit)
}
