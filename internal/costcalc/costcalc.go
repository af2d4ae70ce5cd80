// Package costcalc computes project labor cost, expense totals and
// operating profit. Monthly rates are in units of 10,000 won.
package costcalc

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// RateUnit converts a monthly rate unit (만원) into won.
const RateUnit = 10000

// StaffingLine is one labor row fed into the calculator.
type StaffingLine struct {
	ManMonth    float64 `json:"man_month"`
	MonthlyRate float64 `json:"monthly_rate"`
}

// ExpenseLine is one expense row fed into the calculator.
type ExpenseLine struct {
	Category domain.ExpenseCategory `json:"category"`
	Amount   float64                `json:"amount"`
}

// Input groups calculator parameters.
type Input struct {
	ContractAmount float64        `json:"contract_amount"`
	Staffing       []StaffingLine `json:"staffing"`
	Expenses       []ExpenseLine  `json:"expenses"`
}

// Result is the cost breakdown for one project.
type Result struct {
	ContractAmount    float64                            `json:"contract_amount"`
	TotalManMonth     float64                            `json:"total_man_month"`
	TotalLabor        float64                            `json:"total_labor"`
	TotalExpense      float64                            `json:"total_expense"`
	TotalCost         float64                            `json:"total_cost"`
	OperatingProfit   float64                            `json:"operating_profit"`
	ProfitRate        float64                            `json:"profit_rate"`
	ExpenseByCategory map[domain.ExpenseCategory]float64 `json:"expense_by_category"`
}

// StaffingCost returns the labor cost in won for manMonth at monthlyRate.
func StaffingCost(manMonth, monthlyRate float64) float64 {
	return manMonth * monthlyRate * RateUnit
}

// Calculate derives totals, operating profit and profit rate.
func Calculate(in Input) Result {
	res := Result{
		ContractAmount:    in.ContractAmount,
		ExpenseByCategory: map[domain.ExpenseCategory]float64{},
	}
	for _, s := range in.Staffing {
		res.TotalManMonth += s.ManMonth
		res.TotalLabor += StaffingCost(s.ManMonth, s.MonthlyRate)
	}
	for _, e := range in.Expenses {
		res.TotalExpense += e.Amount
		category := e.Category
		if category == "" {
			category = domain.ExpenseOther
		}
		res.ExpenseByCategory[category] += e.Amount
	}
	res.TotalCost = res.TotalLabor + res.TotalExpense
	res.OperatingProfit = in.ContractAmount - res.TotalCost
	res.ProfitRate = ProfitRate(res.OperatingProfit, in.ContractAmount)
	return res
}

// ProfitRate returns profit as a percentage of contract rounded to one
// decimal place; zero when contract is zero.
func ProfitRate(profit, contract float64) float64 {
	if contract == 0 {
		return 0
	}
	rate := decimal.NewFromFloat(profit).
		Div(decimal.NewFromFloat(contract)).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	f, _ := rate.Float64()
	return f
}

// FromProject builds calculator input from stored records.
func FromProject(project *domain.Project, staffing []domain.Staffing, expenses []domain.Expense) Input {
	in := Input{
		ContractAmount: float64(project.ContractAmount),
		Staffing:       make([]StaffingLine, 0, len(staffing)),
		Expenses:       make([]ExpenseLine, 0, len(expenses)),
	}
	for _, s := range staffing {
		in.Staffing = append(in.Staffing, StaffingLine{ManMonth: s.ManMonth, MonthlyRate: float64(s.MonthlyRate)})
	}
	for _, e := range expenses {
		in.Expenses = append(in.Expenses, ExpenseLine{Category: e.Category, Amount: float64(e.Amount)})
	}
	return in
}
