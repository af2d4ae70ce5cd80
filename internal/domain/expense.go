package domain

import "time"

// ExpenseCategory groups project expenses.
type ExpenseCategory string

const (
	ExpenseTravel      ExpenseCategory = "travel"
	ExpenseEquipment   ExpenseCategory = "equipment"
	ExpenseOutsourcing ExpenseCategory = "outsourcing"
	ExpenseLicense     ExpenseCategory = "license"
	ExpenseMeal        ExpenseCategory = "meal"
	ExpenseOther       ExpenseCategory = "other"
)

// Valid reports whether c is a known category.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseTravel, ExpenseEquipment, ExpenseOutsourcing, ExpenseLicense, ExpenseMeal, ExpenseOther:
		return true
	}
	return false
}

// Expense is a non-labor cost booked against a project, in won.
type Expense struct {
	ID          string
	ProjectID   string
	Category    ExpenseCategory
	Amount      int64
	Description string
	ExpenseDate time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
