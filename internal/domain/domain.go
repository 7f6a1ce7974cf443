package domain

const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

const (
	RecurrenceNone    = ""
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

const (
	StatusTodo    = "todo"
	StatusOverdue = "overdue"
	StatusDone    = "done"
)

// Task dates (start_date, due_date, completed_on) are plain YYYY-MM-DD
// strings; created_at, updated_at and completed_at are RFC3339 timestamps.
type Task struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Description      *string  `json:"description,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Assignee         *string  `json:"assignee,omitempty"`
	Labels           []string `json:"labels"`
	Priority         int      `json:"priority" enum:"1,2,3"`
	Recurrence       string   `json:"recurrence,omitempty" enum:",daily,weekly,monthly"`
	StartDate        *string  `json:"start_date,omitempty" format:"date"`
	DueDate          *string  `json:"due_date,omitempty" format:"date"`
	EstimatedMinutes *int     `json:"estimated_minutes,omitempty"`
	CompletedAt      *string  `json:"completed_at,omitempty" format:"date-time"`
	CompletedOn      *string  `json:"completed_on,omitempty" format:"date"`
	CreatedAt        string   `json:"created_at" format:"date-time"`
	UpdatedAt        string   `json:"updated_at" format:"date-time"`
	Status           string   `json:"status" enum:"todo,overdue,done"`
}

func (t Task) IsRecurring() bool {
	return t.Recurrence != RecurrenceNone
}

// DeriveStatus computes the informational status field. It is
// descriptive only; view composition uses its own completion predicate.
func DeriveStatus(t Task, today string) string {
	if t.CompletedAt != nil {
		return StatusDone
	}
	if !t.IsRecurring() && t.DueDate != nil && *t.DueDate < today {
		return StatusOverdue
	}
	return StatusTodo
}

func PriorityLabel(p int) string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	default:
		return "Medium"
	}
}

type TaskHistory struct {
	ID        int64   `json:"id"`
	TaskID    int64   `json:"task_id"`
	Action    string  `json:"action" enum:"created,updated,deleted,completed,uncompleted"`
	TaskTitle string  `json:"task_title"`
	Changes   *string `json:"changes,omitempty"`
	CreatedAt string  `json:"created_at" format:"date-time"`
}

type Habit struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	CreatedAt string `json:"created_at" format:"date-time"`
	UpdatedAt string `json:"updated_at" format:"date-time"`
}

type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	CreatedAt string `json:"created_at" format:"date-time"`
	UpdatedAt string `json:"updated_at" format:"date-time"`
}

type Expense struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	SpentOn     string  `json:"spent_on" format:"date"`
	CreatedAt   string  `json:"created_at" format:"date-time"`
}

const (
	TxnIncome           = "income"
	TxnExpense          = "expense"
	TxnTransfer         = "transfer"
	TxnLiabilityPayment = "liability_payment"
)

type Asset struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	AssetType    string  `json:"asset_type"`
	AssetSubtype *string `json:"asset_subtype,omitempty"`
	Currency     string  `json:"currency"`
	Balance      float64 `json:"balance"`
	IsPrimary    bool    `json:"is_primary"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    string  `json:"created_at" format:"date-time"`
	UpdatedAt    *string `json:"updated_at,omitempty" format:"date-time"`
}

type Liability struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	LiabilityType    string   `json:"liability_type"`
	Balance          float64  `json:"balance"`
	CreditLimit      *float64 `json:"credit_limit,omitempty"`
	DueDay           *int     `json:"due_day,omitempty"`
	MinimumPayment   *float64 `json:"minimum_payment,omitempty"`
	EmiAmount        *float64 `json:"emi_amount,omitempty"`
	InterestRate     *float64 `json:"interest_rate,omitempty"`
	TenureMonthsLeft *int     `json:"tenure_months_left,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	CreatedAt        string   `json:"created_at" format:"date-time"`
	UpdatedAt        *string  `json:"updated_at,omitempty" format:"date-time"`
}

type Transaction struct {
	ID           int64   `json:"id"`
	TxnType      string  `json:"txn_type" enum:"income,expense,transfer,liability_payment"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	Description  *string `json:"description,omitempty"`
	TransactedAt string  `json:"transacted_at" format:"date-time"`
	FromAssetID  *int64  `json:"from_asset_id,omitempty"`
	ToAssetID    *int64  `json:"to_asset_id,omitempty"`
	LiabilityID  *int64  `json:"liability_id,omitempty"`
	CreatedAt    string  `json:"created_at" format:"date-time"`
	UpdatedAt    *string `json:"updated_at,omitempty" format:"date-time"`
}

type FinanceAudit struct {
	ID         int64   `json:"id"`
	EntityType string  `json:"entity_type"`
	EntityID   *int64  `json:"entity_id,omitempty"`
	Action     string  `json:"action" enum:"created,updated,deleted"`
	BeforeJSON *string `json:"before_json,omitempty"`
	AfterJSON  *string `json:"after_json,omitempty"`
	CreatedAt  string  `json:"created_at" format:"date-time"`
}

type FinanceSummary struct {
	NetWorth          float64 `json:"net_worth"`
	TotalAssets       float64 `json:"total_assets"`
	TotalLiabilities  float64 `json:"total_liabilities"`
	IncomeThisMonth   float64 `json:"income_this_month"`
	ExpensesThisMonth float64 `json:"expenses_this_month"`
	SavingsThisMonth  float64 `json:"savings_this_month"`
	SavingsRate       float64 `json:"savings_rate"`
}
