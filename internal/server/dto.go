package server

// Request payloads

type CreateTaskRequest struct {
	Title            string   `json:"title"`
	Description      *string  `json:"description,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Assignee         *string  `json:"assignee,omitempty"`
	Labels           []string `json:"labels,omitempty"`
	Priority         *int     `json:"priority,omitempty" enum:"1,2,3"`
	Recurrence       *string  `json:"recurrence,omitempty" enum:",daily,weekly,monthly"`
	StartDate        *string  `json:"start_date,omitempty"`
	DueDate          *string  `json:"due_date,omitempty"`
	EstimatedMinutes *int     `json:"estimated_minutes,omitempty"`
}

type UpdateTaskRequest struct {
	Title            *string   `json:"title,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Category         *string   `json:"category,omitempty"`
	Assignee         *string   `json:"assignee,omitempty"`
	Labels           *[]string `json:"labels,omitempty"`
	Priority         *int      `json:"priority,omitempty" enum:"1,2,3"`
	Recurrence       *string   `json:"recurrence,omitempty" enum:",daily,weekly,monthly"`
	StartDate        *string   `json:"start_date,omitempty"`
	DueDate          *string   `json:"due_date,omitempty"`
	EstimatedMinutes *int      `json:"estimated_minutes,omitempty"`
	Completed        *bool     `json:"completed,omitempty"`
	CompletedOn      *string   `json:"completed_on,omitempty"`
}

type CreateHabitRequest struct {
	Name      string `json:"name"`
	Frequency string `json:"frequency,omitempty"`
}

type UpdateHabitRequest struct {
	Name      *string `json:"name,omitempty"`
	Frequency *string `json:"frequency,omitempty"`
}

type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type CreateExpenseRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	SpentOn     string  `json:"spent_on,omitempty"`
}

type CreateAssetRequest struct {
	Name         string  `json:"name"`
	AssetType    string  `json:"asset_type"`
	AssetSubtype *string `json:"asset_subtype,omitempty"`
	Currency     string  `json:"currency,omitempty"`
	Balance      float64 `json:"balance,omitempty"`
	IsPrimary    bool    `json:"is_primary,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type UpdateAssetRequest struct {
	Name         *string  `json:"name,omitempty"`
	AssetType    *string  `json:"asset_type,omitempty"`
	AssetSubtype *string  `json:"asset_subtype,omitempty"`
	Currency     *string  `json:"currency,omitempty"`
	Balance      *float64 `json:"balance,omitempty"`
	IsPrimary    *bool    `json:"is_primary,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

type CreateLiabilityRequest struct {
	Name             string   `json:"name"`
	LiabilityType    string   `json:"liability_type"`
	Balance          float64  `json:"balance,omitempty"`
	CreditLimit      *float64 `json:"credit_limit,omitempty"`
	DueDay           *int     `json:"due_day,omitempty"`
	MinimumPayment   *float64 `json:"minimum_payment,omitempty"`
	EmiAmount        *float64 `json:"emi_amount,omitempty"`
	InterestRate     *float64 `json:"interest_rate,omitempty"`
	TenureMonthsLeft *int     `json:"tenure_months_left,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

type UpdateLiabilityRequest struct {
	Name             *string  `json:"name,omitempty"`
	LiabilityType    *string  `json:"liability_type,omitempty"`
	Balance          *float64 `json:"balance,omitempty"`
	CreditLimit      *float64 `json:"credit_limit,omitempty"`
	DueDay           *int     `json:"due_day,omitempty"`
	MinimumPayment   *float64 `json:"minimum_payment,omitempty"`
	EmiAmount        *float64 `json:"emi_amount,omitempty"`
	InterestRate     *float64 `json:"interest_rate,omitempty"`
	TenureMonthsLeft *int     `json:"tenure_months_left,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

type CreateTransactionRequest struct {
	TxnType      string  `json:"txn_type" enum:"income,expense,transfer,liability_payment"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	Description  *string `json:"description,omitempty"`
	TransactedAt string  `json:"transacted_at,omitempty"`
	FromAssetID  *int64  `json:"from_asset_id,omitempty"`
	ToAssetID    *int64  `json:"to_asset_id,omitempty"`
	LiabilityID  *int64  `json:"liability_id,omitempty"`
}

type UpdateTransactionRequest struct {
	TxnType      *string  `json:"txn_type,omitempty" enum:"income,expense,transfer,liability_payment"`
	Amount       *float64 `json:"amount,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Description  *string  `json:"description,omitempty"`
	TransactedAt *string  `json:"transacted_at,omitempty"`
	FromAssetID  *int64   `json:"from_asset_id,omitempty"`
	ToAssetID    *int64   `json:"to_asset_id,omitempty"`
	LiabilityID  *int64   `json:"liability_id,omitempty"`
}

// Helpers

func nonNilSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
