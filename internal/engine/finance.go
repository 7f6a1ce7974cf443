package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/whovibhor/PersonalOS/internal/domain"
	"github.com/whovibhor/PersonalOS/internal/repo"
)

func (e Engine) audit(ctx context.Context, q repo.DBTX, entityType string, entityID int64, action string, before, after any) error {
	enc := func(v any) *string {
		if v == nil {
			return nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		s := string(b)
		return &s
	}
	return e.Repo.InsertFinanceAudit(ctx, q, domain.FinanceAudit{
		EntityType: entityType,
		EntityID:   &entityID,
		Action:     action,
		BeforeJSON: enc(before),
		AfterJSON:  enc(after),
		CreatedAt:  e.timestamp(),
	})
}

type AssetOptions struct {
	Name         string
	AssetType    string
	AssetSubtype *string
	Currency     string
	Balance      float64
	IsPrimary    bool
	Notes        *string
}

func (e Engine) CreateAsset(ctx context.Context, opts AssetOptions) (domain.Asset, error) {
	if opts.Name == "" {
		return domain.Asset{}, errors.New("name is required")
	}
	if opts.AssetType == "" {
		return domain.Asset{}, errors.New("asset_type is required")
	}
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	a := domain.Asset{
		Name:         opts.Name,
		AssetType:    opts.AssetType,
		AssetSubtype: opts.AssetSubtype,
		Currency:     opts.Currency,
		Balance:      opts.Balance,
		IsPrimary:    opts.IsPrimary,
		Notes:        opts.Notes,
		CreatedAt:    e.timestamp(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Asset{}, err
	}
	defer tx.Rollback()

	if a.IsPrimary {
		if err := e.Repo.ClearPrimaryAsset(ctx, tx); err != nil {
			return domain.Asset{}, err
		}
	}
	id, err := e.Repo.InsertAsset(ctx, tx, a)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("insert asset: %w", err)
	}
	a.ID = id
	if err := e.audit(ctx, tx, "asset", id, "created", nil, a); err != nil {
		return domain.Asset{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Asset{}, err
	}
	return a, nil
}

type AssetPatch struct {
	Name         *string
	AssetType    *string
	AssetSubtype *string
	Currency     *string
	Balance      *float64
	IsPrimary    *bool
	Notes        *string
}

func (e Engine) UpdateAsset(ctx context.Context, id int64, patch AssetPatch) (domain.Asset, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Asset{}, err
	}
	defer tx.Rollback()

	a, err := e.Repo.GetAsset(ctx, tx, id)
	if err != nil {
		return domain.Asset{}, err
	}
	before := a
	if patch.Name != nil && *patch.Name != "" {
		a.Name = *patch.Name
	}
	if patch.AssetType != nil && *patch.AssetType != "" {
		a.AssetType = *patch.AssetType
	}
	if patch.AssetSubtype != nil {
		a.AssetSubtype = patch.AssetSubtype
	}
	if patch.Currency != nil && *patch.Currency != "" {
		a.Currency = *patch.Currency
	}
	if patch.Balance != nil {
		a.Balance = *patch.Balance
	}
	if patch.Notes != nil {
		a.Notes = patch.Notes
	}
	if patch.IsPrimary != nil && *patch.IsPrimary && !a.IsPrimary {
		if err := e.Repo.ClearPrimaryAsset(ctx, tx); err != nil {
			return domain.Asset{}, err
		}
		a.IsPrimary = true
	}
	now := e.timestamp()
	a.UpdatedAt = &now
	if err := e.Repo.UpdateAsset(ctx, tx, a); err != nil {
		return domain.Asset{}, err
	}
	if err := e.audit(ctx, tx, "asset", id, "updated", before, a); err != nil {
		return domain.Asset{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Asset{}, err
	}
	return a, nil
}

func (e Engine) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	return e.Repo.ListAssets(ctx)
}

type LiabilityOptions struct {
	Name             string
	LiabilityType    string
	Balance          float64
	CreditLimit      *float64
	DueDay           *int
	MinimumPayment   *float64
	EmiAmount        *float64
	InterestRate     *float64
	TenureMonthsLeft *int
	Notes            *string
}

func (e Engine) CreateLiability(ctx context.Context, opts LiabilityOptions) (domain.Liability, error) {
	if opts.Name == "" {
		return domain.Liability{}, errors.New("name is required")
	}
	if opts.LiabilityType == "" {
		return domain.Liability{}, errors.New("liability_type is required")
	}
	l := domain.Liability{
		Name:             opts.Name,
		LiabilityType:    opts.LiabilityType,
		Balance:          opts.Balance,
		CreditLimit:      opts.CreditLimit,
		DueDay:           opts.DueDay,
		MinimumPayment:   opts.MinimumPayment,
		EmiAmount:        opts.EmiAmount,
		InterestRate:     opts.InterestRate,
		TenureMonthsLeft: opts.TenureMonthsLeft,
		Notes:            opts.Notes,
		CreatedAt:        e.timestamp(),
	}
	id, err := e.Repo.InsertLiability(ctx, l)
	if err != nil {
		return domain.Liability{}, fmt.Errorf("insert liability: %w", err)
	}
	l.ID = id
	if err := e.audit(ctx, e.DB, "liability", id, "created", nil, l); err != nil {
		return domain.Liability{}, err
	}
	return l, nil
}

type LiabilityPatch struct {
	Name             *string
	LiabilityType    *string
	Balance          *float64
	CreditLimit      *float64
	DueDay           *int
	MinimumPayment   *float64
	EmiAmount        *float64
	InterestRate     *float64
	TenureMonthsLeft *int
	Notes            *string
}

func (e Engine) UpdateLiability(ctx context.Context, id int64, patch LiabilityPatch) (domain.Liability, error) {
	l, err := e.Repo.GetLiability(ctx, e.DB, id)
	if err != nil {
		return domain.Liability{}, err
	}
	before := l
	if patch.Name != nil && *patch.Name != "" {
		l.Name = *patch.Name
	}
	if patch.LiabilityType != nil && *patch.LiabilityType != "" {
		l.LiabilityType = *patch.LiabilityType
	}
	if patch.Balance != nil {
		l.Balance = *patch.Balance
	}
	if patch.CreditLimit != nil {
		l.CreditLimit = patch.CreditLimit
	}
	if patch.DueDay != nil {
		l.DueDay = patch.DueDay
	}
	if patch.MinimumPayment != nil {
		l.MinimumPayment = patch.MinimumPayment
	}
	if patch.EmiAmount != nil {
		l.EmiAmount = patch.EmiAmount
	}
	if patch.InterestRate != nil {
		l.InterestRate = patch.InterestRate
	}
	if patch.TenureMonthsLeft != nil {
		l.TenureMonthsLeft = patch.TenureMonthsLeft
	}
	if patch.Notes != nil {
		l.Notes = patch.Notes
	}
	now := e.timestamp()
	l.UpdatedAt = &now
	if err := e.Repo.UpdateLiability(ctx, l); err != nil {
		return domain.Liability{}, err
	}
	if err := e.audit(ctx, e.DB, "liability", id, "updated", before, l); err != nil {
		return domain.Liability{}, err
	}
	return l, nil
}

func (e Engine) ListLiabilities(ctx context.Context) ([]domain.Liability, error) {
	return e.Repo.ListLiabilities(ctx)
}

// ensurePrimaryAsset returns the primary asset, promoting the oldest
// asset or creating a default account when none exists.
func (e Engine) ensurePrimaryAsset(ctx context.Context, q repo.DBTX) (domain.Asset, error) {
	a, err := e.Repo.PrimaryAsset(ctx, q)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return domain.Asset{}, err
	}
	a, err = e.Repo.FirstAsset(ctx, q)
	if err == nil {
		a.IsPrimary = true
		now := e.timestamp()
		a.UpdatedAt = &now
		if err := e.Repo.UpdateAsset(ctx, q, a); err != nil {
			return domain.Asset{}, err
		}
		return a, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return domain.Asset{}, err
	}
	a = domain.Asset{
		Name:      "Primary Account",
		AssetType: "cash",
		Currency:  "INR",
		IsPrimary: true,
		CreatedAt: e.timestamp(),
	}
	id, err := e.Repo.InsertAsset(ctx, q, a)
	if err != nil {
		return domain.Asset{}, err
	}
	a.ID = id
	return a, nil
}

// applyTransactionEffect moves balances for a transaction. direction is
// +1 to apply and -1 to reverse.
func (e Engine) applyTransactionEffect(ctx context.Context, q repo.DBTX, t domain.Transaction, direction float64) error {
	now := e.timestamp()
	delta := t.Amount * direction
	switch t.TxnType {
	case domain.TxnIncome:
		if t.ToAssetID == nil {
			return errors.New("income requires to_asset_id")
		}
		return e.Repo.AdjustAssetBalance(ctx, q, *t.ToAssetID, delta, now)
	case domain.TxnExpense:
		if t.FromAssetID == nil {
			return errors.New("expense requires from_asset_id")
		}
		return e.Repo.AdjustAssetBalance(ctx, q, *t.FromAssetID, -delta, now)
	case domain.TxnTransfer:
		if t.FromAssetID == nil || t.ToAssetID == nil {
			return errors.New("transfer requires from_asset_id and to_asset_id")
		}
		if *t.FromAssetID == *t.ToAssetID {
			return errors.New("transfer accounts must be different")
		}
		if err := e.Repo.AdjustAssetBalance(ctx, q, *t.FromAssetID, -delta, now); err != nil {
			return err
		}
		return e.Repo.AdjustAssetBalance(ctx, q, *t.ToAssetID, delta, now)
	case domain.TxnLiabilityPayment:
		if t.LiabilityID == nil {
			return errors.New("liability_payment requires liability_id")
		}
		if t.FromAssetID == nil {
			return errors.New("liability_payment requires from_asset_id")
		}
		if err := e.Repo.AdjustAssetBalance(ctx, q, *t.FromAssetID, -delta, now); err != nil {
			return err
		}
		return e.Repo.AdjustLiabilityBalance(ctx, q, *t.LiabilityID, -delta, now)
	}
	return fmt.Errorf("invalid txn_type %q", t.TxnType)
}

type TransactionOptions struct {
	TxnType      string
	Amount       float64
	Category     string
	Description  *string
	TransactedAt string
	FromAssetID  *int64
	ToAssetID    *int64
	LiabilityID  *int64
}

func (e Engine) CreateTransaction(ctx context.Context, opts TransactionOptions) (domain.Transaction, error) {
	if opts.Amount <= 0 {
		return domain.Transaction{}, errors.New("amount must be positive")
	}
	if opts.Category == "" {
		return domain.Transaction{}, errors.New("category is required")
	}
	if opts.TransactedAt == "" {
		opts.TransactedAt = e.timestamp()
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transaction{}, err
	}
	defer tx.Rollback()

	t := domain.Transaction{
		TxnType:      opts.TxnType,
		Amount:       opts.Amount,
		Category:     opts.Category,
		Description:  opts.Description,
		TransactedAt: opts.TransactedAt,
		FromAssetID:  opts.FromAssetID,
		ToAssetID:    opts.ToAssetID,
		LiabilityID:  opts.LiabilityID,
		CreatedAt:    e.timestamp(),
	}

	// Default the missing account to the primary asset.
	switch t.TxnType {
	case domain.TxnIncome:
		if t.ToAssetID == nil {
			primary, err := e.ensurePrimaryAsset(ctx, tx)
			if err != nil {
				return domain.Transaction{}, err
			}
			t.ToAssetID = &primary.ID
		}
	case domain.TxnExpense, domain.TxnLiabilityPayment:
		if t.FromAssetID == nil {
			primary, err := e.ensurePrimaryAsset(ctx, tx)
			if err != nil {
				return domain.Transaction{}, err
			}
			t.FromAssetID = &primary.ID
		}
	}

	if err := e.applyTransactionEffect(ctx, tx, t, 1); err != nil {
		return domain.Transaction{}, err
	}
	id, err := e.Repo.InsertTransaction(ctx, tx, t)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID = id
	if err := e.audit(ctx, tx, "transaction", id, "created", nil, t); err != nil {
		return domain.Transaction{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

type TransactionPatch struct {
	TxnType      *string
	Amount       *float64
	Category     *string
	Description  *string
	TransactedAt *string
	FromAssetID  *int64
	ToAssetID    *int64
	LiabilityID  *int64
}

func (e Engine) UpdateTransaction(ctx context.Context, id int64, patch TransactionPatch) (domain.Transaction, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transaction{}, err
	}
	defer tx.Rollback()

	t, err := e.Repo.GetTransaction(ctx, tx, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	before := t

	// Reverse the old effect, then apply the patched one.
	if err := e.applyTransactionEffect(ctx, tx, t, -1); err != nil {
		return domain.Transaction{}, err
	}

	if patch.TxnType != nil && *patch.TxnType != "" {
		t.TxnType = *patch.TxnType
	}
	if patch.Amount != nil {
		if *patch.Amount <= 0 {
			return domain.Transaction{}, errors.New("amount must be positive")
		}
		t.Amount = *patch.Amount
	}
	if patch.Category != nil && *patch.Category != "" {
		t.Category = *patch.Category
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.TransactedAt != nil && *patch.TransactedAt != "" {
		t.TransactedAt = *patch.TransactedAt
	}
	if patch.FromAssetID != nil {
		t.FromAssetID = patch.FromAssetID
	}
	if patch.ToAssetID != nil {
		t.ToAssetID = patch.ToAssetID
	}
	if patch.LiabilityID != nil {
		t.LiabilityID = patch.LiabilityID
	}

	if err := e.applyTransactionEffect(ctx, tx, t, 1); err != nil {
		return domain.Transaction{}, err
	}
	now := e.timestamp()
	t.UpdatedAt = &now
	if err := e.Repo.UpdateTransaction(ctx, tx, t); err != nil {
		return domain.Transaction{}, err
	}
	if err := e.audit(ctx, tx, "transaction", id, "updated", before, t); err != nil {
		return domain.Transaction{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

func (e Engine) DeleteTransaction(ctx context.Context, id int64) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	t, err := e.Repo.GetTransaction(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := e.applyTransactionEffect(ctx, tx, t, -1); err != nil {
		return err
	}
	if err := e.Repo.DeleteTransaction(ctx, tx, id); err != nil {
		return err
	}
	if err := e.audit(ctx, tx, "transaction", id, "deleted", t, nil); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) ListTransactions(ctx context.Context, f repo.TransactionFilters) ([]domain.Transaction, error) {
	return e.Repo.ListTransactions(ctx, f)
}

func (e Engine) ListFinanceAudit(ctx context.Context, limit int) ([]domain.FinanceAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return e.Repo.ListFinanceAudit(ctx, limit)
}

// FinanceSummary reports net worth and month-to-date cashflow.
func (e Engine) FinanceSummary(ctx context.Context) (domain.FinanceSummary, error) {
	now := e.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	assets, liabilities, income, expenses, err := e.Repo.FinanceTotals(ctx, monthStart)
	if err != nil {
		return domain.FinanceSummary{}, err
	}
	s := domain.FinanceSummary{
		NetWorth:          assets - liabilities,
		TotalAssets:       assets,
		TotalLiabilities:  liabilities,
		IncomeThisMonth:   income,
		ExpensesThisMonth: expenses,
		SavingsThisMonth:  income - expenses,
	}
	if income > 0 {
		s.SavingsRate = s.SavingsThisMonth / income * 100
	}
	return s, nil
}
