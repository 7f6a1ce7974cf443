package repo

import (
	"context"
	"database/sql"

	"github.com/whovibhor/PersonalOS/internal/domain"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so finance reads and
// balance updates can run inside the transaction that owns them.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const assetColumns = `id,name,asset_type,asset_subtype,currency,balance,is_primary,notes,created_at,updated_at`

func scanAsset(scan func(dest ...any) error) (domain.Asset, error) {
	var a domain.Asset
	var subtype, notes, updated sql.NullString
	err := scan(&a.ID, &a.Name, &a.AssetType, &subtype, &a.Currency, &a.Balance, &a.IsPrimary, &notes, &a.CreatedAt, &updated)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	if err != nil {
		return a, err
	}
	a.AssetSubtype = strPtr(subtype)
	a.Notes = strPtr(notes)
	a.UpdatedAt = strPtr(updated)
	return a, nil
}

func (r Repo) InsertAsset(ctx context.Context, q DBTX, a domain.Asset) (int64, error) {
	res, err := q.ExecContext(ctx, `INSERT INTO finance_assets(name,asset_type,asset_subtype,currency,balance,is_primary,notes,created_at) VALUES (?,?,?,?,?,?,?,?)`,
		a.Name, a.AssetType, nullableStringPtr(a.AssetSubtype), a.Currency, a.Balance, a.IsPrimary, nullableStringPtr(a.Notes), a.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r Repo) UpdateAsset(ctx context.Context, q DBTX, a domain.Asset) error {
	res, err := q.ExecContext(ctx, `UPDATE finance_assets SET name=?,asset_type=?,asset_subtype=?,currency=?,balance=?,is_primary=?,notes=?,updated_at=? WHERE id=?`,
		a.Name, a.AssetType, nullableStringPtr(a.AssetSubtype), a.Currency, a.Balance, a.IsPrimary, nullableStringPtr(a.Notes), nullableStringPtr(a.UpdatedAt), a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetAsset(ctx context.Context, q DBTX, id int64) (domain.Asset, error) {
	row := q.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM finance_assets WHERE id=?`, id)
	return scanAsset(row.Scan)
}

func (r Repo) PrimaryAsset(ctx context.Context, q DBTX) (domain.Asset, error) {
	row := q.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM finance_assets WHERE is_primary=1 LIMIT 1`)
	return scanAsset(row.Scan)
}

func (r Repo) FirstAsset(ctx context.Context, q DBTX) (domain.Asset, error) {
	row := q.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM finance_assets ORDER BY id ASC LIMIT 1`)
	return scanAsset(row.Scan)
}

func (r Repo) ClearPrimaryAsset(ctx context.Context, q DBTX) error {
	_, err := q.ExecContext(ctx, `UPDATE finance_assets SET is_primary=0 WHERE is_primary=1`)
	return err
}

func (r Repo) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+assetColumns+` FROM finance_assets ORDER BY is_primary DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// AdjustAssetBalance applies a signed delta to an asset balance.
func (r Repo) AdjustAssetBalance(ctx context.Context, q DBTX, id int64, delta float64, now string) error {
	res, err := q.ExecContext(ctx, `UPDATE finance_assets SET balance=balance+?, updated_at=? WHERE id=?`, delta, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const liabilityColumns = `id,name,liability_type,balance,credit_limit,due_day,minimum_payment,emi_amount,interest_rate,tenure_months_left,notes,created_at,updated_at`

func scanLiability(scan func(dest ...any) error) (domain.Liability, error) {
	var l domain.Liability
	var notes, updated sql.NullString
	var creditLimit, minPayment, emi, rate sql.NullFloat64
	var dueDay, tenure sql.NullInt64
	err := scan(&l.ID, &l.Name, &l.LiabilityType, &l.Balance, &creditLimit, &dueDay, &minPayment, &emi, &rate, &tenure, &notes, &l.CreatedAt, &updated)
	if err == sql.ErrNoRows {
		return l, ErrNotFound
	}
	if err != nil {
		return l, err
	}
	l.CreditLimit = floatPtr(creditLimit)
	l.DueDay = intPtr(dueDay)
	l.MinimumPayment = floatPtr(minPayment)
	l.EmiAmount = floatPtr(emi)
	l.InterestRate = floatPtr(rate)
	l.TenureMonthsLeft = intPtr(tenure)
	l.Notes = strPtr(notes)
	l.UpdatedAt = strPtr(updated)
	return l, nil
}

func (r Repo) InsertLiability(ctx context.Context, l domain.Liability) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO finance_liabilities(name,liability_type,balance,credit_limit,due_day,minimum_payment,emi_amount,interest_rate,tenure_months_left,notes,created_at) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		l.Name, l.LiabilityType, l.Balance, nullableFloatPtr(l.CreditLimit), nullableIntPtr(l.DueDay),
		nullableFloatPtr(l.MinimumPayment), nullableFloatPtr(l.EmiAmount), nullableFloatPtr(l.InterestRate),
		nullableIntPtr(l.TenureMonthsLeft), nullableStringPtr(l.Notes), l.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r Repo) UpdateLiability(ctx context.Context, l domain.Liability) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE finance_liabilities SET name=?,liability_type=?,balance=?,credit_limit=?,due_day=?,minimum_payment=?,emi_amount=?,interest_rate=?,tenure_months_left=?,notes=?,updated_at=? WHERE id=?`,
		l.Name, l.LiabilityType, l.Balance, nullableFloatPtr(l.CreditLimit), nullableIntPtr(l.DueDay),
		nullableFloatPtr(l.MinimumPayment), nullableFloatPtr(l.EmiAmount), nullableFloatPtr(l.InterestRate),
		nullableIntPtr(l.TenureMonthsLeft), nullableStringPtr(l.Notes), nullableStringPtr(l.UpdatedAt), l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetLiability(ctx context.Context, q DBTX, id int64) (domain.Liability, error) {
	row := q.QueryRowContext(ctx, `SELECT `+liabilityColumns+` FROM finance_liabilities WHERE id=?`, id)
	return scanLiability(row.Scan)
}

func (r Repo) ListLiabilities(ctx context.Context) ([]domain.Liability, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+liabilityColumns+` FROM finance_liabilities ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Liability{}
	for rows.Next() {
		l, err := scanLiability(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func (r Repo) AdjustLiabilityBalance(ctx context.Context, q DBTX, id int64, delta float64, now string) error {
	res, err := q.ExecContext(ctx, `UPDATE finance_liabilities SET balance=balance+?, updated_at=? WHERE id=?`, delta, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const txnColumns = `id,txn_type,amount,category,description,transacted_at,from_asset_id,to_asset_id,liability_id,created_at,updated_at`

func scanTransaction(scan func(dest ...any) error) (domain.Transaction, error) {
	var t domain.Transaction
	var desc, updated sql.NullString
	var fromID, toID, liabID sql.NullInt64
	err := scan(&t.ID, &t.TxnType, &t.Amount, &t.Category, &desc, &t.TransactedAt, &fromID, &toID, &liabID, &t.CreatedAt, &updated)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	t.Description = strPtr(desc)
	t.FromAssetID = int64Ptr(fromID)
	t.ToAssetID = int64Ptr(toID)
	t.LiabilityID = int64Ptr(liabID)
	t.UpdatedAt = strPtr(updated)
	return t, nil
}

func (r Repo) InsertTransaction(ctx context.Context, q DBTX, t domain.Transaction) (int64, error) {
	res, err := q.ExecContext(ctx, `INSERT INTO finance_transactions(txn_type,amount,category,description,transacted_at,from_asset_id,to_asset_id,liability_id,created_at) VALUES (?,?,?,?,?,?,?,?,?)`,
		t.TxnType, t.Amount, t.Category, nullableStringPtr(t.Description), t.TransactedAt,
		nullableInt64Ptr(t.FromAssetID), nullableInt64Ptr(t.ToAssetID), nullableInt64Ptr(t.LiabilityID), t.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r Repo) UpdateTransaction(ctx context.Context, q DBTX, t domain.Transaction) error {
	res, err := q.ExecContext(ctx, `UPDATE finance_transactions SET txn_type=?,amount=?,category=?,description=?,transacted_at=?,from_asset_id=?,to_asset_id=?,liability_id=?,updated_at=? WHERE id=?`,
		t.TxnType, t.Amount, t.Category, nullableStringPtr(t.Description), t.TransactedAt,
		nullableInt64Ptr(t.FromAssetID), nullableInt64Ptr(t.ToAssetID), nullableInt64Ptr(t.LiabilityID),
		nullableStringPtr(t.UpdatedAt), t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteTransaction(ctx context.Context, q DBTX, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM finance_transactions WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetTransaction(ctx context.Context, q DBTX, id int64) (domain.Transaction, error) {
	row := q.QueryRowContext(ctx, `SELECT `+txnColumns+` FROM finance_transactions WHERE id=?`, id)
	return scanTransaction(row.Scan)
}

type TransactionFilters struct {
	StartDate string
	EndDate   string
	TxnType   string
}

func (r Repo) ListTransactions(ctx context.Context, f TransactionFilters) ([]domain.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM finance_transactions`
	var clauses []string
	var args []any
	if f.StartDate != "" {
		clauses = append(clauses, "transacted_at >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		clauses = append(clauses, "transacted_at <= ?")
		args = append(args, f.EndDate)
	}
	if f.TxnType != "" {
		clauses = append(clauses, "txn_type = ?")
		args = append(args, f.TxnType)
	}
	if len(clauses) > 0 {
		query += " WHERE " + joinAnd(clauses)
	}
	query += " ORDER BY transacted_at DESC, id DESC"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r Repo) InsertFinanceAudit(ctx context.Context, q DBTX, a domain.FinanceAudit) error {
	_, err := q.ExecContext(ctx, `INSERT INTO finance_audit_log(entity_type,entity_id,action,before_json,after_json,created_at) VALUES (?,?,?,?,?,?)`,
		a.EntityType, nullableInt64Ptr(a.EntityID), a.Action, nullableStringPtr(a.BeforeJSON), nullableStringPtr(a.AfterJSON), a.CreatedAt)
	return err
}

func (r Repo) ListFinanceAudit(ctx context.Context, limit int) ([]domain.FinanceAudit, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,entity_type,entity_id,action,before_json,after_json,created_at FROM finance_audit_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.FinanceAudit{}
	for rows.Next() {
		var a domain.FinanceAudit
		var entityID sql.NullInt64
		var before, after sql.NullString
		if err := rows.Scan(&a.ID, &a.EntityType, &entityID, &a.Action, &before, &after, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.EntityID = int64Ptr(entityID)
		a.BeforeJSON = strPtr(before)
		a.AfterJSON = strPtr(after)
		res = append(res, a)
	}
	return res, rows.Err()
}

// FinanceTotals aggregates balances and month-to-date cashflow for the
// dashboard summary. monthStart is an RFC3339 timestamp.
func (r Repo) FinanceTotals(ctx context.Context, monthStart string) (assets, liabilities, income, expenses float64, err error) {
	row := r.DB.QueryRowContext(ctx, `SELECT
  COALESCE((SELECT SUM(balance) FROM finance_assets),0),
  COALESCE((SELECT SUM(balance) FROM finance_liabilities),0),
  COALESCE((SELECT SUM(amount) FROM finance_transactions WHERE txn_type='income' AND transacted_at>=?),0),
  COALESCE((SELECT SUM(amount) FROM finance_transactions WHERE txn_type IN ('expense','liability_payment') AND transacted_at>=?),0)`,
		monthStart, monthStart)
	err = row.Scan(&assets, &liabilities, &income, &expenses)
	return
}

func joinAnd(clauses []string) string {
	out := clauses[0]
	for _, c := range clauses[1:] {
		out += " AND " + c
	}
	return out
}
