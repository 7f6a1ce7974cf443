package engine_test

import (
	"testing"

	"github.com/whovibhor/PersonalOS/internal/domain"
	"github.com/whovibhor/PersonalOS/internal/engine"
	"github.com/whovibhor/PersonalOS/internal/repo"
)

func i64p(v int64) *int64 { return &v }

func f64p(v float64) *float64 { return &v }

func mustAsset(t *testing.T, env testEnv, opts engine.AssetOptions) domain.Asset {
	t.Helper()
	a, err := env.Engine.CreateAsset(env.Ctx, opts)
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}
	return a
}

func assetBalance(t *testing.T, env testEnv, id int64) float64 {
	t.Helper()
	a, err := env.Engine.Repo.GetAsset(env.Ctx, env.Engine.DB, id)
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	return a.Balance
}

func TestIncomeCreditsAccount(t *testing.T) {
	env := newTestEnv(t)
	acct := mustAsset(t, env, engine.AssetOptions{Name: "Salary Account", AssetType: "bank", Balance: 1000, IsPrimary: true})

	_, err := env.Engine.CreateTransaction(env.Ctx, engine.TransactionOptions{
		TxnType:  domain.TxnIncome,
		Amount:   500,
		Category: "salary",
	})
	if err != nil {
		t.Fatalf("create txn: %v", err)
	}
	if got := assetBalance(t, env, acct.ID); got != 1500 {
		t.Fatalf("expected balance 1500, got %v", got)
	}
}

func TestTransferMovesBetweenAccounts(t *testing.T) {
	env := newTestEnv(t)
	from := mustAsset(t, env, engine.AssetOptions{Name: "Checking", AssetType: "bank", Balance: 1000, IsPrimary: true})
	to := mustAsset(t, env, engine.AssetOptions{Name: "Savings", AssetType: "bank", Balance: 200})

	_, err := env.Engine.CreateTransaction(env.Ctx, engine.TransactionOptions{
		TxnType:     domain.TxnTransfer,
		Amount:      300,
		Category:    "savings",
		FromAssetID: i64p(from.ID),
		ToAssetID:   i64p(to.ID),
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := assetBalance(t, env, from.ID); got != 700 {
		t.Fatalf("expected 700, got %v", got)
	}
	if got := assetBalance(t, env, to.ID); got != 500 {
		t.Fatalf("expected 500, got %v", got)
	}

	_, err = env.Engine.CreateTransaction(env.Ctx, engine.TransactionOptions{
		TxnType:     domain.TxnTransfer,
		Amount:      10,
		Category:    "savings",
		FromAssetID: i64p(from.ID),
		ToAssetID:   i64p(from.ID),
	})
	if err == nil {
		t.Fatalf("expected same-account transfer error")
	}
}

func TestLiabilityPaymentReducesBoth(t *testing.T) {
	env := newTestEnv(t)
	acct := mustAsset(t, env, engine.AssetOptions{Name: "Checking", AssetType: "bank", Balance: 1000, IsPrimary: true})
	card, err := env.Engine.CreateLiability(env.Ctx, engine.LiabilityOptions{
		Name:          "Credit Card",
		LiabilityType: "credit_card",
		Balance:       400,
		CreditLimit:   f64p(2000),
	})
	if err != nil {
		t.Fatalf("create liability: %v", err)
	}

	_, err = env.Engine.CreateTransaction(env.Ctx, engine.TransactionOptions{
		TxnType:     domain.TxnLiabilityPayment,
		Amount:      250,
		Category:    "debt",
		LiabilityID: i64p(card.ID),
	})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if got := assetBalance(t, env, acct.ID); got != 750 {
		t.Fatalf("expected 750, got %v", got)
	}
	l, err := env.Engine.Repo.GetLiability(env.Ctx, env.Engine.DB, card.ID)
	if err != nil {
		t.Fatalf("get liability: %v", err)
	}
	if l.Balance != 150 {
		t.Fatalf("expected liability 150, got %v", l.Balance)
	}
}

func TestExpenseDefaultsToPrimaryAccount(t *testing.T) {
	env := newTestEnv(t)

	// No asset exists: a default primary account is created.
	_, err := env.Engine.CreateTransaction(env.Ctx, engine.TransactionOptions{
		TxnType:  domain.TxnExpense,
		Amount:   100,
		Category: "food",
	})
	if err != nil {
		t.Fatalf("expense: %v", err)
	}
	assets, err := env.Engine.ListAssets(env.Ctx)
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	if len(assets) != 1 || assets[0].Name != "Primary Account" || !assets[0].IsPrimary {
		t.Fatalf("expected auto-created primary account, got %+v", assets)
	}
	if assets[0].Balance != -100 {
		t.Fatalf("expected -100, got %v", assets[0].Balance)
	}
}

func TestUpdateTransactionReappliesEffect(t *testing.T) {
	env := newTestEnv(t)
	acct := mustAsset(t, env, engine.AssetOptions{Name: "Checking", AssetType: "bank", Balance: 1000, IsPrimary: true})

	txn, err := env.Engine.CreateTransaction(env.Ctx, engine.TransactionOptions{
		TxnType:  domain.TxnExpense,
		Amount:   200,
		Category: "food",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := assetBalance(t, env, acct.ID); got != 800 {
		t.Fatalf("expected 800, got %v", got)
	}

	if _, err := env.Engine.UpdateTransaction(env.Ctx, txn.ID, engine.TransactionPatch{Amount: f64p(50)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := assetBalance(t, env, acct.ID); got != 950 {
		t.Fatalf("expected 950 after repricing, got %v", got)
	}

	if err := env.Engine.DeleteTransaction(env.Ctx, txn.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := assetBalance(t, env, acct.ID); got != 1000 {
		t.Fatalf("expected balance restored, got %v", got)
	}
}

func TestSetPrimaryAssetClearsPrevious(t *testing.T) {
	env := newTestEnv(t)
	first := mustAsset(t, env, engine.AssetOptions{Name: "One", AssetType: "bank", IsPrimary: true})
	second := mustAsset(t, env, engine.AssetOptions{Name: "Two", AssetType: "bank"})

	primary := true
	if _, err := env.Engine.UpdateAsset(env.Ctx, second.ID, engine.AssetPatch{IsPrimary: &primary}); err != nil {
		t.Fatalf("update: %v", err)
	}

	a, err := env.Engine.Repo.GetAsset(env.Ctx, env.Engine.DB, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.IsPrimary {
		t.Fatalf("expected previous primary cleared")
	}
}

func TestFinanceSummaryAndAudit(t *testing.T) {
	env := newTestEnv(t)
	mustAsset(t, env, engine.AssetOptions{Name: "Checking", AssetType: "bank", Balance: 5000, IsPrimary: true})
	if _, err := env.Engine.CreateLiability(env.Ctx, engine.LiabilityOptions{Name: "Loan", LiabilityType: "loan", Balance: 2000}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Engine.CreateTransaction(env.Ctx, engine.TransactionOptions{TxnType: domain.TxnIncome, Amount: 1000, Category: "salary"}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Engine.CreateTransaction(env.Ctx, engine.TransactionOptions{TxnType: domain.TxnExpense, Amount: 400, Category: "food"}); err != nil {
		t.Fatal(err)
	}

	s, err := env.Engine.FinanceSummary(env.Ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	// 5000 + 1000 - 400 assets against 2000 liabilities.
	if s.TotalAssets != 5600 || s.TotalLiabilities != 2000 || s.NetWorth != 3600 {
		t.Fatalf("unexpected totals %+v", s)
	}
	if s.IncomeThisMonth != 1000 || s.ExpensesThisMonth != 400 || s.SavingsThisMonth != 600 {
		t.Fatalf("unexpected cashflow %+v", s)
	}
	if s.SavingsRate != 60 {
		t.Fatalf("expected 60%% savings rate, got %v", s.SavingsRate)
	}

	audit, err := env.Engine.ListFinanceAudit(env.Ctx, 50)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(audit) != 4 {
		t.Fatalf("expected 4 audit rows, got %d", len(audit))
	}
}

func TestListTransactionsFilters(t *testing.T) {
	env := newTestEnv(t)
	mustAsset(t, env, engine.AssetOptions{Name: "Checking", AssetType: "bank", Balance: 1000, IsPrimary: true})
	if _, err := env.Engine.CreateTransaction(env.Ctx, engine.TransactionOptions{TxnType: domain.TxnIncome, Amount: 100, Category: "salary"}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Engine.CreateTransaction(env.Ctx, engine.TransactionOptions{TxnType: domain.TxnExpense, Amount: 50, Category: "food"}); err != nil {
		t.Fatal(err)
	}

	txns, err := env.Engine.ListTransactions(env.Ctx, repo.TransactionFilters{TxnType: domain.TxnExpense})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 1 || txns[0].Category != "food" {
		t.Fatalf("unexpected filter result %+v", txns)
	}
}
