package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/whovibhor/PersonalOS/internal/domain"
	"github.com/whovibhor/PersonalOS/internal/engine"
	"github.com/whovibhor/PersonalOS/internal/repo"
)

func registerFinance(api huma.API, e engine.Engine) {
	registerAssets(api, e)
	registerLiabilities(api, e)
	registerTransactions(api, e)

	huma.Register(api, huma.Operation{
		OperationID: "finance-history",
		Method:      http.MethodGet,
		Path:        "/expense/history",
		Summary:     "List finance audit history",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" minimum:"1" maximum:"200" default:"50"`
	}) (*struct {
		Body []domain.FinanceAudit `json:"body"`
	}, error) {
		entries, err := e.ListFinanceAudit(ctx, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.FinanceAudit `json:"body"`
		}{Body: nonNilSlice(entries)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "finance-dashboard",
		Method:      http.MethodGet,
		Path:        "/expense/dashboard",
		Summary:     "Finance dashboard summary",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.FinanceSummary `json:"body"`
	}, error) {
		summary, err := e.FinanceSummary(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.FinanceSummary `json:"body"`
		}{Body: summary}, nil
	})
}

func registerAssets(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-assets",
		Method:      http.MethodGet,
		Path:        "/expense/assets",
		Summary:     "List assets",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Asset `json:"body"`
	}, error) {
		assets, err := e.ListAssets(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Asset `json:"body"`
		}{Body: nonNilSlice(assets)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-asset",
		Method:        http.MethodPost,
		Path:          "/expense/assets",
		Summary:       "Create asset",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateAssetRequest `json:"body"`
	}) (*struct {
		Body domain.Asset `json:"body"`
	}, error) {
		a, err := e.CreateAsset(ctx, engine.AssetOptions{
			Name:         input.Body.Name,
			AssetType:    input.Body.AssetType,
			AssetSubtype: input.Body.AssetSubtype,
			Currency:     input.Body.Currency,
			Balance:      input.Body.Balance,
			IsPrimary:    input.Body.IsPrimary,
			Notes:        input.Body.Notes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Asset `json:"body"`
		}{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-asset",
		Method:      http.MethodPatch,
		Path:        "/expense/assets/{id}",
		Summary:     "Update asset",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID   int64              `path:"id"`
		Body UpdateAssetRequest `json:"body"`
	}) (*struct {
		Body domain.Asset `json:"body"`
	}, error) {
		a, err := e.UpdateAsset(ctx, input.ID, engine.AssetPatch{
			Name:         input.Body.Name,
			AssetType:    input.Body.AssetType,
			AssetSubtype: input.Body.AssetSubtype,
			Currency:     input.Body.Currency,
			Balance:      input.Body.Balance,
			IsPrimary:    input.Body.IsPrimary,
			Notes:        input.Body.Notes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Asset `json:"body"`
		}{Body: a}, nil
	})
}

func registerLiabilities(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-liabilities",
		Method:      http.MethodGet,
		Path:        "/expense/liabilities",
		Summary:     "List liabilities",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Liability `json:"body"`
	}, error) {
		liabilities, err := e.ListLiabilities(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Liability `json:"body"`
		}{Body: nonNilSlice(liabilities)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-liability",
		Method:        http.MethodPost,
		Path:          "/expense/liabilities",
		Summary:       "Create liability",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateLiabilityRequest `json:"body"`
	}) (*struct {
		Body domain.Liability `json:"body"`
	}, error) {
		l, err := e.CreateLiability(ctx, engine.LiabilityOptions{
			Name:             input.Body.Name,
			LiabilityType:    input.Body.LiabilityType,
			Balance:          input.Body.Balance,
			CreditLimit:      input.Body.CreditLimit,
			DueDay:           input.Body.DueDay,
			MinimumPayment:   input.Body.MinimumPayment,
			EmiAmount:        input.Body.EmiAmount,
			InterestRate:     input.Body.InterestRate,
			TenureMonthsLeft: input.Body.TenureMonthsLeft,
			Notes:            input.Body.Notes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Liability `json:"body"`
		}{Body: l}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-liability",
		Method:      http.MethodPatch,
		Path:        "/expense/liabilities/{id}",
		Summary:     "Update liability",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID   int64                  `path:"id"`
		Body UpdateLiabilityRequest `json:"body"`
	}) (*struct {
		Body domain.Liability `json:"body"`
	}, error) {
		l, err := e.UpdateLiability(ctx, input.ID, engine.LiabilityPatch{
			Name:             input.Body.Name,
			LiabilityType:    input.Body.LiabilityType,
			Balance:          input.Body.Balance,
			CreditLimit:      input.Body.CreditLimit,
			DueDay:           input.Body.DueDay,
			MinimumPayment:   input.Body.MinimumPayment,
			EmiAmount:        input.Body.EmiAmount,
			InterestRate:     input.Body.InterestRate,
			TenureMonthsLeft: input.Body.TenureMonthsLeft,
			Notes:            input.Body.Notes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Liability `json:"body"`
		}{Body: l}, nil
	})
}

func registerTransactions(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/expense/transactions",
		Summary:     "List transactions",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		StartDate string `query:"start_date"`
		EndDate   string `query:"end_date"`
		Type      string `query:"type" enum:",income,expense,transfer,liability_payment"`
	}) (*struct {
		Body []domain.Transaction `json:"body"`
	}, error) {
		txns, err := e.ListTransactions(ctx, repo.TransactionFilters{
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
			TxnType:   input.Type,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Transaction `json:"body"`
		}{Body: nonNilSlice(txns)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/expense/transactions",
		Summary:       "Create transaction",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateTransactionRequest `json:"body"`
	}) (*struct {
		Body domain.Transaction `json:"body"`
	}, error) {
		t, err := e.CreateTransaction(ctx, engine.TransactionOptions{
			TxnType:      input.Body.TxnType,
			Amount:       input.Body.Amount,
			Category:     input.Body.Category,
			Description:  input.Body.Description,
			TransactedAt: input.Body.TransactedAt,
			FromAssetID:  input.Body.FromAssetID,
			ToAssetID:    input.Body.ToAssetID,
			LiabilityID:  input.Body.LiabilityID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Transaction `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        "/expense/transactions/{id}",
		Summary:     "Update transaction",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID   int64                    `path:"id"`
		Body UpdateTransactionRequest `json:"body"`
	}) (*struct {
		Body domain.Transaction `json:"body"`
	}, error) {
		t, err := e.UpdateTransaction(ctx, input.ID, engine.TransactionPatch{
			TxnType:      input.Body.TxnType,
			Amount:       input.Body.Amount,
			Category:     input.Body.Category,
			Description:  input.Body.Description,
			TransactedAt: input.Body.TransactedAt,
			FromAssetID:  input.Body.FromAssetID,
			ToAssetID:    input.Body.ToAssetID,
			LiabilityID:  input.Body.LiabilityID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Transaction `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-transaction",
		Method:        http.MethodDelete,
		Path:          "/expense/transactions/{id}",
		Summary:       "Delete transaction",
		DefaultStatus: http.StatusNoContent,
		Errors: []int{
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct{}, error) {
		if err := e.DeleteTransaction(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
