// Package repository loads reference data from Postgres.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/loan"
	"loan-advisor/internal/models"
)

const (
	listLendersQuery = `
		SELECT loan_type, name, interest_rate, processing_fee, features
		FROM lenders
		WHERE active = TRUE
		ORDER BY loan_type, priority, name`

	lendersByTypeQuery = `
		SELECT loan_type, name, interest_rate, processing_fee, features
		FROM lenders
		WHERE active = TRUE AND loan_type = $1
		ORDER BY priority, name`
)

// LenderRepository reads the lenders table.
type LenderRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewLenderRepository(db *sql.DB, log logger.Logger) *LenderRepository {
	return &LenderRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "lender-repository"}),
	}
}

// LoadCatalog reads every active lender grouped by loan type. Errors are
// LENDER_CATALOG_FAILED.
func (r *LenderRepository) LoadCatalog(ctx context.Context) (loan.LenderCatalog, error) {
	rows, err := r.db.QueryContext(ctx, listLendersQuery)
	if err != nil {
		return nil, apperrors.NewLenderCatalogFailedError(fmt.Errorf("query lenders: %w", err))
	}
	defer rows.Close()

	catalog := make(loan.LenderCatalog)
	count := 0
	for rows.Next() {
		loanType, lender, err := scanLender(rows)
		if err != nil {
			return nil, apperrors.NewLenderCatalogFailedError(err)
		}
		catalog[loanType] = append(catalog[loanType], lender)
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewLenderCatalogFailedError(fmt.Errorf("iterate lenders: %w", err))
	}

	r.logger.Info("lender catalog loaded", map[string]interface{}{
		"loanTypes": len(catalog),
		"lenders":   count,
	})
	return catalog, nil
}

// ByLoanType returns the active lenders for one loan type, possibly none.
func (r *LenderRepository) ByLoanType(ctx context.Context, loanType string) ([]models.Lender, error) {
	rows, err := r.db.QueryContext(ctx, lendersByTypeQuery, loanType)
	if err != nil {
		return nil, apperrors.NewLenderCatalogFailedError(fmt.Errorf("query lenders: %w", err))
	}
	defer rows.Close()

	var lenders []models.Lender
	for rows.Next() {
		_, lender, err := scanLender(rows)
		if err != nil {
			return nil, apperrors.NewLenderCatalogFailedError(err)
		}
		lenders = append(lenders, lender)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewLenderCatalogFailedError(fmt.Errorf("iterate lenders: %w", err))
	}
	return lenders, nil
}

func scanLender(rows *sql.Rows) (string, models.Lender, error) {
	var (
		loanType string
		lender   models.Lender
		features []string
	)
	if err := rows.Scan(&loanType, &lender.Name, &lender.InterestRate, &lender.ProcessingFee, pq.Array(&features)); err != nil {
		return "", models.Lender{}, fmt.Errorf("scan lender: %w", err)
	}
	lender.Features = features
	return loanType, lender, nil
}
