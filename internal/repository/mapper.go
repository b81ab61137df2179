package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func parseMoney(amount decimal.Decimal, code string) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(code)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
