// src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/money"
	"github.com/focoagora/backend/src/utils"
	"github.com/shopspring/decimal"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxDescriptionLength   = 255
	MaxCategoryLength      = 100
	MaxChannelLength       = 100
	MaxProjectNameLength   = 120
	MaxNotesLength         = 4096
)

// maxAmount bounds a single entry; anything above is a typo or a parsing accident.
var maxAmount = decimal.NewFromInt(1_000_000_000)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateAmountString parses a user-typed amount; it must be positive.
func ValidateAmountString(s, fieldName string) (decimal.Decimal, error) {
	if err := ValidateStringNotEmpty(s, fieldName); err != nil {
		return decimal.Zero, err
	}
	v, ok := money.ParseOK(s)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s ('%s') is not a valid amount", ErrValidationFailed, fieldName, s)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be greater than zero", ErrValidationFailed, fieldName)
	}
	if v.GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s exceeds the maximum of %s", ErrValidationFailed, fieldName, maxAmount)
	}
	return v.Round(2), nil
}

// ValidateDateString accepts YYYY-MM-DD or DD/MM/YYYY.
func ValidateDateString(s, fieldName string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse("02/01/2006", trimmed); err == nil {
		return t, nil
	}
	if t, ok := utils.ParseISODate(trimmed); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD or DD/MM/YYYY)", ErrValidationFailed, fieldName, s)
}

// ValidateMonthString accepts YYYY-MM.
func ValidateMonthString(s string) (time.Time, error) {
	t, ok := utils.ParseMonth(strings.TrimSpace(s))
	if !ok {
		return time.Time{}, fmt.Errorf("%w: month ('%s') is not in the expected format (YYYY-MM)", ErrValidationFailed, s)
	}
	return t, nil
}

// ValidateEntryKind checks the direction of a ledger entry.
func ValidateEntryKind(s string) (models.EntryKind, error) {
	k := models.EntryKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: tipo ('%s') must be one of pagar, receber, cartao, intercompany", ErrValidationFailed, s)
	}
	return k, nil
}

// ValidateProjectStatus checks a project status.
func ValidateProjectStatus(s string) error {
	switch s {
	case models.ProjectActive, models.ProjectPaused, models.ProjectFinished:
		return nil
	}
	return fmt.Errorf("%w: status ('%s') must be one of ativo, pausado, concluido", ErrValidationFailed, s)
}

// ValidateLedgerInput turns wire input into a ledger entry without an ID.
// Text fields are cleaned before their lengths are checked.
func ValidateLedgerInput(in models.LedgerEntryInput, contextID string) (models.LedgerEntry, error) {
	var e models.LedgerEntry

	kind, err := ValidateEntryKind(in.Kind)
	if err != nil {
		return e, err
	}

	if err := CheckXSSPatterns(in.Description, "descricao", contextID); err != nil {
		return e, err
	}
	description := CleanText(in.Description)
	if err := ValidateStringNotEmpty(description, "descricao"); err != nil {
		return e, err
	}
	if err := ValidateStringMaxLength(description, MaxDescriptionLength, "descricao"); err != nil {
		return e, err
	}

	category := CleanText(in.Category)
	if err := ValidateStringMaxLength(category, MaxCategoryLength, "categoria"); err != nil {
		return e, err
	}
	channel := CleanText(in.OriginChannel)
	if err := ValidateStringMaxLength(channel, MaxChannelLength, "canal_origem"); err != nil {
		return e, err
	}

	amount, err := ValidateAmountString(in.Amount, "valor")
	if err != nil {
		return e, err
	}
	due, err := ValidateDateString(in.DueDate, "vencimento")
	if err != nil {
		return e, err
	}

	return models.LedgerEntry{
		Kind:          kind,
		Description:   description,
		Category:      category,
		Amount:        amount,
		DueDate:       due,
		Paid:          in.Paid,
		OriginChannel: channel,
	}, nil
}
