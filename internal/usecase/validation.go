package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const maxNameLen = 200

var (
	validate  = validator.New()
	nonDigits = regexp.MustCompile(`\D`)
	yearRe    = regexp.MustCompile(`^\d{4}$`)
)

// ValidateLeadDraft faz só as checagens mínimas; campos opcionais vazios passam.
func ValidateLeadDraft(d LeadDraft) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, newFieldError("name", "is required"))
	} else if utf8.RuneCountInString(d.Name) > maxNameLen {
		errs = append(errs, newFieldError("name", "must not exceed 200 characters"))
	}

	if d.Phone != "" && !isValidPhoneNumber(d.Phone) {
		errs = append(errs, newFieldError("phone", "must be a valid phone number"))
	}
	if d.AltPhone != "" && !isValidPhoneNumber(d.AltPhone) {
		errs = append(errs, newFieldError("altPhone", "must be a valid phone number"))
	}

	if d.Email != "" && !isValidEmail(d.Email) {
		errs = append(errs, newFieldError("email", "is invalid"))
	}
	if d.AltEmail != "" && !isValidEmail(d.AltEmail) {
		errs = append(errs, newFieldError("altEmail", "is invalid"))
	}

	if d.PassoutYear != "" && !yearRe.MatchString(strings.TrimSpace(d.PassoutYear)) {
		errs = append(errs, newFieldError("passoutYear", "must be a 4 digit year"))
	}

	return errs
}

func isValidEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "email") == nil
}

// Aceita formatos como "+91 98765 43210" e "(11) 99999-9999".
func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 7 && len(cleaned) <= 15
}
