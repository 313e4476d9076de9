// Package validate collects field checks and turns the first failure into an apperr validation error.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Rule names reported in Result.
const (
	RuleRequired = "required"
	RulePositive = "positive"
	RuleEmail    = "email"
	RuleCPF      = "cpf"
	RuleMaxLen   = "max_len"
	RuleMax      = "max"
)

// Result is a single failed check.
type Result struct {
	Field   string
	Rule    string
	Message string
}

// Checker accumulates failed checks in call order.
type Checker struct {
	results []Result
}

// New returns an empty Checker.
func New() *Checker {
	return &Checker{}
}

func (c *Checker) fail(field, rule, msg string) *Checker {
	c.results = append(c.results, Result{Field: field, Rule: rule, Message: msg})

	return c
}

// Required fails when value is blank.
func (c *Checker) Required(field, value string) *Checker {
	if strings.TrimSpace(value) == "" {
		return c.fail(field, RuleRequired, fmt.Sprintf("%s is required", field))
	}

	return c
}

// RequiredID fails when id is not set.
func (c *Checker) RequiredID(field string, id int64) *Checker {
	if id <= 0 {
		return c.fail(field, RuleRequired, fmt.Sprintf("%s is required", field))
	}

	return c
}

// Positive fails when n <= 0.
func (c *Checker) Positive(field string, n int64) *Checker {
	if n <= 0 {
		return c.fail(field, RulePositive, fmt.Sprintf("%s must be greater than zero", field))
	}

	return c
}

// Max fails when n > limit.
func (c *Checker) Max(field string, n, limit int64) *Checker {
	if n > limit {
		return c.fail(field, RuleMax, fmt.Sprintf("%s must be at most %d", field, limit))
	}

	return c
}

// MaxLen fails when value has more than n characters.
func (c *Checker) MaxLen(field, value string, n int) *Checker {
	if utf8.RuneCountInString(value) > n {
		return c.fail(field, RuleMaxLen, fmt.Sprintf("%s must have at most %d characters", field, n))
	}

	return c
}

// Email fails when value is not an email address.
func (c *Checker) Email(field, value string) *Checker {
	if err := v.Var(value, "required,email"); err != nil {
		return c.fail(field, RuleEmail, fmt.Sprintf("%s is not a valid email", field))
	}

	return c
}

// CPF fails when value is not a checksum-valid CPF.
func (c *Checker) CPF(field, value string) *Checker {
	if !IsCPF(value) {
		return c.fail(field, RuleCPF, fmt.Sprintf("%s is not a valid CPF", field))
	}

	return c
}

// Results returns every failed check.
func (c *Checker) Results() []Result {
	return c.results
}

// Err returns the first failure as an apperr validation error, or nil.
func (c *Checker) Err() error {
	if len(c.results) == 0 {
		return nil
	}

	return apperr.Validation("%s", c.results[0].Message)
}
