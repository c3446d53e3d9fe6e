package service

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"restaurant-checkout/internal/model"
	"strconv"
	"strings"
)

// Rule binds a form field path to a display label and a pipe-separated
// rule expression, e.g. "required|between:1,48". "sometimes" skips the
// whole rule when the field is absent from the payload; "nullable" skips
// the remaining checks when the value is empty.
type Rule struct {
	Field string
	Label string
	Expr  string
}

// CheckoutRules builds the validation rule set for a fulfillment type.
// Pure and deterministic: address rules appear only for delivery orders.
func CheckoutRules(fulfillment model.FulfillmentType) []Rule {
	rules := []Rule{
		{"first_name", "First name", "required|between:1,48"},
		{"last_name", "Last name", "required|between:1,48"},
		{"email", "Email", "sometimes|required|email|max:96|unique"},
		{"telephone", "Telephone", "telephone"},
		{"comment", "Comment", "max:500"},
		{"payment", "Payment method", "sometimes|required|alpha_dash"},
		{"terms_condition", "Terms agreement", "sometimes|integer"},
	}

	if fulfillment == model.FulfillmentDelivery {
		rules = append(rules,
			Rule{"address_id", "Address", "required|integer"},
			Rule{"address.address_1", "Address line 1", "required|min:3|max:128"},
			Rule{"address.address_2", "Address line 2", "nullable|min:3|max:128"},
			Rule{"address.city", "City", "nullable|min:2|max:128"},
			Rule{"address.state", "State", "nullable|max:128"},
			Rule{"address.postcode", "Postcode", "string"},
			Rule{"address.country_id", "Country", "nullable|integer"},
		)
	}

	return rules
}

// UniqueCheck reports whether the given value already exists, e.g. a
// customer email. Only consulted for rules carrying "unique".
type UniqueCheck func(ctx context.Context, field, value string) (bool, error)

var (
	telephoneRe = regexp.MustCompile(`^[0-9\s\-\+\(\)]*$`)
	alphaDashRe = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
)

// ValidateData evaluates the rule set against a submitted form payload.
// Field errors are collected per field; infrastructure failures (e.g. the
// uniqueness lookup) are returned as plain errors.
func ValidateData(ctx context.Context, data map[string]interface{}, rules []Rule, unique UniqueCheck) error {
	fields := map[string]string{}

	for _, rule := range rules {
		value, present := lookupField(data, rule.Field)
		checks := strings.Split(rule.Expr, "|")

		skip := false
		for _, check := range checks {
			if check == "sometimes" && !present {
				skip = true
			}
			if check == "nullable" && (!present || asString(value) == "") {
				skip = true
			}
		}
		if skip {
			continue
		}

		for _, check := range checks {
			name, arg := check, ""
			if i := strings.IndexByte(check, ':'); i >= 0 {
				name, arg = check[:i], check[i+1:]
			}

			msg, err := applyCheck(ctx, name, arg, rule, value, present, unique)
			if err != nil {
				return err
			}
			if msg != "" {
				fields[rule.Field] = msg
				break
			}
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func applyCheck(ctx context.Context, name, arg string, rule Rule, value interface{}, present bool, unique UniqueCheck) (string, error) {
	str := asString(value)

	switch name {
	case "sometimes", "nullable":
		return "", nil

	case "required":
		if !present || str == "" {
			return fmt.Sprintf("%s is required", rule.Label), nil
		}

	case "between":
		parts := strings.SplitN(arg, ",", 2)
		lo, _ := strconv.Atoi(parts[0])
		hi, _ := strconv.Atoi(parts[1])
		if n := len([]rune(str)); n < lo || n > hi {
			return fmt.Sprintf("%s must be between %d and %d characters", rule.Label, lo, hi), nil
		}

	case "min":
		n, _ := strconv.Atoi(arg)
		if len([]rune(str)) < n {
			return fmt.Sprintf("%s must be at least %d characters", rule.Label, n), nil
		}

	case "max":
		n, _ := strconv.Atoi(arg)
		if len([]rune(str)) > n {
			return fmt.Sprintf("%s may not be greater than %d characters", rule.Label, n), nil
		}

	case "email":
		if _, err := mail.ParseAddress(str); err != nil {
			return fmt.Sprintf("%s must be a valid email address", rule.Label), nil
		}

	case "unique":
		if unique == nil || str == "" {
			return "", nil
		}
		exists, err := unique(ctx, rule.Field, str)
		if err != nil {
			return "", fmt.Errorf("uniqueness check for %s: %w", rule.Field, err)
		}
		if exists {
			return fmt.Sprintf("%s has already been registered", rule.Label), nil
		}

	case "telephone":
		if present && !telephoneRe.MatchString(str) {
			return fmt.Sprintf("%s format is invalid", rule.Label), nil
		}

	case "alpha_dash":
		if !alphaDashRe.MatchString(str) {
			return fmt.Sprintf("%s may only contain letters, numbers, dashes and underscores", rule.Label), nil
		}

	case "integer":
		if present && !isInteger(value) {
			return fmt.Sprintf("%s must be an integer", rule.Label), nil
		}

	case "string":
		if !present {
			return "", nil
		}
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("%s must be a string", rule.Label), nil
		}
	}

	return "", nil
}

// lookupField resolves a dotted field path ("address.address_1") against
// the submitted payload.
func lookupField(data map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = data

	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case uint:
		return strconv.FormatUint(uint64(s), 10)
	case bool:
		if s {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isInteger(v interface{}) bool {
	switch n := v.(type) {
	case int, int32, int64, uint, uint32, uint64:
		return true
	case float64:
		return n == float64(int64(n))
	case string:
		_, err := strconv.ParseInt(n, 10, 64)
		return err == nil
	default:
		return false
	}
}
