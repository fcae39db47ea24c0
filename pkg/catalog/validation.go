package catalog

import (
	"fmt"
	"math"
	"regexp"
	"sort"
)

var typeDefaults = map[FieldType]Validation{
	TypeText:     {RuleMaxLength: 255},
	TypeTextarea: {RuleMaxLength: 1000},
	TypePassword: {RuleMinLength: 8, RuleRequired: true},
}

// TypeDefaults returns the generic validation for a field type.
func TypeDefaults(t FieldType) Validation {
	return typeDefaults[t].Clone()
}

// MergeValidation layers validations left to right; keys in later layers
// replace earlier ones. Inputs are never modified.
func MergeValidation(layers ...Validation) Validation {
	out := Validation{}
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// Restrict drops rule keys the field type does not accept.
func (v Validation) Restrict(t FieldType) Validation {
	out := make(Validation, len(v))
	for k, val := range v {
		if t.Allows(k) {
			out[k] = val
		}
	}
	return out
}

// normalizeValidation converts integral floats (as produced by JSON
// decoding) into ints so YAML and JSON catalogs compare equal.
func normalizeValidation(v Validation) Validation {
	if v == nil {
		return nil
	}
	out := make(Validation, len(v))
	for k, val := range v {
		out[k] = normalizeNumber(val)
	}
	return out
}

func normalizeNumber(val any) any {
	switch n := val.(type) {
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int(n)
		}
	case float32:
		return normalizeNumber(float64(n))
	case int64:
		return int(n)
	case uint64:
		return int(n)
	}
	return val
}

func checkValidation(t FieldType, v Validation) []string {
	var problems []string
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		val := v[key]
		if !t.Allows(key) {
			problems = append(problems, fmt.Sprintf("rule %q is not supported by type %q", key, t))
			continue
		}
		switch key {
		case RuleRequired:
			if _, ok := val.(bool); !ok {
				problems = append(problems, "required must be a boolean")
			}
		case RuleMinLength, RuleMaxLength, RuleMaxTags:
			n, ok := val.(int)
			if !ok || n < 0 {
				problems = append(problems, fmt.Sprintf("%s must be a non-negative integer", key))
			}
		case RuleMin, RuleMax:
			switch val.(type) {
			case int, float64, string:
			default:
				problems = append(problems, fmt.Sprintf("%s must be a number or a string", key))
			}
		case RulePattern:
			expr, ok := val.(string)
			if !ok {
				problems = append(problems, "pattern must be a string")
				continue
			}
			if _, err := regexp.Compile(expr); err != nil {
				problems = append(problems, fmt.Sprintf("pattern does not compile: %v", err))
			}
		case RuleRule:
			if _, ok := val.(string); !ok {
				problems = append(problems, "rule must be a string")
			}
		}
	}
	return problems
}
