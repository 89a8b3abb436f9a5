package circuit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Param is a gate parameter. In YAML it is a number or a pi expression.
type Param float64

// UnmarshalYAML accepts numbers and pi expressions.
func (p *Param) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: parameter must be a scalar", node.Line)
	}
	v, err := ParseParam(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*p = Param(v)
	return nil
}

// ParseParam evaluates a number or an expression of the form
// [-][k*]pi[/m].
func ParseParam(s string) (float64, error) {
	expr := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if expr == "" {
		return 0, fmt.Errorf("empty parameter")
	}
	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("parameter %q is not finite", s)
		}
		return v, nil
	}

	sign := 1.0
	if strings.HasPrefix(expr, "-") {
		sign = -1
		expr = expr[1:]
	}

	num, den, hasDen := strings.Cut(expr, "/")
	value := 1.0
	sawPi := false
	for _, factor := range strings.Split(num, "*") {
		if factor == "pi" {
			if sawPi {
				return 0, fmt.Errorf("parameter %q: pi appears twice", s)
			}
			sawPi = true
			value *= math.Pi
			continue
		}
		f, err := strconv.ParseFloat(factor, 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %q: invalid factor %q", s, factor)
		}
		value *= f
	}
	if !sawPi {
		return 0, fmt.Errorf("parameter %q is neither a number nor a pi expression", s)
	}

	if hasDen {
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("parameter %q: invalid divisor %q", s, den)
		}
		value /= d
	}
	return sign * value, nil
}

func floats(params []Param) []float64 {
	out := make([]float64, len(params))
	for i, p := range params {
		out[i] = float64(p)
	}
	return out
}
