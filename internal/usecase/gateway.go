package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ReviewTriage/internal/ports"
)

var errNoOracle = errors.New("oracle is not configured")

// Prompt is a system/human template pair with {placeholder} variables.
type Prompt struct {
	System string
	Human  string
	Vars   map[string]string
}

func (p Prompt) render() (string, string) {
	if len(p.Vars) == 0 {
		return p.System, p.Human
	}
	pairs := make([]string, 0, len(p.Vars)*2)
	for key, value := range p.Vars {
		pairs = append(pairs, "{"+key+"}", value)
	}
	r := strings.NewReplacer(pairs...)
	return r.Replace(p.System), r.Replace(p.Human)
}

// Fields is the decoded JSON object returned by the oracle.
type Fields map[string]any

// String returns the named field as text; numbers are formatted, anything else is empty.
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Number returns the named field as a float, accepting numeric strings.
func (f Fields) Number(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Gateway gives every stage the same invoke-and-parse contract over the oracle.
type Gateway struct {
	oracle ports.Oracle
}

// NewGateway wraps an oracle; a nil oracle makes every call fail.
func NewGateway(oracle ports.Oracle) *Gateway {
	return &Gateway{oracle: oracle}
}

// Invoke renders the prompt, calls the oracle and decodes its JSON answer.
func (g *Gateway) Invoke(ctx context.Context, prompt Prompt) (Fields, error) {
	if g == nil || g.oracle == nil {
		return nil, errNoOracle
	}

	system, human := prompt.render()
	raw, err := g.oracle.Complete(ctx, system, human)
	if err != nil {
		return nil, fmt.Errorf("oracle call: %w", err)
	}

	fields, err := parseFields(raw)
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func parseFields(raw string) (Fields, error) {
	body := cleanJSON(raw)
	if body == "" {
		return nil, errors.New("oracle returned an empty answer")
	}

	var fields Fields
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("decode oracle answer: %w", err)
	}
	if fields == nil {
		return nil, errors.New("oracle answer is not a JSON object")
	}
	return fields, nil
}

// cleanJSON strips code fences and any prose around the first JSON object.
func cleanJSON(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	input = strings.TrimSpace(input)

	start := strings.Index(input, "{")
	end := strings.LastIndex(input, "}")
	if start < 0 || end < start {
		return input
	}
	return input[start : end+1]
}
