package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Plan struct {
	Name     string   `json:"-"`
	Price    string   `json:"price"`
	Features []string `json:"features"`
}

// Company is the product knowledge the sales assistant answers from.
type Company struct {
	name        string
	description string
	faqs        []FAQ
	plans       []Plan
}

type companyFile struct {
	Company     string  `json:"company"`
	Description string  `json:"description"`
	FAQs        []FAQ   `json:"faqs"`
	Pricing     pricing `json:"pricing"`
}

// pricing keeps plans in the order they appear in the source object.
type pricing []Plan

func (p *pricing) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil {
		return err
	} else if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("pricing must be an object")
	}

	var plans []Plan
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var plan Plan
		if err := dec.Decode(&plan); err != nil {
			return fmt.Errorf("plan %q: %w", name, err)
		}
		plan.Name = name
		plans = append(plans, plan)
	}
	*p = plans
	return nil
}

func ParseCompany(data []byte) (*Company, error) {
	var file companyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode company info: %w", err)
	}
	name := strings.TrimSpace(file.Company)
	if name == "" {
		name = "Unknown"
	}

	c := &Company{
		name:        name,
		description: strings.TrimSpace(file.Description),
		faqs:        slices.Clone(file.FAQs),
		plans:       make([]Plan, 0, len(file.Pricing)),
	}
	for _, plan := range file.Pricing {
		plan.Features = slices.Clone(plan.Features)
		c.plans = append(c.plans, plan)
	}
	return c, nil
}

func (c *Company) Name() string {
	if c == nil {
		return "Unknown"
	}
	return c.name
}

func (c *Company) Description() string {
	if c == nil {
		return ""
	}
	return c.description
}

func (c *Company) Plans() []Plan {
	if c == nil {
		return nil
	}
	plans := make([]Plan, len(c.plans))
	for i, plan := range c.plans {
		plan.Features = slices.Clone(plan.Features)
		plans[i] = plan
	}
	return plans
}

// Answer replies to a free-form question with keyword matching: pricing
// words list the plans, a FAQ whose longer question words appear in the
// query returns its answer, and anything else falls back to the company
// description.
func (c *Company) Answer(query string) string {
	q := strings.ToLower(query)

	if strings.Contains(q, "price") || strings.Contains(q, "cost") || strings.Contains(q, "plan") {
		if len(c.Plans()) == 0 {
			return "I don't have pricing details to share right now."
		}
		var b strings.Builder
		b.WriteString("Here are our pricing plans:\n")
		for _, plan := range c.Plans() {
			features := plan.Features
			if len(features) > 2 {
				features = features[:2]
			}
			fmt.Fprintf(&b, "- %s: %s. Features: %s...\n", plan.Name, plan.Price, strings.Join(features, ", "))
		}
		return b.String()
	}

	if c != nil {
		for _, faq := range c.faqs {
			for _, word := range strings.Fields(strings.ToLower(faq.Question)) {
				if len(word) > 4 && strings.Contains(q, word) {
					return faq.Answer
				}
			}
		}
	}

	if strings.Contains(q, "what") && strings.Contains(q, "do") && c.Description() != "" {
		return c.Description()
	}

	return "I'm not sure about that specific detail, but I can tell you that " + c.Description()
}
