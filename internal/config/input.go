package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/goal-planner/internal/domain"
	money "github.com/rpgo/goal-planner/pkg/decimal"
)

var hundred = decimal.NewFromInt(100)

// InputParser handles parsing of goal files
type InputParser struct {
	// Now is the reference instant for the "target date in the future" rule.
	Now func() time.Time
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{Now: time.Now}
}

func (ip *InputParser) now() time.Time {
	if ip.Now == nil {
		return time.Now()
	}
	return ip.Now()
}

// LoadFromFile loads a goals configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, defaults and validates a goals document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ApplyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ApplyDefaults fills in optional fields: monthly frequencies and an upper-case currency
func ApplyDefaults(config *domain.Configuration) {
	for i := range config.Goals {
		g := &config.Goals[i]
		if g.Compounding == "" {
			g.Compounding = domain.Monthly
		}
		if g.ContributionFrequency == "" {
			g.ContributionFrequency = domain.Monthly
		}
		g.Compounding = domain.Frequency(strings.ToLower(string(g.Compounding)))
		g.ContributionFrequency = domain.Frequency(strings.ToLower(string(g.ContributionFrequency)))
		g.Currency = strings.ToUpper(strings.TrimSpace(g.Currency))
		for j := range g.Members {
			g.Members[j].Role = domain.Role(strings.ToLower(string(g.Members[j].Role)))
		}
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Goals) == 0 {
		return fmt.Errorf("no goals provided")
	}

	names := make(map[string]bool, len(config.Goals))
	for i := range config.Goals {
		g := &config.Goals[i]
		if err := ip.ValidateGoal(g); err != nil {
			label := g.Name
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			return fmt.Errorf("goal %q: %w", label, err)
		}
		key := strings.ToLower(g.Name)
		if names[key] {
			return fmt.Errorf("goal %q: duplicate goal name", g.Name)
		}
		names[key] = true
	}

	for id, detail := range config.MemberDirectory {
		if detail.Email != "" && !strings.Contains(detail.Email, "@") {
			return fmt.Errorf("member directory %q: invalid email %q", id, detail.Email)
		}
	}

	return nil
}

// ValidateGoal checks a single goal's fields and members
func (ip *InputParser) ValidateGoal(g *domain.Goal) error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("target amount must be positive")
	}
	if !money.IsCurrencyCode(g.Currency) {
		return fmt.Errorf("currency must be a three-letter ISO code, got %q", g.Currency)
	}
	if g.TargetDate.IsZero() {
		return fmt.Errorf("target date is required")
	}
	if !g.TargetDate.After(ip.now()) {
		return fmt.Errorf("target date %s must be in the future", g.TargetDate.Format("2006-01-02"))
	}
	if g.ExpectedRate.LessThanOrEqual(decimal.Zero) || g.ExpectedRate.GreaterThan(hundred) {
		return fmt.Errorf("expected rate must be greater than 0 and at most 100 percent")
	}
	if !g.Compounding.Valid() {
		return fmt.Errorf("compounding must be 'monthly' or 'yearly', got %q", g.Compounding)
	}
	if !g.ContributionFrequency.Valid() {
		return fmt.Errorf("contribution frequency must be 'monthly' or 'yearly', got %q", g.ContributionFrequency)
	}
	if g.ExistingSavings.LessThan(decimal.Zero) {
		return fmt.Errorf("existing savings cannot be negative")
	}
	return ValidateMembers(g.Members)
}

// ValidateMembers enforces one owner, unique user IDs and share ranges
func ValidateMembers(members []domain.Member) error {
	if len(members) == 0 {
		return fmt.Errorf("at least one member is required")
	}

	owners := 0
	seen := make(map[string]bool, len(members))
	for i, m := range members {
		if strings.TrimSpace(m.UserID) == "" {
			return fmt.Errorf("member %d: user id is required", i+1)
		}
		if seen[m.UserID] {
			return fmt.Errorf("member %d: duplicate user id %q", i+1, m.UserID)
		}
		seen[m.UserID] = true

		switch m.Role {
		case domain.RoleOwner:
			owners++
		case domain.RoleCollaborator:
		default:
			return fmt.Errorf("member %d: role must be 'owner' or 'collaborator', got %q", i+1, m.Role)
		}

		if amt, ok := m.Share.FixedAmount(); ok {
			if amt.IsNegative() {
				return fmt.Errorf("member %d: fixed amount cannot be negative", i+1)
			}
			continue
		}
		pct, _ := m.Share.Percent()
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fmt.Errorf("member %d: split percent must be between 0 and 100", i+1)
		}
	}

	if owners != 1 {
		return fmt.Errorf("exactly one owner is required, found %d", owners)
	}
	return nil
}

// CreateExampleConfiguration creates an example goals configuration
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	now := ip.now()
	houseDate := time.Date(now.Year()+10, time.January, 1, 0, 0, 0, 0, time.UTC)
	tripDate := time.Date(now.Year()+2, time.June, 1, 0, 0, 0, 0, time.UTC)
	aliceName := "Alice Example"
	bobName := "Bob Example"

	return &domain.Configuration{
		Goals: []domain.Goal{
			{
				Name:                  "House deposit",
				TargetAmount:          decimal.NewFromInt(120000),
				Currency:              money.DefaultCurrency,
				TargetDate:            houseDate,
				ExpectedRate:          decimal.NewFromInt(6),
				Compounding:           domain.Monthly,
				ContributionFrequency: domain.Monthly,
				ExistingSavings:       decimal.NewFromInt(15000),
				Members: []domain.Member{
					{UserID: "alice", Role: domain.RoleOwner, Share: domain.PercentShare(decimal.NewFromInt(60))},
					{UserID: "bob", Role: domain.RoleCollaborator, Share: domain.PercentShare(decimal.NewFromInt(40))},
				},
			},
			{
				Name:                  "Family trip",
				TargetAmount:          decimal.NewFromInt(8000),
				Currency:              money.DefaultCurrency,
				TargetDate:            tripDate,
				ExpectedRate:          decimal.NewFromFloat(3.5),
				Compounding:           domain.Yearly,
				ContributionFrequency: domain.Monthly,
				Members: []domain.Member{
					{UserID: "alice", Role: domain.RoleOwner, Share: domain.PercentShare(decimal.NewFromInt(100))},
					{UserID: "carol", Role: domain.RoleCollaborator, Share: domain.FixedShare(decimal.NewFromInt(50))},
				},
			},
		},
		MemberDirectory: map[string]domain.MemberDetail{
			"alice": {Email: "alice@example.com", Name: &aliceName},
			"bob":   {Email: "bob@example.com", Name: &bobName},
			"carol": {Email: "carol@example.com"},
		},
	}
}
