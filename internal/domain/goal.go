package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Frequency is how often growth is applied or money is added
type Frequency string

const (
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// PeriodsPerYear returns 12 for monthly, 1 for yearly and 0 for anything else
func (f Frequency) PeriodsPerYear() int {
	switch Frequency(strings.ToLower(string(f))) {
	case Monthly:
		return 12
	case Yearly:
		return 1
	default:
		return 0
	}
}

// Valid reports whether f is a supported frequency
func (f Frequency) Valid() bool { return f.PeriodsPerYear() > 0 }

// Role is a member's standing within a goal
type Role string

const (
	RoleOwner        Role = "owner"
	RoleCollaborator Role = "collaborator"
)

// ShareKind distinguishes percent-based members from fixed-amount members
type ShareKind int

const (
	// SharePercent is the zero value so an unset share means a 0% split.
	SharePercent ShareKind = iota
	ShareFixed
)

func (k ShareKind) String() string {
	if k == ShareFixed {
		return "fixed"
	}
	return "percent"
}

// Share is a member's contribution rule: either a percentage of the pool
// left after fixed commitments, or an absolute amount per period.
type Share struct {
	kind  ShareKind
	value decimal.Decimal
}

// PercentShare builds a proportional share (0-100)
func PercentShare(percent decimal.Decimal) Share {
	return Share{kind: SharePercent, value: percent}
}

// FixedShare builds an absolute per-period contribution
func FixedShare(amount decimal.Decimal) Share {
	return Share{kind: ShareFixed, value: amount}
}

// Kind returns the share variant
func (s Share) Kind() ShareKind { return s.kind }

// IsFixed reports whether the share is an absolute amount
func (s Share) IsFixed() bool { return s.kind == ShareFixed }

// Percent returns the split percent and true for percent shares
func (s Share) Percent() (decimal.Decimal, bool) {
	if s.kind != SharePercent {
		return decimal.Zero, false
	}
	return s.value, true
}

// FixedAmount returns the per-period amount and true for fixed shares
func (s Share) FixedAmount() (decimal.Decimal, bool) {
	if s.kind != ShareFixed {
		return decimal.Zero, false
	}
	return s.value, true
}

func (s Share) String() string {
	if s.kind == ShareFixed {
		return "fixed " + s.value.StringFixed(2)
	}
	return s.value.StringFixed(2) + "%"
}

// ErrConflictingShare is returned when a member carries both a split percent and a fixed amount.
var ErrConflictingShare = errors.New("split_percent and fixed_amount are mutually exclusive")

// Member is one stakeholder in a goal
type Member struct {
	UserID string
	Role   Role
	Share  Share
}

// IsOwner reports whether the member owns the goal
func (m Member) IsOwner() bool { return m.Role == RoleOwner }

// memberWire is the serialized form: the share is flattened back into two optional fields.
type memberWire struct {
	UserID       string           `yaml:"user_id" json:"userId"`
	Role         Role             `yaml:"role" json:"role"`
	SplitPercent *decimal.Decimal `yaml:"split_percent,omitempty" json:"splitPercent,omitempty"`
	FixedAmount  *decimal.Decimal `yaml:"fixed_amount,omitempty" json:"fixedAmount,omitempty"`
}

func (m Member) wire() memberWire {
	w := memberWire{UserID: m.UserID, Role: m.Role}
	if amt, ok := m.Share.FixedAmount(); ok {
		w.FixedAmount = &amt
	} else {
		pct, _ := m.Share.Percent()
		w.SplitPercent = &pct
	}
	return w
}

func memberFromWire(w memberWire) (Member, error) {
	m := Member{UserID: w.UserID, Role: w.Role}
	switch {
	case w.SplitPercent != nil && w.FixedAmount != nil:
		return Member{}, fmt.Errorf("member %q: %w", w.UserID, ErrConflictingShare)
	case w.FixedAmount != nil:
		m.Share = FixedShare(*w.FixedAmount)
	case w.SplitPercent != nil:
		m.Share = PercentShare(*w.SplitPercent)
	}
	return m, nil
}

// UnmarshalYAML decodes split_percent/fixed_amount into a Share.
func (m *Member) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		UserID       string  `yaml:"user_id"`
		Role         Role    `yaml:"role"`
		SplitPercent *string `yaml:"split_percent,omitempty"`
		FixedAmount  *string `yaml:"fixed_amount,omitempty"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	w := memberWire{UserID: aux.UserID, Role: aux.Role}
	if aux.SplitPercent != nil {
		val, err := decimal.NewFromString(*aux.SplitPercent)
		if err != nil {
			return fmt.Errorf("member %q: split_percent: %w", aux.UserID, err)
		}
		w.SplitPercent = &val
	}
	if aux.FixedAmount != nil {
		val, err := decimal.NewFromString(*aux.FixedAmount)
		if err != nil {
			return fmt.Errorf("member %q: fixed_amount: %w", aux.UserID, err)
		}
		w.FixedAmount = &val
	}

	decoded, err := memberFromWire(w)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

// MarshalYAML writes the share back as split_percent or fixed_amount
func (m Member) MarshalYAML() (interface{}, error) {
	return m.wire(), nil
}

// MarshalJSON writes the member as {userId, role, splitPercent?|fixedAmount?}
func (m Member) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.wire())
}

// UnmarshalJSON is the JSON counterpart of UnmarshalYAML
func (m *Member) UnmarshalJSON(data []byte) error {
	var w memberWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := memberFromWire(w)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

// MemberDetail is identity information resolved outside the engine
type MemberDetail struct {
	Email string  `yaml:"email" json:"email"`
	Name  *string `yaml:"name,omitempty" json:"name,omitempty"`
}

// Goal is a shared funding target
type Goal struct {
	ID                    string          `yaml:"id,omitempty" json:"id,omitempty"`
	Name                  string          `yaml:"name" json:"name"`
	TargetAmount          decimal.Decimal `yaml:"target_amount" json:"targetAmount"`
	Currency              string          `yaml:"currency" json:"currency"`
	TargetDate            time.Time       `yaml:"target_date" json:"targetDate"`
	ExpectedRate          decimal.Decimal `yaml:"expected_rate" json:"expectedRate"` // annual percent, e.g. 6 for 6%
	Compounding           Frequency       `yaml:"compounding" json:"compounding"`
	ContributionFrequency Frequency       `yaml:"contribution_frequency" json:"contributionFrequency"`
	ExistingSavings       decimal.Decimal `yaml:"existing_savings,omitempty" json:"existingSavings"`
	Members               []Member        `yaml:"members" json:"members"`
}

// Owner returns the first owner and its index, or -1 when the goal has none
func (g *Goal) Owner() (Member, int) {
	for i, m := range g.Members {
		if m.IsOwner() {
			return m, i
		}
	}
	return Member{}, -1
}

// Clone copies the goal including its member list
func (g Goal) Clone() Goal {
	c := g
	c.Members = append([]Member(nil), g.Members...)
	return c
}

// WithMembers returns a copy of the goal carrying a new member list
func (g Goal) WithMembers(members []Member) Goal {
	c := g
	c.Members = append([]Member(nil), members...)
	return c
}

// Configuration is the contents of a goals file
type Configuration struct {
	Goals           []Goal                  `yaml:"goals" json:"goals"`
	MemberDirectory map[string]MemberDetail `yaml:"member_directory,omitempty" json:"memberDirectory,omitempty"`
}

// FindGoal looks a goal up by ID first, then by case-insensitive name
func (c *Configuration) FindGoal(key string) (*Goal, bool) {
	for i := range c.Goals {
		if c.Goals[i].ID != "" && c.Goals[i].ID == key {
			return &c.Goals[i], true
		}
	}
	for i := range c.Goals {
		if strings.EqualFold(c.Goals[i].Name, key) {
			return &c.Goals[i], true
		}
	}
	return nil, false
}
