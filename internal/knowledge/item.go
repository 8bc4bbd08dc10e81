package knowledge

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no knowledge item has the requested id.
	ErrNotFound = errors.New("knowledge item not found")
	// ErrInvalidItem is returned when a mutation lacks required fields.
	ErrInvalidItem = errors.New("invalid knowledge item")
)

// Item is a single question/answer entry of the training knowledge base.
type Item struct {
	ID        string    `json:"id" yaml:"id"`
	Category  string    `json:"category" yaml:"category"`
	Question  string    `json:"question" yaml:"question"`
	Answer    string    `json:"answer" yaml:"answer"`
	Keywords  []string  `json:"keywords" yaml:"keywords"`
	Phase     *int      `json:"phase,omitempty" yaml:"phase,omitempty"`
	Active    bool      `json:"active" yaml:"active"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"-"`
	CreatedBy string    `json:"created_by,omitempty" yaml:"-"`
	UpdatedBy string    `json:"updated_by,omitempty" yaml:"-"`
}

// Update describes an admin modification. Nil fields are left untouched; a
// non-nil Keywords slice replaces the whole keyword set.
type Update struct {
	Category *string  `json:"category,omitempty"`
	Question *string  `json:"question,omitempty"`
	Answer   *string  `json:"answer,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Phase    *int     `json:"phase,omitempty"`
	Active   *bool    `json:"active,omitempty"`
}

// Apply returns a copy of item with the update applied.
func (u Update) Apply(item Item) Item {
	if u.Category != nil {
		item.Category = strings.TrimSpace(*u.Category)
	}
	if u.Question != nil {
		item.Question = strings.TrimSpace(*u.Question)
	}
	if u.Answer != nil {
		item.Answer = strings.TrimSpace(*u.Answer)
	}
	if u.Keywords != nil {
		item.Keywords = NormalizeKeywords(u.Keywords)
	}
	if u.Phase != nil {
		phase := *u.Phase
		item.Phase = &phase
	}
	if u.Active != nil {
		item.Active = *u.Active
	}
	return item
}

// Validate checks the fields every stored item must carry.
func (i Item) Validate() error {
	switch {
	case strings.TrimSpace(i.Category) == "":
		return errors.Join(ErrInvalidItem, errors.New("category is required"))
	case strings.TrimSpace(i.Question) == "":
		return errors.Join(ErrInvalidItem, errors.New("question is required"))
	case strings.TrimSpace(i.Answer) == "":
		return errors.Join(ErrInvalidItem, errors.New("answer is required"))
	case i.Phase != nil && *i.Phase < 0:
		return errors.Join(ErrInvalidItem, errors.New("phase must not be negative"))
	}
	return nil
}

// NormalizeKeywords lower-cases, trims and de-duplicates keywords preserving order.
func NormalizeKeywords(keywords []string) []string {
	result := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		result = append(result, kw)
	}
	return result
}
