package nb2pdf

import (
	"context"
	"fmt"
	"strings"
)

// IdentityStore persists the identity fields between invocations.
// LoadIdentity returns the stored values without defaults applied.
type IdentityStore interface {
	LoadIdentity() (IdentityConfig, error)
	SaveIdentity(IdentityConfig) error
}

// identityPrompts lists the configure questions in order.
var identityPrompts = []struct {
	label       string
	placeholder string
	field       func(*IdentityConfig) *string
}{
	{"Enter your full name", "John Doe", func(c *IdentityConfig) *string { return &c.StudentName }},
	{"Enter your roll number", DefaultRollNumber, func(c *IdentityConfig) *string { return &c.RollNumber }},
	{"Enter your course name", DefaultCourse, func(c *IdentityConfig) *string { return &c.Course }},
	{"Enter assignment title", "Mini Project Part A", func(c *IdentityConfig) *string { return &c.Assignment }},
}

// ConfigureIdentity prompts for each identity field, pre-filled with the
// stored value. Only non-empty answers replace stored values; a dismissed
// prompt keeps the field and moves on. One confirmation is notified.
func (c *Converter) ConfigureIdentity(ctx context.Context, store IdentityStore) (IdentityConfig, error) {
	current, err := store.LoadIdentity()
	if err != nil {
		return IdentityConfig{}, fmt.Errorf("loading identity: %w", err)
	}
	if c.resolver.Prompter == nil {
		return current, fmt.Errorf("configuring identity: %w", ErrPromptDismissed)
	}

	updated := current
	for _, p := range identityPrompts {
		field := p.field(&updated)
		answer, ok, err := c.resolver.Prompter.Prompt(ctx, Prompt{
			Label:       p.label,
			Value:       *field,
			Placeholder: p.placeholder,
		})
		if err != nil {
			return current, fmt.Errorf("prompting identity: %w", err)
		}
		if answer = strings.TrimSpace(answer); ok && answer != "" {
			*field = answer
		}
	}

	if err := store.SaveIdentity(updated); err != nil {
		return current, fmt.Errorf("saving identity: %w", err)
	}
	c.notifier.Notify(ctx, Notification{Level: LevelInfo, Message: MsgIdentityUpdated})
	return updated, nil
}
