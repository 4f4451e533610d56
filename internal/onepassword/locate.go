package onepassword

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// NotFoundError means no item title carries the searched token.
type NotFoundError struct {
	Token string
	Vault string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no 1Password item found with %q in its title %s", e.Token, scope(e.Vault))
}

// AmbiguousMatchError means several item titles carry the searched token.
type AmbiguousMatchError struct {
	Token string
	Vault string
	Count int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("found %d 1Password items with %q in their title %s", e.Count, e.Token, scope(e.Vault))
}

// Hint tells the user how to make the lookup unique.
func (e *AmbiguousMatchError) Hint() string {
	return "Use distinct item titles, or scope the search with --vault"
}

// Locate returns the id of the only Secure Note whose title contains token as a
// whitespace-delimited word.
func Locate(ctx context.Context, svc Service, token, vault string) (string, error) {
	items, err := svc.ListItems(ctx, CategorySecureNote, vault)
	if err != nil {
		return "", fmt.Errorf("list 1Password items: %w", err)
	}

	var matches []ItemSummary
	for _, item := range items {
		if slices.Contains(strings.Fields(item.Title), token) {
			matches = append(matches, item)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Token: token, Vault: vault}
	case 1:
		return matches[0].ID, nil
	default:
		return "", &AmbiguousMatchError{Token: token, Vault: vault, Count: len(matches)}
	}
}

func scope(vault string) string {
	if vault == "" {
		return "in any vault"
	}
	return fmt.Sprintf("in vault %q", vault)
}
