package onepassword

import "context"

// Service defines the vault operations opsync relies on. The vault argument scopes a
// call to one vault; empty means every vault the account can see.
type Service interface {
	ListItems(ctx context.Context, category, vault string) ([]ItemSummary, error)
	GetItem(ctx context.Context, id, vault string) (*Item, error)
	CreateItem(ctx context.Context, req *CreateItemRequest) (*Item, error)
	EditItem(ctx context.Context, id, vault string, assignments ...string) (*Item, error)
	ShareLink(ctx context.Context, id, vault string) (string, error)
}

// CreateItemRequest describes a new item. Assignments use op's field assignment syntax.
type CreateItemRequest struct {
	Category    string
	Title       string
	Vault       string
	Assignments []string
}

// Compile-time interface compliance check
var _ Service = (*CLIClient)(nil)
