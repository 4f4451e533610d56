// Package onepassword drives the 1Password CLI (op) and locates the items opsync syncs.
package onepassword

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/semmy-space/opsync/internal/command"
	"github.com/semmy-space/opsync/internal/logging"
)

// DefaultBinary is the op executable looked up in PATH.
const DefaultBinary = "op"

// CLIClient implements Service by running op as a subprocess.
type CLIClient struct {
	exec   command.Executor
	binary string
	log    *zap.Logger
}

// NewCLIClient creates a client. An empty binary means DefaultBinary.
func NewCLIClient(exec command.Executor, binary string, log *zap.Logger) *CLIClient {
	if binary == "" {
		binary = DefaultBinary
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CLIClient{exec: exec, binary: binary, log: log}
}

// ListItems lists item summaries of one category.
func (c *CLIClient) ListItems(ctx context.Context, category, vault string) ([]ItemSummary, error) {
	out, err := c.run(ctx, vault, "item", "list", "--categories", category, "--format", "json")
	if err != nil {
		return nil, err
	}

	var items []ItemSummary
	if err := json.Unmarshal(out, &items); err != nil {
		return nil, fmt.Errorf("decode item list: %w", err)
	}
	return items, nil
}

// GetItem fetches an item with its field values.
func (c *CLIClient) GetItem(ctx context.Context, id, vault string) (*Item, error) {
	out, err := c.run(ctx, vault, "item", "get", id, "--format", "json")
	if err != nil {
		return nil, err
	}
	return decodeItem(out)
}

// CreateItem creates an item and returns it as stored.
func (c *CLIClient) CreateItem(ctx context.Context, req *CreateItemRequest) (*Item, error) {
	args := []string{"item", "create", "--category", req.Category, "--title", req.Title}
	args = append(args, req.Assignments...)
	args = append(args, "--format", "json")

	out, err := c.run(ctx, req.Vault, args...)
	if err != nil {
		return nil, err
	}
	return decodeItem(out)
}

// EditItem applies field assignments to an existing item.
func (c *CLIClient) EditItem(ctx context.Context, id, vault string, assignments ...string) (*Item, error) {
	args := append([]string{"item", "edit", id}, assignments...)
	args = append(args, "--format", "json")

	out, err := c.run(ctx, vault, args...)
	if err != nil {
		return nil, err
	}
	return decodeItem(out)
}

// ShareLink returns a shareable link to the item. op prints it as plain text.
func (c *CLIClient) ShareLink(ctx context.Context, id, vault string) (string, error) {
	out, err := c.run(ctx, vault, "item", "get", id, "--share-link")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *CLIClient) run(ctx context.Context, vault string, args ...string) ([]byte, error) {
	if vault != "" {
		args = append(args, "--vault", vault)
	}

	c.log.Debug("running op", zap.String("binary", c.binary), zap.Strings("args", logging.RedactArgs(args)))
	stdout, stderr, err := c.exec.Execute(ctx, c.binary, args...)
	if err != nil {
		c.log.Debug("op failed", zap.Error(err), zap.ByteString("stderr", stderr))
		return nil, err
	}
	c.log.Debug("op finished", zap.Int("stdout_bytes", len(stdout)))
	return stdout, nil
}

func decodeItem(data []byte) (*Item, error) {
	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return &item, nil
}
