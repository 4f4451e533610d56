package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/semmy-space/opsync/internal/config"
	"github.com/semmy-space/opsync/internal/output"
)

// ConfigGetCmd implements config get command
type ConfigGetCmd struct {
	Key string `arg:"" help:"Config key to get (e.g., vault, remote)"`
}

// Run executes the get command
func (cmd *ConfigGetCmd) Run(cfg *config.Config, console *output.Console) error {
	value, err := cfg.Get(cmd.Key)
	if err != nil {
		return output.NewCLIError(output.ExitGeneral, err.Error())
	}

	fmt.Fprintln(console.Out, value)
	return nil
}

// ConfigSetCmd implements config set command
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key to set"`
	Value string `arg:"" help:"Value to set"`
}

// Run executes the set command
func (cmd *ConfigSetCmd) Run(cfg *config.Config, console *output.Console) error {
	if err := cfg.Set(cmd.Key, cmd.Value); err != nil {
		return output.Errorf("Failed to set config: %w", err)
	}

	fmt.Fprintf(console.Err, "Set %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

// ConfigUnsetCmd implements config unset command
type ConfigUnsetCmd struct {
	Key string `arg:"" help:"Config key to remove"`
}

// Run executes the unset command
func (cmd *ConfigUnsetCmd) Run(cfg *config.Config, console *output.Console) error {
	if err := cfg.Unset(cmd.Key); err != nil {
		return output.Errorf("Failed to unset config: %w", err)
	}

	fmt.Fprintf(console.Err, "Unset %s\n", cmd.Key)
	return nil
}

// ConfigListConfigCmd implements config list command
type ConfigListConfigCmd struct{}

type configItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Run executes the list command
func (cmd *ConfigListConfigCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	keys := config.Keys()
	items := make([]configItem, 0, len(keys))
	for _, key := range keys {
		value, err := cfg.Get(key)
		if err != nil {
			return output.Errorf("%w", err)
		}
		items = append(items, configItem{Key: key, Value: value})
	}

	cols := []output.Column{
		{Name: "Key", Key: "Key"},
		{Name: "Value", Key: "Value"},
	}
	return fp.Formatter.PrintList(items, cols)
}

// ConfigPathCmd implements config path command
type ConfigPathCmd struct{}

// Run executes the path command
func (cmd *ConfigPathCmd) Run(cfg *config.Config, console *output.Console) error {
	path := cfg.Path()
	fmt.Fprintln(console.Out, path)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(console.Err, "(file does not exist yet - will be created on first write)\n")
	} else {
		fmt.Fprintf(console.Err, "(file exists)\n")
	}
	return nil
}
