// Package registry assembles the top-level commands and guarantees that no
// two of them answer to the same name or alias.
package registry

import (
	"errors"
	"slices"
	"strings"

	"github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/urfave/cli/v3"
)

type CommandFactory interface {
	CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command
}

// Registry builds each command as it is registered, so a conflict is reported
// at the Register call that introduces it.
type Registry struct {
	cfg      *config.Config
	t        *i18n.Translations
	commands []*cli.Command
	// claimed maps every name and alias to the command that owns it.
	claimed map[string]string
}

func NewRegistry(cfg *config.Config, t *i18n.Translations) *Registry {
	return &Registry{
		cfg:     cfg,
		t:       t,
		claimed: make(map[string]string),
	}
}

// Register builds the factory's command and claims its name and aliases.
func (r *Registry) Register(factory CommandFactory) error {
	cmd := factory.CreateCommand(r.t, r.cfg)
	if cmd == nil || strings.TrimSpace(cmd.Name) == "" {
		return errors.New(r.t.GetMessage("command_without_name", 0, nil))
	}

	names := append([]string{cmd.Name}, cmd.Aliases...)
	for _, name := range names {
		if owner, taken := r.claimed[name]; taken {
			return errors.New(r.t.GetMessage("command_name_conflict", 0, map[string]interface{}{
				"Name":  name,
				"Owner": owner,
			}))
		}
	}
	for _, name := range names {
		r.claimed[name] = cmd.Name
	}

	r.commands = append(r.commands, cmd)
	return nil
}

// Commands returns the registered commands ordered by name.
func (r *Registry) Commands() []*cli.Command {
	out := slices.Clone(r.commands)
	slices.SortFunc(out, func(a, b *cli.Command) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
