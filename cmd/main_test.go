package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigPathFromArgs(t *testing.T) {
	t.Setenv("ISSUEMATE_CONFIG", "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no flag", []string{"issuemate", "serve"}, ""},
		{"long flag", []string{"issuemate", "--config", "/etc/im.toml", "serve"}, "/etc/im.toml"},
		{"short flag", []string{"issuemate", "-c", "im.yaml", "draft"}, "im.yaml"},
		{"equals form", []string{"issuemate", "--config=/tmp/a.toml", "mcp"}, "/tmp/a.toml"},
		{"after terminator", []string{"issuemate", "draft", "--", "--config", "x"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, configPathFromArgs(tt.args))
		})
	}

	t.Run("falls back to the environment", func(t *testing.T) {
		t.Setenv("ISSUEMATE_CONFIG", "/env/config.toml")
		assert.Equal(t, "/env/config.toml", configPathFromArgs([]string{"issuemate"}))
	})
}

func TestInitializeApp(t *testing.T) {
	t.Setenv("ISSUEMATE_CONFIG", "")
	t.Setenv("HOME", t.TempDir())

	app, err := initializeApp([]string{"issuemate"})

	assert.NoError(t, err)
	names := make([]string, 0, len(app.Commands))
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"config", "draft", "issue", "mcp", "reference", "serve"}, names)
}
