package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSSHRepo(t *testing.T) {
	m := SSHRepo.FindStringSubmatch("git@github.example.com:acme/widgets.git")
	assert.Equal(t, []string{"git@github.example.com:acme/widgets.git", "github.example.com", "acme", "widgets"}, m)

	assert.Nil(t, SSHRepo.FindStringSubmatch("https://github.com/acme/widgets"))
}

func TestMarkdownJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", "{\"a\":1}\n"},
		{"bare fence", "```\n{}\n```\n", "{}\n"},
		{"inline fence", "```json{\"a\":1}```", "{\"a\":1}"},
		{"nested fence kept", "```json\n{\"body\":\"```go\\nx\\n```\"}\n```", "{\"body\":\"```go\\nx\\n```\"}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MarkdownJSONBlock.FindStringSubmatch(tt.input)
			if assert.Len(t, m, 2) {
				assert.Equal(t, tt.want, m[1])
			}
		})
	}
}

func TestUnsafeFilenameChars(t *testing.T) {
	assert.Equal(t, "my-report-v2-.pdf", UnsafeFilenameChars.ReplaceAllString("my report (v2).pdf", "-"))
	assert.Equal(t, "a-b", UnsafeFilenameChars.ReplaceAllString("a ñ b", "-"))
}
