package regex

import "regexp"

var (
	// Repository references
	SSHRepo = regexp.MustCompile(`^git@([^:]+):([^/]+)/([^/]+?)(?:\.git)?/?$`)

	// AI output parsing. Greedy so fences inside the draft body survive.
	MarkdownJSONBlock = regexp.MustCompile("(?s)^```[A-Za-z0-9]*[ \t]*\n?(.*)```\\s*$")

	// Upload object keys
	UnsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)
