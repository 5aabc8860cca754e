package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *cliArgs
		wantErr bool
	}{
		{"username only", []string{"alice"}, &cliArgs{username: "alice"}, false},
		{"username and password", []string{"alice", "secret123"}, &cliArgs{username: "alice", password: "secret123"}, false},
		{"public flag", []string{"alice", "secret123", "--public"}, &cliArgs{username: "alice", password: "secret123", publicAccess: true}, false},
		{"readonly flag", []string{"--readonly", "alice"}, &cliArgs{username: "alice", readonly: true}, false},
		{"both flags", []string{"alice", "--public", "--readonly"}, &cliArgs{username: "alice", publicAccess: true, readonly: true}, false},
		{"config flag skipped with value", []string{"-c", "config.json", "alice"}, &cliArgs{username: "alice"}, false},
		{"dsn flag skipped with value", []string{"-d", "postgres://x", "alice", "secret123"}, &cliArgs{username: "alice", password: "secret123"}, false},
		{"no positionals", []string{"--public"}, nil, true},
		{"too many positionals", []string{"a", "b", "c"}, nil, true},
		{"unknown flag", []string{"alice", "--force"}, nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseArgs(tc.args)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
