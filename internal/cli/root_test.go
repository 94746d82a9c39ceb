package cli

import (
	"bytes"
	"context"
	"testing"
)

func TestNewRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	want := []string{"check", "inspect", "validate", "watch", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	if root.PersistentFlags().Lookup("log-level") == nil {
		t.Error("Missing persistent flag: log-level")
	}
}

func TestNewRootCommand_InvalidLogLevel(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"--log-level", "loud", "version"})
	var out bytes.Buffer
	root.SetOut(&out)

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for invalid log level")
	}
	if out.Len() != 0 {
		t.Errorf("version ran despite invalid log level: %q", out.String())
	}
}

func TestNewRootCommand_Version(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"--log-level", "debug", "version"})
	var out bytes.Buffer
	root.SetOut(&out)

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("sitelog ")) {
		t.Errorf("version output = %q", out.String())
	}
}
