package cmd

import (
	"strings"
	"testing"

	"github.com/ferntree/sprout/internal/identity"
	"github.com/ferntree/sprout/internal/store"
)

func TestWhoamiAndLogout(t *testing.T) {
	dir := testEnv(t)

	out, err := executeCommand(rootCmd, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "Not signed in") {
		t.Errorf("expected the signed-out message, got:\n%s", out)
	}

	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := identity.NewManager(fs).SignIn(identity.User{Name: "Asha", Email: "asha@example.com"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	out, err = executeCommand(rootCmd, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "Signed in as Asha <asha@example.com>.") {
		t.Errorf("expected the signed-in line, got:\n%s", out)
	}

	out, err = executeCommand(rootCmd, "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Signed out.") {
		t.Errorf("expected the logout confirmation, got:\n%s", out)
	}

	out, err = executeCommand(rootCmd, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "Not signed in") {
		t.Errorf("expected the signed-out message after logout, got:\n%s", out)
	}
}
