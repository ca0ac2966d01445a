package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	internalstrings "github.com/tempoapp/tempo/internal/strings"
	"github.com/tempoapp/tempo/user"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to the tempo server and store the token",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := readPassword()
	if err != nil {
		return err
	}

	client := newClient()
	var session struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}
	err = client.postJSON(cmd.Context(), "/api/auth/login", map[string]string{
		"email":    args[0],
		"password": password,
	}, &session)
	if err != nil {
		return err
	}

	if err := saveToken(session.Token); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", session.User.Email)
	return nil
}

// readPassword prompts on a terminal; otherwise it reads one line from
// stdin, so scripts can pipe the password in.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(password), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return internalstrings.TrimSpace(line), nil
}
