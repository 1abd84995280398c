package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/soporteit/support-desk/internal/repository"
	"github.com/soporteit/support-desk/internal/service"
)

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
	}
	cmd.AddCommand(newUserCreateCommand())
	return cmd
}

func newUserCreateCommand() *cobra.Command {
	var (
		password string
		fullName string
		email    string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a staff account",
		Long:  `Create a staff account. The password is read from the terminal when --password is omitted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if password == "" {
				var err error
				password, err = promptPassword(cmd.OutOrStdout(), os.Stdin)
				if err != nil {
					return err
				}
			}
			if fullName == "" {
				fullName = username
			}

			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			repos := repository.NewPostgresSet(env.pg.PoolHandle())
			input := service.UserCreateInput{
				Username: username,
				Password: password,
				FullName: fullName,
				Role:     role,
			}
			if email != "" {
				input.Email = &email
			}
			user, err := service.NewUserService(repos.Users, env.cfg.Auth.BcryptCost).CreateUser(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.Flags().StringVar(&fullName, "name", "", "Full name (defaults to the username)")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&role, "role", "tecnico", "Role: admin or tecnico")

	return cmd
}

// promptPassword reads a password twice without echo. Input that is not a
// terminal is read as a single line.
func promptPassword(out io.Writer, in *os.File) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(out, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(out, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
