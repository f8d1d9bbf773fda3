package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"catalog-management/service"
	"catalog-management/storage"
)

const adminPasswordEnv = "CATALOG_ADMIN_PASSWORD"

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
	}

	var username, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminService(cmd, password, func(svc *service.Service, pw string) error {
				u, err := svc.CreateAdmin(cmd.Context(), username, pw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (id %d)\n", u.Username, u.ID)
				return nil
			})
		},
	}
	setPassword := &cobra.Command{
		Use:   "set-password",
		Short: "Change the password of an admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminService(cmd, password, func(svc *service.Service, pw string) error {
				if err := svc.SetAdminPassword(cmd.Context(), username, pw); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password of %q updated\n", username)
				return nil
			})
		},
	}
	for _, c := range []*cobra.Command{create, setPassword} {
		c.Flags().StringVarP(&username, "username", "u", "", "admin username")
		c.Flags().StringVarP(&password, "password", "p", "", "password (defaults to "+adminPasswordEnv+" or stdin)")
		_ = c.MarkFlagRequired("username")
	}

	cmd.AddCommand(create, setPassword)
	return cmd
}

func withAdminService(cmd *cobra.Command, password string, fn func(svc *service.Service, password string) error) error {
	pw, err := resolvePassword(password, cmd.InOrStdin())
	if err != nil {
		return err
	}
	cfg, sync, err := setup()
	if err != nil {
		return err
	}
	defer sync()

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// admin commands never touch blobs
	svc := service.NewService(st, storage.NewLocal(cfg.Storage.Local.Dir, cfg.Storage.Local.URLPrefix),
		service.WithBcryptCost(cfg.Auth.BcryptCost))
	return fn(svc, pw)
}

// resolvePassword prefers the flag, then the environment, then the first
// line of stdin.
func resolvePassword(flag string, stdin io.Reader) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if pw := os.Getenv(adminPasswordEnv); pw != "" {
		return pw, nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "read password")
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}
