package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/identity"
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash for " + config.EnvAdminPasswordHash,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.ErrOrStderr(), promptStyle.Render("Password: "))

			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return err
				}
				return fmt.Errorf("no password given")
			}
			password := strings.TrimRight(scanner.Text(), "\r")
			if password == "" {
				return fmt.Errorf("password must not be empty")
			}

			hash, err := identity.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr())
			fmt.Fprintln(cmd.OutOrStdout(), outputStyle.Render(hash))
			return nil
		},
	}
}

func newKeygenCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an Ed25519 session signing key for " + config.EnvSessionSigningKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			pemData, err := identity.GenerateKeyPEM()
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				fmt.Fprint(cmd.OutOrStdout(), pemData)
				return nil
			}
			if err := os.WriteFile(out, []byte(pemData), 0o600); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Wrote signing key to "+out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "-", "file to write the PEM key to")
	return cmd
}

func newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-config [file]",
		Short: "Write an example config with every default filled in",
		Args:  cobra.MaximumNArgs(1),
		// Runs before a config exists, so skip loading one.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)

			yamlData, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("error generating YAML: %w", err)
			}

			header := "# Denuo Web configuration example\n# Copy this file to config.yaml and customize as needed\n\n"
			output := header + string(yamlData)

			outputFile := "config.example.yaml"
			if len(args) == 1 {
				outputFile = args[0]
			}

			if outputFile == "-" {
				fmt.Fprint(cmd.OutOrStdout(), output)
				return nil
			}
			if err := os.WriteFile(outputFile, []byte(output), 0o644); err != nil {
				return fmt.Errorf("error writing file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Generated example config: "+outputFile))
			return nil
		},
	}
}
