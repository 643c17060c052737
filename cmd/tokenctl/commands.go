package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/tokenkit/auth"
	"github.com/kbukum/tokenkit/auth/jwt"
	"github.com/kbukum/tokenkit/config"
	"github.com/kbukum/tokenkit/logger"
	"github.com/kbukum/tokenkit/version"
)

// configService names the service whose config files tokenctl reads.
const configService = "authd"

type cliConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Auth auth.Config `yaml:"auth" mapstructure:"auth"`
}

func (c *cliConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Name == "" {
		c.Name = "tokenctl"
	}
	c.Auth.ApplyDefaults()
}

func (c *cliConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if c.Auth.JWT == nil {
		return fmt.Errorf("auth.jwt is required")
	}
	return c.Auth.Validate()
}

type rootOptions struct {
	configFile string
	envFile    string
	envPrefix  string
}

func (o *rootOptions) authority() (*jwt.Authority, error) {
	opts := []config.LoaderOption{}
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		opts = append(opts, config.WithEnvFile(o.envFile))
	}
	if o.envPrefix != "" {
		opts = append(opts, config.WithEnvPrefix(o.envPrefix))
	}

	var cfg cliConfig
	if err := config.Load(configService, &cfg, opts...); err != nil {
		return nil, err
	}
	return cfg.Auth.NewAuthority(jwt.WithLogger(logger.NewNop()))
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "tokenctl",
		Short:         "Issue and verify access and refresh tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", ".env file to load")
	cmd.PersistentFlags().StringVar(&opts.envPrefix, "env-prefix", "", "Only bind PREFIX_* environment variables")

	cmd.AddCommand(
		newIssueCmd(&opts),
		newVerifyCmd(&opts),
		newRefreshCmd(&opts),
		newVersionCmd(),
	)
	return cmd
}

func newIssueCmd(opts *rootOptions) *cobra.Command {
	var (
		p    jwt.Principal
		role string
		pair bool
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token, or a token pair with --pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := jwt.ParseRole(role)
			if err != nil {
				return err
			}
			p.Role = r

			authority, err := opts.authority()
			if err != nil {
				return err
			}
			if pair {
				tp, err := authority.IssueTokenPair(p)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), tp)
			}
			token, err := authority.IssueAccessToken(p)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().Int64Var(&p.UserID, "user-id", 0, "User id (required)")
	cmd.Flags().StringVar(&p.Email, "email", "", "Email claim")
	cmd.Flags().StringVar(&p.Name, "name", "", "Name claim")
	cmd.Flags().StringVar(&role, "role", "", "Role claim (USER or ADMIN)")
	cmd.Flags().BoolVar(&pair, "pair", false, "Issue an access and refresh token pair as JSON")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Verify a token and print its principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			authority, err := opts.authority()
			if err != nil {
				return err
			}
			verify := authority.VerifyAccessToken
			if refresh {
				verify = authority.VerifyRefreshToken
			}
			p, err := verify(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Verify as a refresh token")
	return cmd
}

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh REFRESH_TOKEN",
		Short: "Exchange a refresh token for a new access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			authority, err := opts.authority()
			if err != nil {
				return err
			}
			token, err := authority.RefreshAccessToken(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), version.Get())
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
