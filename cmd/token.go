package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/miru4128/gaayatri-project/internal/auth"
)

// TokenCommand issues a bearer token for local testing.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue a signed bearer token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "User id (token subject)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "User role",
				Value: "farmer",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Token lifetime",
				Value: 24 * time.Hour,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret)
			if err != nil {
				return fmt.Errorf("auth.jwt_secret is required: %w", err)
			}

			token, err := tokens.Issue(c.String("user"), c.String("role"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
