package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memora-care/memora/internal/auth"
	"github.com/memora-care/memora/internal/clock"
	"github.com/memora-care/memora/internal/config"
	"github.com/memora-care/memora/internal/transfer"
)

var tokenIdentity transfer.Identity

// tokenCmd is a development helper; production tokens come from the login flow.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a caregiver token signed with JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenIdentity.CaregiverID == "" {
			return errors.New("token: --id is required")
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		signed, err := auth.NewTokens(cfg.JWTSecret, clock.NewSystem()).Issue(tokenIdentity)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenIdentity.CaregiverID, "id", "", "caregiver id")
	tokenCmd.Flags().StringVar(&tokenIdentity.Email, "email", "", "caregiver email")
	tokenCmd.Flags().StringVar(&tokenIdentity.Name, "name", "", "caregiver name")
}
