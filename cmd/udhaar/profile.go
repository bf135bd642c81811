package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udhaarapp/udhaar/internal/cli"
	"github.com/udhaarapp/udhaar/internal/model"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your user profile",
	}

	cmd.AddCommand(profileSetCmd())
	cmd.AddCommand(profileShowCmd())

	return cmd
}

func profileSetCmd() *cobra.Command {
	var (
		name    string
		mobile  string
		email   string
		age     string
		country string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update your profile",
		Long: `Create or update your profile. When a backend identity is configured
the profile is also mirrored to the shared profiles table so counterparties
see your name on synced loans.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			profile := model.UserProfile{
				Name:    name,
				Mobile:  mobile,
				Email:   email,
				Age:     age,
				Country: country,
			}
			if existing := eng.Profile(); existing != nil {
				if profile.Name == "" {
					profile.Name = existing.Name
				}
				if profile.Mobile == "" {
					profile.Mobile = existing.Mobile
				}
				if profile.Email == "" {
					profile.Email = existing.Email
				}
				if profile.Age == "" {
					profile.Age = existing.Age
				}
				if profile.Country == "" {
					profile.Country = existing.Country
				}
			}

			if err := eng.SaveProfile(cmd.Context(), profile); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Profile saved"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&mobile, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&age, "age", "", "age")
	cmd.Flags().StringVar(&country, "country", "", "country")

	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			profile := eng.Profile()
			if profile == nil {
				fmt.Println(cli.SubtleStyle.Render("No profile yet. Run 'udhaar profile set --name ... --mobile ...'"))
				return nil
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Name:    %s\n", profile.Name)
			fmt.Fprintf(&b, "Mobile:  %s\n", profile.Mobile)
			if profile.Email != "" {
				fmt.Fprintf(&b, "Email:   %s\n", profile.Email)
			}
			if profile.Age != "" {
				fmt.Fprintf(&b, "Age:     %s\n", profile.Age)
			}
			if profile.Country != "" {
				fmt.Fprintf(&b, "Country: %s\n", profile.Country)
			}
			if eng.Synced() {
				fmt.Fprintf(&b, "Backend: %s\n", cli.SuccessStyle.Render("connected"))
			} else {
				fmt.Fprintf(&b, "Backend: %s\n", cli.SubtleStyle.Render("not configured"))
			}

			fmt.Println(cli.RenderBox("Profile", strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
}
