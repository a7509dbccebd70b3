package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/internal/export"
	"github.com/sangkips/receiptflow/internal/listing"
	"github.com/sangkips/receiptflow/internal/validation"
	"github.com/sangkips/receiptflow/internal/viewstate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAdminCmd(a *app) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Dashboard commands (token required unless --mock)",
	}
	adminCmd.AddCommand(
		newLoginCmd(a),
		newAdminReceiptsCmd(a),
		newAdminGenerateCmd(a),
		newAdminDeleteCmd(a),
		newAdminResendCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newSettingsCmd(a),
		newTestEmailCmd(a),
	)
	return adminCmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.api == nil {
				return errors.New("login is not needed with the mock backend")
			}
			ctx, cancel := a.callContext(cmd)
			defer cancel()
			token, err := a.api.Login(ctx, email, password)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render("Signed in as "+email))
			fmt.Fprintln(out, mutedStyle.Render("Pass the token with --token or RECEIPTCTL_TOKEN:"))
			fmt.Fprintln(out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", os.Getenv("RECEIPTCTL_PASSWORD"), "admin password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newAdminReceiptsCmd(a *app) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "Search and page through all receipts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := flags.view(cmd, a, listing.Dashboard)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(page.Items) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No receipts match the current filters"))
				return nil
			}
			fmt.Fprintln(out, receiptTable(page.Items, true))
			fmt.Fprintln(out, pageFooter(page))
			return nil
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newAdminGenerateCmd(a *app) *cobra.Command {
	var (
		order    orderFlags
		tax      string
		discount string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a receipt with an adjustable tax rate and discount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := order.form(validation.DashboardPolicy)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tax") {
				form = form.Set(viewstate.FieldTaxPercentage, tax)
			}
			if cmd.Flags().Changed("discount") {
				form = form.Set(viewstate.FieldDiscount, discount)
			}
			payload, err := submit(cmd, form)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			progress := func(s enum.ReceiptStatus) {
				fmt.Fprintln(out, statusStyle(s).Render("• "+s.Label()))
			}

			ctx, cancel := a.callContext(cmd)
			defer cancel()
			r, err := a.source.GenerateReceipt(ctx, client.NewCreateRequest(payload), progress)
			if err != nil {
				return err
			}
			a.logger.Debug("Receipt generated", zap.Int64("id", r.ID), zap.Stringer("status", r.Status))
			fmt.Fprint(out, receiptDetail(r))
			return nil
		},
	}
	order.register(cmd, enum.DashboardPaymentMethods)
	cmd.Flags().StringVar(&tax, "tax", "", "tax rate in percent (default 8)")
	cmd.Flags().StringVar(&discount, "discount", "", "discount amount (default 0)")
	return cmd
}

// receiptIDCmd builds a command acting on one receipt id
func receiptIDCmd(a *app, use, short, done string, action func(a *app, cmd *cobra.Command, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <receipt-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := viewstate.ParseReceiptID(args[0])
			if err != nil {
				return err
			}
			if err := action(a, cmd, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf(done, id)))
			return nil
		},
	}
}

func newAdminDeleteCmd(a *app) *cobra.Command {
	return receiptIDCmd(a, "delete", "Delete a receipt", "Receipt %d deleted",
		func(a *app, cmd *cobra.Command, id int64) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()
			return a.source.DeleteReceipt(ctx, id)
		})
}

func newAdminResendCmd(a *app) *cobra.Command {
	return receiptIDCmd(a, "resend", "Email a receipt to its customer again", "Receipt %d sent again",
		func(a *app, cmd *cobra.Command, id int64) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()
			return a.source.ResendEmail(ctx, id)
		})
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()
			stats, err := a.source.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), statsBlock(stats))
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
		search string
		status string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered receipts as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if err := checkStatus(status); err != nil {
				return err
			}

			ctx, cancel := a.callContext(cmd)
			defer cancel()
			receipts, err := a.source.ListReceipts(ctx)
			if err != nil {
				return err
			}
			selected := viewstate.NewReceiptList(listing.Dashboard, 0).
				Load(receipts).
				SetSearch(search).
				SetStatus(status).
				Filtered()

			if out == "" {
				out = export.FileName(time.Now(), f)
			}
			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := export.Write(file, f, selected); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Exported %d receipts to %s", len(selected), out)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "file format (csv or xlsx)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default receipts-export-<date>.<format>)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "search term")
	cmd.Flags().StringVar(&status, "status", enum.StatusAll, "status filter")
	return cmd
}

func newSettingsCmd(a *app) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the business settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()
			s, err := a.source.Settings(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), settingsBlock(s))
			return nil
		},
	}

	var next client.BusinessSettings
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change business settings; omitted flags keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()
			current, err := a.source.Settings(ctx)
			if err != nil {
				return err
			}

			merged := *current
			changed := cmd.Flags().Changed
			if changed("name") {
				merged.Name = next.Name
			}
			if changed("address") {
				merged.Address = next.Address
			}
			if changed("city") {
				merged.City = next.City
			}
			if changed("country") {
				merged.Country = next.Country
			}
			if changed("phone") {
				merged.Phone = next.Phone
			}
			if changed("email") {
				merged.Email = next.Email
			}
			if changed("logo-url") {
				merged.LogoURL = next.LogoURL
			}
			if changed("tax-id") {
				merged.TaxID = next.TaxID
			}

			saved, err := a.source.UpdateSettings(ctx, merged)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render("Settings saved"))
			fmt.Fprint(out, settingsBlock(saved))
			return nil
		},
	}
	f := setCmd.Flags()
	f.StringVar(&next.Name, "name", "", "business name")
	f.StringVar(&next.Address, "address", "", "street address")
	f.StringVar(&next.City, "city", "", "city")
	f.StringVar(&next.Country, "country", "", "country")
	f.StringVar(&next.Phone, "phone", "", "phone number")
	f.StringVar(&next.Email, "email", "", "contact email")
	f.StringVar(&next.LogoURL, "logo-url", "", "logo URL")
	f.StringVar(&next.TaxID, "tax-id", "", "tax ID")

	settingsCmd.AddCommand(setCmd)
	return settingsCmd
}

func newTestEmailCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test-email <address>",
		Short: "Send a test email with the current settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()
			if err := a.source.SendTestEmail(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Test email sent to "+args[0]))
			return nil
		},
	}
}
