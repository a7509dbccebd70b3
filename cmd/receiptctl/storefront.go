package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/internal/listing"
	"github.com/sangkips/receiptflow/internal/validation"
	"github.com/sangkips/receiptflow/internal/viewstate"
	"github.com/sangkips/receiptflow/pkg/pagination"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errInvalidForm = errors.New("the receipt form has errors")

// orderFlags are the order fields shared by both generate commands
type orderFlags struct {
	orderID string
	name    string
	email   string
	store   string
	payment string
	items   []string
}

func (o *orderFlags) register(cmd *cobra.Command, methods enum.PaymentCatalogue) {
	f := cmd.Flags()
	f.StringVar(&o.orderID, "order-id", "", "order ID")
	f.StringVar(&o.name, "name", "", "customer name")
	f.StringVar(&o.email, "email", "", "customer email")
	f.StringVar(&o.store, "store", "", "business store")
	f.StringVar(&o.payment, "payment", string(methods[0]),
		"payment method ("+strings.Join(methods.Strings(), ", ")+")")
	f.StringArrayVar(&o.items, "item", nil, `item as "name:quantity:unit price", repeatable`)
}

// form fills a generate form from the flags
func (o *orderFlags) form(policy validation.Policy) (viewstate.GenerateForm, error) {
	form := viewstate.NewGenerateForm(policy).
		Set(viewstate.FieldOrderID, o.orderID).
		Set(viewstate.FieldCustomerName, o.name).
		Set(viewstate.FieldCustomerEmail, o.email).
		Set(viewstate.FieldBusinessStore, o.store).
		Set(viewstate.FieldPaymentMethod, o.payment)

	for i, raw := range o.items {
		row, err := parseItem(raw)
		if err != nil {
			return form, err
		}
		if i > 0 {
			form = form.AddItem()
		}
		form = form.UpdateItem(i, row)
	}
	return form, nil
}

// parseItem splits "name:quantity:price". The name may itself contain colons.
func parseItem(raw string) (viewstate.ItemRow, error) {
	rest, price, ok := cutLast(raw, ":")
	if !ok {
		return viewstate.ItemRow{}, fmt.Errorf("invalid item %q, want name:quantity:price", raw)
	}
	name, qty, ok := cutLast(rest, ":")
	if !ok {
		return viewstate.ItemRow{}, fmt.Errorf("invalid item %q, want name:quantity:price", raw)
	}
	return viewstate.ItemRow{ProductName: name, Quantity: qty, UnitPrice: price}, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

// submit validates the form, printing field errors when it is invalid
func submit(cmd *cobra.Command, form viewstate.GenerateForm) (*validation.Payload, error) {
	form, payload := form.Submit()
	if payload == nil {
		out := cmd.ErrOrStderr()
		fmt.Fprintln(out, errorStyle.Render("Please fix the following:"))
		fmt.Fprint(out, validationErrors(form.Errors))
		return nil, errInvalidForm
	}
	return payload, nil
}

func newGenerateCmd(a *app) *cobra.Command {
	var order orderFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Submit a paid order and issue its receipt",
		Long: `Submits an order the way the storefront does. The fixed storefront tax rate
applies and the receipt is emailed to the customer.`,
		Example: `  receiptctl generate --order-id ORD-1 --name "Jane Doe" --email jane@example.com \
    --payment Card --item "Widget:2:10.00" --item "Cable:1:4.50"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := order.form(validation.StorefrontPolicy)
			if err != nil {
				return err
			}
			payload, err := submit(cmd, form)
			if err != nil {
				return err
			}

			ctx, cancel := a.callContext(cmd)
			defer cancel()
			created, err := a.source.CreateReceipt(ctx, client.NewCreateRequest(payload))
			if err != nil {
				return err
			}
			a.logger.Debug("Receipt created", zap.Int64("id", created.ID), zap.String("order_id", created.OrderID))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render("Receipt created"))
			fmt.Fprintln(out, field("ID", fmt.Sprint(created.ID)))
			fmt.Fprintln(out, field("Order ID", created.OrderID))
			fmt.Fprintln(out, field("Receipt number", created.ReceiptNumber))
			if created.PDFURL != "" {
				fmt.Fprintln(out, field("PDF", created.PDFURL))
			}
			fmt.Fprint(out, totalsBlock(form.Totals()))
			return nil
		},
	}
	order.register(cmd, enum.StorefrontPaymentMethods)
	return cmd
}

// listFlags are the search and paging flags of both list commands
type listFlags struct {
	search  string
	status  string
	page    int
	perPage int
}

func (l *listFlags) register(cmd *cobra.Command, withStatus bool) {
	f := cmd.Flags()
	f.StringVarP(&l.search, "search", "s", "", "search term")
	f.IntVarP(&l.page, "page", "p", 1, "page number")
	f.IntVar(&l.perPage, "per-page", pagination.DefaultPerPage, "receipts per page")
	if withStatus {
		f.StringVar(&l.status, "status", enum.StatusAll, "status filter (all, processing, generated, sent, stored, failed)")
	}
}

// view loads every receipt and returns the requested page. Unlike the
// interactive table, an explicit page outside the result set is an error.
func (l *listFlags) view(cmd *cobra.Command, a *app, filter listing.Filter[client.Receipt]) (*listing.Page[client.Receipt], error) {
	if err := checkStatus(l.status); err != nil {
		return nil, err
	}

	ctx, cancel := a.callContext(cmd)
	defer cancel()
	receipts, err := a.source.ListReceipts(ctx)
	if err != nil {
		return nil, err
	}

	list := viewstate.NewReceiptList(filter, l.perPage).
		Load(receipts).
		SetSearch(l.search).
		SetStatus(l.status)
	if l.page < 1 || (l.page > 1 && l.page > list.PageCount()) {
		return nil, fmt.Errorf("page %d is out of range (1-%d)", l.page, max(list.PageCount(), 1))
	}
	return list.GoTo(l.page).View(), nil
}

// checkStatus accepts a blank filter, "all" or a status name
func checkStatus(status string) error {
	if status == "" || status == enum.StatusAll {
		return nil
	}
	_, err := enum.ParseReceiptStatus(status)
	return err
}

func newListCmd(a *app) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List receipts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := flags.view(cmd, a, listing.Storefront)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(page.Items) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No receipts found"))
				return nil
			}
			fmt.Fprintln(out, receiptTable(page.Items, false))
			fmt.Fprintln(out, pageFooter(page))
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <receipt-id>",
		Short: "Show one receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup := viewstate.Lookup{}.Submit(args[0])
			if lookup.Error != "" {
				return errors.New(lookup.Error)
			}

			ctx, cancel := a.callContext(cmd)
			defer cancel()
			lookup = lookup.Resolve(a.source.GetReceipt(ctx, lookup.ID))
			if lookup.Error != "" {
				return errors.New(lookup.Error)
			}
			fmt.Fprint(cmd.OutOrStdout(), receiptDetail(lookup.Receipt))
			return nil
		},
	}
}
