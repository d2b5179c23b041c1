package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"FoodDelivery/internal/model"

	"github.com/spf13/cobra"
)

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.client.Orders(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tRESTAURANT\tSTATUS\tTOTAL\tCREATED")
			for _, order := range orders {
				fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\n", order.Id, order.RestaurantId, order.Status, order.Total, order.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(newOrderShowCmd(a), newOrderActiveCmd(a), newOrderCreateCmd(a))
	return cmd
}

func newOrderShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			order, err := a.client.Order(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOrder(a.stdout, order)
			return nil
		},
	}
}

func newOrderActiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the order that is not delivered yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := a.client.ActiveOrder(cmd.Context())
			if err != nil {
				return err
			}
			if order == nil {
				fmt.Fprintln(a.stdout, "No active order")
				return nil
			}
			printOrder(a.stdout, order)
			return nil
		},
	}
}

func newOrderCreateCmd(a *app) *cobra.Command {
	var input model.CreateOrderInput
	var items []string
	var pickup bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place an order",
		Example: "  food-delivery orders create --restaurant 1 --item 10:2 --item 11 --address \"Lenina 1\"\n" +
			"  food-delivery orders create --restaurant 1 --item 10 --pickup",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseItems(items)
			if err != nil {
				return err
			}
			input.Items = parsed
			input.DeliveryType = model.DeliveryTypeDelivery
			if pickup {
				input.DeliveryType = model.DeliveryTypePickup
			}

			order, err := a.client.CreateOrder(cmd.Context(), input)
			if err != nil {
				return err
			}
			printOrder(a.stdout, order)
			return nil
		},
	}
	cmd.Flags().Int64Var(&input.RestaurantId, "restaurant", 0, "restaurant id")
	cmd.Flags().StringArrayVar(&items, "item", nil, "menu item as id or id:quantity, repeatable")
	cmd.Flags().BoolVar(&pickup, "pickup", false, "pick the order up instead of delivery")
	cmd.Flags().StringVar(&input.DeliveryAddress, "address", "", "delivery address")
	cmd.Flags().StringVar(&input.Comment, "comment", "", "comment for the restaurant")
	_ = cmd.MarkFlagRequired("restaurant")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

// parseItems разбирает позиции вида "10" или "10:2".
func parseItems(values []string) ([]model.OrderItemInput, error) {
	items := make([]model.OrderItemInput, 0, len(values))
	for _, value := range values {
		idPart, quantityPart, hasQuantity := strings.Cut(value, ":")
		id, err := parseID(idPart)
		if err != nil {
			return nil, fmt.Errorf("invalid item %q", value)
		}
		quantity := 1
		if hasQuantity {
			quantity, err = strconv.Atoi(quantityPart)
			if err != nil || quantity <= 0 {
				return nil, fmt.Errorf("invalid quantity in %q", value)
			}
		}
		items = append(items, model.OrderItemInput{MenuItemId: id, Quantity: quantity})
	}
	return items, nil
}

func printOrder(out io.Writer, order *model.Order) {
	fmt.Fprintf(out, "Order #%d: %s, %s, total %d\n", order.Id, order.Status, order.DeliveryType, order.Total)
	if order.DeliveryAddress != "" {
		fmt.Fprintf(out, "Address: %s\n", order.DeliveryAddress)
	}
	for _, item := range order.Items {
		fmt.Fprintf(out, "  %d x %s  %d\n", item.Quantity, item.Name, item.Price*int64(item.Quantity))
	}
}
