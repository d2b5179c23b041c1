package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"FoodDelivery/internal/model"

	"github.com/spf13/cobra"
)

func newRestaurantsCmd(a *app) *cobra.Command {
	var filter model.RestaurantFilter

	cmd := &cobra.Command{
		Use:   "restaurants [id]",
		Short: "List restaurants or show one restaurant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				restaurant, err := a.client.Restaurant(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "#%d %s (%s, %.1f)\n%s\n", restaurant.Id, restaurant.Name, restaurant.Cuisine, restaurant.Rating, restaurant.Description)
				return nil
			}

			restaurants, err := a.client.Restaurants(cmd.Context(), filter)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCUISINE\tRATING\tDELIVERY")
			for _, r := range restaurants {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%d min\n", r.Id, r.Name, r.Cuisine, r.Rating, r.AvgDeliveryTime)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", "", "cuisine name")
	cmd.Flags().StringVar(&filter.Search, "search", "", "part of the restaurant name")
	return cmd
}

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu <restaurant-id>",
		Short: "Show the menu of a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			items, err := a.client.Menu(cmd.Context(), id)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tAVAILABLE")
			for _, item := range items {
				fmt.Fprintf(w, "%d\t%s\t%d\t%t\n", item.Id, item.Name, item.Price, item.Available)
			}
			return w.Flush()
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List cuisines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := a.client.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, category := range categories {
				fmt.Fprintln(a.stdout, category)
			}
			return nil
		},
	}
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}
