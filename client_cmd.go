package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"catalog-management/client"
)

type apiFlags struct {
	server   string
	token    string
	username string
	password string
}

func (f *apiFlags) register(cmd *cobra.Command) {
	server := os.Getenv("CATALOG_API_URL")
	if server == "" {
		server = "http://localhost:8080"
	}
	cmd.PersistentFlags().StringVar(&f.server, "server", server, "API base URL")
	cmd.PersistentFlags().StringVar(&f.token, "token", os.Getenv("CATALOG_TOKEN"), "bearer token")
	cmd.PersistentFlags().StringVar(&f.username, "username", "", "admin username, used when no token is given")
	cmd.PersistentFlags().StringVar(&f.password, "password", os.Getenv(adminPasswordEnv), "admin password")
}

// client returns an API client. With login set it makes sure the client
// carries a token, logging in with username and password when needed.
func (f *apiFlags) client(cmd *cobra.Command, login bool) (*client.Client, error) {
	c := client.New(f.server, client.WithToken(f.token))
	if !login || f.token != "" {
		return c, nil
	}
	if f.username == "" || f.password == "" {
		return nil, errors.New("--token or --username and --password are required")
	}
	if _, err := c.Login(cmd.Context(), f.username, f.password); err != nil {
		return nil, err
	}
	return c, nil
}

func productsCmd() *cobra.Command {
	var flags apiFlags
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List and reorder products through the API",
	}
	flags.register(cmd)

	var (
		categoryID     int64
		page, pageSize int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "Print one page of products in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client(cmd, false)
			if err != nil {
				return err
			}
			res, err := c.ListProducts(cmd.Context(), client.ListOptions{CategoryID: categoryID, Page: page, PageSize: pageSize})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tGLOBAL\tIN CATEGORY")
			for _, p := range res.Items {
				cat := ""
				if p.Category != nil {
					cat = p.Category.Name
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n", p.ID, p.Name, cat, p.Price.StringFixed(2), p.GlobalDisplayOrder, p.CategoryDisplayOrder)
			}
			fmt.Fprintf(w, "page %d, %d of %d products\n", res.PageNumber, len(res.Items), res.TotalCount)
			return w.Flush()
		},
	}
	list.Flags().Int64Var(&categoryID, "category", 0, "category id filter")
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 10, "page size")

	var (
		productID int64
		to        int
		moveCat   int64
	)
	move := &cobra.Command{
		Use:   "move",
		Short: "Move a product to a position in the global or category listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if to < 1 {
				return errors.New("--to must be 1 or greater")
			}
			c, err := flags.client(cmd, true)
			if err != nil {
				return err
			}
			changes, err := c.MoveProduct(cmd.Context(), productID, to, moveCat)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "already in place")
				return nil
			}
			for _, ch := range changes {
				fmt.Fprintf(cmd.OutOrStdout(), "product %d -> %d\n", ch.ProductID, ch.Order)
			}
			return nil
		},
	}
	move.Flags().Int64Var(&productID, "id", 0, "product id")
	move.Flags().IntVar(&to, "to", 0, "target position, starting at 1")
	move.Flags().Int64Var(&moveCat, "category", 0, "reorder within this category instead of globally")
	_ = move.MarkFlagRequired("id")
	_ = move.MarkFlagRequired("to")

	cmd.AddCommand(list, move)
	return cmd
}
