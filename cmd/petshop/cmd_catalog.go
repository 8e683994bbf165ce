package main

import (
	"context"
	"fmt"
	"strconv"

	"petshop/cmd/petshop/ui"
	"petshop/internal/catalog"
	"petshop/internal/filter"
	"petshop/internal/orders"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func loadCatalog() (*catalog.Catalog, error) {
	path := ""
	if cfg != nil {
		path = cfg.Catalog.Path
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog loaded", zap.Int("products", c.Len()), zap.String("path", path))
	return c, nil
}

func cliStyles() ui.Styles {
	if cfg == nil {
		return ui.DefaultStyles()
	}
	return ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
}

func runCatalog(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}

	sel := filter.DefaultSelection()
	if catalogCategory != "" {
		sel.Category = catalogCategory
	}
	sel.Search = catalogSearch

	visible := filter.Visible(c.Products(), sel)
	out := cmd.OutOrStdout()
	if len(visible) == 0 {
		fmt.Fprintln(out, "No products match.")
		return nil
	}

	table := ui.NewSimpleTable("Catalog", []string{"ID", "Product", "Category", "Price", "Stock", "Rating"}).AlignRight(0, 3, 4)
	for _, p := range visible {
		table.AddRow(strconv.Itoa(p.ID), p.Image+" "+p.Name, p.Category,
			ui.FormatPrice(p.Price), strconv.Itoa(p.Stock), ui.Stars(p.Rating))
	}
	fmt.Fprint(out, table.View(cliStyles()))
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}
	for _, name := range filter.Categories(c.Categories()) {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runOrders(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := orders.Open(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Seed(ctx, c.Orders()); err != nil {
		return err
	}

	list, err := store.List(ctx)
	if err != nil {
		return err
	}

	styles := cliStyles()
	table := ui.NewSimpleTable("Orders", []string{"Order", "Date", "Items", "Total", "Status"}).AlignRight(2, 3)
	table.Cell = func(row, col int, text string) lipgloss.Style {
		if col == 4 {
			return styles.StatusStyle(list[row].Status)
		}
		return styles.Body
	}
	for _, o := range list {
		table.AddRow("#"+o.ID, o.Date.Format("2006-01-02"), strconv.Itoa(o.ItemCount),
			ui.FormatPrice(o.Total), o.Status.Label())
	}
	fmt.Fprint(cmd.OutOrStdout(), table.View(styles))
	return nil
}
