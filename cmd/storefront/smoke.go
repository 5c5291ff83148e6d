package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

type smokeReport struct {
	Categories int
	Products   int
	Role       string
}

// runSmoke checks a running instance through its public API. Credentials
// are optional; with them the login path is exercised as well.
func runSmoke(ctx context.Context, c *apiclient.Client, username, password string, logger *slog.Logger) (*smokeReport, error) {
	if err := c.Ready(ctx); err != nil {
		return nil, fmt.Errorf("readiness: %w", err)
	}

	cats, err := c.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	prods, err := c.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	rep := &smokeReport{Categories: len(cats), Products: len(prods)}

	if username != "" {
		res, err := c.Login(ctx, username, password)
		if err != nil {
			return nil, fmt.Errorf("login %s: %w", username, err)
		}
		rep.Role = res.Role
	}

	logger.Info("smoke_ok", "categories", rep.Categories, "products", rep.Products, "role", rep.Role)
	return rep, nil
}
