package ecoController

import (
	"context"

	"chessyui/internal/services"
)

type EcoDescription struct {
	Code        string `json:"code"`
	Normalized  string `json:"normalized"`
	Description string `json:"description"`
	Cached      bool   `json:"cached"`
}

type EcoControllerInterface interface {
	Describe(ctx context.Context, code string, cached bool) EcoDescription
	Table(ctx context.Context) *services.EcoTable
	Refresh(ctx context.Context) *services.EcoTable
}

type EcoController struct {
	resolver services.EcoResolver
}

func New(resolver services.EcoResolver) EcoControllerInterface {
	return &EcoController{resolver: resolver}
}

// Describe resolves a code. With cached set it never waits for the table to load.
func (c *EcoController) Describe(ctx context.Context, code string, cached bool) EcoDescription {
	description := EcoDescription{
		Code:       code,
		Normalized: services.NormalizeEcoCode(code),
		Cached:     cached,
	}

	if cached {
		description.Description = c.resolver.DescribeCached(code)
	} else {
		description.Description = c.resolver.Describe(ctx, code)
	}

	return description
}

func (c *EcoController) Table(ctx context.Context) *services.EcoTable {
	return c.resolver.Table(ctx)
}

func (c *EcoController) Refresh(ctx context.Context) *services.EcoTable {
	return c.resolver.Refresh(ctx)
}
