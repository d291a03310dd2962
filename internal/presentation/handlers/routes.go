package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/domain/services"
)

// Mount registers the API routes on r
func Mount(r chi.Router, version string, builder *services.BuilderService, registry *entities.TokenRegistry) {
	health := NewHealthHandler(version, builder.Protocol())
	pairs := NewPairHandler(builder, registry)
	liquidity := NewLiquidityHandler(builder, registry)
	swaps := NewSwapHandler(builder, registry)

	r.Get("/health", health.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/pairs/count", pairs.PairCount)
		r.Get("/pairs/{tokenA}/{tokenB}", pairs.GetPair)
		r.Post("/pairs", pairs.CreatePair)
		r.Get("/pools/created", pairs.PoolsCreated)

		r.Post("/liquidity/add", liquidity.Add)
		r.Post("/liquidity/remove", liquidity.Remove)

		r.Post("/swap", swaps.Swap)
	})
}

// NewRouter returns a chi router with the API mounted and no middleware
func NewRouter(version string, builder *services.BuilderService, registry *entities.TokenRegistry) http.Handler {
	r := chi.NewRouter()
	Mount(r, version, builder, registry)
	return r
}
