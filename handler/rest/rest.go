package rest

import (
	"errors"
	"net/http"
	"sharelend/core"
	"sharelend/handler/render"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi"
	pkgerrors "github.com/pkg/errors"
)

// Handle handle rest api request
func Handle(banks core.IBankService, accounts core.IAccountService) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/banks", allBanksHandler(banks))
	router.Get("/banks/{key}", bankHandler(banks))
	router.Get("/accounts/{address}", accountHandler(accounts))
	router.Get("/accounts/{address}/max-withdraw/{key}", maxWithdrawHandler(banks, accounts))
	router.Get("/accounts/{address}/liquidation", liquidationHandler(accounts))

	return router
}

func addressParam(r *http.Request) (solana.PublicKey, error) {
	address := chi.URLParam(r, "address")
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, pkgerrors.Wrapf(err, "invalid address %q", address)
	}

	return pk, nil
}
