package rest

import (
	"net/http"
	"sharelend/core"
	"sharelend/handler/render"
	"sharelend/handler/views"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func accountHandler(accounts core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address, err := addressParam(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		health, err := accounts.Health(r.Context(), address)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.AccountView(health))
	}
}

func maxWithdrawHandler(banks core.IBankService, accounts core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		address, err := addressParam(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		bank, err := banks.Find(ctx, chi.URLParam(r, "key"))
		if err != nil {
			render.Err(w, err)
			return
		}

		amount, err := accounts.MaxWithdraw(ctx, address, bank.Address.String())
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.MaxWithdraw{
			Account: address,
			Bank:    bank.Address,
			Label:   bank.Label,
			Amount:  amount,
		})
	}
}

// liquidationHandler ?liquidator=&asset=&liability=&amount= with the amount in ui units
func liquidationHandler(accounts core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address, err := addressParam(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		query := r.URL.Query()
		liquidator, err := solana.PublicKeyFromBase58(query.Get("liquidator"))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := decimal.NewFromString(query.Get("amount"))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		params, err := accounts.Liquidation(r.Context(), core.LiquidationRequest{
			Liquidator:    liquidator,
			Liquidatee:    address,
			AssetBank:     query.Get("asset"),
			LiabilityBank: query.Get("liability"),
			Amount:        amount,
		})
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, params)
	}
}
