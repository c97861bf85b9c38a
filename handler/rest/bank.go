package rest

import (
	"net/http"
	"sharelend/core"
	"sharelend/handler/render"
	"sharelend/handler/views"

	"github.com/go-chi/chi"
	"github.com/spf13/cast"
)

func allBanksHandler(banks core.IBankService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		all, err := banks.All(ctx)
		if err != nil {
			render.Err(w, err)
			return
		}

		bankViews := make([]views.Bank, 0, len(all))
		for _, b := range all {
			o, err := banks.Overview(ctx, b)
			if err != nil {
				render.Err(w, err)
				return
			}
			bankViews = append(bankViews, views.BankView(o))
		}

		render.JSON(w, bankViews)
	}
}

// bankHandler ?fresh=true prices the bank with a fresh oracle read
func bankHandler(banks core.IBankService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		bank, err := banks.Find(ctx, chi.URLParam(r, "key"))
		if err != nil {
			render.Err(w, err)
			return
		}

		if cast.ToBool(r.URL.Query().Get("fresh")) {
			if bank, err = banks.Refresh(ctx, bank); err != nil {
				render.Err(w, err)
				return
			}
		}

		o, err := banks.Overview(ctx, bank)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.BankView(o))
	}
}
