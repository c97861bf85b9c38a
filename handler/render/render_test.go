package render

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sharelend/core"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, H{"label": "SOL"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"label":"SOL"}}`, w.Body.String())
}

func TestErr(t *testing.T) {
	for _, tc := range []struct {
		err    error
		status int
		code   int
	}{
		{errors.Wrap(core.ErrBankNotFound, "bank BTC"), http.StatusNotFound, int(core.ErrBankNotFound)},
		{core.ErrAccountNotFound, http.StatusNotFound, int(core.ErrAccountNotFound)},
		{errors.Wrap(core.ErrInvalidAmount, "amount"), http.StatusBadRequest, int(core.ErrInvalidAmount)},
		{core.ErrPriceNotFound, http.StatusServiceUnavailable, int(core.ErrPriceNotFound)},
		{core.ErrTooManyBalances, http.StatusInternalServerError, int(core.ErrTooManyBalances)},
		{errors.New("rpc down"), http.StatusInternalServerError, int(core.ErrUnknown)},
	} {
		w := httptest.NewRecorder()
		Err(w, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())

		var body struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		require.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Code)
		assert.Equal(t, tc.err.Error(), body.Msg)
	}
}
