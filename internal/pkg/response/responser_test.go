package response

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"focus-quest/internal/pkg/ctxkey"
	"focus-quest/internal/pkg/i18n"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newHandler() *DefaultResponseHandler {
	return NewResponseHandler(log.NewLogger(slog.DiscardHandler))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) ResponseResult[json.RawMessage] {
	t.Helper()
	var resp ResponseResult[json.RawMessage]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := ctxkey.WithValue(context.Background(), ctxkey.RequestID, "req-1")

	require.NoError(t, newHandler().WriteSuccess(ctx, rec, map[string]int{"level": 10}))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, int(xerrors.CodeSuccess), resp.Code)
	assert.Equal(t, "req-1", resp.RequestID)
	require.NotNil(t, resp.Data)
	assert.JSONEq(t, `{"level":10}`, string(*resp.Data))
}

func TestWriteError_AppErrorLocalized(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := i18n.WithLanguage(context.Background(), language.English)

	require.NoError(t, newHandler().WriteError(ctx, rec, xerrors.NewRaidCompletedError("u-1", "b-1")))

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, int(xerrors.CodeRaidAlreadyComplete), resp.Code)
	assert.Equal(t, "This portal has already been cleared", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestWriteError_PlainErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, newHandler().WriteError(context.Background(), rec, errors.New("dial tcp: refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, int(xerrors.CodeInternalError), resp.Code)
	assert.Empty(t, resp.Error)
}
