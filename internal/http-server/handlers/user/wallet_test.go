package user

import (
	"KolDesk/internal/lib/api/response"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCore struct {
	userUUID string
	wallet   string
	err      error
}

func (f *fakeCore) BindWallet(ctx context.Context, userUUID, wallet string) error {
	f.userUUID = userUUID
	f.wallet = wallet
	return f.err
}

func doBind(t *testing.T, core *fakeCore, body string) response.Response {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/wallet", strings.NewReader(body))
	rec := httptest.NewRecorder()

	BindWallet(log, core)(rec, req)

	var resp response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestBindWalletHandler(t *testing.T) {
	core := &fakeCore{}
	resp := doBind(t, core, `{"user_uuid":"u1","wallet":"0xabc"}`)

	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Equal(t, "u1", core.userUUID)
	assert.Equal(t, "0xabc", core.wallet)
}

func TestBindWalletHandlerRejectsMissingFields(t *testing.T) {
	core := &fakeCore{}
	resp := doBind(t, core, `{"user_uuid":"u1"}`)

	assert.Equal(t, response.StatusError, resp.Status)
	assert.Empty(t, core.userUUID, "core must not be called with incomplete input")
}

func TestBindWalletHandlerReportsCoreFailure(t *testing.T) {
	core := &fakeCore{err: errors.New("storage down")}
	resp := doBind(t, core, `{"user_uuid":"u1","wallet":"0xabc"}`)

	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, "storage down")
}
