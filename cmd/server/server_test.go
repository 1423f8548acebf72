package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	es "github.com/genesisdb/eventsourcing-demo"
	"github.com/genesisdb/eventsourcing-demo/cart"
	"github.com/genesisdb/eventsourcing-demo/eventstore/memory"
	"github.com/genesisdb/eventsourcing-demo/inventory"
	"github.com/genesisdb/eventsourcing-demo/library"
	"github.com/genesisdb/eventsourcing-demo/logging"
	"github.com/genesisdb/eventsourcing-demo/todo"
)

const cartID = "55555555-5555-4555-8555-555555555555"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memory.NewStore()
	t.Cleanup(func() { _ = store.Close() })

	reg := es.NewRegistry(log, logging.CommandLogging(log))
	cart.Register(reg, store)
	inventory.Register(reg, store)
	library.Register(reg, store)
	todo.Register(reg, store)

	ts := httptest.NewServer(newServer(log, reg, store))
	t.Cleanup(ts.Close)
	return ts
}

func postCommand(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/commands", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServerCartHappyPath(t *testing.T) {
	ts := newTestServer(t)

	steps := []string{
		`{"type":"create-cart","data":{"cartId":"` + cartID + `","userId":"alice"}}`,
		`{"type":"add-item","data":{"cartId":"` + cartID + `","productId":"p-1","productName":"Coffee","price":10}}`,
		`{"type":"add-item","data":{"cartId":"` + cartID + `","productId":"p-1","productName":"Coffee","price":10}}`,
		`{"type":"checkout-cart","data":{"cartId":"` + cartID + `","shippingAddress":{"street":"Main St 1","city":"Berlin","postalCode":"10115","country":"DE"}}}`,
	}
	for _, body := range steps {
		resp := postCommand(t, ts, body)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/carts/" + cartID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	state := decodeBody(t, resp)
	assert.Equal(t, float64(2), state["totalItems"])
	assert.Equal(t, float64(20), state["totalPrice"])
	assert.Equal(t, "checked_out", state["status"])
}

func TestServerDoubleCreateConflicts(t *testing.T) {
	ts := newTestServer(t)

	create := `{"type":"create-cart","data":{"cartId":"` + cartID + `"}}`
	resp := postCommand(t, ts, create)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postCommand(t, ts, create)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestServerMutateBeforeCreateNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := postCommand(t, ts, `{"type":"add-task","data":{"listId":"`+cartID+`","taskId":"t-1","title":"Buy milk"}}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestServerRejectsMalformedRequests(t *testing.T) {
	ts := newTestServer(t)

	for name, tc := range map[string]struct {
		body string
		want int
	}{
		"missing type":    {`{"data":{"cartId":"` + cartID + `"}}`, http.StatusBadRequest},
		"missing data":    {`{"type":"create-cart"}`, http.StatusBadRequest},
		"unknown command": {`{"type":"launch-rocket","data":{}}`, http.StatusBadRequest},
		"not json":        {`garbage`, http.StatusBadRequest},
	} {
		t.Run(name, func(t *testing.T) {
			resp := postCommand(t, ts, tc.body)
			assert.Equal(t, tc.want, resp.StatusCode)
			resp.Body.Close()
		})
	}
}

func TestServerValidationErrorCarriesFields(t *testing.T) {
	ts := newTestServer(t)

	resp := postCommand(t, ts, `{"type":"create-cart","data":{"cartId":"nope"}}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	fields, ok := body["fields"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 1)
	field := fields[0].(map[string]any)
	assert.Equal(t, "CartID", field["field"])
	assert.Equal(t, "uuid", field["rule"])
}

func TestServerProjectionReads(t *testing.T) {
	ts := newTestServer(t)

	resp := postCommand(t, ts, `{"type":"create-list","data":{"listId":"`+cartID+`","name":"Groceries"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = postCommand(t, ts, `{"type":"add-task","data":{"listId":"`+cartID+`","taskId":"t-1","title":"Buy milk"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/api/lists")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lists []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lists))
	resp.Body.Close()
	require.Len(t, lists, 1)
	assert.Equal(t, "Groceries", lists[0]["name"])

	resp, err = http.Get(ts.URL + "/api/lists/" + cartID + "/history")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	resp.Body.Close()
	require.Len(t, history, 2)

	resp, err = http.Get(ts.URL + "/api/carts/does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
