package hull

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTraitsPostsFirehoseBatch(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/firehose", r.URL.Path)
		assert.Equal(t, "conn-1", r.Header.Get("Hull-App-Id"))
		assert.Equal(t, "shhh", r.Header.Get("Hull-Access-Token"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "conn-1", "shhh")
	err := client.UserTraits(context.Background(), UserClaims{
		Email:       "jane@acme.io",
		AnonymousID: "chargebee:cust-1",
	}, Attributes{
		"chargebee/plan_id": "pro",
		"first_name":        AttributeValue{Value: "Jane", Operation: OperationSetIfNull},
	})
	require.NoError(t, err)

	batch, ok := captured["batch"].([]any)
	require.True(t, ok)
	require.Len(t, batch, 1)
	item := batch[0].(map[string]any)
	assert.Equal(t, "traits", item["type"])
	assert.Equal(t, "user", item["claims_scope"])
	claims := item["claims"].(map[string]any)
	assert.Equal(t, "chargebee:cust-1", claims["anonymous_id"])
	attrs := item["body"].(map[string]any)
	assert.Equal(t, "pro", attrs["chargebee/plan_id"])
	firstName := attrs["first_name"].(map[string]any)
	assert.Equal(t, "setIfNull", firstName["operation"])
}

func TestTrackRejectsEmptyClaims(t *testing.T) {
	client := NewClient("https://acme.hullapp.io", "conn-1", "s")
	err := client.UserTrack(context.Background(), UserClaims{}, Event{Name: "Invoice updated"})
	assert.Error(t, err)
}

func TestPutStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/conn-1/status", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var status Status
		require.NoError(t, json.Unmarshal(body, &status))
		assert.Equal(t, StatusSetupRequired, status.Status)
		assert.NotEmpty(t, status.Messages)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "conn-1", "s")
	err := client.PutStatus(context.Background(), Status{
		Status:   StatusSetupRequired,
		Messages: []string{"Chargebee site is not configured."},
	})
	require.NoError(t, err)
}

func TestSendSurfacesPlatformErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "conn-1", "wrong")
	err := client.AccountTraits(context.Background(), AccountClaims{ExternalID: "cust-1"}, Attributes{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}
