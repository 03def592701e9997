package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransaction(t *testing.T) {
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)

		in := &InitializeRequest{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(in))

		_ = json.NewEncoder(w).Encode(&InitializeResponse{
			Status:  true,
			Message: "Authorization URL created",
			Data: InitializeResponseData{
				AuthorizationURL: "https://checkout.paystack.com/abc",
				AccessCode:       "abc",
				Reference:        in.Reference,
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "sk_test_secret")
	require.NoError(t, err)

	out := &InitializeResponse{}
	err = c.InitializeTransaction(context.Background(), &InitializeRequest{
		Email:     "buyer@example.com",
		Amount:    2000,
		Reference: "ref1",
	}, out)

	require.NoError(t, err)
	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.True(t, out.Status)
	assert.Equal(t, "ref1", out.Data.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc", out.Data.AuthorizationURL)
}

func TestVerifyTransactionRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/missing", r.URL.Path)
		http.Error(w, `{"status":false,"message":"Transaction reference not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "sk_test_secret")
	require.NoError(t, err)

	out := &VerifyResponse{}
	err = c.VerifyTransaction(context.Background(), "missing", out)
	require.Error(t, err)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusNotFound, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.ResponseBody, "not found")
}
