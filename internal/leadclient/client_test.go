package leadclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemafield/lead-capture/internal/entity"
	"github.com/hemafield/lead-capture/internal/leadform"
)

func TestSubmitLeadSendsPayload(t *testing.T) {
	var got map[string]string
	var version string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submit-lead", r.URL.Path)
		version = r.Header.Get("X-Leadform-Version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true,"message":"Lead submitted successfully!"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL+"/").SubmitLead(context.Background(), Form{
		Name:     "Ada",
		Phone:    "+234-801-234-5678",
		Email:    "ada@test.com",
		Campaign: entity.CampaignTikTokDiscount,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/2348012345678", res.ContactLink)
	assert.False(t, res.Notice.Destructive)
	assert.Equal(t, leadform.RulesVersion, version)
	assert.Equal(t, map[string]string{
		"name":     "Ada",
		"phone":    "+234-801-234-5678",
		"email":    "ada@test.com",
		"campaign": "tiktok_discount",
	}, got)
}

// TestSubmitLeadInvalidNeverSends - a failing rule short-circuits before the network
func TestSubmitLeadInvalidNeverSends(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	res, err := New(srv.URL).SubmitLead(context.Background(), Form{Name: "Ada", Phone: "0801", Email: "ada@test.com"})

	var vErr *leadform.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, leadform.PhoneInvalid, vErr.Kind)
	assert.Equal(t, "Phone required", res.Notice.Title)
	assert.False(t, called)
}

func TestSubmitLeadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Something went wrong, please try again later"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL).SubmitLead(context.Background(), Form{Name: "Ada", Phone: "08011112222", Email: "ada@test.com"})

	var nErr *NetworkError
	require.ErrorAs(t, err, &nErr)
	assert.Equal(t, http.StatusInternalServerError, nErr.StatusCode)
	assert.Equal(t, GenericFailureNotice, res.Notice)
	assert.Empty(t, res.ContactLink)
}

func TestSubmitLeadTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	res, err := New(url).SubmitLead(context.Background(), Form{Name: "Ada", Phone: "08011112222", Email: "ada@test.com"})

	var nErr *NetworkError
	require.ErrorAs(t, err, &nErr)
	assert.Zero(t, nErr.StatusCode)
	assert.Equal(t, GenericFailureNotice, res.Notice)
}

func TestSubscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribe", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@test.com", body["email"])
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL)

	res, err := c.Subscribe(context.Background(), "ada@test.com", entity.CampaignDiscount)
	require.NoError(t, err)
	assert.Contains(t, res.Notice.Description, "discount")

	res, err = c.Subscribe(context.Background(), "ada@test.com", entity.CampaignValentine)
	require.NoError(t, err)
	assert.Contains(t, res.Notice.Description, "Valentine")

	res, err = c.Subscribe(context.Background(), "notanemail", entity.CampaignValentine)
	assert.Error(t, err)
	assert.Equal(t, "Invalid email", res.Notice.Title)
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &NetworkError{Op: "POST /subscribe", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "refused")
}
