// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/profchat/internal/backend"
	"github.com/jeranaias/profchat/internal/backend/backendtest"
)

func newDirectory(url string) *Directory {
	c := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:   url,
		Timeout:   2 * time.Second,
		RateLimit: 1000,
		Burst:     1000,
	})
	return New(c, zerolog.Nop())
}

func TestRefresh_TwoProfessorsInOrder(t *testing.T) {
	srv := backendtest.New("Turing", "Lovelace")
	defer srv.Close()

	d := newDirectory(srv.URL)
	assert.False(t, d.Loaded())

	require.NoError(t, d.Refresh(context.Background()))
	assert.Equal(t, []string{"Turing", "Lovelace"}, d.Names())
	assert.Len(t, d.Names(), 2)
	assert.True(t, d.Contains("Lovelace"))
	assert.False(t, d.Contains("Newton"))
	assert.Equal(t, uint64(1), d.Version())
	assert.True(t, d.Loaded())
}

func TestRefresh_FailureKeepsPreviousList(t *testing.T) {
	srv := backendtest.New("Turing", "Lovelace")
	defer srv.Close()

	d := newDirectory(srv.URL)
	require.NoError(t, d.Refresh(context.Background()))

	srv.SetListStatus(http.StatusInternalServerError)
	require.Error(t, d.Refresh(context.Background()))
	assert.Equal(t, []string{"Turing", "Lovelace"}, d.Names())
	assert.Equal(t, uint64(1), d.Version())

	srv.SetListStatus(http.StatusOK)
	srv.OmitProfessorsField(true)
	err := d.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrInvalidResponse)
	assert.Equal(t, []string{"Turing", "Lovelace"}, d.Names())
}

func TestNames_ReturnsCopy(t *testing.T) {
	srv := backendtest.New("Turing")
	defer srv.Close()

	d := newDirectory(srv.URL)
	require.NoError(t, d.Refresh(context.Background()))

	names := d.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"Turing"}, d.Names())
}

func TestAdd_RefreshesAfterIngest(t *testing.T) {
	srv := backendtest.New("Turing")
	defer srv.Close()

	d := newDirectory(srv.URL)
	require.NoError(t, d.Refresh(context.Background()))

	completed, err := d.Add(context.Background(), "Newton", "Cambridge")
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, []string{"Turing", "Newton"}, d.Names())
	assert.Len(t, srv.RequestsTo("/professors"), 2)
}

func TestAdd_ErrorStatusStillRefreshes(t *testing.T) {
	srv := backendtest.New("Turing")
	defer srv.Close()
	srv.SetIngestStatus(http.StatusInternalServerError)

	d := newDirectory(srv.URL)
	completed, err := d.Add(context.Background(), "Newton", "Cambridge")
	require.Error(t, err)
	assert.True(t, completed)
	assert.ErrorIs(t, err, backend.ErrHTTPStatus)
	assert.Len(t, srv.RequestsTo("/professors"), 1)
	assert.Equal(t, []string{"Turing"}, d.Names())
}

func TestAdd_TransportFailureSkipsRefresh(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	d := newDirectory(url)
	completed, err := d.Add(context.Background(), "Newton", "Cambridge")
	require.Error(t, err)
	assert.False(t, completed)
	assert.True(t, backend.IsConnection(err))
	assert.Equal(t, uint64(0), d.Version())
}
