package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/types"
	"github.com/stretchr/testify/require"
)

func captureWebhook(t *testing.T) (*httptest.Server, *[][]byte) {
	t.Helper()

	var bodies [][]byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		bodies = append(bodies, body)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	return server, &bodies
}

func TestNotifyOfferCreatedPostsToConfiguredWebhooks(t *testing.T) {
	server, bodies := captureWebhook(t)

	t.Setenv("ORX_DISCORD_WEBHOOK", server.URL)
	t.Setenv("ORX_SLACK_WEBHOOK", server.URL)

	listing := models.Listing{Title: "Old Phone"}
	offer := models.Offer{Amount: 40, Status: types.OfferPending}

	require.NoError(t, NotifyOfferCreated(listing, offer, "Bob"))
	require.Len(t, *bodies, 2)

	var discord DiscordWebhookRequest
	require.NoError(t, json.Unmarshal((*bodies)[0], &discord))
	require.Len(t, discord.Embeds, 1)
	require.Equal(t, "New offer received", discord.Embeds[0].Title)
}

func TestNotifySkipsWhenUnconfigured(t *testing.T) {
	t.Setenv("ORX_DISCORD_WEBHOOK", "")
	t.Setenv("ORX_SLACK_WEBHOOK", "")

	require.NoError(t, NotifyOfferCreated(models.Listing{}, models.Offer{}, "Bob"))
}

func TestNotifyReportsWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	t.Setenv("ORX_DISCORD_WEBHOOK", server.URL)
	t.Setenv("ORX_SLACK_WEBHOOK", "")

	err := NotifyInquiryCreated(models.Listing{Title: "Old Phone"}, models.Inquiry{Name: "Bob", Email: "b@x.com"})
	require.Error(t, err)
}
