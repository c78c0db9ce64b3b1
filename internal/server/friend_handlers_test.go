package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"commune/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestFriendRequestFlow(t *testing.T) {
	s := setupServerTest(t)
	alice := createServerTestUser(t, s.db, "alice")
	bob := createServerTestUser(t, s.db, "bob")

	aliceApp := authedApp(s, alice.ID)
	aliceApp.Post("/friends/requests/:userId", s.SendFriendRequest)
	aliceApp.Get("/friends", s.GetFriends)
	aliceApp.Get("/friends/requests/sent", s.GetSentRequests)
	aliceApp.Delete("/friends/:userId", s.RemoveFriend)

	bobApp := authedApp(s, bob.ID)
	bobApp.Get("/friends/requests", s.GetReceivedRequests)
	bobApp.Post("/friends/requests/:userId/accept", s.AcceptFriendRequest)
	bobApp.Get("/friends", s.GetFriends)

	t.Run("send request", func(t *testing.T) {
		resp := doRequest(t, aliceApp, http.MethodPost, fmt.Sprintf("/friends/requests/%d", bob.ID))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("repeat send is informational", func(t *testing.T) {
		resp := doRequest(t, aliceApp, http.MethodPost, fmt.Sprintf("/friends/requests/%d", bob.ID))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("self request rejected", func(t *testing.T) {
		resp := doRequest(t, aliceApp, http.MethodPost, fmt.Sprintf("/friends/requests/%d", alice.ID))
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, models.CodeInvalidOperation, body.Code)
	})

	t.Run("reverse request conflicts", func(t *testing.T) {
		reverseApp := authedApp(s, bob.ID)
		reverseApp.Post("/friends/requests/:userId", s.SendFriendRequest)
		resp := doRequest(t, reverseApp, http.MethodPost, fmt.Sprintf("/friends/requests/%d", alice.ID))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("receiver sees request", func(t *testing.T) {
		resp := doRequest(t, bobApp, http.MethodGet, "/friends/requests")
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var requests []models.FriendRequest
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&requests))
		require.Len(t, requests, 1)
		assert.Equal(t, alice.ID, requests[0].SenderID)
	})

	t.Run("sender sees sent request", func(t *testing.T) {
		resp := doRequest(t, aliceApp, http.MethodGet, "/friends/requests/sent")
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var requests []models.FriendRequest
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&requests))
		require.Len(t, requests, 1)
	})

	t.Run("accept makes both sides friends", func(t *testing.T) {
		resp := doRequest(t, bobApp, http.MethodPost, fmt.Sprintf("/friends/requests/%d/accept", alice.ID))
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		for _, app := range []*fiber.App{aliceApp, bobApp} {
			listResp := doRequest(t, app, http.MethodGet, "/friends")
			var friends []models.User
			require.NoError(t, json.NewDecoder(listResp.Body).Decode(&friends))
			_ = listResp.Body.Close()
			assert.Len(t, friends, 1)
		}
	})

	t.Run("re-request between friends is informational", func(t *testing.T) {
		resp := doRequest(t, aliceApp, http.MethodPost, fmt.Sprintf("/friends/requests/%d", bob.ID))
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "You are already friends", body["message"])

		// No pending request row was created
		pending := doRequest(t, bobApp, http.MethodGet, "/friends/requests")
		var requests []models.FriendRequest
		require.NoError(t, json.NewDecoder(pending.Body).Decode(&requests))
		_ = pending.Body.Close()
		assert.Empty(t, requests)
	})

	t.Run("remove friendship", func(t *testing.T) {
		resp := doRequest(t, aliceApp, http.MethodDelete, fmt.Sprintf("/friends/%d", bob.ID))
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		listResp := doRequest(t, bobApp, http.MethodGet, "/friends")
		var friends []models.User
		require.NoError(t, json.NewDecoder(listResp.Body).Decode(&friends))
		_ = listResp.Body.Close()
		assert.Empty(t, friends)
	})

	t.Run("remove again is informational", func(t *testing.T) {
		resp := doRequest(t, aliceApp, http.MethodDelete, fmt.Sprintf("/friends/%d", bob.ID))
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "You are not friends with this user", body["message"])
	})
}

func TestDenyFriendRequest(t *testing.T) {
	s := setupServerTest(t)
	alice := createServerTestUser(t, s.db, "alice")
	bob := createServerTestUser(t, s.db, "bob")

	aliceApp := authedApp(s, alice.ID)
	aliceApp.Post("/friends/requests/:userId", s.SendFriendRequest)

	bobApp := authedApp(s, bob.ID)
	bobApp.Post("/friends/requests/:userId/deny", s.DenyFriendRequest)
	bobApp.Get("/friends", s.GetFriends)

	resp := doRequest(t, aliceApp, http.MethodPost, fmt.Sprintf("/friends/requests/%d", bob.ID))
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	denyResp := doRequest(t, bobApp, http.MethodPost, fmt.Sprintf("/friends/requests/%d/deny", alice.ID))
	_ = denyResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, denyResp.StatusCode)

	// Denying leaves no friendship behind.
	listResp := doRequest(t, bobApp, http.MethodGet, "/friends")
	var friends []models.User
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&friends))
	_ = listResp.Body.Close()
	assert.Empty(t, friends)

	// Denying a request that no longer exists is a 404.
	again := doRequest(t, bobApp, http.MethodPost, fmt.Sprintf("/friends/requests/%d/deny", alice.ID))
	_ = again.Body.Close()
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestSendFriendRequestBlocked(t *testing.T) {
	s := setupServerTest(t)
	alice := createServerTestUser(t, s.db, "alice")
	bob := createServerTestUser(t, s.db, "bob")

	_, err := s.blockRepo.Block(t.Context(), bob.ID, alice.ID)
	require.NoError(t, err)

	aliceApp := authedApp(s, alice.ID)
	aliceApp.Post("/friends/requests/:userId", s.SendFriendRequest)

	resp := doRequest(t, aliceApp, http.MethodPost, fmt.Sprintf("/friends/requests/%d", bob.ID))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
