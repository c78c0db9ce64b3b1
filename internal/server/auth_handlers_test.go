package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"commune/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	return postJSONMethod(t, app, http.MethodPost, path, payload)
}

func postJSONMethod(t *testing.T, app *fiber.App, method, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestSignup(t *testing.T) {
	s := setupServerTest(t)
	app := fiber.New()
	app.Post("/auth/signup", s.Signup)

	t.Run("creates user with token", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/signup", fiber.Map{
			"username": "firstmover",
			"email":    "first@example.com",
			"password": "Str0ng-Passw0rd!",
		})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "firstmover", body.User.Username)

		// A profile row is attached at signup.
		var profile models.Profile
		require.NoError(t, s.db.Where("user_id = ?", body.User.ID).First(&profile).Error)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/signup", fiber.Map{
			"username": "secondmover",
			"email":    "first@example.com",
			"password": "Str0ng-Passw0rd!",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/signup", fiber.Map{
			"username": "weakling",
			"email":    "weak@example.com",
			"password": "short",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid username rejected", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/signup", fiber.Map{
			"username": "_leading",
			"email":    "lead@example.com",
			"password": "Str0ng-Passw0rd!",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	s := setupServerTest(t)
	app := fiber.New()
	app.Post("/auth/login", s.Login)

	hashed, err := bcrypt.GenerateFromPassword([]byte("Str0ng-Passw0rd!"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: "loginuser",
		Email:    "login@example.com",
		Password: string(hashed),
	}
	require.NoError(t, s.db.Create(user).Error)

	t.Run("valid credentials", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/login", fiber.Map{
			"email":    "login@example.com",
			"password": "Str0ng-Passw0rd!",
		})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/login", fiber.Map{
			"email":    "login@example.com",
			"password": "Wr0ng-Passw0rd!!",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/login", fiber.Map{
			"email":    "nobody@example.com",
			"password": "Str0ng-Passw0rd!",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthRequired(t *testing.T) {
	s := setupServerTest(t)
	user := createServerTestUser(t, s.db, "auth")

	app := fiber.New()
	app.Get("/secure", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID").(uint)})
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := s.generateToken(user.ID, user.Username)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]float64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, float64(user.ID), body["user_id"])
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := setupServerTest(t)
		other.config.JWTSecret = "a-different-secret"
		token, err := other.generateToken(user.ID, user.Username)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestChangePassword(t *testing.T) {
	s := setupServerTest(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("Curr3nt-Passw0rd!"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: "rotator",
		Email:    "rotator@example.com",
		Password: string(hashed),
	}
	require.NoError(t, s.db.Create(user).Error)

	app := authedApp(s, user.ID)
	app.Post("/auth/change-password", s.ChangePassword)

	t.Run("wrong current password", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/change-password", fiber.Map{
			"current_password": "Wr0ng-Passw0rd!!",
			"new_password":     "Br4nd-New-Passw0rd!",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rotates password", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/change-password", fiber.Map{
			"current_password": "Curr3nt-Passw0rd!",
			"new_password":     "Br4nd-New-Passw0rd!",
		})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.User
		require.NoError(t, s.db.First(&updated, user.ID).Error)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(updated.Password), []byte("Br4nd-New-Passw0rd!")))
	})
}
