package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrowe/gtdhub/internal/auth"
	"github.com/amrowe/gtdhub/internal/authz"
	"github.com/amrowe/gtdhub/internal/middleware"
	"github.com/amrowe/gtdhub/internal/permissions"
	"github.com/amrowe/gtdhub/internal/services"
	"github.com/amrowe/gtdhub/internal/store/memory"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memory.New()
	enforcer, err := authz.NewEnforcer(st)
	require.NoError(t, err)
	perms := permissions.NewEvaluator(enforcer, st)

	issuer := auth.NewTokenIssuer("test-secret", 30*time.Minute, 7*24*time.Hour)
	authService := auth.NewAuth(st, issuer, nil)

	authHandler := NewAuthHandler(authService)
	familyHandler := NewFamilyHandler(services.NewFamilyService(st, st, perms))
	projectHandler := NewProjectHandler(services.NewProjectService(st, st, perms))
	itemHandler := NewItemHandler(services.NewItemService(st))
	contextHandler := NewContextHandler(services.NewContextService(st))
	reviewHandler := NewReviewHandler(services.NewReviewService(st))

	router := gin.New()
	api := router.Group("/api")
	authed := middleware.AuthMiddleware(issuer, authService)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.GET("/me", authed, authHandler.Me)

	itemsAPI := api.Group("/items")
	itemsAPI.Use(authed)
	itemsAPI.GET("", itemHandler.ListItems)
	itemsAPI.POST("", itemHandler.CreateItem)
	itemsAPI.GET("/:id", itemHandler.GetItem)
	itemsAPI.PATCH("/:id", itemHandler.UpdateItem)
	itemsAPI.DELETE("/:id", itemHandler.DeleteItem)
	itemsAPI.POST("/:id/complete", itemHandler.CompleteItem)
	itemsAPI.POST("/:id/process", itemHandler.ProcessItem)

	projectsAPI := api.Group("/projects")
	projectsAPI.Use(authed)
	projectsAPI.GET("", projectHandler.ListProjects)
	projectsAPI.POST("", projectHandler.CreateProject)
	projectsAPI.GET("/:id", projectHandler.GetProject)
	projectsAPI.PATCH("/:id", projectHandler.UpdateProject)
	projectsAPI.DELETE("/:id", projectHandler.DeleteProject)

	contextsAPI := api.Group("/contexts")
	contextsAPI.Use(authed)
	contextsAPI.GET("", contextHandler.ListContexts)
	contextsAPI.POST("", contextHandler.CreateContext)

	familiesAPI := api.Group("/families")
	familiesAPI.Use(authed)
	familiesAPI.GET("", familyHandler.ListFamilies)
	familiesAPI.POST("", familyHandler.CreateFamily)
	familiesAPI.POST("/join", familyHandler.JoinFamily)
	familiesAPI.GET("/:id", familyHandler.GetFamily)
	familiesAPI.POST("/:id/invite", familyHandler.RotateInvite)
	familiesAPI.GET("/:id/members", familyHandler.ListMembers)
	familiesAPI.DELETE("/:id/members/:userId", familyHandler.RemoveMember)

	reviewsAPI := api.Group("/reviews")
	reviewsAPI.Use(authed)
	reviewsAPI.GET("/checklist", reviewHandler.Checklist)
	reviewsAPI.GET("", reviewHandler.ListReviews)
	reviewsAPI.POST("", reviewHandler.CreateReview)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func registerAndLogin(t *testing.T, router *gin.Engine, email, name string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "correct-horse",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var pair struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &pair)
	require.NotEmpty(t, pair.AccessToken)
	return pair.AccessToken
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)

	token := registerAndLogin(t, router, "alice@example.com", "Alice")

	w := doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decode(t, w, &me)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Equal(t, "Alice", me.Name)

	// No token, bad token
	w = doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Duplicate registration
	w = doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "alice@example.com",
		"password": "correct-horse",
		"name":     "Alice Again",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestItemLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice@example.com", "Alice")

	w := doJSON(t, router, http.MethodPost, "/api/items", token, gin.H{"title": "buy milk"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	decode(t, w, &item)
	assert.Equal(t, "inbox", item.Type)

	w = doJSON(t, router, http.MethodPost, "/api/items/"+item.ID+"/process", token, gin.H{
		"type":     "next_action",
		"priority": "p1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var processed struct {
		Type     string  `json:"type"`
		Priority *string `json:"priority"`
	}
	decode(t, w, &processed)
	assert.Equal(t, "next_action", processed.Type)
	require.NotNil(t, processed.Priority)
	assert.Equal(t, "p1", *processed.Priority)

	// Re-processing a non-inbox item is a 404
	w = doJSON(t, router, http.MethodPost, "/api/items/"+item.ID+"/process", token, gin.H{"type": "someday"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/items/"+item.ID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var completed struct {
		CompletedAt *time.Time `json:"completed_at"`
	}
	decode(t, w, &completed)
	assert.NotNil(t, completed.CompletedAt)

	// Completed items are hidden from the default listing
	w = doJSON(t, router, http.MethodGet, "/api/items", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []json.RawMessage
	decode(t, w, &items)
	assert.Empty(t, items)

	w = doJSON(t, router, http.MethodGet, "/api/items?include_completed=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &items)
	assert.Len(t, items, 1)

	w = doJSON(t, router, http.MethodDelete, "/api/items/"+item.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestItemsInvisibleAcrossUsers(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice@example.com", "Alice")
	bobToken := registerAndLogin(t, router, "bob@example.com", "Bob")

	w := doJSON(t, router, http.MethodPost, "/api/items", aliceToken, gin.H{"title": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)
	var item struct {
		ID string `json:"id"`
	}
	decode(t, w, &item)

	w = doJSON(t, router, http.MethodGet, "/api/items/"+item.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, http.MethodDelete, "/api/items/"+item.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFamilySharingScenario(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice@example.com", "Alice")
	bobToken := registerAndLogin(t, router, "bob@example.com", "Bob")

	// Alice creates a family
	w := doJSON(t, router, http.MethodPost, "/api/families", aliceToken, gin.H{"name": "Household"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var family struct {
		ID         string `json:"id"`
		InviteCode string `json:"invite_code"`
	}
	decode(t, w, &family)
	require.NotEmpty(t, family.InviteCode)

	// Bob joins with the invite code
	w = doJSON(t, router, http.MethodPost, "/api/families/join", bobToken, gin.H{"invite_code": family.InviteCode})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Alice shares a project with the family
	w = doJSON(t, router, http.MethodPost, "/api/projects", aliceToken, gin.H{
		"name":      "Garden",
		"family_id": family.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var project struct {
		ID string `json:"id"`
	}
	decode(t, w, &project)

	// Bob can read but not modify the shared project
	w = doJSON(t, router, http.MethodGet, "/api/projects/"+project.ID, bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPatch, "/api/projects/"+project.ID, bobToken, gin.H{"name": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Bob cannot rotate the invite; Alice can, and the old code dies
	w = doJSON(t, router, http.MethodPost, "/api/families/"+family.ID+"/invite", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/families/"+family.ID+"/invite", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rotated struct {
		InviteCode string `json:"invite_code"`
	}
	decode(t, w, &rotated)
	assert.NotEqual(t, family.InviteCode, rotated.InviteCode)

	carolToken := registerAndLogin(t, router, "carol@example.com", "Carol")
	w = doJSON(t, router, http.MethodPost, "/api/families/join", carolToken, gin.H{"invite_code": family.InviteCode})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Members list is visible to members
	w = doJSON(t, router, http.MethodGet, "/api/families/"+family.ID+"/members", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var members []struct {
		Role string `json:"role"`
	}
	decode(t, w, &members)
	assert.Len(t, members, 2)

	// Removing the owner conflicts; a member may leave
	var bobID string
	w = doJSON(t, router, http.MethodGet, "/api/auth/me", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bob struct {
		ID string `json:"id"`
	}
	decode(t, w, &bob)
	bobID = bob.ID

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var alice struct {
		ID string `json:"id"`
	}
	decode(t, w, &alice)

	w = doJSON(t, router, http.MethodDelete, "/api/families/"+family.ID+"/members/"+alice.ID, bobToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = doJSON(t, router, http.MethodDelete, "/api/families/"+family.ID+"/members/"+bobID, bobToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestReviewChecklistEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice@example.com", "Alice")

	w := doJSON(t, router, http.MethodGet, "/api/reviews/checklist", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var checklist struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decode(t, w, &checklist)
	assert.Len(t, checklist.Items, 7)
}
