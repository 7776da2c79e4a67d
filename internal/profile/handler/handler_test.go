package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companion/internal/profile/models"
	"companion/internal/profile/service"
	"companion/internal/profile/store"
	"companion/pkg/testutil"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := service.New(store.NewInMemory())
	require.NoError(t, err)
	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler)).Register(r)
	return r
}

func TestProfileFlow(t *testing.T) {
	router := newRouter(t)

	testutil.Given(t, "a signed-out installation", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/profile/"))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	testutil.When(t, "the user signs in and edits their profile", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/session",
			models.SignInRequest{Email: "ada@example.com", AuthSource: "apple"}))
		testutil.AssertStatusOK(t, rr)

		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/profile/",
			models.UpdateProfileRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}))
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, "Lovelace", testutil.UnmarshalResponse[models.Profile](t, rr).LastName)
	})

	testutil.Then(t, "history and auth sources reflect the changes", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/profile/history"))
		testutil.AssertStatusOK(t, rr)
		assert.Len(t, testutil.UnmarshalResponse[models.History](t, rr).Entries, 2)

		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/profile/auth-sources",
			models.LinkAuthSourceRequest{Source: "google"}))
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, []string{"apple", "google"}, testutil.UnmarshalResponse[models.Profile](t, rr).AuthSources)

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/profile/auth-sources/apple"))
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, []string{"google"}, testutil.UnmarshalResponse[models.Profile](t, rr).AuthSources)
	})

	testutil.Then(t, "signing out ends the session", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/session"))
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/profile/"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func TestProfileValidationErrors(t *testing.T) {
	router := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/session",
		models.SignInRequest{Email: "not-an-email", AuthSource: "apple"}))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")

	rr = testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/session", `{"email":"a@b.c","extra":1}`))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/session",
		models.SignInRequest{Email: "ada@example.com", AuthSource: "apple"}))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/profile/auth-sources/apple"))
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
}
