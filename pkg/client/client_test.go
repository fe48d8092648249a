package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RahulB-24/ExpenseOps/pkg/client"
)

// fakeAPI is a scriptable stand-in for the server: handlers keyed by
// "METHOD /api/v1/path", plus a record of every authorization header seen.
type fakeAPI struct {
	server     *httptest.Server
	handlers   map[string]http.HandlerFunc
	authSeen   []string
	lastMethod string
	lastPath   string
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{handlers: map[string]http.HandlerFunc{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
		f.lastMethod = r.Method
		f.lastPath = r.URL.Path

		if h, ok := f.handlers[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	return f
}

func (f *fakeAPI) on(method, path string, h http.HandlerFunc) {
	f.handlers[method+" /api/v1"+path] = h
}

func (f *fakeAPI) respondJSON(method, path string, status int, body any) {
	f.on(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	})
}

func (f *fakeAPI) respondError(method, path string, status int, errType, code, message string) {
	f.respondJSON(method, path, status, map[string]any{
		"error": map[string]any{
			"type":    errType,
			"code":    code,
			"message": message,
		},
	})
}

func (f *fakeAPI) close() {
	f.server.Close()
}

func fixtureExpense(status string) client.Expense {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return client.Expense{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		UserName:     "Priya Sharma",
		CategoryID:   uuid.New(),
		CategoryName: "Travel",
		Title:        "Client site visit",
		Amount:       decimal.RequireFromString("1450.00"),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

var _ = Describe("Client", func() {
	var (
		api *fakeAPI
		c   *client.Client
		ctx context.Context
	)

	BeforeEach(func() {
		api = newFakeAPI()
		c = client.New(api.server.URL)
		ctx = context.Background()
	})

	AfterEach(func() {
		api.close()
	})

	Describe("authentication", func() {
		It("sends no bearer token before login", func() {
			api.respondJSON(http.MethodGet, "/categories", http.StatusOK, []client.Category{})

			_, err := c.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(api.authSeen).To(HaveLen(1))
			Expect(api.authSeen[0]).To(BeEmpty())
		})

		It("carries the token on requests after SetToken", func() {
			c.SetToken("token-abc")
			api.respondJSON(http.MethodGet, "/categories", http.StatusOK, []client.Category{})

			_, err := c.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(api.authSeen[0]).To(Equal("Bearer token-abc"))
		})

		It("returns the token and profile from a successful login", func() {
			userID := uuid.New()
			api.respondJSON(http.MethodPost, "/auth/login", http.StatusOK, client.AuthResponse{
				Token: "fresh-token",
				User:  client.Profile{ID: userID, Email: "priya@example.com", Role: "EMPLOYEE"},
			})

			resp, err := c.Login(ctx, "priya@example.com", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Token).To(Equal("fresh-token"))
			Expect(resp.User.ID).To(Equal(userID))
		})
	})

	Describe("error decoding", func() {
		It("maps a forbidden envelope to AuthorizationError", func() {
			id := uuid.New()
			api.respondError(http.MethodPost, "/expenses/"+id.String()+"/approve",
				http.StatusForbidden, "FORBIDDEN", "SELF_APPROVAL_FORBIDDEN", "role MANAGER may not approve")

			_, err := c.ApproveExpense(ctx, id)
			var authErr *client.AuthorizationError
			Expect(errors.As(err, &authErr)).To(BeTrue())
			Expect(authErr.Code).To(Equal("SELF_APPROVAL_FORBIDDEN"))
			Expect(authErr.StatusCode).To(Equal(http.StatusForbidden))
		})

		It("maps a transition conflict to InvalidTransitionError", func() {
			id := uuid.New()
			api.respondError(http.MethodPost, "/expenses/"+id.String()+"/submit",
				http.StatusConflict, "INVALID_TRANSITION", "INVALID_TRANSITION", "cannot submit an expense in status APPROVED")

			_, err := c.SubmitExpense(ctx, id)
			var transitionErr *client.InvalidTransitionError
			Expect(errors.As(err, &transitionErr)).To(BeTrue())
			Expect(transitionErr.Message).To(ContainSubstring("APPROVED"))
		})

		It("maps a validation envelope to ValidationError", func() {
			id := uuid.New()
			api.respondError(http.MethodPost, "/expenses/"+id.String()+"/reject",
				http.StatusBadRequest, "VALIDATION_ERROR", "REJECTION_REASON_REQUIRED", "rejection reason is required")

			_, err := c.RejectExpense(ctx, id, "")
			var validationErr *client.ValidationError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
			Expect(validationErr.Code).To(Equal("REJECTION_REASON_REQUIRED"))
		})

		It("maps 404 to NotFoundError", func() {
			id := uuid.New()
			api.respondError(http.MethodGet, "/expenses/"+id.String(),
				http.StatusNotFound, "NOT_FOUND", "EXPENSE_NOT_FOUND", "expense not found")

			_, err := c.GetExpense(ctx, id)
			var notFound *client.NotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})

		It("classifies untyped bodies by status code", func() {
			api.on(http.MethodGet, "/expenses", func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
			})

			_, err := c.MyExpenses(ctx)
			var authErr *client.AuthorizationError
			Expect(errors.As(err, &authErr)).To(BeTrue())
			Expect(authErr.Message).To(ContainSubstring("insufficient role"))
		})

		It("reports an unreachable server as TransportError", func() {
			api.close()

			_, err := c.MyExpenses(ctx)
			var transportErr *client.TransportError
			Expect(errors.As(err, &transportErr)).To(BeTrue())
			Expect(transportErr.Unwrap()).To(HaveOccurred())
		})
	})

	Describe("expense calls", func() {
		It("round-trips an expense with decimal amount intact", func() {
			e := fixtureExpense("DRAFT")
			api.respondJSON(http.MethodGet, "/expenses/"+e.ID.String(), http.StatusOK, e)

			got, err := c.GetExpense(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Amount.Equal(decimal.RequireFromString("1450.00"))).To(BeTrue())
			Expect(got.Title).To(Equal("Client site visit"))
		})

		It("sends the rejection reason in the body", func() {
			id := uuid.New()
			var gotBody map[string]string
			api.on(http.MethodPost, "/expenses/"+id.String()+"/reject", func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&gotBody)
				json.NewEncoder(w).Encode(fixtureExpense("REJECTED"))
			})

			_, err := c.RejectExpense(ctx, id, "missing receipt")
			Expect(err).NotTo(HaveOccurred())
			Expect(gotBody).To(HaveKeyWithValue("reason", "missing receipt"))
		})

		It("issues DELETE and accepts 204", func() {
			id := uuid.New()
			api.on(http.MethodDelete, "/expenses/"+id.String(), func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})

			Expect(c.DeleteExpense(ctx, id)).To(Succeed())
			Expect(api.lastMethod).To(Equal(http.MethodDelete))
		})

		It("passes the range query to analytics", func() {
			api.on(http.MethodGet, "/expenses/analytics", func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Query().Get("range")).To(Equal("THIS_MONTH"))
				json.NewEncoder(w).Encode(client.Summary{Count: 3})
			})

			summary, err := c.Analytics(ctx, "THIS_MONTH")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Count).To(Equal(3))
		})
	})
})
