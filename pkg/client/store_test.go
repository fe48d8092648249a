package client_test

import (
	"context"
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/pkg/client"
)

var _ = Describe("Store", func() {
	var (
		api   *fakeAPI
		store *client.Store
		ctx   context.Context
	)

	login := func() {
		api.respondJSON(http.MethodPost, "/auth/login", http.StatusOK, client.AuthResponse{
			Token: "session-token",
			User:  client.Profile{ID: uuid.New(), Email: "meera@example.com", Role: "MANAGER"},
		})
		_, err := store.Login(ctx, "meera@example.com", "s3cret-pass")
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		api = newFakeAPI()
		store = client.NewStore(client.New(api.server.URL))
		ctx = context.Background()
	})

	AfterEach(func() {
		api.close()
	})

	Describe("session lifecycle", func() {
		It("caches the profile on login and uses the token afterwards", func() {
			login()
			Expect(store.LoggedIn()).To(BeTrue())
			Expect(store.Profile().Email).To(Equal("meera@example.com"))

			api.respondJSON(http.MethodGet, "/categories", http.StatusOK, []client.Category{})
			_, err := store.RefreshCategories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(api.authSeen[len(api.authSeen)-1]).To(Equal("Bearer session-token"))
		})

		It("clears token, profile and collections together on logout", func() {
			login()
			api.respondJSON(http.MethodGet, "/expenses", http.StatusOK, []client.Expense{fixtureExpense("DRAFT")})
			_, err := store.RefreshMine(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Mine()).To(HaveLen(1))

			store.Logout()

			Expect(store.LoggedIn()).To(BeFalse())
			Expect(store.Profile()).To(BeNil())
			Expect(store.Mine()).To(BeEmpty())
			Expect(store.Pending()).To(BeEmpty())

			api.respondJSON(http.MethodGet, "/categories", http.StatusOK, []client.Category{})
			_, err = store.RefreshCategories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(api.authSeen[len(api.authSeen)-1]).To(BeEmpty())
		})

		It("resumes a persisted session by fetching the profile", func() {
			api.respondJSON(http.MethodGet, "/users/me", http.StatusOK, client.Profile{Email: "meera@example.com"})

			profile, err := store.ResumeSession(ctx, "stored-token")
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.Email).To(Equal("meera@example.com"))
			Expect(api.authSeen[0]).To(Equal("Bearer stored-token"))
		})

		It("stays logged out when the persisted token is rejected", func() {
			api.respondError(http.MethodGet, "/users/me", http.StatusUnauthorized,
				"UNAUTHORIZED", "TOKEN_EXPIRED", "token expired")

			_, err := store.ResumeSession(ctx, "stale-token")
			Expect(err).To(HaveOccurred())
			Expect(store.LoggedIn()).To(BeFalse())

			api.respondJSON(http.MethodGet, "/categories", http.StatusOK, []client.Category{})
			_, err = store.RefreshCategories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(api.authSeen[len(api.authSeen)-1]).To(BeEmpty())
		})
	})

	Describe("collection folds", func() {
		It("appends a created expense to the owned list", func() {
			created := fixtureExpense("DRAFT")
			api.respondJSON(http.MethodPost, "/expenses", http.StatusCreated, created)

			_, err := store.CreateExpense(ctx, client.ExpenseInput{Title: created.Title, Amount: created.Amount, CategoryID: created.CategoryID})
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Mine()).To(HaveLen(1))
			Expect(store.Mine()[0].ID).To(Equal(created.ID))
		})

		It("replaces the record in place on update", func() {
			e := fixtureExpense("DRAFT")
			api.respondJSON(http.MethodGet, "/expenses", http.StatusOK, []client.Expense{e})
			_, err := store.RefreshMine(ctx)
			Expect(err).NotTo(HaveOccurred())

			updated := e
			updated.Title = "Client site visit (revised)"
			api.respondJSON(http.MethodPut, "/expenses/"+e.ID.String(), http.StatusOK, updated)

			_, err = store.UpdateExpense(ctx, e.ID, client.ExpenseInput{Title: updated.Title, Amount: e.Amount, CategoryID: e.CategoryID})
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Mine()).To(HaveLen(1))
			Expect(store.Mine()[0].Title).To(Equal("Client site visit (revised)"))
		})

		It("drops the record on delete", func() {
			e := fixtureExpense("DRAFT")
			api.respondJSON(http.MethodGet, "/expenses", http.StatusOK, []client.Expense{e})
			_, err := store.RefreshMine(ctx)
			Expect(err).NotTo(HaveOccurred())

			api.on(http.MethodDelete, "/expenses/"+e.ID.String(), func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})

			Expect(store.DeleteExpense(ctx, e.ID)).To(Succeed())
			Expect(store.Mine()).To(BeEmpty())
		})

		It("removes an approved expense from the pending queue", func() {
			first := fixtureExpense("SUBMITTED")
			second := fixtureExpense("SUBMITTED")
			api.respondJSON(http.MethodGet, "/expenses/pending", http.StatusOK, []client.Expense{first, second})
			_, err := store.RefreshPending(ctx)
			Expect(err).NotTo(HaveOccurred())

			approved := first
			approved.Status = "APPROVED"
			api.respondJSON(http.MethodPost, "/expenses/"+first.ID.String()+"/approve", http.StatusOK, approved)

			got, err := store.ApproveExpense(ctx, first.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal("APPROVED"))
			Expect(store.Pending()).To(HaveLen(1))
			Expect(store.Pending()[0].ID).To(Equal(second.ID))
		})

		It("removes a reimbursed expense from the approved list", func() {
			e := fixtureExpense("APPROVED")
			api.respondJSON(http.MethodGet, "/expenses/approved", http.StatusOK, []client.Expense{e})
			_, err := store.RefreshApproved(ctx)
			Expect(err).NotTo(HaveOccurred())

			reimbursed := e
			reimbursed.Status = "REIMBURSED"
			api.respondJSON(http.MethodPost, "/expenses/"+e.ID.String()+"/reimburse", http.StatusOK, reimbursed)

			_, err = store.ReimburseExpense(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Approved()).To(BeEmpty())
		})

		It("leaves a stale record untouched when the server refuses the transition", func() {
			e := fixtureExpense("SUBMITTED")
			api.respondJSON(http.MethodGet, "/expenses/pending", http.StatusOK, []client.Expense{e})
			_, err := store.RefreshPending(ctx)
			Expect(err).NotTo(HaveOccurred())

			api.respondError(http.MethodPost, "/expenses/"+e.ID.String()+"/approve",
				http.StatusConflict, "INVALID_TRANSITION", "INVALID_TRANSITION", "cannot approve an expense in status APPROVED")

			_, err = store.ApproveExpense(ctx, e.ID)
			Expect(err).To(HaveOccurred())
			Expect(store.Pending()).To(HaveLen(1))
		})
	})

	Describe("bulk folds", func() {
		It("continues past an already-decided item and reports it", func() {
			first := fixtureExpense("SUBMITTED")
			second := fixtureExpense("SUBMITTED")
			third := fixtureExpense("SUBMITTED")
			api.respondJSON(http.MethodGet, "/expenses/pending", http.StatusOK, []client.Expense{first, second, third})
			_, err := store.RefreshPending(ctx)
			Expect(err).NotTo(HaveOccurred())

			for _, e := range []client.Expense{first, third} {
				approved := e
				approved.Status = "APPROVED"
				api.respondJSON(http.MethodPost, "/expenses/"+e.ID.String()+"/approve", http.StatusOK, approved)
			}
			api.respondError(http.MethodPost, "/expenses/"+second.ID.String()+"/approve",
				http.StatusConflict, "INVALID_TRANSITION", "INVALID_TRANSITION", "cannot approve an expense in status APPROVED")

			result, err := store.BulkApprove(ctx, []uuid.UUID{first.ID, second.ID, third.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(HaveLen(2))
			Expect(result.Failed).To(HaveLen(1))
			Expect(result.Failed[0].ID).To(Equal(second.ID))

			var transitionErr *client.InvalidTransitionError
			Expect(result.Failed[0].Err).To(BeAssignableToTypeOf(transitionErr))

			// the decided item stays in pending until refreshed
			Expect(store.Pending()).To(HaveLen(1))
			Expect(store.Pending()[0].ID).To(Equal(second.ID))
		})

		It("sends the shared reason on every bulk rejection", func() {
			first := fixtureExpense("SUBMITTED")
			second := fixtureExpense("SUBMITTED")

			reasons := map[string]string{}
			for _, e := range []client.Expense{first, second} {
				e := e
				api.on(http.MethodPost, "/expenses/"+e.ID.String()+"/reject", func(w http.ResponseWriter, r *http.Request) {
					var body map[string]string
					json.NewDecoder(r.Body).Decode(&body)
					reasons[e.ID.String()] = body["reason"]
					rejected := e
					rejected.Status = "REJECTED"
					json.NewEncoder(w).Encode(rejected)
				})
			}

			result, err := store.BulkReject(ctx, []uuid.UUID{first.ID, second.ID}, "policy violation")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(HaveLen(2))
			Expect(reasons).To(HaveLen(2))
			for _, reason := range reasons {
				Expect(reason).To(Equal("policy violation"))
			}
		})

		It("aborts the fold on a transport failure", func() {
			first := fixtureExpense("SUBMITTED")
			second := fixtureExpense("SUBMITTED")
			api.close()

			result, err := store.BulkApprove(ctx, []uuid.UUID{first.ID, second.ID})
			Expect(err).To(HaveOccurred())
			Expect(result.Succeeded).To(BeEmpty())
			Expect(result.Failed).To(BeEmpty())

			var transportErr *client.TransportError
			Expect(err).To(BeAssignableToTypeOf(transportErr))
		})
	})
})
