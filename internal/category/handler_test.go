package category_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal/auth"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
	"github.com/RahulB-24/ExpenseOps/internal/category"
)

var _ = Describe("Category Handler", func() {
	var (
		repo     *mockRepo
		handler  *category.Handler
		router   *chi.Mux
		tenantID uuid.UUID
		admin    *auth.User
		employee *auth.User
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		repo = newMockRepo()
		service := category.NewService(repo, slogger)
		handler = category.NewHandler(service, slogger)

		tenantID = uuid.New()
		admin = &auth.User{
			ID:       uuid.New(),
			TenantID: tenantID,
			Name:     "Ana Admin",
			Email:    "ana@acme.test",
			Role:     authz.RoleAdmin,
			IsActive: true,
		}
		employee = &auth.User{
			ID:       uuid.New(),
			TenantID: tenantID,
			Name:     "Esha Employee",
			Email:    "esha@acme.test",
			Role:     authz.RoleEmployee,
			IsActive: true,
		}

		router = chi.NewRouter()
		router.Get("/categories", handler.ListActive)
		router.Get("/admin/categories", handler.ListAll)
		router.Post("/admin/categories", handler.Create)
		router.Put("/admin/categories/{id}", handler.Update)
		router.Post("/admin/categories/{id}/toggle-active", handler.ToggleActive)
	})

	serve := func(user *auth.User, method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		if user != nil {
			req = req.WithContext(auth.ContextWithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	seed := func(name string, active bool) *category.Category {
		cat := category.New(tenantID, category.CategoryDTO{Name: name}, time.Now())
		cat.IsActive = active
		Expect(repo.Create(cat)).To(Succeed())
		return cat
	}

	Describe("ListActive", func() {
		It("returns only active categories for the caller's tenant", func() {
			seed("Travel", true)
			seed("Retired", false)

			rec := serve(employee, http.MethodGet, "/categories", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var got []category.Category
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got).To(HaveLen(1))
			Expect(got[0].Name).To(Equal("Travel"))
		})

		It("rejects requests without an authenticated user", func() {
			rec := serve(nil, http.MethodGet, "/categories", nil)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))

			var body map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["message"]).To(Equal("authentication required"))
		})
	})

	Describe("ListAll", func() {
		It("includes deactivated categories for admins", func() {
			seed("Travel", true)
			seed("Retired", false)

			rec := serve(admin, http.MethodGet, "/admin/categories", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var got []category.Category
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got).To(HaveLen(2))
		})

		It("refuses non-admin callers", func() {
			rec := serve(employee, http.MethodGet, "/admin/categories", nil)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("Create", func() {
		It("creates a category and returns it", func() {
			rec := serve(admin, http.MethodPost, "/admin/categories", category.CategoryDTO{
				Name: "Hardware",
				Icon: "🔧",
			})
			Expect(rec.Code).To(Equal(http.StatusCreated))

			var got category.Category
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got.Name).To(Equal("Hardware"))
			Expect(got.IsActive).To(BeTrue())

			stored, err := repo.GetByID(tenantID, got.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Icon).To(Equal("🔧"))
		})

		It("rejects a blank name", func() {
			rec := serve(admin, http.MethodPost, "/admin/categories", category.CategoryDTO{Name: "  "})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/admin/categories", bytes.NewBufferString("{not json"))
			req = req.WithContext(auth.ContextWithUser(req.Context(), admin))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Update", func() {
		It("renames an existing category", func() {
			cat := seed("Travel", true)

			rec := serve(admin, http.MethodPut, "/admin/categories/"+cat.ID.String(), category.CategoryDTO{
				Name: "Business Travel",
			})
			Expect(rec.Code).To(Equal(http.StatusOK))

			stored, err := repo.GetByID(tenantID, cat.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Name).To(Equal("Business Travel"))
		})

		It("returns 404 for a category from another tenant", func() {
			cat := seed("Travel", true)
			cat.TenantID = uuid.New()
			Expect(repo.Update(cat)).To(Succeed())

			rec := serve(admin, http.MethodPut, "/admin/categories/"+cat.ID.String(), category.CategoryDTO{
				Name: "Hijacked",
			})
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("rejects a non-uuid id", func() {
			rec := serve(admin, http.MethodPut, "/admin/categories/not-a-uuid", category.CategoryDTO{
				Name: "Whatever",
			})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ToggleActive", func() {
		It("flips the active flag on each call", func() {
			cat := seed("Travel", true)
			path := "/admin/categories/" + cat.ID.String() + "/toggle-active"

			rec := serve(admin, http.MethodPost, path, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var got category.Category
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got.IsActive).To(BeFalse())

			rec = serve(admin, http.MethodPost, path, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got.IsActive).To(BeTrue())
		})

		It("refuses non-admin callers", func() {
			cat := seed("Travel", true)

			rec := serve(employee, http.MethodPost, "/admin/categories/"+cat.ID.String()+"/toggle-active", nil)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})
	})
})
