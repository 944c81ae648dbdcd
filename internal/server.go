package internal

import (
	"log"
	"net/http"

	"radio-fleet-console/internal/auth"
	"radio-fleet-console/internal/cache"
	"radio-fleet-console/internal/config"
	"radio-fleet-console/internal/inventory"
	"radio-fleet-console/internal/store"

	"github.com/go-chi/chi/v5"
)

// Server wires the console's HTTP surface to the entity services. All
// persistence lives behind the remote store client; the server itself holds
// only the process-wide cache.
type Server struct {
	Store      *store.Client
	Cache      *cache.Cache
	Router     *chi.Mux
	JWTManager *auth.JWTManager
	Metrics    *Metrics

	Radios        *inventory.RadioService
	Accessories   *inventory.AccessoryService
	Issues        *inventory.IssueService
	Installations *inventory.InstallationService
	Catalog       *inventory.CatalogService
	Dashboard     *inventory.DashboardService
	Resolver      *inventory.ItemResolver
}

func NewServer(cfg *config.Config) *Server {
	metrics := NewMetrics()

	st := store.New(cfg.StoreURL, cfg.StoreAPIKey, store.WithTimeout(cfg.StoreTimeout))
	st.OnRequest = metrics.ObserveStoreRequest

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)
	if err := jwtManager.ValidateConfig(); err != nil {
		log.Fatal("JWT configuration validation failed:", err)
	}

	c := cache.New()

	radios := inventory.NewRadioService(st, c)
	accessories := inventory.NewAccessoryService(st, c)
	issues := inventory.NewIssueService(st, c)
	installations := inventory.NewInstallationService(st, c)

	s := &Server{
		Store:         st,
		Cache:         c,
		Router:        chi.NewRouter(),
		JWTManager:    jwtManager,
		Metrics:       metrics,
		Radios:        radios,
		Accessories:   accessories,
		Issues:        issues,
		Installations: installations,
		Catalog:       inventory.NewCatalogService(st, c),
		Dashboard:     inventory.NewDashboardService(radios, accessories, issues, installations, c),
		Resolver:      inventory.NewItemResolver(radios, accessories),
	}

	s.Router.Use(RequestIDMiddleware)
	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
	}

	// Public routes first (no auth)
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	if cfg.EnableMetrics {
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(s.JWTManager))
		s.mountProtectedRoutes(r)
	})

	return s
}

// mountProtectedRoutes mounts all routes that require authentication
func (s *Server) mountProtectedRoutes(r chi.Router) {
	// Dashboard
	r.Get("/dashboard", s.getDashboard)

	// Radios
	r.Get("/radios", s.listRadios)
	r.Get("/radios/stats", s.getRadioStats)
	r.Get("/radios/check", s.checkRadioField)
	r.Get("/radios/validate", s.validateRadioFields)
	r.Get("/radios/{id}", s.getRadio)
	r.Get("/radios/{id}/history", s.getRadioHistory)
	r.Post("/radios", s.createRadio)
	r.Patch("/radios/{id}", s.updateRadio)
	r.Delete("/radios/{id}", s.deleteRadio)
	r.Post("/radios/{id}/battery", s.recordBatteryReplaced)
	r.Post("/radios/{id}/service", s.recordServiced)
	r.Post("/radios/{id}/change-id", s.changeRadioID)
	r.Post("/radios/{id}/change-alias", s.changeRadioAlias)
	r.Post("/radios/{id}/change-department", s.changeRadioDepartment)

	// Accessories
	r.Get("/accessories", s.listAccessories)
	r.Get("/accessories/{id}", s.getAccessory)
	r.Post("/accessories", s.createAccessory)
	r.Patch("/accessories/{id}", s.updateAccessory)
	r.Delete("/accessories/{id}", s.deleteAccessory)

	// Issues
	r.Get("/issues", s.listIssues)
	r.Get("/issues/{id}", s.getIssue)
	r.Post("/issues", s.createIssue)
	r.Patch("/issues/{id}", s.updateIssue)
	r.Delete("/issues/{id}", s.deleteIssue)

	// Installations
	r.Get("/installations", s.listInstallations)
	r.Get("/installations/{id}", s.getInstallation)
	r.Post("/installations", s.createInstallation)
	r.Patch("/installations/{id}", s.updateInstallation)
	r.Delete("/installations/{id}", s.deleteInstallation)

	// Catalog
	r.Get("/brands", s.listBrands)
	r.Get("/brands/stats", s.getCatalogStats)
	r.Get("/brands/radio", s.listRadioBrands)
	r.Get("/brands/{id}", s.getBrand)
	r.Get("/brands/{id}/categories", s.listCategoriesByBrand)
	r.Get("/brands/{id}/radio-models", s.listRadioModelsByBrand)
	r.Post("/brands", s.createBrand)
	r.Patch("/brands/{id}", s.updateBrand)
	r.Delete("/brands/{id}", s.deleteBrand)
	r.Get("/categories/{id}/models", s.listModelsByCategory)
	r.Post("/categories", s.createCategory)
	r.Patch("/categories/{id}", s.updateCategory)
	r.Delete("/categories/{id}", s.deleteCategory)
	r.Post("/models", s.createModel)
	r.Patch("/models/{id}", s.updateModel)
	r.Delete("/models/{id}", s.deleteModel)

	// CSV / XLSX transfer
	r.Get("/radios/export/csv", s.exportRadiosCSV)
	r.Get("/radios/export/xlsx", s.exportRadiosXLSX)
	r.Get("/radios/import/template", s.downloadCSVTemplate)
	r.With(auth.MustRole("admin", "beheerder")).Post("/radios/import/csv", s.importRadiosCSV)
}
