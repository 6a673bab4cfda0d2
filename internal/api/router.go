package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/stockledger/internal/api/middleware"
	"github.com/example/stockledger/internal/auth"
)

// RouterConfig wires the handlers and auth services into the router.
type RouterConfig struct {
	Products      *ProductHandlers
	Stock         *StockHandlers
	Users         *UserHandlers
	Roles         *RoleHandlers
	Catalogs      *CatalogHandlers
	Notifications *NotificationHandlers
	Reports       *ReportHandlers
	JWTService    *auth.JWTService
	RoleSource    middleware.RoleSource
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := middleware.Protect(cfg.JWTService)

	// guarded wraps a handler func with auth plus a permission check.
	guarded := func(permission string, h http.HandlerFunc) http.Handler {
		return protect(middleware.RequirePermission(cfg.RoleSource, permission)(h))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return protect(h)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "API is running..."})
	})

	// Users
	mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		cfg.Users.Login(w, r)
	})

	meHandler := authed(cfg.Users.Me)
	profileHandler := authed(cfg.Users.UpdateProfile)
	listUsers := guarded(auth.PermManageUsers, cfg.Users.ListUsers)
	updateUser := guarded(auth.PermManageUsers, cfg.Users.UpdateUser)
	deleteUser := guarded(auth.PermManageUsers, cfg.Users.DeleteUser)

	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.Users.Register(w, r)
		case http.MethodGet:
			listUsers.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/users/me" && r.Method == http.MethodGet:
			meHandler.ServeHTTP(w, r)
		case r.URL.Path == "/api/users/profile" && r.Method == http.MethodPut:
			profileHandler.ServeHTTP(w, r)
		case r.Method == http.MethodPut:
			updateUser.ServeHTTP(w, r)
		case r.Method == http.MethodDelete:
			deleteUser.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Roles
	listRoles := guarded(auth.PermManageRoles, cfg.Roles.ListRoles)
	createRole := guarded(auth.PermManageRoles, cfg.Roles.CreateRole)
	updateRole := guarded(auth.PermManageRoles, cfg.Roles.UpdateRole)
	deleteRole := guarded(auth.PermManageRoles, cfg.Roles.DeleteRole)

	mux.HandleFunc("/api/roles", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listRoles.ServeHTTP(w, r)
		case http.MethodPost:
			createRole.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/roles/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			updateRole.ServeHTTP(w, r)
		case http.MethodDelete:
			deleteRole.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Catalogs
	listCatalogs := guarded(auth.PermViewCatalog, cfg.Catalogs.ListCatalogs)
	createCatalog := guarded(auth.PermManageCatalog, cfg.Catalogs.CreateCatalog)
	updateCatalog := guarded(auth.PermManageCatalog, cfg.Catalogs.UpdateCatalog)
	deleteCatalog := guarded(auth.PermManageCatalog, cfg.Catalogs.DeleteCatalog)

	mux.HandleFunc("/api/catalogs", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listCatalogs.ServeHTTP(w, r)
		case http.MethodPost:
			createCatalog.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/catalogs/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			updateCatalog.ServeHTTP(w, r)
		case http.MethodDelete:
			deleteCatalog.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Products
	listProducts := guarded(auth.PermViewProducts, cfg.Products.ListProducts)
	getProduct := guarded(auth.PermViewProducts, cfg.Products.GetProduct)
	createProduct := guarded(auth.PermCreateProduct, cfg.Products.CreateProduct)
	updateProduct := guarded(auth.PermEditProduct, cfg.Products.UpdateProduct)
	deleteProduct := guarded(auth.PermDeleteProduct, cfg.Products.DeleteProduct)

	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listProducts.ServeHTTP(w, r)
		case http.MethodPost:
			createProduct.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getProduct.ServeHTTP(w, r)
		case http.MethodPut:
			updateProduct.ServeHTTP(w, r)
		case http.MethodDelete:
			deleteProduct.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Stock ledger
	listTransactions := guarded(auth.PermManageStock, cfg.Stock.ListTransactions)
	addTransaction := guarded(auth.PermManageStock, cfg.Stock.AddTransaction)
	handleScan := authed(cfg.Stock.HandleScan)

	mux.HandleFunc("/api/stock", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listTransactions.ServeHTTP(w, r)
		case http.MethodPost:
			addTransaction.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/stock/scan", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		handleScan.ServeHTTP(w, r)
	})

	// Notifications
	listNotifications := authed(cfg.Notifications.ListNotifications)
	createNotification := authed(cfg.Notifications.CreateNotification)
	clearNotifications := authed(cfg.Notifications.ClearAllNotifications)
	markAllRead := authed(cfg.Notifications.MarkAllAsRead)
	markRead := authed(cfg.Notifications.MarkAsRead)
	deleteNotification := authed(cfg.Notifications.DeleteNotification)

	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listNotifications.ServeHTTP(w, r)
		case http.MethodPost:
			createNotification.ServeHTTP(w, r)
		case http.MethodDelete:
			clearNotifications.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/notifications/", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case path == "/api/notifications/read-all" && r.Method == http.MethodPut:
			markAllRead.ServeHTTP(w, r)
		case strings.HasSuffix(path, "/read") && r.Method == http.MethodPut:
			markRead.ServeHTTP(w, r)
		case r.Method == http.MethodDelete:
			deleteNotification.ServeHTTP(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Reports
	inventoryReport := guarded(auth.PermViewReports, cfg.Reports.InventoryReport)
	mux.HandleFunc("/api/reports/inventory", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		inventoryReport.ServeHTTP(w, r)
	})

	// Barcodes
	barcodeProducts := authed(cfg.Products.ListBarcodeProducts)
	mux.HandleFunc("/api/barcodes/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		barcodeProducts.ServeHTTP(w, r)
	})

	// Seeder (bootstrap; protect or remove in production)
	mux.HandleFunc("/api/seeder/admin", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		cfg.Users.SeedAdmin(w, r)
	})

	return withLogging(mux)
}

func methodNotAllowed(w http.ResponseWriter) {
	respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
