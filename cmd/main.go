package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/minifigstore/api/internal/auth"
	"github.com/minifigstore/api/internal/category"
	"github.com/minifigstore/api/internal/collection"
	"github.com/minifigstore/api/internal/color"
	"github.com/minifigstore/api/internal/config"
	"github.com/minifigstore/api/internal/contactform"
	"github.com/minifigstore/api/internal/mailer"
	"github.com/minifigstore/api/internal/product"
	"github.com/minifigstore/api/internal/user"
	"github.com/minifigstore/api/internal/utils/db"
)

func main() {
	// In production the environment comes from the platform, not a file.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	database, err := db.GetDB(cfg)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}

	if err := database.AutoMigrate(
		&user.User{},
		&category.Category{},
		&category.SubCategory{},
		&collection.Collection{},
		&collection.SubCollection{},
		&color.Color{},
		&product.Product{},
		&contactform.Message{},
	); err != nil {
		log.Fatal("migration failed: ", err)
	}

	users := user.NewRepository()
	codec := auth.NewCodec(cfg)
	issuer := auth.NewIssuer(codec, users, cfg.IsProduction())
	gate := auth.NewMiddleware(database, codec, issuer)
	mail := mailer.NewWebhook(cfg.ContactWebhookURL)

	authHandler := auth.NewHandler(database, codec, issuer, mail, cfg.FrontendURL)
	userHandler := user.NewHandler(database)
	categoryHandler := category.NewHandler(database)
	collectionHandler := collection.NewHandler(database)
	colorHandler := color.NewHandler(database)
	productHandler := product.NewHandler(database)
	contactHandler := contactform.NewHandler(database, mail)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authentication
	authRoutes := r.PathPrefix("/api/auth").Subrouter()
	authRoutes.HandleFunc("/register", authHandler.Register).Methods("POST")
	authRoutes.HandleFunc("/login", authHandler.Login).Methods("POST")
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	authRoutes.HandleFunc("/refresh-token", authHandler.Refresh).Methods("POST")
	authRoutes.HandleFunc("/verify-email", authHandler.VerifyEmail).Methods("POST")
	authRoutes.HandleFunc("/resend-verification", authHandler.ResendVerification).Methods("POST")
	authRoutes.Handle("/me", gate.Authenticate(http.HandlerFunc(authHandler.Me))).Methods("GET")

	// Public catalog reads; identity is optional but changes what is visible.
	r.Handle("/api/categories", http.HandlerFunc(categoryHandler.List)).Methods("GET")
	r.Handle("/api/categories/{id}", http.HandlerFunc(categoryHandler.GetByID)).Methods("GET")
	r.Handle("/api/collections", http.HandlerFunc(collectionHandler.List)).Methods("GET")
	r.Handle("/api/collections/{id}", http.HandlerFunc(collectionHandler.GetByID)).Methods("GET")
	r.Handle("/api/products", gate.OptionalAuth(http.HandlerFunc(productHandler.List))).Methods("GET")
	r.Handle("/api/products/{id}", gate.OptionalAuth(http.HandlerFunc(productHandler.GetByID))).Methods("GET")

	// Contact form
	r.Handle("/api/users/contact", gate.OptionalAuth(http.HandlerFunc(contactHandler.Send))).Methods("POST")

	// Admin surface: gate + admin role on the whole subtree.
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(gate.Authenticate, auth.RequireAdmin)

	admin.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/status", userHandler.UpdateUserStatus).Methods("PUT")
	admin.HandleFunc("/users/{id}/role", userHandler.UpdateUserRole).Methods("PUT")
	admin.HandleFunc("/users/{id}", userHandler.DeleteUser).Methods("DELETE")

	admin.HandleFunc("/categories", categoryHandler.Create).Methods("POST")
	admin.HandleFunc("/categories/{id}", categoryHandler.Update).Methods("PUT")
	admin.HandleFunc("/categories/{id}", categoryHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/subCategories", categoryHandler.CreateSub).Methods("POST")
	admin.HandleFunc("/subCategories", categoryHandler.ListSub).Methods("GET")
	admin.HandleFunc("/subCategories/{id}", categoryHandler.DeleteSub).Methods("DELETE")

	admin.HandleFunc("/collections", collectionHandler.Create).Methods("POST")
	admin.HandleFunc("/collections/{id}", collectionHandler.Update).Methods("PUT")
	admin.HandleFunc("/collections/{id}", collectionHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/subCollections", collectionHandler.CreateSub).Methods("POST")
	admin.HandleFunc("/subCollections", collectionHandler.ListSub).Methods("GET")
	admin.HandleFunc("/subCollections/{id}", collectionHandler.DeleteSub).Methods("DELETE")

	admin.HandleFunc("/colors", colorHandler.Create).Methods("POST")
	admin.HandleFunc("/colors", colorHandler.List).Methods("GET")
	admin.HandleFunc("/colors/{id}", colorHandler.GetByID).Methods("GET")
	admin.HandleFunc("/colors/{id}", colorHandler.Update).Methods("PUT")
	admin.HandleFunc("/colors/{id}", colorHandler.Delete).Methods("DELETE")

	admin.HandleFunc("/products", productHandler.Create).Methods("POST")
	admin.HandleFunc("/products/{id}", productHandler.Update).Methods("PUT")
	admin.HandleFunc("/products/{id}", productHandler.Delete).Methods("DELETE")

	admin.HandleFunc("/contact-messages", contactHandler.List).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("backend running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, c.Handler(r)))
}
