package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend/internal/cart"
	intconfig "backend/internal/config"
	router "backend/internal/http"
	"backend/internal/http/handlers"
	"backend/internal/lookup"
	"backend/internal/payment"
	"backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env.DBDSN)
	defer intconfig.CloseDB()

	if err := intconfig.RunMigrations(db, env.MigrationsDir); err != nil {
		log.Fatalf("falha ao aplicar migrações: %v", err)
	}

	// Cart sync pipeline: in-memory stores mirrored into MySQL.
	registry := cart.NewRegistry()
	syncer := cart.NewSyncer(repositories.SessionItemRepository{DB: db})
	defer syncer.Close()

	psp := payment.NewClient(env.PaymentBaseURL, env.PaymentAPIKey)
	dispatcher := payment.NewDispatcher(
		payment.Pix{Client: psp},
		payment.Boleto{Client: psp},
		payment.CreditCard{Client: psp},
	)

	handlers.RegisterValidators()
	handlers.Setup(env, registry, syncer, dispatcher,
		lookup.NewCEPClient(env.CEPBaseURL),
		lookup.NewRegistryClient(env.RegistryURL, env.RegistryAPIKey),
	)

	r := router.NewRouter(env)
	handlers.SetRouter(r)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Servidor rodando em http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Falha ao iniciar o servidor: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Encerrando o servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Falha no shutdown do servidor: %v", err)
	}

	log.Println("Servidor encerrado com segurança.")
}
