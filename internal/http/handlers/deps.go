package handlers

import (
	"backend/internal/cart"
	intconfig "backend/internal/config"
	"backend/internal/lookup"
	"backend/internal/payment"
)

// Package-level wiring set once at startup by Setup. Handlers stay plain
// functions so the router reads like a route table.
var (
	env         intconfig.Env
	cartReg     *cart.Registry
	cartSync    *cart.Syncer
	payMethods  *payment.Dispatcher
	cepClient   *lookup.CEPClient
	plateClient *lookup.RegistryClient
)

// Setup injects shared dependencies before the router mounts the handlers.
func Setup(e intconfig.Env, reg *cart.Registry, sync *cart.Syncer, methods *payment.Dispatcher, cep *lookup.CEPClient, plates *lookup.RegistryClient) {
	env = e
	cartReg = reg
	cartSync = sync
	payMethods = methods
	cepClient = cep
	plateClient = plates
}
