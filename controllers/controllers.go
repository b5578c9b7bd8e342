package controllers

import (
	"storefront-service/cache"
	"storefront-service/checkout"
	"storefront-service/config"
	"storefront-service/database"
	"storefront-service/rabbitmq"
)

var (
	cfg          *config.Config
	svc          *checkout.Service
	store        *database.Store
	catalogCache *cache.CatalogCache
	rabbitMQ     *rabbitmq.RabbitMQ
)

// Setup wires the controllers' collaborators. Called once from main before
// the router starts.
func Setup(c *config.Config, s *checkout.Service, st *database.Store, cc *cache.CatalogCache, rmq *rabbitmq.RabbitMQ) {
	cfg = c
	svc = s
	store = st
	catalogCache = cc
	rabbitMQ = rmq
}
