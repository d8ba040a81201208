package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Trade BI API
// @version         0.1.0
// @description     Star-schema trade analytics: metrics, strategy performance, CSV ingestion.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
