package main

//go:generate go run github.com/swaggo/swag/cmd/swag init -g docs.go -o ../../docs

// General API documentation for swaggo. Run `go generate` in this directory to generate docs.
//
// @title           inferd gateway API
// @version         1.0
// @description     HTTP API for the bounded-pool inference model-type gateway.
//
// @contact.name   inferd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
