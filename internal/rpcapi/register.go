package rpcapi

import "google.golang.org/grpc"

// ServiceInitializer is the Go counterpart of the original's
// GrpcServiceInitializerBase: a self-contained unit that knows how to
// register itself onto a *grpc.Server and name itself for logging. Each
// RPC service owns one, instead of main() wiring every service by hand.
type ServiceInitializer interface {
	Name() string
	Register(server *grpc.Server, svc Service) error
}

type aiModelInitializer struct{}

func (aiModelInitializer) Name() string { return "AIModelService" }
func (aiModelInitializer) Register(server *grpc.Server, svc Service) error {
	server.RegisterService(&aiModelServiceDesc, &aiModelServer{svc: svc})
	return nil
}

type statusInitializer struct{}

func (statusInitializer) Name() string { return "StatusService" }
func (statusInitializer) Register(server *grpc.Server, svc Service) error {
	server.RegisterService(&statusServiceDesc, &statusServer{svc: svc})
	return nil
}

// initializers is the polymorphic service registry (spec.md §9): every
// service this gateway exposes lists itself here once, and RegisterAll
// iterates it uniformly instead of main() calling N bespoke Register
// functions.
var initializers = []ServiceInitializer{
	aiModelInitializer{},
	statusInitializer{},
}

// RegisterAll registers every known service initializer against server.
func RegisterAll(server *grpc.Server, svc Service) []string {
	names := make([]string, 0, len(initializers))
	for _, init := range initializers {
		if err := init.Register(server, svc); err == nil {
			names = append(names, init.Name())
		}
	}
	return names
}
