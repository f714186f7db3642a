// Package rpcapi implements the binary RPC surface (spec.md §6.3):
// AIModelService and StatusService, transported over real gRPC framing
// (HTTP/2 + grpc.Server) but encoded with a gob codec rather than
// protobuf — see DESIGN.md / SPEC_FULL.md §12 for why: no .proto or
// generated *.pb.go exists anywhere in the reference corpus to template
// a protobuf wire format on, and hand-rolling descriptor bytes/protoreflect
// support from scratch is not something this codebase could verify.
//
// Grounded on spec.md §9's "polymorphic service registration" note
// (itself grounded on the original's GrpcServiceInitializerBase /
// GrpcServiceRegistry pair): each service implements ServiceInitializer
// and registers itself into a shared registry, rather than main() wiring
// every service by hand.
package rpcapi
