// Package agent provides generated Protocol Buffer types and the gRPC client
// for the remote agent service.
//
// Generated from: proto/agent.proto
//
// This package contains:
//   - AgentServiceClient: gRPC client for the assistant
//   - AgentServiceServer: server interface, used by tests to stub the service
//   - ChatRequest/ChatResponse: one conversation turn on the wire
//
// Services:
//   - SendMessage: unary request/response chat call
//
// Usage:
//
//	This package is wrapped by internal/agent for retry and timeout handling;
//	nothing else should import it directly.
//
// The generated stubs are checked in so the module builds without protoc.
// Regenerate with: make proto
package agent
