// Package sdk is a library for our Golang services.
//
// Development Status: retra-go-sdk is designed for internal use. Since it
// uses Semantic Versioning (https://semver.org/) it is safe to use, but expect
// big changes between major version updates.
//
// The centerpiece is structured JSON request logging: pkg/logutil produces
// one enriched JSON record per log event and pkg/webutil correlates all
// records of one HTTP request under a shared correlation ID. The remaining
// packages carry the service plumbing around it.
//
// # Application Layout
//
//	/
//	├── cmd/<service>/
//	│   ├── main.go
//	│   ├── runner.go
//	│   ├── server.go
//	│   └── ...
//	├── pkg/...
//	├── go.mod
//	└── go.sum
//
// - /cmd/<service>/main.go is the entrypoint. It is typically very minimal,
// containing just enough code to initialize the command framework via
// cmdutil.New and handle errors with cmdutil.HandleExit.
//
// - /cmd/<service>/runner.go defines one Runner per environment (daemon,
// dev). The runners do environment specific initialization and then call the
// shared server setup.
//
// - /cmd/<service>/server.go wires the application in a dig container:
// handlers via webutil.ProvideHandler, background workers via
// runutil.ProvideWorker and finally runutil.RunProvidedWorkers to run
// everything until shutdown.
//
// See cmd/pricing-service for a complete example service.
//
// # Packages
//
//   - pkg/logutil — JSON log records with service metadata, source location,
//     correlation IDs and sanitized request paths.
//   - pkg/webutil — chi based HTTP server, request lifecycle logging
//     middleware, JSON responders and the admin API.
//   - pkg/cmdutil — cobra command builder, logging flags, signal contexts
//     and graceful exits.
//   - pkg/runutil — Workers, Jobs, repeats, retries with backoff and worker
//     health metrics.
//   - pkg/instutil — Prometheus metric constructors namespaced by
//     application name.
//   - pkg/redisutil — Redis key prefixes, (gzipped) JSON values, index
//     vacuuming and stream broadcasts.
//   - pkg/typeutil — small generic helpers: sets, typed context values,
//     pointers.
//   - pkg/testutil — golden file assertions.
package sdk
