// Package cmdutil contains helper utilities for setting up a CLI with Go,
// providing basic application behavior and for reducing boilerplate code.
//
// # Graceful Application Exits
//
// In many command line applications it is desired to exit the process
// immediately, if it is clear that the application cannot recover. Important
// note: This is designed for actual applications (ie not libraries), because
// only the application itself should decide when to exit. Libraries should
// always return errors.
//
// There are three ways to handle fatal errors in Go. With os.Exit() the
// process will terminate immediately, but it will not call any deferrers which
// means that possible cleanup task do not get called. The next way is to call
// panic, which respects the defer statements, but unfortunately it is not
// possible to define an exit code and the user gets confused with a stack
// trace. Finally, the function could just return an error indicating that
// things failed, but this introduces a lot of code, conditionals and appears
// unnecessary, when it is already clear that the application cannot recover.
//
// The package cmdutil provides an alternative, which panics with a known
// struct and catches it right before the application exit. This is an example
// to illustrate the usage:
//
//	func main() {
//	  defer cmdutil.HandleExit()
//	  run()
//	}
//
//	func run() {
//	  defer fmt.Println("important cleanup")
//	  err := doSomething()
//	  if err != nil {
//	    slog.Error(err.Error(), logutil.Exception(err))
//	    cmdutil.Exit(2)
//	  }
//	}
//
// The defer of HandleExit is the first statement in the main function. It
// ensures a pretty output and that the application exits with the specified
// exit code. The run function does something and makes the application exit
// with an exit code. The specified defer statement is still called. Also the
// application logging facility should be used to communicate the error, so the
// error actually appears on external logging applications like Graylog.
//
// # Command Structure with cmdutil
//
// New creates a ready-to-use Cobra command to reduce the necessary
// boilerplate. This is an example to illustrate the usage:
//
//	func main() {
//	    defer cmdutil.HandleExit()
//
//	    cmd := cmdutil.New(
//	        "pricing-service",                     // Short app name
//	        "Serves price data with full request tracing.",
//	        cmdutil.WithLoggingOptions(),          // Add --log-level, --console-logs and --gelf-address
//	        cmdutil.WithVersionCommand(),          // Add version command
//	        cmdutil.WithVersionLog(slog.LevelDebug),
//	        cmdutil.WithRunner(new(Runner)),       // Add main application runner
//	    )
//
//	    if err := cmd.Execute(); err != nil {
//	        cmdutil.Must(err)
//	    }
//	}
//
// This approach provides a consistent interface for command-line applications
// with built-in support for logging, versioning, and other common
// capabilities.
//
// # Runner Pattern
//
// Runners are structs that define command line flags and prepare the
// application for launch:
//
//	type Runner struct {
//	    redisAddress string
//	}
//
//	// Bind defines command line flags
//	func (r *Runner) Bind(cmd *cobra.Command) error {
//	    cmd.PersistentFlags().StringVar(
//	        &r.redisAddress, "redis-address", "localhost:6379",
//	        `Redis server address.`)
//
//	    return nil
//	}
//
//	// Run executes the main application logic
//	func (r *Runner) Run(ctx context.Context) error {
//	    redisClient := redis.NewClient(&redis.Options{
//	        Addr: r.redisAddress,
//	    })
//
//	    return r.runServer(ctx, redisClient)
//	}
//
// The purpose of splitting the Runner and the actual application code is:
//   - to get initializing errors as fast as possible (eg if the Redis server
//     is not available),
//   - to be able to execute environment-specific code without having to use
//     conditionals all over the code-base,
//   - to be able to mock services for local development
//   - and to define a proper interface for the application launch, which is
//     very helpful for e2e tests.
//
// # Version Command
//
// WithVersionCommand attaches NewVersionCommand to the application. It prints
// the compiled version of the application and other build parameters. These
// values need to be set by the build system via ldflags:
//
//	BUILD_XDST=github.com/retra-de/retra-go-sdk/pkg/cmdutil
//	go build -ldflags "\
//	  -X '${BUILD_XDST}.Name=${NAME}' \
//	  -X '${BUILD_XDST}.Version=${BUILD_VERSION}' \
//	  -X '${BUILD_XDST}.BuildDate=${BUILD_DATE}' \
//	  -X '${BUILD_XDST}.CommitHash=${BUILD_HASH}'"
package cmdutil
