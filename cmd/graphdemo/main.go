package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/phatnguyentan/graph-demo/internal/demo"
	"github.com/phatnguyentan/graph-demo/internal/directive"
	"github.com/phatnguyentan/graph-demo/internal/eventbus"
	"github.com/phatnguyentan/graph-demo/internal/executor"
	"github.com/phatnguyentan/graph-demo/internal/introspection"
	"github.com/phatnguyentan/graph-demo/internal/memrt"
	"github.com/phatnguyentan/graph-demo/internal/otel"
	"github.com/phatnguyentan/graph-demo/internal/schema"
	"github.com/phatnguyentan/graph-demo/internal/server"
)

const rootUsage = `graphdemo — schema-driven GraphQL execution demo

USAGE:
  graphdemo <command> [flags]

COMMANDS:
  serve            Run the HTTP GraphQL server over the in-memory catalog
  print-schema     Print the demo schema as SDL
  help             Show help for any command
`

const serveUsage = `serve FLAGS:
  -schema <file>                Load the schema from an SDL file instead of
                                the built-in catalog schema
  -graphql.introspection <bool> Enable GraphQL introspection (default: true)
  -server.addr <addr>           HTTP listen address (default: :8080)
  -server.pretty                Pretty-print JSON responses
  -server.timeout <duration>    Per-request timeout, e.g. 10s (default: 10s)
  -server.max-body-bytes <n>    Max request body size in bytes (default: 1048576)
  -cors.origin <origin>         Allowed CORS origin. Repeatable; "*" allows all
  -otel.endpoint <addr>         OTLP collector endpoint
  -otel.service <name>          OpenTelemetry service name (default: graphdemo)
`

const printSchemaUsage = `print-schema FLAGS:
  -schema <file>  Load the schema from an SDL file instead of the built-in
                  catalog schema
  -out <file>     Write rendered SDL to file (default: stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("graphdemo", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "serve":
		return cmdServe(cmdArgs)
	case "print-schema":
		return cmdPrintSchema(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "serve":
		fmt.Print(serveUsage)
	case "print-schema":
		fmt.Print(printSchemaUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// loadSchema builds the schema from an SDL file, or falls back to the
// built-in catalog schema when no file is given.
func loadSchema(file string) (*schema.Schema, error) {
	if file == "" {
		return demo.Schema()
	}
	sdl, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	sch, err := schema.BuildFromSDL(file, string(sdl))
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(sch); err != nil {
		return nil, err
	}
	return sch, nil
}

func cmdServe(args []string) error {
	schemaFile := ""
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	maxBodyBytes := int64(1 << 20)
	enableIntrospection := true
	otelEndpoint := ""
	otelService := "graphdemo"
	var corsOrigins stringListFlag

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "Schema SDL file")
	fs.BoolVar(&enableIntrospection, "graphql.introspection", enableIntrospection, "Enable GraphQL introspection")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.Int64Var(&maxBodyBytes, "server.max-body-bytes", maxBodyBytes, "Max request body size in bytes")
	fs.Var(&corsOrigins, "cors.origin", "Allowed CORS origin")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}
	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	var (
		runtime executor.Runtime
		sch     *schema.Schema
		reg     *directive.Registry
	)
	if schemaFile == "" {
		runtime, sch, reg, err = demo.Runtime()
		if err != nil {
			return fmt.Errorf("build runtime: %w", err)
		}
	} else {
		// External schemas get default shape-based resolution only.
		sch, err = loadSchema(schemaFile)
		if err != nil {
			return fmt.Errorf("load schema: %w", err)
		}
		reg, err = demo.Registry()
		if err != nil {
			return err
		}
		runtime, err = memrt.NewBuilder().Directives(reg).Build(sch)
		if err != nil {
			return fmt.Errorf("build runtime: %w", err)
		}
	}

	if enableIntrospection {
		runtime, sch = introspection.Wrap(runtime, sch)
	}

	sopts := []server.Option{server.WithDirectives(reg)}
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if timeout > 0 {
		sopts = append(sopts, server.WithTimeout(timeout))
	}
	if maxBodyBytes > 0 {
		sopts = append(sopts, server.WithMaxBodyBytes(maxBodyBytes))
	}
	if len(corsOrigins) > 0 {
		sopts = append(sopts, server.WithCORS(corsOrigins...))
	}
	h, err := server.New(runtime, sch, sopts...)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", h)

	log.Printf("GraphQL server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func cmdPrintSchema(args []string) error {
	schemaFile := ""
	outFile := ""
	fs := flag.NewFlagSet("print-schema", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "Schema SDL file")
	fs.StringVar(&outFile, "out", outFile, "Write rendered SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, printSchemaUsage)
		return err
	}

	sch, err := loadSchema(schemaFile)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	sdl := schema.Render(sch)
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}
