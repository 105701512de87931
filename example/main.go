// FILE: lixenwraith/optmap/example/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/lixenwraith/optmap"
)

// ServerOptions is the typed view of a constructed server instance.
type ServerOptions struct {
	Host     string `toml:"host"`
	Port     int64  `toml:"port"`
	LogLevel string `toml:"log_level"`
	TLS      struct {
		Enabled bool   `toml:"enabled"`
		Cert    string `toml:"cert"`
	} `toml:"tls"`
}

const overlayFilePath = "overlay.toml"

func main() {
	// =========================================================================
	// PART 1: DECLARING A TYPE HIERARCHY
	// Subtypes inherit and override the default-option table of their bases.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Declaring configurable types...")

	base := optmap.NewType("Service").
		WithDefaults(map[string]any{
			"host":      "localhost",
			"port":      8080,
			"log_level": "info",
			"tls":       map[string]any{"enabled": false, "cert": ""},
		}).
		MustBuild()

	// Body lifting lets the subtype override defaults as plain members.
	// Functions in the body stay behavior.
	secure := optmap.NewType("SecureService").
		WithBases(base).
		WithDefaults(map[string]any{"tls": map[string]any{"enabled": true}}).
		WithBody(map[string]any{
			"port": 8443,
			"tls":  map[string]any{"cert": "/etc/ssl/service.pem"},
			"describe": optmap.Computed(func() any {
				return "service with TLS termination"
			}),
		}).
		WithDefaultsFromBody(true).
		MustBuild()

	log.Printf("✅ %s defaults: %v", base.Name(), base.Defaults())
	log.Printf("✅ %s defaults: %v", secure.Name(), secure.Defaults())
	if about, ok := secure.Member("describe"); ok {
		log.Printf("   (%s describes itself as %q)", secure.Name(), about)
	}

	// =========================================================================
	// PART 2: CONSTRUCTING INSTANCES
	// Arguments are deep merged; unknown keys are rejected.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Constructing instances...")

	args := map[string]any{
		"log_level": "debug",
		"upstream":  "billing", // Not an option of SecureService
	}

	if _, err := secure.New(args); err != nil {
		var argErr *optmap.InvalidArgumentError
		if errors.As(err, &argErr) {
			log.Printf("✅ Rejected unknown keys %v: %v", argErr.Keys, err)
		}
	}

	delete(args, "upstream")
	var opts ServerOptions
	if err := secure.Bind(&opts, args); err != nil {
		log.Fatalf("❌ Bind failed: %v", err)
	}
	printServer(&opts, "SecureService instance")
	log.Printf("   (Arguments left after construction: %v)", args)

	// =========================================================================
	// PART 3: LAYERING A FILE OVERLAY
	// A file overlay is deep merged onto an instance, then decoded again.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Applying a file overlay...")

	defer func() {
		os.Remove(overlayFilePath)
		log.Printf("🧹 Removed %s.", overlayFilePath)
	}()

	overlay := optmap.New().
		Set("port", 9443).
		Set("tls", optmap.New().Set("cert", "/run/secrets/tls.pem"))
	if err := optmap.SaveFile(overlayFilePath, overlay, optmap.FormatAuto); err != nil {
		log.Fatalf("❌ Failed to write overlay: %v", err)
	}

	inst, err := secure.New(nil)
	if err != nil {
		log.Fatalf("❌ Construction failed: %v", err)
	}
	loaded, err := optmap.LoadFile(overlayFilePath, optmap.FormatAuto)
	if err != nil {
		log.Fatalf("❌ Failed to load overlay: %v", err)
	}

	// Selective merge: the overlay may change options but never add new ones.
	inst.Merge(loaded, optmap.MergeOptions{Recursive: true, ConvertNested: true})

	var layered ServerOptions
	if err := inst.Decode(&layered, ""); err != nil {
		log.Fatalf("❌ Decode failed: %v", err)
	}
	printServer(&layered, "After overlay")

	for path, value := range inst.Flatten() {
		fmt.Printf("     %-14s = %v\n", path, value)
	}
}

// printServer displays the typed server options.
func printServer(opts *ServerOptions, title string) {
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("             %s\n", title)
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("     Host:        %s\n", opts.Host)
	fmt.Printf("     Port:        %d\n", opts.Port)
	fmt.Printf("     Log Level:   %s\n", opts.LogLevel)
	fmt.Printf("     TLS Enabled: %t\n", opts.TLS.Enabled)
	fmt.Printf("     TLS Cert:    %s\n", opts.TLS.Cert)
	fmt.Println("   --------------------------------------------------")
}
