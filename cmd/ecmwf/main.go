// Main entry point for the ecmwf CLI.
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	// Version is set during build
	Version = "dev"
	// GitCommit is set during build
	GitCommit = "unknown"
	// BuildTime is set during build
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	source := flag.String("source", os.Getenv("ECMWF_OPENDATA_SOURCE"), "data source: ecmwf, azure, aws, google, ecmwf-esuites, or a base URL")
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "version":
		fmt.Printf("ecmwf %s (%s) built %s\n", Version, GitCommit, BuildTime)

	case "retrieve":
		cmdRetrieve(*source, args[1:])

	case "download":
		cmdDownload(*source, args[1:])

	case "latest":
		cmdLatest(*source, args[1:])

	case "profile":
		cmdProfile(args[1:])

	case "docs":
		cmdDocs()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: ecmwf <command> [options]

Commands:
  version    Show version information
  retrieve   Resolve a request and download it in one step
  download   Resolve a request, print the plan, and download it after confirmation
  latest     Print the most recent available cycle date/hour matching a request
  profile    CPU, memory, and performance profiling
  docs       Open the ECMWF Open Data documentation in a browser

Global Options:
  -source string   Data source: ecmwf, azure, aws, google, ecmwf-esuites, or a base URL
                   (or ECMWF_OPENDATA_SOURCE env var)

Examples:
  # Retrieve the latest operational surface forecast, step 0, param 2t
  ecmwf retrieve -type fc -stream oper -step 0 -param 2t -target out.grib2

  # Retrieve with an explicit date and time
  ecmwf retrieve -date 20260729 -time 0 -type fc -step 0/to/24/by/6 -param msl -target out.grib2

  # Find the latest available cycle without downloading
  ecmwf latest -type fc -stream oper -step 0

  # Retrieve from the Azure mirror with a SAS token
  ecmwf -source azure retrieve -type fc -stream oper -step 0 -param 2t -target out.grib2 -sas

  # Show CPU/heap profiling options
  ecmwf profile -stats`)
}
