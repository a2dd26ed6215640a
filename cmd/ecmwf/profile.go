// Profile command for the ecmwf CLI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dl-alexandre/ecmwf-opendata-go/internal/profile"
)

func cmdProfile(args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	cpu := fs.String("cpu", "", "CPU profile output file")
	heap := fs.String("heap", "", "Heap profile output file")
	allocs := fs.String("allocs", "", "Allocations profile output file")
	goroutines := fs.String("goroutines", "", "Goroutine profile output file")
	mutex := fs.String("mutex", "", "Mutex profile output file")
	duration := fs.Duration("duration", 30*time.Second, "Profiling duration")
	server := fs.String("server", "", "Start pprof server on address (e.g., localhost:6060)")
	stats := fs.Bool("stats", false, "Print runtime statistics")

	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}

	if *server != "" {
		profile.StartPProfServer(*server)
		fmt.Printf("pprof server started on %s\n", *server)
		fmt.Println("Press Ctrl+C to stop...")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		fmt.Println("\nShutting down...")
		return
	}

	if *stats {
		profile.PrintRuntimeStats(os.Stdout)
		return
	}

	profiler := profile.NewProfiler()

	if *cpu != "" {
		fmt.Printf("Starting CPU profile for %v...\n", *duration)
		if err := profiler.StartCPUProfile(*cpu); err != nil {
			log.Fatalf("Failed to start CPU profile: %v", err)
		}
		time.Sleep(*duration)
		if err := profiler.StopCPUProfile(); err != nil {
			log.Fatalf("Failed to stop CPU profile: %v", err)
		}
		fmt.Printf("CPU profile written to: %s\n", *cpu)
	}

	if *heap != "" {
		if err := profiler.WriteHeapProfile(*heap); err != nil {
			log.Fatalf("Failed to write heap profile: %v", err)
		}
		fmt.Printf("Heap profile written to: %s\n", *heap)
	}

	if *allocs != "" {
		if err := profiler.ProfileAllocs(*allocs); err != nil {
			log.Fatalf("Failed to write allocs profile: %v", err)
		}
		fmt.Printf("Allocs profile written to: %s\n", *allocs)
	}

	if *goroutines != "" {
		if err := profiler.ProfileGoroutines(*goroutines); err != nil {
			log.Fatalf("Failed to write goroutine profile: %v", err)
		}
		fmt.Printf("Goroutine profile written to: %s\n", *goroutines)
	}

	if *mutex != "" {
		profile.EnableMutexProfiling(1)
		time.Sleep(*duration)
		if err := profiler.ProfileMutex(*mutex); err != nil {
			log.Fatalf("Failed to write mutex profile: %v", err)
		}
		fmt.Printf("Mutex profile written to: %s\n", *mutex)
	}

	if *cpu == "" && *heap == "" && *allocs == "" && *goroutines == "" && *mutex == "" && !*stats {
		fmt.Println("No profiling option specified. Use -help to see available options.")
		fmt.Println("\nCommon usage:")
		fmt.Println("  Profile CPU for 30 seconds:")
		fmt.Println("    ecmwf profile -cpu cpu.prof")
		fmt.Println("\n  Capture heap profile:")
		fmt.Println("    ecmwf profile -heap heap.prof")
		fmt.Println("\n  Start pprof server:")
		fmt.Println("    ecmwf profile -server localhost:6060")
		fmt.Println("\n  Print runtime stats:")
		fmt.Println("    ecmwf profile -stats")
	}
}
