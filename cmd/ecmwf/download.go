package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dl-alexandre/ecmwf-opendata-go/internal/opendata"
	"github.com/dl-alexandre/ecmwf-opendata-go/internal/profile"
)

// cmdDownload resolves a request, prints the plan, then asks for
// confirmation (unless -yes is set) before downloading. Useful for
// checking what a request would fetch before spending the bandwidth.
func cmdDownload(source string, args []string) {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	rf := bindRequestFlags(fs)
	dryRun := fs.Bool("dry-run", false, "resolve and print the plan without downloading")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}

	client, err := opendata.NewClient(rf.clientOptions(source))
	if err != nil {
		log.Fatalf("building client: %v", err)
	}

	req := rf.buildRequest()
	useIndex := !*rf.index

	mon := profile.NewPerformanceMonitor()

	resolveStart := time.Now()
	plan, err := client.Resolve(req, useIndex)
	if err != nil {
		log.Fatalf("resolving request: %v", err)
	}
	mon.RecordResolveTime(time.Since(resolveStart))

	fmt.Printf("cycle: %s\n", plan.DateTime.Format("2006-01-02 15Z"))
	fmt.Printf("target: %s\n", plan.Target)
	fmt.Printf("urls (%d):\n", len(plan.URLs))
	for _, u := range plan.URLs {
		fmt.Printf("  %s\n", u)
	}

	if *dryRun {
		return
	}

	if !*yes {
		fmt.Print("proceed with download? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("aborted")
			return
		}
	}

	downloadStart := time.Now()
	n, err := client.Download(context.Background(), plan)
	downloadDuration := time.Since(downloadStart)
	if err != nil {
		log.Fatalf("downloading: %v", err)
	}
	mon.RecordDownloadTime(downloadDuration, n)

	fmt.Printf("wrote %s in %s\n", humanize.Bytes(uint64(n)), downloadDuration.Round(time.Millisecond))

	if *rf.perf {
		mon.PrintReport(os.Stdout)
	}
}
