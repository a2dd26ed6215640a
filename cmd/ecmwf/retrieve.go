package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/dl-alexandre/ecmwf-opendata-go/internal/opendata"
	"github.com/dl-alexandre/ecmwf-opendata-go/internal/profile"
)

func cmdRetrieve(source string, args []string) {
	fs := flag.NewFlagSet("retrieve", flag.ExitOnError)
	rf := bindRequestFlags(fs)
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

	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("resolved %d url(s) for cycle %s, request %s\n", len(plan.URLs), plan.DateTime.Format("2006-01-02 15Z"), plan.RequestID)
	}

	downloadStart := time.Now()
	n, err := client.Download(context.Background(), plan)
	downloadDuration := time.Since(downloadStart)
	if err != nil {
		log.Fatalf("downloading: %v", err)
	}
	mon.RecordDownloadTime(downloadDuration, n)

	fmt.Printf("wrote %s to %s in %s\n", humanize.Bytes(uint64(n)), plan.Target, downloadDuration.Round(time.Millisecond))

	if *rf.perf {
		mon.PrintReport(os.Stdout)
	}
}
