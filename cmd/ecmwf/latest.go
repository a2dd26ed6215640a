package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/dl-alexandre/ecmwf-opendata-go/internal/opendata"
)

func cmdLatest(source string, args []string) {
	fs := flag.NewFlagSet("latest", flag.ExitOnError)
	rf := bindRequestFlags(fs)
	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}

	client, err := opendata.NewClient(rf.clientOptions(source))
	if err != nil {
		log.Fatalf("building client: %v", err)
	}

	req := rf.buildRequest()
	date, hour, err := client.Latest(req)
	if err != nil {
		log.Fatalf("establishing latest cycle: %v", err)
	}

	fmt.Printf("%s %sZ\n", date, hour)
}
