package main

import (
	"flag"

	"github.com/dl-alexandre/ecmwf-opendata-go/internal/opendata"
)

// requestFlags holds the MARS-like keyword flags shared by retrieve,
// download and latest, plus the client knobs that aren't keywords.
type requestFlags struct {
	typ       *string
	stream    *string
	date      *string
	time      *string
	step      *string
	fcmonth   *string
	param     *string
	levtype   *string
	levelist  *string
	number    *string
	model     *string
	resol     *string
	target    *string
	beta      *bool
	index     *bool
	preserve  *bool
	inferStr  *bool
	useSAS    *bool
	sasKey    *string
	sasURL    *string
	perf      *bool
	insecure  *bool
}

func bindRequestFlags(fs *flag.FlagSet) *requestFlags {
	return &requestFlags{
		typ:      fs.String("type", "", "MARS type: fc, an, pf, cf, ef, ep, tf"),
		stream:   fs.String("stream", "", "MARS stream: oper, enfo, waef, wave, mmsf, scda, scwv"),
		date:     fs.String("date", "", "date: YYYYMMDD, relative day offset (0, -1, ...), or a/to/b range"),
		time:     fs.String("time", "", "cycle hour: 0, 6, 12, 18"),
		step:     fs.String("step", "", "forecast step, or a/to/b/by/c range"),
		fcmonth:  fs.String("fcmonth", "", "forecast month, for the monthly-mean stream"),
		param:    fs.String("param", "", "parameter short name(s), comma-separated"),
		levtype:  fs.String("levtype", "", "level type: sfc, pl, pv, ..."),
		levelist: fs.String("levelist", "", "level list, comma-separated or a/to/b range"),
		number:   fs.String("number", "", "ensemble member number(s)"),
		model:    fs.String("model", "", "model: ifs, aifs-single"),
		resol:    fs.String("resol", "", "resolution: 0p25, 0p4-beta"),
		target:   fs.String("target", "", "local file path to write to"),
		beta:     fs.Bool("beta", false, "rewrite resol to an experimental path (resol/experimental) for beta mirrors"),
		index:    fs.Bool("no-index", false, "disable .index-based byte-range filtering (download whole files)"),
		preserve: fs.Bool("preserve-order", false, "order byte ranges by request order rather than file offset"),
		inferStr: fs.Bool("infer-stream", true, "infer scda/scwv/enfo/waef stream from hour and type"),
		useSAS:   fs.Bool("sas", false, "fetch and apply an Azure SAS token"),
		sasKey:   fs.String("sas-key", "", "known SAS endpoint key (default: ecmwf)"),
		sasURL:   fs.String("sas-url", "", "custom SAS token endpoint URL"),
		perf:     fs.Bool("perf", false, "print a performance report after running"),
		insecure: fs.Bool("insecure", false, "skip TLS certificate verification"),
	}
}

// buildRequest turns the parsed flags into an opendata.Request, skipping
// any keyword left at its zero value so client-side defaults apply.
func (f *requestFlags) buildRequest() *opendata.Request {
	r := opendata.NewRequest()
	set := func(key, v string) {
		if v != "" {
			r.Set(key, opendata.ParseAuto(v))
		}
	}
	set("type", *f.typ)
	set("stream", *f.stream)
	set("date", *f.date)
	set("time", *f.time)
	set("step", *f.step)
	set("fcmonth", *f.fcmonth)
	set("param", *f.param)
	set("levtype", *f.levtype)
	set("levelist", *f.levelist)
	set("number", *f.number)
	set("model", *f.model)
	set("resol", *f.resol)
	set("target", *f.target)
	return r
}

func (f *requestFlags) clientOptions(source string) opendata.ClientOptions {
	opts := opendata.DefaultClientOptions()
	if source != "" {
		opts.Source = source
	}
	if *f.model != "" {
		opts.Model = *f.model
	}
	if *f.resol != "" {
		opts.Resol = *f.resol
	}
	opts.Beta = *f.beta
	opts.PreserveRequestOrder = *f.preserve
	opts.InferStreamKeyword = *f.inferStr
	opts.VerifyTLS = !*f.insecure
	opts.UseSASToken = *f.useSAS
	opts.SASKnownKey = *f.sasKey
	opts.SASCustomURL = *f.sasURL
	return opts
}
