package opendata

import (
	"fmt"
	"strings"
	"time"
)

var urlComponents = []string{"date", "time", "model", "resol", "stream", "type", "step", "fcmonth"}
var indexComponents = []string{"param", "type", "step", "fcmonth", "number", "levelist"}

// orderedSet is an insertion-order-preserving set of strings, standing
// in for the BTreeSet-backed unique_preserve helper of the reference
// implementation: for_urls/for_index value lists must keep first-seen
// order, not be resorted.
type orderedSet struct {
	keys []string
	seen map[string]bool
}

func newOrderedSet() *orderedSet { return &orderedSet{seen: make(map[string]bool)} }

func (s *orderedSet) add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.keys = append(s.keys, v)
}

func (s *orderedSet) has(v string) bool { return s.seen[v] }

func (s *orderedSet) values() []string { return append([]string(nil), s.keys...) }

// ResolvedPlan is the output of resolving a Request: the concrete blob
// URLs to fetch (plain or encoded with byte ranges, see index.go), the
// local target path, the resolved cycle datetime, and the expanded
// keyword value sets that produced the URLs.
type ResolvedPlan struct {
	URLs      []string
	Target    string
	DateTime  time.Time
	ForURLs   map[string][]string
	ForIndex  map[string][]string
	RequestID string
}

func applyDefaults(r *Request, defaultModel, defaultResol string) error {
	if _, ok := r.Get("model"); !ok {
		r.Set("model", Str(defaultModel))
	}
	model := firstString(r, "model", defaultModel)

	if model == "aifs-ens" {
		if _, ok := r.Get("stream"); !ok {
			r.Set("stream", Str("enfo"))
		}
	}
	if _, ok := r.Get("resol"); !ok {
		r.Set("resol", Str(defaultResol))
	}
	if _, ok := r.Get("type"); !ok {
		r.Set("type", Str("fc"))
	}
	if _, ok := r.Get("stream"); !ok {
		r.Set("stream", Str("oper"))
	}
	if stepVal, ok := r.Get("step"); ok {
		if stepVal.IsEmpty() {
			return fmt.Errorf("%w: step must not be an explicitly empty list", ErrInvalidRequest)
		}
	} else {
		r.Set("step", Str("0"))
	}
	return nil
}

func firstString(r *Request, key, fallback string) string {
	v, ok := r.Get(key)
	if !ok {
		return fallback
	}
	strs := v.AsStrings()
	if len(strs) == 0 {
		return fallback
	}
	return strs[0]
}

// buildURLs expands a fully-defaulted Request (date and time already
// present) into its URL-space value sets and the concrete URL list.
// It never consults the prober: callers needing latest-cycle
// resolution must set date/time before calling this.
func (c *Client) buildURLs(r *Request, now time.Time) (urls []string, forURLs map[string][]string, forIndex map[string][]string, dateTime time.Time, err error) {
	model := firstString(r, "model", c.opts.Model)

	typeURLSet := newOrderedSet()
	if tv, ok := r.Get("type"); ok {
		for _, raw := range tv.AsStrings() {
			typeURLSet.add(userToURLValue(model, "type", strings.ToLower(raw), nil))
		}
	}
	allURLTypeValues := typeURLSet.values()

	sets := map[string]*orderedSet{}
	for _, k := range urlComponents {
		sets[k] = newOrderedSet()
	}
	idxSets := map[string]*orderedSet{}
	for _, k := range indexComponents {
		idxSets[k] = newOrderedSet()
	}

	if dv, ok := r.Get("date"); ok {
		vals, derr := expandDateValue(dv, now)
		if derr != nil {
			return nil, nil, nil, time.Time{}, derr
		}
		for _, v := range vals {
			sets["date"].add(v)
		}
	}

	if tv, ok := r.Get("time"); ok {
		vals, terr := expandTimeValue(tv)
		if terr != nil {
			return nil, nil, nil, time.Time{}, terr
		}
		for _, v := range vals {
			hour, herr := canonicalTimeToHour(v)
			if herr != nil {
				return nil, nil, nil, time.Time{}, herr
			}
			sets["time"].add(fmt.Sprintf("%02d", hour))
		}
	}
	if len(sets["time"].values()) == 0 {
		sets["time"].add("18")
	}

	sets["model"].add(model)

	if rv, ok := r.Get("resol"); ok {
		for _, v := range rv.AsStrings() {
			sets["resol"].add(v)
		}
	}

	if sv, ok := r.Get("stream"); ok {
		for _, v := range sv.AsStrings() {
			sets["stream"].add(userToURLValue(model, "stream", strings.ToLower(v), nil))
		}
	}

	for _, v := range allURLTypeValues {
		sets["type"].add(v)
	}

	if sv, ok := r.Get("step"); ok {
		for _, raw := range sv.AsStrings() {
			expanded, eerr := expandNumericSyntax(raw)
			if eerr != nil {
				return nil, nil, nil, time.Time{}, eerr
			}
			for _, e := range expanded {
				sets["step"].add(userToURLValue(model, "step", e, allURLTypeValues))
			}
		}
	}

	if fv, ok := r.Get("fcmonth"); ok {
		for _, raw := range fv.AsStrings() {
			expanded, eerr := expandNumericSyntax(raw)
			if eerr != nil {
				return nil, nil, nil, time.Time{}, eerr
			}
			for _, e := range expanded {
				sets["fcmonth"].add(e)
			}
		}
	}

	if pv, ok := r.Get("param"); ok {
		for _, v := range pv.AsStrings() {
			idxSets["param"].add(v)
		}
	}
	if tv, ok := r.Get("type"); ok {
		for _, v := range tv.AsStrings() {
			lv := strings.ToLower(v)
			if lv == "ef" {
				idxSets["type"].add("cf")
				idxSets["type"].add("pf")
				continue
			}
			idxSets["type"].add(lv)
		}
	}
	if sv, ok := r.Get("step"); ok {
		for _, raw := range sv.AsStrings() {
			expanded, eerr := expandNumericSyntax(raw)
			if eerr != nil {
				return nil, nil, nil, time.Time{}, eerr
			}
			for _, e := range expanded {
				idxSets["step"].add(e)
			}
		}
	}
	if fv, ok := r.Get("fcmonth"); ok {
		for _, raw := range fv.AsStrings() {
			expanded, eerr := expandNumericSyntax(raw)
			if eerr != nil {
				return nil, nil, nil, time.Time{}, eerr
			}
			for _, e := range expanded {
				idxSets["fcmonth"].add(e)
			}
		}
	}
	if nv, ok := r.Get("number"); ok {
		for _, raw := range nv.AsStrings() {
			expanded, eerr := expandNumericSyntax(raw)
			if eerr != nil {
				return nil, nil, nil, time.Time{}, eerr
			}
			for _, e := range expanded {
				idxSets["number"].add(e)
			}
		}
	}
	if lv, ok := r.Get("levelist"); ok {
		for _, raw := range lv.AsStrings() {
			expanded, eerr := expandNumericSyntax(raw)
			if eerr != nil {
				return nil, nil, nil, time.Time{}, eerr
			}
			for _, e := range expanded {
				idxSets["levelist"].add(e)
			}
		}
	}

	if sets["type"].has("tf") {
		for _, k := range indexComponents {
			idxSets[k] = newOrderedSet()
		}
	}

	urlSet := newOrderedSet()
	var earliest time.Time
	haveEarliest := false

	for _, date := range sets["date"].values() {
		for _, hour := range sets["time"].values() {
			for _, resol := range sets["resol"].values() {
				for _, stream := range sets["stream"].values() {
					for _, typ := range sets["type"].values() {
						patched := patchStream(c.opts.InferStreamKeyword, model, stream, hour, typ)

						pattern := hourlyPattern
						iterVals := sets["step"].values()
						useFcmonth := false
						if patched == "mmsf" {
							pattern = monthlyPattern
							iterVals = sets["fcmonth"].values()
							useFcmonth = true
						}
						if len(iterVals) == 0 {
							iterVals = []string{""}
						}

						urlResol := resol
						if c.opts.Beta {
							urlResol = resol + "/experimental"
						}

						for _, iv := range iterVals {
							f := urlFields{
								baseURL: c.baseURL,
								date:    date,
								hour2d:  hour,
								model:   model,
								resol:   urlResol,
								stream:  patched,
								typ:     typ,
							}
							if useFcmonth {
								f.fcmonth = iv
							} else {
								f.step = iv
							}

							built, ferr := formatURL(pattern, f)
							if ferr != nil {
								return nil, nil, nil, time.Time{}, ferr
							}
							built = fix0p4Beta(built, resol)
							urlSet.add(built)

							hourInt, _ := canonicalHourInt(hour)
							dt, _ := fullDatetimeFromDateTime(date, hourInt)
							if !haveEarliest || dt.Before(earliest) {
								earliest = dt
								haveEarliest = true
							}
						}
					}
				}
			}
		}
	}

	forURLs = map[string][]string{}
	for _, k := range urlComponents {
		forURLs[k] = sets[k].values()
	}
	forIndex = map[string][]string{}
	for _, k := range indexComponents {
		forIndex[k] = idxSets[k].values()
	}

	return urlSet.values(), forURLs, forIndex, earliest, nil
}

// resolve is the full pipeline: default application, latest-cycle
// resolution when date is absent, URL enumeration, and (when
// requested) index-range planning.
func (c *Client) resolve(req *Request, now time.Time, useIndex bool) (*ResolvedPlan, error) {
	r := req.Clone()
	if err := applyDefaults(r, c.opts.Model, c.opts.Resol); err != nil {
		return nil, err
	}

	if _, ok := r.Get("date"); !ok {
		date, hour, err := c.latestInner(r, now)
		if err != nil {
			return nil, err
		}
		r.Set("date", Str(date))
		r.Set("time", Str(hour))
	}

	urls, forURLs, forIndex, dateTime, err := c.buildURLs(r, now)
	if err != nil {
		return nil, err
	}

	target := firstString(r, "target", "")
	if target == "" {
		ext := "grib2"
		if types := forURLs["type"]; len(types) > 0 {
			ext = extensionForType(types[0])
		}
		target = "data." + ext
	}

	plan := &ResolvedPlan{
		URLs:     urls,
		Target:   target,
		DateTime: dateTime,
		ForURLs:  forURLs,
		ForIndex: forIndex,
	}

	hasIndexKeys := false
	for _, k := range indexComponents {
		if len(forIndex[k]) > 0 {
			hasIndexKeys = true
			break
		}
	}

	if useIndex && hasIndexKeys {
		ranged, err := c.expandURLsToRanges(plan.URLs, forIndex)
		if err != nil {
			return nil, err
		}
		plan.URLs = ranged
	}

	return plan, nil
}

// latestInner walks backward from now to find the most recent cycle
// for which every URL the request would resolve to actually exists on
// the mirror, per the prober rules in probe.go. It searches at most
// five days back before giving up.
func (c *Client) latestInner(r *Request, now time.Time) (date, hour string, err error) {
	hasTime := false
	fixedHour := 18
	if tv, ok := r.Get("time"); ok && !tv.IsEmpty() {
		raw := tv.AsStrings()[0]
		h, herr := canonicalTimeToHour(raw)
		if herr != nil {
			return "", "", herr
		}
		hasTime = true
		fixedHour = h
	}

	const maxDaysBack = 5
	const cyclesPerDay = 4
	cycleHours := []int{18, 12, 6, 0}

	var candidates []time.Time
	if hasTime {
		start := time.Date(now.Year(), now.Month(), now.Day(), fixedHour, 0, 0, 0, time.UTC)
		if start.After(now) {
			start = start.AddDate(0, 0, -1)
		}
		for d := 0; d < maxDaysBack; d++ {
			candidates = append(candidates, start.AddDate(0, 0, -d))
		}
	} else {
		todayHourIdx := 0
		for i, h := range cycleHours {
			if now.Hour() >= h {
				todayHourIdx = i
				break
			}
		}
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		for d := 0; d < maxDaysBack; d++ {
			startIdx := 0
			if d == 0 {
				startIdx = todayHourIdx
			}
			for i := startIdx; i < cyclesPerDay; i++ {
				candidates = append(candidates, day.AddDate(0, 0, -d).Add(time.Duration(cycleHours[i])*time.Hour))
			}
		}
	}

	for _, cand := range candidates {
		probe := r.Clone()
		probe.Set("date", Str(yyyymmdd(cand)))
		probe.Set("time", Str(fmt.Sprintf("%d", cand.Hour())))

		urls, _, _, _, err := c.buildURLs(probe, now)
		if err != nil {
			return "", "", err
		}
		if len(urls) == 0 {
			continue
		}

		allExist := true
		for _, u := range urls {
			ok, perr := c.probeExists(u)
			if perr != nil {
				return "", "", perr
			}
			if !ok {
				allExist = false
				break
			}
		}
		if allExist {
			return yyyymmdd(cand), fmt.Sprintf("%02d", cand.Hour()), nil
		}
	}

	return "", "", fmt.Errorf("%w: no cycle within the last %d days had all requested URLs present", ErrCannotEstablishLatest, maxDaysBack)
}
