package opendata

import "strings"

const (
	hourlyPattern  = "{url}/{yyyymmdd}/{H}z/{model}/{resol}/{stream}/{yyyymmddHHMMSS}-{step}h-{stream}-{type}.{ext}"
	monthlyPattern = "{url}/{yyyymmdd}/{H}z/{model}/{resol}/{stream}/{yyyymmddHHMMSS}-{fcmonth}m-{stream}-{type}.{ext}"
)

func extensionForType(typ string) string {
	if typ == "tf" {
		return "bufr"
	}
	return "grib2"
}

// userToURLValue maps a user-facing keyword value onto the value that
// actually appears in the published URL. This is distinct from the
// index-space expansion in resolve.go: a single URL-space "ef" type
// corresponds to two index-space types, "cf" and "pf".
func userToURLValue(model, key, value string, allURLTypeValues []string) string {
	switch key {
	case "type":
		if model == "aifs-ens" && (value == "pf" || value == "cf") {
			return value
		}
		switch value {
		case "cf", "pf":
			return "ef"
		case "em", "es":
			return "ep"
		case "fcmean":
			return "fc"
		default:
			return value
		}
	case "stream":
		if value == "mmsa" {
			return "mmsf"
		}
		return value
	case "step":
		if len(allURLTypeValues) == 1 && allURLTypeValues[0] == "ep" {
			if end, err := endStep(value); err == nil {
				if end <= 240 {
					return "240"
				}
				return "360"
			}
		}
		return value
	default:
		return value
	}
}

// patchStream infers the published stream name from the nominal stream,
// the cycle hour and the URL-space type, mirroring how off-hour and
// ensemble cycles get renamed on disk (oper/wave at 06|18 become
// scda/scwv; any ef/ep type on an oper-family stream becomes enfo/waef).
func patchStream(inferStreamKeyword bool, model, stream, hour2d, typ string) string {
	if !inferStreamKeyword || model == "aifs-single" {
		return stream
	}

	s := stream
	switch {
	case s == "oper" && (hour2d == "06" || hour2d == "18"):
		s = "scda"
	case s == "wave" && (hour2d == "06" || hour2d == "18"):
		s = "scwv"
	}

	switch {
	case s == "oper" && typ == "ef":
		s = "enfo"
	case s == "wave" && typ == "ef":
		s = "waef"
	case s == "oper" && typ == "ep":
		s = "enfo"
	case s == "wave" && typ == "ep":
		s = "waef"
	case s == "scda" && typ == "ef":
		s = "enfo"
	case s == "scwv" && typ == "ef":
		s = "waef"
	case s == "scda" && typ == "ep":
		s = "enfo"
	case s == "scwv" && typ == "ep":
		s = "waef"
	}
	return s
}

// urlFields carries every placeholder formatURL knows how to substitute.
// step and fcmonth are mutually exclusive: the pattern chosen by the
// caller only references one of them.
type urlFields struct {
	baseURL, date, hour2d, model, resol, stream, typ, step, fcmonth string
}

func formatURL(pattern string, f urlFields) (string, error) {
	hour, err := canonicalHourInt(f.hour2d)
	if err != nil {
		return "", err
	}
	dt, err := fullDatetimeFromDateTime(f.date, hour)
	if err != nil {
		return "", err
	}

	r := strings.NewReplacer(
		"{url}", f.baseURL,
		"{yyyymmdd}", f.date,
		"{H}", f.hour2d,
		"{model}", f.model,
		"{resol}", f.resol,
		"{stream}", f.stream,
		"{type}", f.typ,
		"{yyyymmddHHMMSS}", dt.Format("20060102150405"),
		"{ext}", extensionForType(f.typ),
		"{step}", f.step,
		"{fcmonth}", f.fcmonth,
	)
	return r.Replace(pattern), nil
}

func canonicalHourInt(hour2d string) (int, error) {
	switch hour2d {
	case "00":
		return 0, nil
	case "06":
		return 6, nil
	case "12":
		return 12, nil
	case "18":
		return 18, nil
	default:
		return canonicalTimeToHour(strings.TrimPrefix(hour2d, "0"))
	}
}

// fix0p4Beta drops the "ifs/" model segment from the built URL for the
// experimental 0p4-beta resolution, which is published one directory
// level up from the rest of the IFS tree.
func fix0p4Beta(url, resol string) string {
	if resol != "0p4-beta" {
		return url
	}
	return strings.Replace(url, "/ifs/", "/", 1)
}
