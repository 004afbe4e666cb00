package gazetteer

import "sort"

var airlineVariants = map[string][]string{
	// Pakistani carriers
	"airblue":    {"airblue", "air blue", "air-blue", "airblue airlines"},
	"serene_air": {"serene air", "serene-air", "sereneair", "serene air lines", "serene airlines"},
	"pia": {
		"pia", "pakistan international airlines", "pakistan international",
		"pakistan airlines", "pakistan air", "pakistani airlines",
	},
	"shaheen_air": {"shaheen air", "shaheen-air", "shaheenair", "shaheen airlines"},

	// Middle East
	"emirates":             {"emirates", "emirates airlines", "emirates airways", "ek"},
	"qatar_airways":        {"qatar airways", "qatar", "qatar airlines", "qr"},
	"etihad":               {"etihad", "etihad airways", "etihad airlines", "ey"},
	"turkish_airlines":     {"turkish airlines", "turkish", "turkish airways", "tk"},
	"air_arabia":           {"air arabia", "air-arabia", "airarabia", "g9"},
	"flydubai":             {"flydubai", "fly dubai", "fly-dubai", "fz"},
	"saudia":               {"saudia", "saudi airlines", "saudi arabian airlines", "sv"},
	"gulf_air":             {"gulf air", "gulf-air", "gulfair", "gulf airlines", "gf"},
	"oman_air":             {"oman air", "oman-air", "omanair", "oman airlines", "wy"},
	"kuwait_airways":       {"kuwait airways", "kuwait", "kuwait airlines", "ku"},
	"middle_east_airlines": {"middle east airlines", "mea", "middle eastern airlines"},
	"royal_jordanian":      {"royal jordanian", "royal-jordanian", "rj", "jordanian airlines"},
	"egyptair":             {"egyptair", "egypt air", "egypt-air", "egyptian airlines", "ms"},

	// Asia
	"cathay_pacific":     {"cathay pacific", "cathay-pacific", "cathay", "cx"},
	"singapore_airlines": {"singapore airlines", "singapore", "sia", "sq"},
	"malaysia_airlines":  {"malaysia airlines", "malaysia", "malaysian airlines", "mh"},
	"thai_airways":       {"thai airways", "thai", "thai airlines", "tg"},
	"air_india":          {"air india", "air-india", "airindia", "indian airlines", "ai"},
	"indigo":             {"indigo", "indigo airlines", "6e"},
	"spicejet":           {"spicejet", "spice jet", "spice-jet", "sg"},
	"china_southern":     {"china southern", "china-southern", "cz"},
	"china_eastern":      {"china eastern", "china-eastern", "mu"},
	"korean_air":         {"korean air", "korean-air", "koreanair", "ke"},
	"asiana":             {"asiana", "asiana airlines", "oz"},
	"japan_airlines":     {"jal", "japan airlines", "japanese airlines", "jl"},
	"ana":                {"ana", "all nippon airways", "all nippon", "nh"},

	// Europe
	"lufthansa":             {"lufthansa", "lufthansa airlines", "lufthansa airways", "lh"},
	"british_airways":       {"british airways", "british", "ba", "british airlines"},
	"klm":                   {"klm", "klm airlines", "klm royal dutch airlines", "kl"},
	"air_france":            {"air france", "air-france", "airfrance", "af"},
	"alitalia":              {"alitalia", "alitalia airlines", "az"},
	"swiss":                 {"swiss", "swiss airlines", "swiss international", "lx"},
	"austrian_airlines":     {"austrian airlines", "austrian", "os"},
	"scandinavian_airlines": {"sas", "scandinavian airlines", "scandinavian", "sk"},
	"aeroflot":              {"aeroflot", "aeroflot airlines", "su"},
	"ryanair":               {"ryanair", "ryan air", "ryan-air", "fr"},
	"easyjet":               {"easyjet", "easy jet", "easy-jet", "u2"},
	"wizz_air":              {"wizz air", "wizz-air", "wizzair", "w6"},
	"norwegian":             {"norwegian", "norwegian airlines", "dy"},
	"vueling":               {"vueling", "vueling airlines", "vy"},

	// Americas
	"american_airlines": {"american airlines", "american", "aa"},
	"delta":             {"delta", "delta airlines", "delta airways", "dl"},
	"united":            {"united", "united airlines", "ua"},
	"southwest":         {"southwest", "southwest airlines", "wn"},
	"jetblue":           {"jetblue", "jet blue", "jet-blue", "b6"},
	"air_canada":        {"air canada", "air-canada", "aircanada", "ac"},
	"westjet":           {"westjet", "west jet", "west-jet", "ws"},

	"etihad_regional": {"etihad regional", "darwin airline"},
}

// AirlineVariant pairs one spelling with the canonical airline id it names.
type AirlineVariant struct {
	Text    string
	Airline string
}

var variantsByLength []AirlineVariant

func init() {
	for id, variants := range airlineVariants {
		for _, v := range variants {
			variantsByLength = append(variantsByLength, AirlineVariant{Text: v, Airline: id})
		}
	}
	sort.Slice(variantsByLength, func(i, j int) bool {
		a, b := variantsByLength[i], variantsByLength[j]
		if len(a.Text) != len(b.Text) {
			return len(a.Text) > len(b.Text)
		}
		if a.Text != b.Text {
			return a.Text < b.Text
		}
		return a.Airline < b.Airline
	})
}

// AirlineVariants returns every airline spelling, longest first.
func AirlineVariants() []AirlineVariant {
	out := make([]AirlineVariant, len(variantsByLength))
	copy(out, variantsByLength)
	return out
}

// IsAirline reports whether id is a canonical airline id.
func IsAirline(id string) bool {
	_, ok := airlineVariants[id]
	return ok
}

// AirlineDisplayName renders a canonical id for humans, e.g. "qatar_airways"
// becomes "Qatar Airways".
func AirlineDisplayName(id string) string {
	out := []byte(id)
	upper := true
	for i, c := range out {
		switch {
		case c == '_':
			out[i] = ' '
			upper = true
		case upper && c >= 'a' && c <= 'z':
			out[i] = c - 'a' + 'A'
			upper = false
		default:
			upper = false
		}
	}
	return string(out)
}
