package normalizer

// AreaCodes is a set of three-digit telephone area codes a phone match
// must start with to be accepted.
type AreaCodes map[string]struct{}

// NewAreaCodes builds a set from codes.
func NewAreaCodes(codes ...string) AreaCodes {
	set := make(AreaCodes, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}

	return set
}

// DefaultAreaCodes returns the assigned US area codes.
func DefaultAreaCodes() AreaCodes {
	return NewAreaCodes(usAreaCodes...)
}

// Contains reports whether code is in the set.
func (a AreaCodes) Contains(code string) bool {
	_, ok := a[code]
	return ok
}

// Len returns the number of codes.
func (a AreaCodes) Len() int {
	return len(a)
}

var usAreaCodes = []string{
	"201", "202", "203", "205", "206", "207", "208", "209", "210", "212", "213", "214",
	"215", "216", "217", "218", "219", "225", "228", "229", "231", "234", "239", "248",
	"251", "252", "253", "254", "256", "260", "262", "267", "269", "270", "272", "274",
	"276", "281", "301", "302", "303", "304", "305", "307", "308", "309", "310", "312",
	"313", "314", "315", "316", "317", "318", "319", "320", "321", "323", "325", "330",
	"334", "336", "337", "346", "347", "352", "360", "361", "386", "401", "402", "404",
	"405", "406", "407", "408", "409", "410", "412", "413", "414", "415", "417", "419",
	"423", "425", "430", "432", "434", "440", "445", "469", "478", "479", "480", "501",
	"502", "503", "504", "505", "507", "508", "509", "510", "512", "513", "515", "516",
	"517", "518", "520", "530", "534", "539", "540", "541", "551", "559", "561", "562",
	"563", "567", "570", "571", "573", "574", "575", "580", "582", "585", "586", "601",
	"602", "603", "605", "606", "607", "608", "609", "610", "612", "614", "615", "616",
	"617", "618", "619", "620", "623", "626", "629", "630", "631", "636", "641", "646",
	"650", "651", "660", "661", "662", "680", "681", "682", "701", "702", "703", "704",
	"706", "707", "708", "712", "713", "714", "715", "716", "717", "718", "719", "724",
	"725", "727", "731", "732", "734", "737", "740", "757", "760", "763", "765", "770",
	"772", "773", "775", "781", "785", "802", "803", "804", "805", "806", "808", "810",
	"812", "813", "814", "815", "816", "817", "818", "828", "830", "831", "832", "835",
	"839", "843", "845", "847", "848", "850", "854", "856", "858", "859", "860", "863",
	"864", "865", "870", "901", "903", "904", "906", "907", "908", "909", "910", "912",
	"913", "914", "915", "916", "917", "918", "919", "920", "925", "928", "929", "931",
	"934", "936", "937", "940", "941", "949", "951", "952", "954", "956", "970", "971",
	"972", "973", "978", "979", "985", "989",
}
