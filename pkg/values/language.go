package values

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/doquedb-oss/doquedb-go/pkg/wire"
)

// LanguageUndefined is the sentinel language/country code carried by a
// LanguageTag field that was not set, mirroring the original's
// Language.UNDEFINED / Country.UNDEFINED.
const LanguageUndefined int16 = 0

// ErrInvalidLanguageSymbol is returned when LanguageSet parsing encounters a
// language or country symbol outside the known table.
var ErrInvalidLanguageSymbol = errors.New("invalid language or country symbol")

// LanguageTag pairs a language code with an optional country code, mirroring
// the original's LanguageTag.
type LanguageTag struct {
	LanguageCode int16
	CountryCode  int16
}

// NewLanguageTag validates both codes before constructing a tag. A country
// code may be LanguageUndefined; a language code may not.
func NewLanguageTag(language, country int16) (LanguageTag, error) {
	if language == LanguageUndefined {
		return LanguageTag{}, fmt.Errorf("%w: language code can not be undefined", ErrInvalidLanguageSymbol)
	}

	if _, ok := languageSymbols[language]; !ok {
		return LanguageTag{}, fmt.Errorf("%w: language code %d", ErrInvalidLanguageSymbol, language)
	}

	if country != LanguageUndefined {
		if _, ok := countrySymbols[country]; !ok {
			return LanguageTag{}, fmt.Errorf("%w: country code %d", ErrInvalidLanguageSymbol, country)
		}
	}

	return LanguageTag{LanguageCode: language, CountryCode: country}, nil
}

func (t LanguageTag) less(other LanguageTag) bool {
	if t.LanguageCode != other.LanguageCode {
		return t.LanguageCode < other.LanguageCode
	}

	return t.CountryCode < other.CountryCode
}

func (t LanguageTag) symbol() string {
	s := languageSymbols[t.LanguageCode]
	if t.CountryCode != LanguageUndefined {
		s += "-" + countrySymbols[t.CountryCode]
	}

	return s
}

// LanguageSet is a sorted, deduplicated set of LanguageTag values. It
// implements Value so it can serve as the payload of a Language column,
// mirroring the original's LanguageSet.
type LanguageSet struct {
	tags []LanguageTag
}

// ParseLanguageSet parses a `lang[-country](+lang[-country])*` symbol string,
// mirroring LanguageSet.set(str).
func ParseLanguageSet(symbol string) (*LanguageSet, error) {
	ls := &LanguageSet{}
	if symbol == "" {
		return ls, nil
	}

	for _, part := range strings.Split(symbol, "+") {
		halves := strings.SplitN(part, "-", 2)

		language, ok := languageCodes[strings.ToLower(halves[0])]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLanguageSymbol, halves[0])
		}

		country := LanguageUndefined
		if len(halves) == 2 {
			country, ok = countryCodes[strings.ToUpper(halves[1])]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLanguageSymbol, halves[1])
			}
		}

		tag, err := NewLanguageTag(language, country)
		if err != nil {
			return nil, err
		}

		ls.Add(tag)
	}

	return ls, nil
}

// Tags returns the set's tags in sorted order. Callers must not mutate the
// returned slice.
func (ls *LanguageSet) Tags() []LanguageTag { return ls.tags }

// Size returns the number of distinct tags in the set.
func (ls *LanguageSet) Size() int { return len(ls.tags) }

// Add inserts tag into the set, keeping it sorted by (language, country) and
// silently ignoring an exact duplicate, mirroring LanguageSet.add.
func (ls *LanguageSet) Add(tag LanguageTag) {
	i := sort.Search(len(ls.tags), func(i int) bool { return !ls.tags[i].less(tag) })
	if i < len(ls.tags) && ls.tags[i] == tag {
		return
	}

	ls.tags = append(ls.tags, LanguageTag{})
	copy(ls.tags[i+1:], ls.tags[i:])
	ls.tags[i] = tag
}

// Clear empties the set.
func (ls *LanguageSet) Clear() { ls.tags = nil }

// Contains reports whether language (ignoring country) appears in the set.
func (ls *LanguageSet) Contains(language int16) bool {
	for _, t := range ls.tags {
		if t.LanguageCode == language {
			return true
		}
	}

	return false
}

// Round returns a copy of the set with every country code stripped,
// mirroring LanguageSet.round.
func (ls *LanguageSet) Round() *LanguageSet {
	out := &LanguageSet{}
	for _, t := range ls.tags {
		out.Add(LanguageTag{LanguageCode: t.LanguageCode})
	}

	return out
}

// String renders the set back into `lang[-country](+lang[-country])*` form.
func (ls *LanguageSet) String() string {
	parts := make([]string, len(ls.tags))
	for i, t := range ls.tags {
		parts[i] = t.symbol()
	}

	return strings.Join(parts, "+")
}

// ClassID implements Value.
func (ls *LanguageSet) ClassID() ClassID { return ClassLanguage }

// ReadFrom implements Value.
func (ls *LanguageSet) ReadFrom(r *wire.Reader) error {
	ls.Clear()

	n, err := r.ReadInt32()
	if err != nil {
		return err
	}

	for i := int32(0); i < n; i++ {
		language, err := r.ReadInt16()
		if err != nil {
			return err
		}

		country, err := r.ReadInt16()
		if err != nil {
			return err
		}

		tag, err := NewLanguageTag(language, country)
		if err != nil {
			return err
		}

		ls.Add(tag)
	}

	return nil
}

// WriteTo implements Value.
func (ls *LanguageSet) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(len(ls.tags)))
	for _, t := range ls.tags {
		w.WriteInt16(t.LanguageCode)
		w.WriteInt16(t.CountryCode)
	}

	return w.Error()
}

// The tables below enumerate the full ISO 639-1 (language) and ISO 3166-1
// alpha-2 (country) code assignments used by the original's Language and
// Country classes, carried over in the same numeric order.

var languageSymbols = map[int16]string{
	1: "aa",
	2: "ab",
	3: "af",
	4: "am",
	5: "ar",
	6: "as",
	7: "ay",
	8: "az",
	9: "ba",
	10: "be",
	11: "bg",
	12: "bh",
	13: "bi",
	14: "bn",
	15: "bo",
	16: "br",
	17: "ca",
	18: "co",
	19: "cs",
	20: "cy",
	21: "da",
	22: "de",
	23: "dz",
	24: "el",
	25: "en",
	26: "eo",
	27: "es",
	28: "et",
	29: "eu",
	30: "fa",
	31: "fi",
	32: "fj",
	33: "fo",
	34: "fr",
	35: "fy",
	36: "ga",
	37: "gd",
	38: "gl",
	39: "gn",
	40: "gu",
	41: "ha",
	42: "he",
	43: "hi",
	44: "hr",
	45: "hu",
	46: "hy",
	47: "ia",
	48: "id",
	49: "ie",
	50: "ik",
	51: "is",
	52: "it",
	53: "iu",
	54: "ja",
	55: "jw",
	56: "ka",
	57: "kk",
	58: "kl",
	59: "km",
	60: "kn",
	61: "ko",
	62: "ks",
	63: "ku",
	64: "ky",
	65: "la",
	66: "ln",
	67: "lo",
	68: "lt",
	69: "lv",
	70: "mg",
	71: "mi",
	72: "mk",
	73: "ml",
	74: "mn",
	75: "mo",
	76: "mr",
	77: "ms",
	78: "mt",
	79: "my",
	80: "na",
	81: "ne",
	82: "nl",
	83: "no",
	84: "oc",
	85: "om",
	86: "or",
	87: "pa",
	88: "pl",
	89: "ps",
	90: "pt",
	91: "qu",
	92: "rm",
	93: "rn",
	94: "ro",
	95: "ru",
	96: "rw",
	97: "sa",
	98: "sd",
	99: "sg",
	100: "sh",
	101: "si",
	102: "sk",
	103: "sl",
	104: "sm",
	105: "sn",
	106: "so",
	107: "sq",
	108: "sr",
	109: "ss",
	110: "st",
	111: "su",
	112: "sv",
	113: "sw",
	114: "ta",
	115: "te",
	116: "tg",
	117: "th",
	118: "ti",
	119: "tk",
	120: "tl",
	121: "tn",
	122: "to",
	123: "tr",
	124: "ts",
	125: "tt",
	126: "tw",
	127: "ug",
	128: "uk",
	129: "ur",
	130: "uz",
	131: "vi",
	132: "vo",
	133: "wo",
	134: "xh",
	135: "yi",
	136: "yo",
	137: "za",
	138: "zh",
	139: "zu",
}

var languageCodes = map[string]int16{
	"aa": 1,
	"ab": 2,
	"af": 3,
	"am": 4,
	"ar": 5,
	"as": 6,
	"ay": 7,
	"az": 8,
	"ba": 9,
	"be": 10,
	"bg": 11,
	"bh": 12,
	"bi": 13,
	"bn": 14,
	"bo": 15,
	"br": 16,
	"ca": 17,
	"co": 18,
	"cs": 19,
	"cy": 20,
	"da": 21,
	"de": 22,
	"dz": 23,
	"el": 24,
	"en": 25,
	"eo": 26,
	"es": 27,
	"et": 28,
	"eu": 29,
	"fa": 30,
	"fi": 31,
	"fj": 32,
	"fo": 33,
	"fr": 34,
	"fy": 35,
	"ga": 36,
	"gd": 37,
	"gl": 38,
	"gn": 39,
	"gu": 40,
	"ha": 41,
	"he": 42,
	"hi": 43,
	"hr": 44,
	"hu": 45,
	"hy": 46,
	"ia": 47,
	"id": 48,
	"ie": 49,
	"ik": 50,
	"is": 51,
	"it": 52,
	"iu": 53,
	"ja": 54,
	"jw": 55,
	"ka": 56,
	"kk": 57,
	"kl": 58,
	"km": 59,
	"kn": 60,
	"ko": 61,
	"ks": 62,
	"ku": 63,
	"ky": 64,
	"la": 65,
	"ln": 66,
	"lo": 67,
	"lt": 68,
	"lv": 69,
	"mg": 70,
	"mi": 71,
	"mk": 72,
	"ml": 73,
	"mn": 74,
	"mo": 75,
	"mr": 76,
	"ms": 77,
	"mt": 78,
	"my": 79,
	"na": 80,
	"ne": 81,
	"nl": 82,
	"no": 83,
	"oc": 84,
	"om": 85,
	"or": 86,
	"pa": 87,
	"pl": 88,
	"ps": 89,
	"pt": 90,
	"qu": 91,
	"rm": 92,
	"rn": 93,
	"ro": 94,
	"ru": 95,
	"rw": 96,
	"sa": 97,
	"sd": 98,
	"sg": 99,
	"sh": 100,
	"si": 101,
	"sk": 102,
	"sl": 103,
	"sm": 104,
	"sn": 105,
	"so": 106,
	"sq": 107,
	"sr": 108,
	"ss": 109,
	"st": 110,
	"su": 111,
	"sv": 112,
	"sw": 113,
	"ta": 114,
	"te": 115,
	"tg": 116,
	"th": 117,
	"ti": 118,
	"tk": 119,
	"tl": 120,
	"tn": 121,
	"to": 122,
	"tr": 123,
	"ts": 124,
	"tt": 125,
	"tw": 126,
	"ug": 127,
	"uk": 128,
	"ur": 129,
	"uz": 130,
	"vi": 131,
	"vo": 132,
	"wo": 133,
	"xh": 134,
	"yi": 135,
	"yo": 136,
	"za": 137,
	"zh": 138,
	"zu": 139,
}
var countrySymbols = map[int16]string{
	1: "AF",
	2: "AL",
	3: "DZ",
	4: "AS",
	5: "AD",
	6: "AO",
	7: "AI",
	8: "AQ",
	9: "AG",
	10: "AR",
	11: "AM",
	12: "AW",
	13: "AU",
	14: "AT",
	15: "AZ",
	16: "BS",
	17: "BH",
	18: "BD",
	19: "BB",
	20: "BY",
	21: "BE",
	22: "BZ",
	23: "BJ",
	24: "BM",
	25: "BT",
	26: "BO",
	27: "BA",
	28: "BW",
	29: "BV",
	30: "BR",
	31: "IO",
	32: "BN",
	33: "BG",
	34: "BF",
	35: "BI",
	36: "KH",
	37: "CM",
	38: "CA",
	39: "CV",
	40: "KY",
	41: "CF",
	42: "TD",
	43: "CL",
	44: "CN",
	45: "CX",
	46: "CC",
	47: "CO",
	48: "KM",
	49: "CD",
	50: "CG",
	51: "CK",
	52: "CR",
	53: "CI",
	54: "HR",
	55: "CU",
	56: "CY",
	57: "CZ",
	58: "DK",
	59: "DJ",
	60: "DM",
	61: "DO",
	62: "TL",
	63: "EC",
	64: "EG",
	65: "SV",
	66: "GQ",
	67: "ER",
	68: "EE",
	69: "ET",
	70: "FK",
	71: "FO",
	72: "FJ",
	73: "FI",
	74: "FR",
	75: "FX",
	76: "GF",
	77: "PF",
	78: "TF",
	79: "GA",
	80: "GM",
	81: "GE",
	82: "DE",
	83: "GH",
	84: "GI",
	85: "GR",
	86: "GL",
	87: "GD",
	88: "GP",
	89: "GU",
	90: "GT",
	91: "GN",
	92: "GW",
	93: "GY",
	94: "HT",
	95: "HM",
	96: "HN",
	97: "HK",
	98: "HU",
	99: "IS",
	100: "IN",
	101: "ID",
	102: "IR",
	103: "IQ",
	104: "IE",
	105: "IL",
	106: "IT",
	107: "JM",
	108: "JP",
	109: "JO",
	110: "KZ",
	111: "KE",
	112: "KI",
	113: "KP",
	114: "KR",
	115: "KW",
	116: "KG",
	117: "LA",
	118: "LV",
	119: "LB",
	120: "LS",
	121: "LR",
	122: "LY",
	123: "LI",
	124: "LT",
	125: "LU",
	126: "MO",
	127: "MK",
	128: "MG",
	129: "MW",
	130: "MY",
	131: "MV",
	132: "ML",
	133: "MT",
	134: "MH",
	135: "MQ",
	136: "MR",
	137: "MU",
	138: "YT",
	139: "MX",
	140: "FM",
	141: "MD",
	142: "MC",
	143: "MN",
	144: "MS",
	145: "MA",
	146: "MZ",
	147: "MM",
	148: "NA",
	149: "NR",
	150: "NP",
	151: "NL",
	152: "AN",
	153: "NC",
	154: "NZ",
	155: "NI",
	156: "NE",
	157: "NG",
	158: "NU",
	159: "NF",
	160: "MP",
	161: "NO",
	162: "OM",
	163: "PK",
	164: "PW",
	165: "PS",
	166: "PA",
	167: "PG",
	168: "PY",
	169: "PE",
	170: "PH",
	171: "PN",
	172: "PL",
	173: "PT",
	174: "PR",
	175: "QA",
	176: "RE",
	177: "RO",
	178: "RU",
	179: "RW",
	180: "KN",
	181: "LC",
	182: "VC",
	183: "WS",
	184: "SM",
	185: "ST",
	186: "SA",
	187: "SN",
	188: "SC",
	189: "SL",
	190: "SG",
	191: "SK",
	192: "SI",
	193: "SB",
	194: "SO",
	195: "ZA",
	196: "GS",
	197: "ES",
	198: "LK",
	199: "SH",
	200: "PM",
	201: "SD",
	202: "SR",
	203: "SJ",
	204: "SZ",
	205: "SE",
	206: "CH",
	207: "SY",
	208: "TW",
	209: "TJ",
	210: "TZ",
	211: "TH",
	212: "TG",
	213: "TK",
	214: "TO",
	215: "TT",
	216: "TN",
	217: "TR",
	218: "TM",
	219: "TC",
	220: "TV",
	221: "UG",
	222: "UA",
	223: "AE",
	224: "GB",
	225: "US",
	226: "UM",
	227: "UY",
	228: "UZ",
	229: "VU",
	230: "VA",
	231: "VE",
	232: "VN",
	233: "VG",
	234: "VI",
	235: "WF",
	236: "EH",
	237: "YE",
	238: "YU",
	239: "ZM",
	240: "ZW",
}

var countryCodes = map[string]int16{
	"AF": 1,
	"AL": 2,
	"DZ": 3,
	"AS": 4,
	"AD": 5,
	"AO": 6,
	"AI": 7,
	"AQ": 8,
	"AG": 9,
	"AR": 10,
	"AM": 11,
	"AW": 12,
	"AU": 13,
	"AT": 14,
	"AZ": 15,
	"BS": 16,
	"BH": 17,
	"BD": 18,
	"BB": 19,
	"BY": 20,
	"BE": 21,
	"BZ": 22,
	"BJ": 23,
	"BM": 24,
	"BT": 25,
	"BO": 26,
	"BA": 27,
	"BW": 28,
	"BV": 29,
	"BR": 30,
	"IO": 31,
	"BN": 32,
	"BG": 33,
	"BF": 34,
	"BI": 35,
	"KH": 36,
	"CM": 37,
	"CA": 38,
	"CV": 39,
	"KY": 40,
	"CF": 41,
	"TD": 42,
	"CL": 43,
	"CN": 44,
	"CX": 45,
	"CC": 46,
	"CO": 47,
	"KM": 48,
	"CD": 49,
	"CG": 50,
	"CK": 51,
	"CR": 52,
	"CI": 53,
	"HR": 54,
	"CU": 55,
	"CY": 56,
	"CZ": 57,
	"DK": 58,
	"DJ": 59,
	"DM": 60,
	"DO": 61,
	"TL": 62,
	"EC": 63,
	"EG": 64,
	"SV": 65,
	"GQ": 66,
	"ER": 67,
	"EE": 68,
	"ET": 69,
	"FK": 70,
	"FO": 71,
	"FJ": 72,
	"FI": 73,
	"FR": 74,
	"FX": 75,
	"GF": 76,
	"PF": 77,
	"TF": 78,
	"GA": 79,
	"GM": 80,
	"GE": 81,
	"DE": 82,
	"GH": 83,
	"GI": 84,
	"GR": 85,
	"GL": 86,
	"GD": 87,
	"GP": 88,
	"GU": 89,
	"GT": 90,
	"GN": 91,
	"GW": 92,
	"GY": 93,
	"HT": 94,
	"HM": 95,
	"HN": 96,
	"HK": 97,
	"HU": 98,
	"IS": 99,
	"IN": 100,
	"ID": 101,
	"IR": 102,
	"IQ": 103,
	"IE": 104,
	"IL": 105,
	"IT": 106,
	"JM": 107,
	"JP": 108,
	"JO": 109,
	"KZ": 110,
	"KE": 111,
	"KI": 112,
	"KP": 113,
	"KR": 114,
	"KW": 115,
	"KG": 116,
	"LA": 117,
	"LV": 118,
	"LB": 119,
	"LS": 120,
	"LR": 121,
	"LY": 122,
	"LI": 123,
	"LT": 124,
	"LU": 125,
	"MO": 126,
	"MK": 127,
	"MG": 128,
	"MW": 129,
	"MY": 130,
	"MV": 131,
	"ML": 132,
	"MT": 133,
	"MH": 134,
	"MQ": 135,
	"MR": 136,
	"MU": 137,
	"YT": 138,
	"MX": 139,
	"FM": 140,
	"MD": 141,
	"MC": 142,
	"MN": 143,
	"MS": 144,
	"MA": 145,
	"MZ": 146,
	"MM": 147,
	"NA": 148,
	"NR": 149,
	"NP": 150,
	"NL": 151,
	"AN": 152,
	"NC": 153,
	"NZ": 154,
	"NI": 155,
	"NE": 156,
	"NG": 157,
	"NU": 158,
	"NF": 159,
	"MP": 160,
	"NO": 161,
	"OM": 162,
	"PK": 163,
	"PW": 164,
	"PS": 165,
	"PA": 166,
	"PG": 167,
	"PY": 168,
	"PE": 169,
	"PH": 170,
	"PN": 171,
	"PL": 172,
	"PT": 173,
	"PR": 174,
	"QA": 175,
	"RE": 176,
	"RO": 177,
	"RU": 178,
	"RW": 179,
	"KN": 180,
	"LC": 181,
	"VC": 182,
	"WS": 183,
	"SM": 184,
	"ST": 185,
	"SA": 186,
	"SN": 187,
	"SC": 188,
	"SL": 189,
	"SG": 190,
	"SK": 191,
	"SI": 192,
	"SB": 193,
	"SO": 194,
	"ZA": 195,
	"GS": 196,
	"ES": 197,
	"LK": 198,
	"SH": 199,
	"PM": 200,
	"SD": 201,
	"SR": 202,
	"SJ": 203,
	"SZ": 204,
	"SE": 205,
	"CH": 206,
	"SY": 207,
	"TW": 208,
	"TJ": 209,
	"TZ": 210,
	"TH": 211,
	"TG": 212,
	"TK": 213,
	"TO": 214,
	"TT": 215,
	"TN": 216,
	"TR": 217,
	"TM": 218,
	"TC": 219,
	"TV": 220,
	"UG": 221,
	"UA": 222,
	"AE": 223,
	"GB": 224,
	"US": 225,
	"UM": 226,
	"UY": 227,
	"UZ": 228,
	"VU": 229,
	"VA": 230,
	"VE": 231,
	"VN": 232,
	"VG": 233,
	"VI": 234,
	"WF": 235,
	"EH": 236,
	"YE": 237,
	"YU": 238,
	"ZM": 239,
	"ZW": 240,
}
