package language

import "strings"

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english", "čeština")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english", "angličtina"}},
	{"cs", "ces", "cze", "Czech", []string{"czech", "čeština"}},
	{"sk", "slk", "slo", "Slovak", []string{"slovak", "slovenština"}},
	{"es", "spa", "", "Spanish", []string{"spanish", "španělština"}},
	{"fr", "fra", "fre", "French", []string{"french", "francouzština"}},
	{"de", "deu", "ger", "German", []string{"german", "němčina"}},
	{"it", "ita", "", "Italian", []string{"italian", "italština"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese", "japonština"}},
	{"ko", "kor", "", "Korean", []string{"korean", "korejština"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese", "mandarin"}},
	{"ru", "rus", "", "Russian", []string{"russian", "ruština"}},
	{"pl", "pol", "", "Polish", []string{"polish", "polština"}},
	{"hu", "hun", "", "Hungarian", []string{"hungarian", "maďarština"}},
	{"sv", "swe", "", "Swedish", []string{"swedish", "švédština"}},
	{"da", "dan", "", "Danish", []string{"danish", "dánština"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian", "norština"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
}

// countries maps ČSFD country labels to the language its titles are in.
var countries = map[string]string{
	"USA":            "en",
	"Velká Británie": "en",
	"UK":             "en",
	"Kanada":         "en",
	"Austrálie":      "en",
	"Nový Zéland":    "en",
	"Česko":          "cs",
	"Československo": "cs",
	"Slovensko":      "sk",
	"Francie":        "fr",
	"Německo":        "de",
	"Itálie":         "it",
	"Španělsko":      "es",
	"Japonsko":       "ja",
	"Jižní Korea":    "ko",
	"Polsko":         "pl",
	"Maďarsko":       "hu",
	"Dánsko":         "da",
	"Švédsko":        "sv",
	"Norsko":         "no",
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// ToISO2 converts a language code, BCP 47 tag ("en-US"), or word to ISO
// 639-1. Unknown 2-letter codes pass through; anything else unknown yields "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if base, _, ok := strings.Cut(code, "-"); ok {
		code = base
	} else if base, _, ok := strings.Cut(code, "_"); ok {
		code = base
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// FromCountry maps a ČSFD country label to an ISO 639-1 code, or "" when the
// country is not known.
func FromCountry(country string) string {
	return countries[strings.TrimSpace(country)]
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
