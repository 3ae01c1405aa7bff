package country

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// canonicalAliases maps normalized free-text names to the normalized name the
// economic series uses. Only ambiguous or multi-form names belong here;
// unlisted names pass through unchanged. The ROK/DPRK forms are listed
// explicitly because substring matching cannot disambiguate them.
var canonicalAliases = map[string]string{
	"usa":                      "united states",
	"us":                       "united states",
	"united states of america": "united states",
	"uk":                       "united kingdom",
	"great britain":            "united kingdom",
	"russia":                   "russian federation",

	"south korea":       "korea, rep.",
	"republic of korea": "korea, rep.",
	"korea":             "korea, rep.",
	"north korea":       "korea, dem. people's rep.",
	"democratic people's republic of korea": "korea, dem. people's rep.",
	"dem. rep. korea":                       "korea, dem. people's rep.",

	"iran":      "iran, islamic rep.",
	"egypt":     "egypt, arab rep.",
	"venezuela": "venezuela, rb",
	"syria":     "syrian arab republic",
	"laos":      "lao pdr",
	"brunei":    "brunei darussalam",
	"yemen":     "yemen, rep.",

	"ivory coast":    "cote d'ivoire",
	"czech republic": "czechia",
	"turkey":         "turkiye",
	"slovakia":       "slovak republic",
	"kyrgyzstan":     "kyrgyz republic",
	"macedonia":      "north macedonia",
	"swaziland":      "eswatini",
	"cape verde":     "cabo verde",
	"burma":          "myanmar",
	"east timor":     "timor-leste",
	"the bahamas":    "bahamas, the",
	"the gambia":     "gambia, the",

	"democratic republic of the congo": "congo, dem. rep.",
	"dr congo":                         "congo, dem. rep.",
	"republic of the congo":            "congo, rep.",
	"republic of congo":                "congo, rep.",

	"saint lucia":                      "st. lucia",
	"saint kitts and nevis":            "st. kitts and nevis",
	"saint vincent and the grenadines": "st. vincent and the grenadines",
}

// LoadAliasOverrides reads extra alias mappings from a YAML file
// (free-text name -> canonical series name). Both sides are normalized.
func LoadAliasOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "country: read alias file %s", path)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "country: parse alias file %s", path)
	}

	overrides := make(map[string]string, len(raw))
	for k, v := range raw {
		overrides[Normalize(k)] = Normalize(v)
	}
	return overrides, nil
}
