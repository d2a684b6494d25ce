package domain

// iconicTaxa maps iNaturalist iconic taxon ids to their scientific group names.
var iconicTaxa = map[int64]string{
	1:     "Animalia",
	3:     "Aves",
	20978: "Amphibia",
	26036: "Reptilia",
	40151: "Mammalia",
	47115: "Mollusca",
	47119: "Arachnida",
	47126: "Plantae",
	47158: "Insecta",
	47170: "Fungi",
	47178: "Actinopterygii",
	47686: "Protozoa",
	48222: "Chromista",
}

var iconicEmoji = map[string]string{
	"Animalia":       "🐾",
	"Aves":           "🐦",
	"Amphibia":       "🐸",
	"Reptilia":       "🦎",
	"Mammalia":       "🦊",
	"Mollusca":       "🐌",
	"Arachnida":      "🕷️",
	"Plantae":        "🌿",
	"Insecta":        "🐞",
	"Fungi":          "🍄",
	"Actinopterygii": "🐟",
	"Protozoa":       "🦠",
	"Chromista":      "🟤",
}

var iconicCommonName = map[string]string{
	"Animalia":       "animales",
	"Aves":           "aves",
	"Amphibia":       "anfibios",
	"Reptilia":       "reptiles",
	"Mammalia":       "mamíferos",
	"Mollusca":       "moluscos",
	"Arachnida":      "arácnidos",
	"Plantae":        "plantas",
	"Insecta":        "insectos",
	"Fungi":          "hongos",
	"Actinopterygii": "peces con aletas radiadas",
	"Protozoa":       "protozoos",
	"Chromista":      "cromistas",
}

// IconicTaxonName returns the group name for an iconic taxon id, or "" if unknown.
func IconicTaxonName(id int64) string {
	return iconicTaxa[id]
}

// IconicEmoji returns the emoji for an iconic taxon group, or "" if unknown.
func IconicEmoji(name string) string {
	return iconicEmoji[name]
}

// IconicCommonName returns the Spanish plural common name for an iconic taxon
// group, or "" if unknown.
func IconicCommonName(name string) string {
	return iconicCommonName[name]
}
