package shopping

import (
	"regexp"
	"sort"
	"strings"
)

// Clothing, footwear and accessory nouns in English and Spanish. Plurals are
// listed explicitly.
var itemNouns = []string{
	// tops
	"shirt", "shirts", "t-shirt", "t-shirts", "tee", "tees", "top", "tops", "tank top", "crop top",
	"blouse", "blouses", "sweater", "sweaters", "cardigan", "cardigans", "hoodie", "hoodies",
	"turtleneck", "turtlenecks", "bodysuit", "camisole",
	// bottoms and one-pieces
	"pants", "trousers", "jeans", "shorts", "leggings", "skirt", "skirts", "dress", "dresses",
	"jumpsuit", "jumpsuits", "romper",
	// outerwear
	"jacket", "jackets", "blazer", "blazers", "coat", "coats", "trench coat", "vest", "vests",
	// footwear
	"shoe", "shoes", "sneakers", "trainers", "heels", "pumps", "boots", "booties", "loafers",
	"flats", "sandals", "mules", "stilettos", "wedges", "slingbacks",
	// accessories
	"belt", "belts", "bag", "bags", "handbag", "purse", "clutch", "tote", "crossbody",
	"scarf", "scarves", "hat", "hats", "beanie", "necklace", "necklaces", "earrings", "hoops",
	"studs", "bracelet", "bracelets", "bangles", "ring", "rings", "sunglasses", "tights",
	// spanish
	"camisa", "camisas", "camiseta", "camisetas", "blusa", "blusas", "suéter", "suéteres",
	"jersey", "chaqueta", "chaquetas", "abrigo", "abrigos", "americana", "pantalón", "pantalones",
	"vaqueros", "falda", "faldas", "vestido", "vestidos", "zapato", "zapatos", "zapatillas",
	"tenis", "tacones", "botas", "botines", "sandalias", "mocasines", "bolso", "bolsos", "cartera",
	"cinturón", "cinturones", "bufanda", "sombrero", "gorra", "collar", "collares", "aretes",
	"aros", "pendientes", "pulsera", "pulseras", "anillo", "anillos", "gafas",
}

// Descriptors that precede a noun ("nude heels", "gold necklace").
var descriptors = []string{
	"black", "white", "red", "blue", "navy", "nude", "beige", "camel", "tan", "brown", "cream",
	"ivory", "gold", "golden", "silver", "metallic", "pink", "green", "olive", "burgundy",
	"grey", "gray", "neutral", "denim", "leather", "suede", "silk", "satin", "linen", "wool",
	"knit", "structured", "fitted", "tailored", "wide-leg", "high-waisted", "cropped",
	"oversized", "slim", "midi", "maxi", "mini", "ankle", "pointed", "pointed-toe", "strappy",
	"block", "chunky", "statement", "delicate", "thin", "layered", "pearl", "minimalist",
}

// Spanish adjectives that follow a noun ("sandalias doradas").
var trailingDescriptors = []string{
	"dorado", "dorada", "dorados", "doradas", "plateado", "plateada", "plateados", "plateadas",
	"negro", "negra", "negros", "negras", "blanco", "blanca", "blancos", "blancas",
	"rojo", "roja", "rojos", "rojas", "azul", "azules", "nude", "beige", "camel",
	"altos", "bajos", "finos", "fina", "finas", "ajustado", "ajustada", "ajustados", "ajustadas",
	"largo", "larga", "largos", "largas", "corto", "corta", "cortos", "cortas",
	"estructurado", "estructurada", "minimalista", "minimalistas",
}

// Articles and determiners dropped from a query.
var fillerWords = toSet(
	"a", "an", "some", "the", "your", "those", "these", "that", "this",
	"un", "una", "unos", "unas", "el", "la", "los", "las", "tu", "tus",
	"ese", "esa", "esos", "esas", "este", "esta", "estos", "estas",
)

// Connectors that make no sense at either end of a query.
var edgeWords = toSet("with", "for", "and", "or", "to", "con", "por", "y", "o", "de")

// Connectors that end a verb's complement and introduce its object, as in
// "add some color with a scarf".
var connectors = toSet("with", "of", "for", "to", "con", "de", "por", "para")

// Words standing in for the noun they replace.
var pronouns = toSet("one", "ones", "uno", "una")

// alternation builds a regexp alternation, longest word first so that
// "t-shirts" wins over "shirt".
func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `[ \t]+`)
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
