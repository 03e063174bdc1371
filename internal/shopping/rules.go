package shopping

import (
	"regexp"
	"strings"
)

// Rule is one extraction strategy. Slot is the capture group holding the item
// phrase. Window, when positive, widens the hit to that many words on each
// side. Carry, when positive, names the group whose noun stands in for a
// trailing "one" in the slot.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Slot    int
	Window  int
	Carry   int
	Clean   func(string) string
}

// Rule names, also used as metric labels.
const (
	RuleSwap       = "swap"
	RuleAction     = "action"
	RuleDescriptor = "descriptor"
	RuleTrailing   = "trailing_descriptor"
	RuleKeyword    = "keyword"
)

var (
	item     = alternation(itemNouns)
	desc     = alternation(descriptors)
	trailing = alternation(trailingDescriptors)

	// Up to n whole words, shortest first.
	words = func(n string) string { return `(?:[-\p{L}]+[ \t]+){0,` + n + `}?` }

	det = `(?:(?:a|an|some|the|your|those|these|un|una|unos|unas|el|la|los|las|tu|tus|esos|esas|estos|estas)[ \t]+)?`

	// Letters are not ASCII word characters, so \b is unusable after "ó".
	end = `(?:[^\p{L}]|$)`

	phrase = `(` + words("3") + item + `(?:[ \t]+` + trailing + `)?)` + end

	// "a shorter one" names a replacement by the noun it swaps out. A hyphen
	// does not end it, so "one-shoulder" stays a descriptor.
	pronoun     = `(?:ones|one|uno|una)`
	replacement = `(` + words("3") + `(?:` + item + `(?:[ \t]+` + trailing + `)?|` + pronoun + `))(?:[^-\p{L}]|$)`
)

// discard matches advice to take an item off. The item it names is never a
// shopping query, so Find blanks the clause out before any rule runs. Group 1
// keeps the terminator.
var discard = regexp.MustCompile(`(?i)\b(?:get[ \t]+rid[ \t]+of|ditch|remove|skip|take[ \t]+off|quita|quítate|quitar|elimina|eliminar)[ \t]+` +
	det + words("2") + item + `(?:[ \t]+` + trailing + `)?([^\p{L}]|$)`)

// Rules run in order; the first that yields a non-empty phrase wins.
var Rules = []Rule{
	{
		Name: RuleSwap,
		Pattern: regexp.MustCompile(`(?i)\b(?:swap|change|replace|switch|trade|cambia|cambiar|reemplaza|reemplazar|sustituye|sustituir)[ \t]+` +
			det + words("3") + `(` + item + `)[ \t]+(?:for|with|to|por|con)[ \t]+` + det + replacement),
		Slot:  2,
		Carry: 1,
		Clean: CleanPhrase,
	},
	{
		Name: RuleAction,
		Pattern: regexp.MustCompile(`(?i)\b(?:try|wear|add|get|use|pair[ \t]+(?:it[ \t]+)?with|go[ \t]+for|opt[ \t]+for|choose|intenta|prueba|usa|agrega|añade|ponte|elige)[ \t]+` +
			det + phrase),
		Slot:  1,
		Clean: cleanObject,
	},
	{
		Name:    RuleDescriptor,
		Pattern: regexp.MustCompile(`(?i)\b(` + desc + `[ \t]+` + words("2") + item + `)` + end),
		Slot:    1,
		Clean:   CleanPhrase,
	},
	{
		Name:    RuleTrailing,
		Pattern: regexp.MustCompile(`(?i)(?:^|[^\p{L}])(` + item + `[ \t]+` + trailing + `)` + end),
		Slot:    1,
		Clean:   CleanPhrase,
	},
	{
		Name:    RuleKeyword,
		Pattern: regexp.MustCompile(`(?i)(?:^|[^\p{L}])(` + item + `)` + end),
		Slot:    1,
		Window:  2,
		Clean:   CleanPhrase,
	},
}

// Apply runs the rule against text and returns the cleaned phrase.
func (r Rule) Apply(text string) (string, bool) {
	loc := r.Pattern.FindStringSubmatchIndex(text)
	if loc == nil || len(loc) <= 2*r.Slot+1 || loc[2*r.Slot] < 0 {
		return "", false
	}
	start, stop := loc[2*r.Slot], loc[2*r.Slot+1]

	raw := text[start:stop]
	if r.Window > 0 {
		raw = wordWindow(text, start, stop, r.Window)
	}
	if r.Carry > 0 && len(loc) > 2*r.Carry+1 && loc[2*r.Carry] >= 0 {
		raw = carryNoun(raw, text[loc[2*r.Carry]:loc[2*r.Carry+1]])
	}

	cleaned := r.Clean(raw)
	return cleaned, cleaned != ""
}

// wordWindow returns the hit plus up to n words on each side, without
// crossing a sentence boundary.
func wordWindow(text string, start, stop, n int) string {
	head, tail := text[:start], text[stop:]
	if i := strings.LastIndexAny(head, sentenceEnd); i >= 0 {
		head = head[i+1:]
	}
	if i := strings.IndexAny(tail, sentenceEnd); i >= 0 {
		tail = tail[:i]
	}

	before := strings.Fields(head)
	if len(before) > n {
		before = before[len(before)-n:]
	}
	after := strings.Fields(tail)
	if len(after) > n {
		after = after[:n]
	}

	out := make([]string, 0, len(before)+len(after)+1)
	out = append(out, before...)
	out = append(out, text[start:stop])
	out = append(out, after...)
	return strings.Join(out, " ")
}

// carryNoun replaces a trailing "one" in phrase with noun, so "a shorter one"
// becomes "a shorter shirt".
func carryNoun(phrase, noun string) string {
	fields := strings.Fields(phrase)
	if len(fields) == 0 {
		return phrase
	}
	if _, ok := pronouns[strings.ToLower(fields[len(fields)-1])]; !ok {
		return phrase
	}
	fields[len(fields)-1] = noun
	return strings.Join(fields, " ")
}

const sentenceEnd = ".!?\n"

var punctuation = strings.NewReplacer(
	".", " ", ",", " ", "!", " ", "?", " ", "¡", " ", "¿", " ",
	"(", " ", ")", " ", "*", " ", "_", " ", `"`, " ", ":", " ", ";", " ",
)

// CleanPhrase lowercases a phrase and strips punctuation, markdown emphasis,
// articles and dangling connectors.
func CleanPhrase(s string) string {
	fields := strings.Fields(strings.ToLower(punctuation.Replace(s)))

	kept := fields[:0]
	for _, f := range fields {
		if _, ok := fillerWords[f]; ok {
			continue
		}
		kept = append(kept, f)
	}

	for len(kept) > 0 {
		if _, ok := edgeWords[kept[0]]; !ok {
			break
		}
		kept = kept[1:]
	}
	for len(kept) > 0 {
		if _, ok := edgeWords[kept[len(kept)-1]]; !ok {
			break
		}
		kept = kept[:len(kept)-1]
	}

	return strings.Join(kept, " ")
}

// cleanObject is CleanPhrase keeping only what follows the last connector,
// so "color with a scarf" yields "scarf".
func cleanObject(s string) string {
	fields := strings.Fields(CleanPhrase(s))
	for i := len(fields) - 1; i >= 0; i-- {
		if _, ok := connectors[fields[i]]; ok {
			fields = fields[i+1:]
			break
		}
	}
	return strings.Join(fields, " ")
}
