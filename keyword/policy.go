package keyword

import "github.com/flowfcs/fcs/validated"

// KeyRule is one literal-or-pattern match used by the promote/demote/
// ignore key-policy filters.
type KeyRule struct {
	Literal string
	Pattern *validated.Pattern
}

// Matches reports whether key equals Literal (case-insensitively) or
// satisfies Pattern.
func (r KeyRule) Matches(key string) bool {
	if r.Pattern != nil {
		return r.Pattern.MatchString(key)
	}
	return equalFold(r.Literal, key)
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'a' <= ca && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if 'a' <= cb && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// KeyPolicy is the ordered chain of key-classification filters applied to
// every candidate standard/non-standard key.
type KeyPolicy struct {
	IgnoreStandardKeys      []KeyRule
	DemoteFromStandard      []KeyRule
	PromoteToStandard       []KeyRule
	RenameStandardKeys      map[string]string
	ReplaceStandardKeyValues map[string]string
	AppendStandardKeywords  map[string]string
}

func anyMatch(rules []KeyRule, key string) bool {
	for _, r := range rules {
		if r.Matches(key) {
			return true
		}
	}
	return false
}

// classification is the outcome of running KeyPolicy over one candidate
// standard key.
type classification struct {
	asStandard bool
	key        string
	value      string
	dropped    bool
}

// classifyStandard applies the key-policy chain to a candidate standard
// key (already stripped of its leading '$'), in the order
// lists: ignore, demote, promote, rename, replace.
func (kp KeyPolicy) classifyStandard(key, value string) classification {
	if anyMatch(kp.IgnoreStandardKeys, key) {
		return classification{dropped: true}
	}
	asStandard := true
	if anyMatch(kp.DemoteFromStandard, key) {
		asStandard = false
	}
	if anyMatch(kp.PromoteToStandard, key) {
		asStandard = true
	}
	if renamed, ok := kp.RenameStandardKeys[key]; ok {
		key = renamed
	}
	if replacement, ok := kp.ReplaceStandardKeyValues[key]; ok {
		value = replacement
	}
	return classification{asStandard: asStandard, key: key, value: value}
}

// classifyNonStandard applies the promote filter to a candidate
// non-standard key; demote/ignore/rename/replace are standard-key-only
// (they operate on keys "passed through" from the `$`
// branch), but promote_to_standard is checked against non-standard keys
// too so a non-'$' key can be promoted into the standard bucket.
func (kp KeyPolicy) classifyNonStandard(key, value string) classification {
	if anyMatch(kp.PromoteToStandard, key) {
		return classification{asStandard: true, key: key, value: value}
	}
	return classification{asStandard: false, key: key, value: value}
}

// Config bundles every TEXT-scan policy flag: delimiter dialect,
// whitespace trimming, and supplemental TEXT handling.
type Config struct {
	UseLiteralDelims      bool
	AllowNonASCIIDelim    bool
	AllowMissingFinalDelim bool
	AllowDelimAtBoundary  bool
	AllowOdd              bool
	AllowEmpty            bool
	AllowNonUnique        bool
	AllowNonASCIIKeywords bool
	AllowNonUTF8          bool
	TrimValueWhitespace   bool

	IgnoreSupplementalText bool
	AllowMissingSTEXT      bool
	AllowSTEXTOwnDelim     bool
	AllowDuplicatedSTEXT   bool

	Key KeyPolicy
}

// DefaultConfig returns the most permissive Config: escaped
// dialect, every anomaly downgraded to a warning.
func DefaultConfig() Config {
	return Config{
		AllowNonASCIIDelim:     true,
		AllowMissingFinalDelim: true,
		AllowDelimAtBoundary:   true,
		AllowOdd:               true,
		AllowEmpty:             true,
		AllowNonUnique:         true,
		AllowNonASCIIKeywords:  true,
		AllowNonUTF8:           true,
		TrimValueWhitespace:    true,
		AllowMissingSTEXT:      true,
		AllowSTEXTOwnDelim:     true,
		AllowDuplicatedSTEXT:   true,
	}
}

// allowed maps an AnomalyKind to the Config flag governing it.
func (c Config) allowed(kind AnomalyKind) bool {
	switch kind {
	case AnomalyFinalDelim:
		return c.AllowMissingFinalDelim
	case AnomalyDelimBoundary:
		return c.AllowDelimAtBoundary
	case AnomalyUnevenWords:
		return c.AllowOdd
	case AnomalyBlankKey, AnomalyBlankValue:
		return c.AllowEmpty
	case AnomalyNonUniqueKey:
		return c.AllowNonUnique
	case AnomalyNonASCIIKey:
		return c.AllowNonASCIIKeywords
	case AnomalyNonUTF8Key:
		return c.AllowNonUTF8
	case AnomalyDelimMismatch:
		return c.AllowSTEXTOwnDelim
	default:
		return true
	}
}
