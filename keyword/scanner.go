package keyword

import (
	"unicode/utf8"

	"github.com/flowfcs/fcs/tentative"
	"github.com/flowfcs/fcs/validated"
)

// Result is the Tentative payload produced by Scan: the keywords parsed
// so far, plus the delimiter byte so callers (e.g. a supplemental TEXT
// scan) can check it against the primary region's delimiter.
type Result struct {
	Keywords  *ParsedKeywords
	Delimiter byte
}

// Scan parses the primary TEXT region: reads the leading
// delimiter, tokenizes the remainder under the configured dialect, and
// classifies/ inserts every (key, value) pair. A fatal error is returned
// only for EmptyTEXT or a delimiter so invalid no anomaly policy can save
// it; everything else becomes a Warning or a recoverable ScanError
// depending on Config.
func Scan(data []byte, cfg Config) (tentative.Tentative[Result, Warning, ScanError], error) {
	if len(data) == 0 {
		return tentative.Tentative[Result, Warning, ScanError]{}, errEmptyText
	}
	delim := data[0]
	t := tentative.Of[Result, Warning, ScanError](Result{Keywords: New(), Delimiter: delim})

	if !validated.IsValidDelimiter(delim) {
		if !cfg.AllowNonASCIIDelim {
			return t, errBadDelimiter
		}
		t = t.WithWarning(Anomaly{Kind: AnomalyBadDelimiter})
	}

	rest := data[1:]
	var kvs []rawKV
	var anomalies []Anomaly
	if cfg.UseLiteralDelims {
		kvs, anomalies = splitLiteral(rest, delim)
	} else {
		kvs, anomalies = splitEscaped(rest, delim)
	}

	for _, a := range anomalies {
		t = classifyAnomaly(t, cfg, a)
	}

	for _, kv := range kvs {
		t = insertKV(t, cfg, kv)
	}

	for key, value := range cfg.Key.AppendStandardKeywords {
		if _, ok := t.Value.Keywords.GetStandard(key); ok {
			t = t.WithWarning(Anomaly{Kind: AnomalyStdPresent, Key: key})
		}
		t.Value.Keywords.SetStandard(key, value)
	}

	return t, nil
}

// ScanSupplemental parses a supplemental TEXT region and merges it into
// an already-scanned primary ParsedKeywords. Its first byte must match
// primaryDelim; a mismatch is the DelimMismatch anomaly.
func ScanSupplemental(data []byte, primaryDelim byte, cfg Config, into *ParsedKeywords) (tentative.Tentative[*ParsedKeywords, Warning, ScanError], error) {
	t := tentative.Of[*ParsedKeywords, Warning, ScanError](into)
	if len(data) == 0 {
		return t, nil
	}
	if data[0] != primaryDelim {
		t = classifyAnomaly2(t, cfg, Anomaly{Kind: AnomalyDelimMismatch})
	}

	rest := data[1:]
	var kvs []rawKV
	var anomalies []Anomaly
	if cfg.UseLiteralDelims {
		kvs, anomalies = splitLiteral(rest, data[0])
	} else {
		kvs, anomalies = splitEscaped(rest, data[0])
	}
	for _, a := range anomalies {
		t = classifyAnomaly2(t, cfg, a)
	}
	for _, kv := range kvs {
		t = insertKVInto(t, cfg, kv, into)
	}
	return t, nil
}

func classifyAnomaly(t tentative.Tentative[Result, Warning, ScanError], cfg Config, a Anomaly) tentative.Tentative[Result, Warning, ScanError] {
	if cfg.allowed(a.Kind) {
		return t.WithWarning(a)
	}
	return t.WithError(a)
}

func classifyAnomaly2(t tentative.Tentative[*ParsedKeywords, Warning, ScanError], cfg Config, a Anomaly) tentative.Tentative[*ParsedKeywords, Warning, ScanError] {
	if cfg.allowed(a.Kind) {
		return t.WithWarning(a)
	}
	return t.WithError(a)
}

func insertKV(t tentative.Tentative[Result, Warning, ScanError], cfg Config, kv rawKV) tentative.Tentative[Result, Warning, ScanError] {
	key, value, anomalies := prepareKV(cfg, kv)
	for _, a := range anomalies {
		t = classifyAnomaly(t, cfg, a)
	}
	if key == nil {
		return t
	}
	a, ok := classifyAndInsert(t.Value.Keywords, cfg, key, value)
	if !ok {
		return t
	}
	return classifyAnomaly(t, cfg, a)
}

func insertKVInto(t tentative.Tentative[*ParsedKeywords, Warning, ScanError], cfg Config, kv rawKV, store *ParsedKeywords) tentative.Tentative[*ParsedKeywords, Warning, ScanError] {
	key, value, anomalies := prepareKV(cfg, kv)
	for _, a := range anomalies {
		t = classifyAnomaly2(t, cfg, a)
	}
	if key == nil {
		return t
	}
	a, ok := classifyAndInsert(store, cfg, key, value)
	if !ok {
		return t
	}
	return classifyAnomaly2(t, cfg, a)
}

// prepareKV trims the value per TrimValueWhitespace and reports BlankValue
// if trimming emptied it, returning nil key to signal "drop this pair".
func prepareKV(cfg Config, kv rawKV) (key, value []byte, anomalies []Anomaly) {
	key, value = kv.Key, kv.Value
	if cfg.TrimValueWhitespace {
		value = trimASCIISpace(value)
		if len(value) == 0 {
			return nil, nil, []Anomaly{{Kind: AnomalyBlankValue, Key: string(key)}}
		}
	}
	return key, value, nil
}

func trimASCIISpace(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

// classifyAndInsert performs the key-classification decision tree and
// inserts into the appropriate bucket, returning an anomaly
// (NonUniqueKey, NonASCIIKey, NonUTF8Key) when applicable.
func classifyAndInsert(store *ParsedKeywords, cfg Config, key, value []byte) (Anomaly, bool) {
	ks := string(key)
	vs := string(value)

	if len(ks) > 1 && ks[0] == '$' && validated.IsPrintableASCII(ks[1:]) {
		cls := cfg.Key.classifyStandard(ks[1:], vs)
		if cls.dropped {
			return Anomaly{}, false
		}
		if cls.asStandard {
			if err := store.InsertStandard(cls.key, cls.value); err != nil {
				return Anomaly{Kind: AnomalyNonUniqueKey, Key: cls.key}, true
			}
			return Anomaly{}, false
		}
		if err := store.InsertNonStandard(cls.key, cls.value); err != nil {
			return Anomaly{Kind: AnomalyNonUniqueKey, Key: cls.key}, true
		}
		return Anomaly{}, false
	}

	if validated.IsPrintableASCII(ks) {
		cls := cfg.Key.classifyNonStandard(ks, vs)
		if cls.asStandard {
			if err := store.InsertStandard(cls.key, cls.value); err != nil {
				return Anomaly{Kind: AnomalyNonUniqueKey, Key: cls.key}, true
			}
			return Anomaly{}, false
		}
		if err := store.InsertNonStandard(cls.key, cls.value); err != nil {
			return Anomaly{Kind: AnomalyNonUniqueKey, Key: cls.key}, true
		}
		return Anomaly{}, false
	}

	if utf8.Valid(key) {
		store.InsertNonASCII(ks, vs)
		return Anomaly{Kind: AnomalyNonASCIIKey, Key: ks}, true
	}

	store.InsertBytePair(key, value)
	return Anomaly{Kind: AnomalyNonUTF8Key}, true
}
