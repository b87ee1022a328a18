package keyword

import "bytes"

// rawKV is one scanned (key, value) pair before UTF-8/ASCII classification.
type rawKV struct {
	Key   []byte
	Value []byte
}

// splitLiteral implements the literal delimiter dialect: split on every
// occurrence of delim and take the resulting segments pairwise.
func splitLiteral(data []byte, delim byte) ([]rawKV, []Anomaly) {
	var anomalies []Anomaly

	segments := bytes.Split(data, []byte{delim})
	// bytes.Split on "...<delim>" yields a trailing empty segment; its
	// absence means the region did not end with the delimiter.
	if len(segments) == 0 || len(segments[len(segments)-1]) != 0 {
		anomalies = append(anomalies, Anomaly{Kind: AnomalyFinalDelim})
	} else {
		segments = segments[:len(segments)-1]
	}

	if len(segments)%2 != 0 {
		anomalies = append(anomalies, Anomaly{Kind: AnomalyUnevenWords})
	}

	var kvs []rawKV
	for i := 0; i+1 < len(segments); i += 2 {
		key := segments[i]
		value := segments[i+1]
		if len(key) == 0 {
			anomalies = append(anomalies, Anomaly{Kind: AnomalyBlankKey})
			continue
		}
		if len(value) == 0 {
			anomalies = append(anomalies, Anomaly{Kind: AnomalyBlankValue, Key: string(key)})
			continue
		}
		kvs = append(kvs, rawKV{Key: key, Value: value})
	}
	return kvs, anomalies
}

// splitEscaped implements the doubled-delimiter escaping dialect. A run
// of k consecutive delimiters
// embeds floor(k/2) literal delimiter bytes in the current word; odd k
// additionally ends the word at a boundary.
func splitEscaped(data []byte, delim byte) ([]rawKV, []Anomaly) {
	var anomalies []Anomaly
	var words [][]byte
	var cur bytes.Buffer

	n := len(data)
	i := 0
	finalRunLen := -1 // -1: data did not end in a delimiter run at all
	sawGeneralAnomalyForFinalRun := false

	for i < n {
		if data[i] != delim {
			cur.WriteByte(data[i])
			i++
			continue
		}
		j := i
		for j < n && data[j] == delim {
			j++
		}
		k := j - i
		isFinalRun := j == n

		literal := k / 2
		for x := 0; x < literal; x++ {
			cur.WriteByte(delim)
		}

		if k%2 == 0 {
			// even run: ambiguous, reported regardless of position.
			anomalies = append(anomalies, Anomaly{Kind: AnomalyDelimBoundary})
			if isFinalRun {
				sawGeneralAnomalyForFinalRun = true
			}
		} else {
			// odd run: boundary — flush the word currently being built.
			words = append(words, append([]byte{}, cur.Bytes()...))
			cur.Reset()
		}

		if isFinalRun {
			finalRunLen = k
		}
		i = j
	}

	switch {
	case finalRunLen == -1:
		// Data did not end with the delimiter at all.
		anomalies = append(anomalies, Anomaly{Kind: AnomalyFinalDelim})
		if cur.Len() > 0 {
			words = append(words, append([]byte{}, cur.Bytes()...))
		}
	case finalRunLen == 1:
		// Exactly one trailing delimiter: the expected terminator.
	default:
		if !sawGeneralAnomalyForFinalRun {
			anomalies = append(anomalies, Anomaly{Kind: AnomalyDelimBoundary})
		}
		if finalRunLen%2 == 0 {
			// Even trailing run never produced a terminating boundary.
			anomalies = append(anomalies, Anomaly{Kind: AnomalyFinalDelim})
			if cur.Len() > 0 {
				words = append(words, append([]byte{}, cur.Bytes()...))
			}
		}
	}

	if len(words)%2 != 0 {
		anomalies = append(anomalies, Anomaly{Kind: AnomalyUnevenWords})
	}

	var kvs []rawKV
	for i := 0; i+1 < len(words); i += 2 {
		key := words[i]
		value := words[i+1]
		if len(key) == 0 {
			anomalies = append(anomalies, Anomaly{Kind: AnomalyBlankKey})
			continue
		}
		if len(value) == 0 {
			anomalies = append(anomalies, Anomaly{Kind: AnomalyBlankValue, Key: string(key)})
			continue
		}
		kvs = append(kvs, rawKV{Key: key, Value: value})
	}
	return kvs, anomalies
}
