package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSourceType is returned for a source type label outside the known set.
var ErrUnknownSourceType = errors.New("unknown source type")

// SourceType selects the parsing variant for a batch of files.
type SourceType int

const (
	SourceUnknown SourceType = iota
	SourceAnalyzer
	SourceNetDI
	SourceStream
	SourceInternal
)

var sourceNames = map[SourceType]string{
	SourceAnalyzer: "Analyzer",
	SourceNetDI:    "NetDI",
	SourceStream:   "Stream",
	SourceInternal: "Internal",
}

func (s SourceType) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return "unknown"
}

// SourceTypes lists the known source types in declaration order.
func SourceTypes() []SourceType {
	return []SourceType{SourceAnalyzer, SourceNetDI, SourceStream, SourceInternal}
}

// ParseSourceType parses a source type label case-insensitively.
// "auto" and the empty string yield SourceUnknown, meaning detect.
func ParseSourceType(s string) (SourceType, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return SourceUnknown, nil
	}
	for _, st := range SourceTypes() {
		if strings.EqualFold(s, sourceNames[st]) {
			return st, nil
		}
	}
	return SourceUnknown, fmt.Errorf("%w %q (must be Analyzer, NetDI, Stream, Internal or auto)", ErrUnknownSourceType, s)
}

// Variant is the parsing strategy of one source type.
type Variant struct {
	Type SourceType
	// DataMarker is the row-type value that marks data lines.
	DataMarker string
	// StreamMarker enables the @STREAM header line to redefine DataMarker.
	StreamMarker bool
}

var variants = map[SourceType]Variant{
	SourceAnalyzer: {Type: SourceAnalyzer, DataMarker: DefaultDataMarker},
	SourceNetDI:    {Type: SourceNetDI, DataMarker: DefaultDataMarker},
	SourceStream:   {Type: SourceStream, DataMarker: DefaultDataMarker, StreamMarker: true},
	SourceInternal: {Type: SourceInternal, DataMarker: DefaultDataMarker},
}

// VariantFor returns the parsing variant of a source type.
func VariantFor(s SourceType) (Variant, error) {
	v, ok := variants[s]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s", ErrUnknownSourceType, s)
	}
	return v, nil
}

// marker returns the data marker in effect for a file with header h.
func (v Variant) marker(h *LogHeader) string {
	if v.StreamMarker && h.DataMarker != "" {
		return h.DataMarker
	}
	return v.DataMarker
}

// HandlerFor returns the file handler of a source type.
func HandlerFor(s SourceType) (FileHandler, error) {
	v, err := VariantFor(s)
	if err != nil {
		return nil, err
	}
	return NewReader(v), nil
}
