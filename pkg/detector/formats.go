package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ccollicutt/oceanpack/pkg/parser"
)

// Signature recognizes a source type from header content.
type Signature struct {
	Type   parser.SourceType
	Reason string // Evidence reported on a match
	Match  func(h *parser.LogHeader) bool
}

// DefaultSignatures returns the built-in header signatures.
// Signatures are ordered by specificity (more specific first).
func DefaultSignatures() []Signature {
	return []Signature{
		{
			Type:   parser.SourceStream,
			Reason: "header declares " + parser.MarkerStream,
			Match: func(h *parser.LogHeader) bool {
				return h.DataMarker != ""
			},
		},
		{
			Type:   parser.SourceNetDI,
			Reason: "NetDI sensor tag or AIN analog input columns",
			Match: func(h *parser.LogHeader) bool {
				return hasSensor(h, "NetDI") || hasPrefix(h.Names, "AIN")
			},
		},
		{
			Type:   parser.SourceInternal,
			Reason: "ANA_state column",
			Match: func(h *parser.LogHeader) bool {
				return h.Has("ANA_state")
			},
		},
		{
			Type:   parser.SourceAnalyzer,
			Reason: "Analyzer sensor tag or CO2 and STATUS columns",
			Match: func(h *parser.LogHeader) bool {
				return hasSensor(h, "Analyzer") || (h.Has("CO2") && h.Has("STATUS"))
			},
		},
	}
}

// DirectoryHint maps a directory name fragment to a source type.
type DirectoryHint struct {
	Fragment string // Lower case
	Type     parser.SourceType
}

// DefaultDirectoryHints returns the built-in directory hints.
func DefaultDirectoryHints() []DirectoryHint {
	return []DirectoryHint{
		{Fragment: "netdi", Type: parser.SourceNetDI},
		{Fragment: "stream", Type: parser.SourceStream},
		{Fragment: "internal", Type: parser.SourceInternal},
		{Fragment: "analyzer", Type: parser.SourceAnalyzer},
	}
}

// HeaderStrategy matches header signatures.
type HeaderStrategy struct {
	signatures []Signature
}

// NewHeaderStrategy creates a strategy that tries signatures in order.
func NewHeaderStrategy(signatures []Signature) *HeaderStrategy {
	return &HeaderStrategy{signatures: signatures}
}

func (s *HeaderStrategy) Name() string { return "header" }

func (s *HeaderStrategy) Detect(_ string, h *parser.LogHeader) (parser.SourceType, string, bool) {
	if h == nil {
		return parser.SourceUnknown, "", false
	}
	for _, sig := range s.signatures {
		if sig.Match(h) {
			return sig.Type, sig.Reason, true
		}
	}
	return parser.SourceUnknown, "", false
}

// DirectoryStrategy matches the names of the directories containing a file,
// nearest first.
type DirectoryStrategy struct {
	hints []DirectoryHint
}

// NewDirectoryStrategy creates a strategy for the given hints.
func NewDirectoryStrategy(hints []DirectoryHint) *DirectoryStrategy {
	return &DirectoryStrategy{hints: hints}
}

func (s *DirectoryStrategy) Name() string { return "directory" }

func (s *DirectoryStrategy) Detect(path string, _ *parser.LogHeader) (parser.SourceType, string, bool) {
	dir := filepath.Dir(filepath.Clean(path))
	for {
		base := strings.ToLower(filepath.Base(dir))
		for _, hint := range s.hints {
			if strings.Contains(base, hint.Fragment) {
				return hint.Type, fmt.Sprintf("directory %q contains %q", filepath.Base(dir), hint.Fragment), true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return parser.SourceUnknown, "", false
}

func hasSensor(h *parser.LogHeader, tag string) bool {
	for _, s := range h.Sensors {
		if strings.EqualFold(s, tag) {
			return true
		}
	}
	return false
}

func hasPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}
