package asm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sarchlab/m68ksim/core"
)

// Line is one source statement, stripped of comments and label, with its
// mnemonic split into base name and size.
type Line struct {
	Blank    bool
	Label    string
	IsOrg    bool
	OrgValue uint32
	Mnemonic string // upper-cased base mnemonic, e.g. "MOVE", "SUBQ"
	Size     core.Size
	Operands []string // raw, trimmed operand text, 0-2 entries
	Text     string    // the comment-and-label-stripped instruction text, for the source map
}

var (
	reLabelLine = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):\s*(.*)$`)
	reOrg       = regexp.MustCompile(`^\$?([0-9A-Fa-f]+)$`)
)

// ParseLine strips comments and an optional label from raw, splits the
// remaining mnemonic and operand text, and classifies ORG directives.
func ParseLine(raw string) (Line, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "*") {
		return Line{Blank: true}, nil
	}

	if idx := strings.Index(trimmed, ";"); idx >= 0 {
		trimmed = strings.TrimSpace(trimmed[:idx])
	}
	if trimmed == "" {
		return Line{Blank: true}, nil
	}

	label := ""
	if m := reLabelLine.FindStringSubmatch(trimmed); m != nil {
		label = m[1]
		trimmed = strings.TrimSpace(m[2])
	}

	if trimmed == "" {
		return Line{Label: label}, nil
	}

	fields := strings.Fields(trimmed)
	mnemonicToken := fields[0]
	operandText := strings.TrimSpace(strings.TrimPrefix(trimmed, mnemonicToken))

	base, sizeSuffix := splitMnemonicSuffix(mnemonicToken)
	baseUpper := strings.ToUpper(base)

	if baseUpper == "ORG" {
		m := reOrg.FindStringSubmatch(strings.TrimSpace(operandText))
		if m == nil {
			return Line{}, fmt.Errorf("bad ORG address %q", operandText)
		}
		v, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			return Line{}, fmt.Errorf("bad ORG address %q: %w", operandText, err)
		}
		return Line{Label: label, IsOrg: true, OrgValue: uint32(v)}, nil
	}

	size, ok := core.ParseSizeSuffix(sizeSuffix)
	if !ok {
		return Line{}, fmt.Errorf("bad size suffix %q on %q", sizeSuffix, mnemonicToken)
	}

	var operands []string
	if operandText != "" {
		for _, o := range strings.Split(operandText, ",") {
			operands = append(operands, strings.TrimSpace(o))
		}
	}

	return Line{
		Label:    label,
		Mnemonic: baseUpper,
		Size:     size,
		Operands: operands,
		Text:     trimmed,
	}, nil
}

// splitMnemonicSuffix splits "MOVE.L" into ("MOVE", "L"); a mnemonic with no
// '.' returns an empty suffix.
func splitMnemonicSuffix(tok string) (base, suffix string) {
	idx := strings.LastIndex(tok, ".")
	if idx < 0 {
		return tok, ""
	}
	return tok[:idx], tok[idx+1:]
}
