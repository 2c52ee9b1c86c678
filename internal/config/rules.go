package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/park285/cheese-checkers/internal/checkers"
	yaml "gopkg.in/yaml.v3"
)

// ruleFile is the YAML layout of RULES_FILE. Absent keys keep the base value.
//
//	size: 10
//	piece_rows: 4
//	regular_captures_backward: true
//	flying_queens: true
//	promotion_ends_chain: false
//	first_player: 2
type ruleFile struct {
	Size                    *int  `yaml:"size"`
	PieceRows               *int  `yaml:"piece_rows"`
	RegularCapturesBackward *bool `yaml:"regular_captures_backward"`
	FlyingQueens            *bool `yaml:"flying_queens"`
	PromotionEndsChain      *bool `yaml:"promotion_ends_chain"`
	FirstPlayer             *int  `yaml:"first_player"`
}

// LoadRules reads a YAML rule file and overlays it on base.
func LoadRules(path string, base checkers.Rules) (checkers.Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(raw, base)
}

func ParseRules(raw []byte, base checkers.Rules) (checkers.Rules, error) {
	var f ruleFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("parse rules file: %w", err)
	}
	r := base
	if f.Size != nil {
		r.Size = *f.Size
	}
	if f.PieceRows != nil {
		r.PieceRows = *f.PieceRows
	}
	if f.RegularCapturesBackward != nil {
		r.RegularCapturesBackward = *f.RegularCapturesBackward
	}
	if f.FlyingQueens != nil {
		r.FlyingQueens = *f.FlyingQueens
	}
	if f.PromotionEndsChain != nil {
		r.PromotionEndsChain = *f.PromotionEndsChain
	}
	if f.FirstPlayer != nil {
		if *f.FirstPlayer != 1 && *f.FirstPlayer != 2 {
			return base, fmt.Errorf("%w: first_player %d", checkers.ErrInvalidRules, *f.FirstPlayer)
		}
		r.FirstPlayer = checkers.PlayerID(*f.FirstPlayer)
	}
	if err := r.Validate(); err != nil {
		return base, err
	}
	return r, nil
}
