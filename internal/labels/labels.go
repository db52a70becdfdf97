// Package labels derives the benchmark and config identity of a run from
// its log file name, using an ordered substring-match rule list.
package labels

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// UnknownLabel is assigned when no rule matches a file name.
const UnknownLabel = "unknown"

// DefaultBaseline is the config ratios are normalized against unless
// overridden on the command line or in a label config file.
const DefaultBaseline = "latest"

// DefaultRuleSpec is the built-in inline rule list. Scheduler-cost builds
// embed resche2/resche_ in their log names; stock builds embed ChampSim.
const DefaultRuleSpec = "resche2:schedcost_on,resche_:schedcost_off,ChampSim:latest"

// Rule maps file names containing Match to the config label Label.
type Rule struct {
	Match string `yaml:"match"`
	Label string `yaml:"label"`
}

// File is the YAML label config: an ordered rule list plus an optional
// baseline override.
type File struct {
	Baseline string `yaml:"baseline"`
	Rules    []Rule `yaml:"rules"`
}

// ParseRules parses an inline comma-separated rule list. Each element is
// either match:label or a bare token that labels itself. Empty elements are
// skipped. Order is preserved; Apply takes the first match.
func ParseRules(spec string) (rules []Rule) {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if match, label, found := strings.Cut(part, ":"); found {
			rules = append(rules, Rule{Match: strings.TrimSpace(match), Label: strings.TrimSpace(label)})
		} else {
			rules = append(rules, Rule{Match: part, Label: part})
		}
	}
	return
}

// LoadFile reads a YAML label config. Rules with an empty label use their
// match string as the label, mirroring the inline bare-token form.
func LoadFile(path string) (file File, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrap(err, "failed to read label config")
		return
	}
	if err = yaml.Unmarshal(content, &file); err != nil {
		err = errors.Wrap(err, "failed to parse label config")
		return
	}
	for i, rule := range file.Rules {
		if rule.Match == "" {
			err = errors.Errorf("label config rule %d has an empty match", i)
			return
		}
		if rule.Label == "" {
			file.Rules[i].Label = rule.Match
		}
	}
	return
}

// Apply returns the label of the first rule whose match string occurs in
// the file path, or UnknownLabel when none does.
func Apply(rules []Rule, path string) string {
	for _, rule := range rules {
		if rule.Match != "" && strings.Contains(path, rule.Match) {
			return rule.Label
		}
	}
	return UnknownLabel
}

var (
	simBuildRe = regexp.MustCompile(`_ChampSim.*$`)
	seqPrefRe  = regexp.MustCompile(`^\d+_`)
	gzTailRe   = regexp.MustCompile(`\.gz$`)
)

// BenchFromName extracts the benchmark name from a log path: the base name
// with its extension, any simulator-build tail, any numeric run prefix, and
// any leftover .gz tail stripped.
func BenchFromName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = simBuildRe.ReplaceAllString(base, "")
	base = seqPrefRe.ReplaceAllString(base, "")
	base = gzTailRe.ReplaceAllString(base, "")
	return base
}
