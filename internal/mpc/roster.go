package mpc

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed content/committee.yaml
var committeeYAML []byte

// CommitteeMember is a sitting member profile shown on the members page.
type CommitteeMember struct {
	Name       string     `yaml:"name"`
	Title      string     `yaml:"title"`
	Kind       MemberType `yaml:"kind"`
	Experience string     `yaml:"experience"`
	Tenure     string     `yaml:"tenure"`
	Expertise  []string   `yaml:"expertise"`
	Bio        string     `yaml:"bio"`
}

// Initials is the avatar text shown in place of a photo.
func (m CommitteeMember) Initials() string {
	return initials(m.Name)
}

// Milestone is one step of the committee's history.
type Milestone struct {
	Period string `yaml:"period"`
	Title  string `yaml:"title"`
	Body   string `yaml:"body"`
}

// Feature is a headline property of the framework.
type Feature struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Committee is the static content behind /member and /formation.
type Committee struct {
	Members     []CommitteeMember `yaml:"members"`
	Mandate     string            `yaml:"mandate"`
	Composition []string          `yaml:"composition"`
	Timeline    []Milestone       `yaml:"timeline"`
	Features    []Feature         `yaml:"features"`
}

// Internal returns the members nominated by the bank.
func (c Committee) Internal() []CommitteeMember {
	return c.byKind(Internal)
}

// External returns the government-appointed members.
func (c Committee) External() []CommitteeMember {
	return c.byKind(External)
}

func (c Committee) byKind(kind MemberType) []CommitteeMember {
	out := make([]CommitteeMember, 0, len(c.Members))
	for _, m := range c.Members {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

var (
	committeeOnce sync.Once
	committee     Committee
	committeeErr  error
)

// LoadCommittee decodes the embedded committee content once.
func LoadCommittee() (Committee, error) {
	committeeOnce.Do(func() {
		committee, committeeErr = parseCommittee(committeeYAML)
	})
	return committee, committeeErr
}

func parseCommittee(raw []byte) (Committee, error) {
	var c Committee
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Committee{}, fmt.Errorf("decode committee: %w", err)
	}
	for i, m := range c.Members {
		if m.Name == "" {
			return Committee{}, fmt.Errorf("committee member %d: name required", i)
		}
		if m.Kind != Internal && m.Kind != External {
			return Committee{}, fmt.Errorf("committee member %s: unknown kind %q", m.Name, m.Kind)
		}
	}
	return c, nil
}
