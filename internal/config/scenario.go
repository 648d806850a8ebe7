// Package config loads audit scenarios from YAML files: a set of stated
// messages, the agreements in force, and the actions to audit against them.
// Scenario files are the offline counterpart of a simulation run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"justact/pkg/justact"
)

// Scenario is the on-disk description of one audit workload.
type Scenario struct {
	Name       string            `yaml:"name"`
	Messages   []MessageConfig   `yaml:"messages"`
	Agreements []AgreementConfig `yaml:"agreements"`
	Actions    []ActionConfig    `yaml:"actions"`
}

// MessageConfig describes a stated message. Policy is Datalog source.
type MessageConfig struct {
	ID     string `yaml:"id"`
	Author string `yaml:"author"`
	Policy string `yaml:"policy"`
}

// AgreementConfig promotes a stated message to an agreement.
type AgreementConfig struct {
	Message string `yaml:"message"`
	ValidAt uint64 `yaml:"valid_at"`
}

// ActionConfig describes an action to audit. All references are message ids.
type ActionConfig struct {
	Basis         string   `yaml:"basis"`
	Justification []string `yaml:"justification"`
	Enacts        string   `yaml:"enacts"`
	TakenAt       uint64   `yaml:"taken_at"`
}

// Load reads and decodes a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario from YAML bytes.
func Parse(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	return &scenario, nil
}

// Build resolves the scenario into concrete sets and actions. Every reference
// must name a declared message; agreements referenced as a basis must be
// declared as agreements.
func (s *Scenario) Build() (*justact.LocalSet[justact.Message], *justact.LocalSet[justact.Agreement], []justact.Action, error) {
	stmts := justact.NewLocalSet[justact.Message]()
	for _, mc := range s.Messages {
		if mc.ID == "" {
			return nil, nil, nil, fmt.Errorf("scenario '%s': message without id", s.Name)
		}
		stmts.Add(justact.Message{ID: mc.ID, Author: mc.Author, Payload: []byte(mc.Policy)})
	}

	agrs := justact.NewLocalSet[justact.Agreement]()
	for _, ac := range s.Agreements {
		msg, ok := stmts.Get(ac.Message)
		if !ok {
			return nil, nil, nil, fmt.Errorf("scenario '%s': agreement references unknown message '%s'", s.Name, ac.Message)
		}
		agrs.Add(justact.Agreement{Message: msg, ValidAt: justact.Time(ac.ValidAt)})
	}

	var actions []justact.Action
	for _, ac := range s.Actions {
		basis, ok := agrs.Get(ac.Basis)
		if !ok {
			return nil, nil, nil, fmt.Errorf("scenario '%s': action references unknown agreement '%s'", s.Name, ac.Basis)
		}
		enacts, ok := stmts.Get(ac.Enacts)
		if !ok {
			return nil, nil, nil, fmt.Errorf("scenario '%s': action enacts unknown message '%s'", s.Name, ac.Enacts)
		}
		just := justact.NewLocalSet[justact.Message]()
		for _, id := range ac.Justification {
			msg, ok := stmts.Get(id)
			if !ok {
				return nil, nil, nil, fmt.Errorf("scenario '%s': justification references unknown message '%s'", s.Name, id)
			}
			just.Add(msg)
		}
		actions = append(actions, justact.Action{
			Basis:         basis,
			Justification: just,
			Enacts:        enacts,
			TakenAt:       justact.Time(ac.TakenAt),
		})
	}
	return stmts, agrs, actions, nil
}
